package walletrpc

import (
	"fmt"
	"strings"
)

// Resolver maps an asset ticker to the base URL of its signing/transfer
// service. One implementation per deployment topology.
type Resolver interface {
	Resolve(unit string) (string, error)
}

// NamingResolver derives the endpoint by naming convention, e.g. unit "btc"
// with prefix "SERVICE-RPC-" resolves to "http://SERVICE-RPC-BTC". This is
// the shape used behind a service-discovery-aware proxy or DNS.
type NamingResolver struct {
	Scheme string
	Prefix string
}

func (r NamingResolver) Resolve(unit string) (string, error) {
	unit = strings.ToUpper(strings.TrimSpace(unit))
	if unit == "" {
		return "", fmt.Errorf("empty coin unit")
	}
	scheme := r.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Prefix, unit), nil
}

// StaticResolver reads endpoints from configuration. Used in deployments
// without service discovery.
type StaticResolver struct {
	Endpoints map[string]string
}

func (r StaticResolver) Resolve(unit string) (string, error) {
	unit = strings.ToUpper(strings.TrimSpace(unit))
	if base, ok := r.Endpoints[unit]; ok && base != "" {
		return base, nil
	}
	return "", fmt.Errorf("no rpc endpoint configured for %q", unit)
}
