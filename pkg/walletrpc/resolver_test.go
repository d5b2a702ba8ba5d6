package walletrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamingResolver(t *testing.T) {
	tests := []struct {
		name     string
		resolver NamingResolver
		unit     string
		want     string
		wantErr  bool
	}{
		{"upper-cases the unit", NamingResolver{Scheme: "http", Prefix: "SERVICE-RPC-"}, "btc", "http://SERVICE-RPC-BTC", false},
		{"already upper", NamingResolver{Scheme: "http", Prefix: "SERVICE-RPC-"}, "ETH", "http://SERVICE-RPC-ETH", false},
		{"defaults scheme to http", NamingResolver{Prefix: "SERVICE-RPC-"}, "BTC", "http://SERVICE-RPC-BTC", false},
		{"trims whitespace", NamingResolver{Scheme: "http", Prefix: "SERVICE-RPC-"}, " btc ", "http://SERVICE-RPC-BTC", false},
		{"empty unit", NamingResolver{Scheme: "http", Prefix: "SERVICE-RPC-"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.resolver.Resolve(tt.unit)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{Endpoints: map[string]string{
		"BTC": "http://btc-rpc:8801",
	}}

	got, err := r.Resolve("btc")
	require.NoError(t, err)
	assert.Equal(t, "http://btc-rpc:8801", got)

	_, err = r.Resolve("ETH")
	assert.Error(t, err)
}
