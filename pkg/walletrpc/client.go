package walletrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Wire result codes of the per-asset RPC services.
const (
	codeSuccess  = 0   // transfer done, data carries the on-chain txid
	codeAccepted = 200 // transfer queued, settles later via withdraw-notify
)

// MessageResult mirrors the JSON envelope returned by every RPC service.
type MessageResult struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// OutcomeKind is the three-way classification the dispatcher branches on.
type OutcomeKind int

const (
	// OutcomeSuccess: funds moved, TxID is set.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeAsync: the service accepted the transfer and will notify later.
	OutcomeAsync
	// OutcomeFailed: every other result. Transport errors, timeouts, bad
	// status codes, undecodable bodies and unknown result codes all land
	// here; the caller treats them uniformly as "route to manual review".
	OutcomeFailed
)

// Outcome is the normalized result of a transfer call.
type Outcome struct {
	Kind   OutcomeKind
	TxID   string
	Reason string // human-readable failure detail for the log
}

// TransferRequest carries everything the remote /rpc/withdraw call needs.
type TransferRequest struct {
	Unit       string
	Address    string
	Amount     decimal.Decimal
	Fee        decimal.Decimal
	Remark     string
	WithdrawID uint64
}

// Client performs wallet RPC transfer calls against per-asset services.
type Client struct {
	resolver   Resolver
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(resolver Resolver, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		resolver:   resolver,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
}

// Transfer invokes the per-asset transfer endpoint and normalizes the result.
// It never returns an error: anything that is not a definitive success or
// definitive accepted-async collapses into OutcomeFailed.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) Outcome {
	base, err := c.resolver.Resolve(req.Unit)
	if err != nil {
		return failed("resolve endpoint: %v", err)
	}

	q := url.Values{}
	q.Set("address", req.Address)
	q.Set("amount", req.Amount.String())
	q.Set("fee", req.Fee.String())
	q.Set("remark", req.Remark)
	q.Set("withdrawId", strconv.FormatUint(req.WithdrawID, 10))
	q.Set("sync", "false")
	endpoint := base + "/rpc/withdraw?" + q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failed("build request: %v", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return failed("rpc call: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failed("rpc http status %d", resp.StatusCode)
	}

	var result MessageResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return failed("decode response: %v", err)
	}

	switch result.Code {
	case codeSuccess:
		txid, ok := result.Data.(string)
		if !ok || txid == "" {
			// success without a txid is as ambiguous as a failure
			return failed("success code without txid data")
		}
		return Outcome{Kind: OutcomeSuccess, TxID: txid}
	case codeAccepted:
		return Outcome{Kind: OutcomeAsync}
	default:
		return failed("rpc result code %d: %s", result.Code, result.Message)
	}
}

func failed(format string, args ...interface{}) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: fmt.Sprintf(format, args...)}
}
