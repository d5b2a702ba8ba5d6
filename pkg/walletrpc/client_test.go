package walletrpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTestResolver pins every unit to one httptest server.
type staticTestResolver struct{ base string }

func (r staticTestResolver) Resolve(string) (string, error) { return r.base, nil }

func transferReq() TransferRequest {
	return TransferRequest{
		Unit:       "BTC",
		Address:    "bc1qdest",
		Amount:     decimal.NewFromFloat(0.7),
		Fee:        decimal.NewFromFloat(0.0005),
		Remark:     "payout",
		WithdrawID: 42,
	}
}

func TestTransfer_SuccessImmediate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the dispatcher always asks for async mode
		assert.Equal(t, "/rpc/withdraw", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("sync"))
		assert.Equal(t, "42", r.URL.Query().Get("withdrawId"))
		assert.Equal(t, "bc1qdest", r.URL.Query().Get("address"))
		assert.Equal(t, "0.7", r.URL.Query().Get("amount"))
		assert.Equal(t, "0.0005", r.URL.Query().Get("fee"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"message":"ok","data":"0xtxid"}`))
	}))
	defer srv.Close()

	client := NewClient(staticTestResolver{srv.URL}, time.Second)
	outcome := client.Transfer(context.Background(), transferReq())

	require.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "0xtxid", outcome.TxID)
}

func TestTransfer_AcceptedAsync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"transferring"}`))
	}))
	defer srv.Close()

	client := NewClient(staticTestResolver{srv.URL}, time.Second)
	outcome := client.Transfer(context.Background(), transferReq())

	assert.Equal(t, OutcomeAsync, outcome.Kind)
}

func TestTransfer_FailureShapes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unknown result code", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":500,"message":"insufficient hot wallet balance"}`))
		}},
		{"success code without txid", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":0,"message":"ok"}`))
		}},
		{"success code with non-string data", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":0,"data":12345}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":`))
		}},
		{"http 500", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(staticTestResolver{srv.URL}, time.Second)
			outcome := client.Transfer(context.Background(), transferReq())

			assert.Equal(t, OutcomeFailed, outcome.Kind)
			assert.NotEmpty(t, outcome.Reason)
		})
	}
}

func TestTransfer_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"code":0,"data":"0xtxid"}`))
	}))
	defer srv.Close()

	client := NewClient(staticTestResolver{srv.URL}, 50*time.Millisecond)
	outcome := client.Transfer(context.Background(), transferReq())

	assert.Equal(t, OutcomeFailed, outcome.Kind)
}

func TestTransfer_ConnectionRefused(t *testing.T) {
	// grab a port nobody listens on
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(staticTestResolver{base}, time.Second)
	outcome := client.Transfer(context.Background(), transferReq())

	assert.Equal(t, OutcomeFailed, outcome.Kind)
}

func TestTransfer_ResolverError(t *testing.T) {
	client := NewClient(StaticResolver{Endpoints: map[string]string{}}, time.Second)
	outcome := client.Transfer(context.Background(), transferReq())

	assert.Equal(t, OutcomeFailed, outcome.Kind)
}
