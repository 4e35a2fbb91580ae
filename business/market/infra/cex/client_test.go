package cex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/dynfee-amm/internal/apperror"
	"github.com/fd1az/dynfee-amm/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Symbol: "ETHUSDC", Depth: 5}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestClient_Orderbook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != depthEndpoint {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "ETHUSDC" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		// string and numeric levels both appear in the wild
		w.Write([]byte(`{"lastUpdateId":1,"bids":[["1199.50","2.0"],[1199,1]],"asks":[["1200.50","1.5"]]}`))
	})

	ob, err := c.Orderbook(context.Background())
	if err != nil {
		t.Fatalf("Orderbook() error = %v", err)
	}

	if len(ob.Bids) != 2 || len(ob.Asks) != 1 {
		t.Fatalf("levels = %d bids, %d asks", len(ob.Bids), len(ob.Asks))
	}
	if !ob.BestBid().Price.Equal(decimal.RequireFromString("1199.5")) {
		t.Errorf("best bid = %s", ob.BestBid().Price)
	}
	if !ob.Bids[1].Size.Equal(decimal.NewFromInt(1)) {
		t.Errorf("numeric level size = %s", ob.Bids[1].Size)
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want apperror.Code
	}{
		{name: "http_error", body: `{"msg":"bad symbol"}`, code: http.StatusBadRequest, want: apperror.CodeOrderbookFetchFailed},
		{name: "empty_book", body: `{"bids":[],"asks":[]}`, code: http.StatusOK, want: apperror.CodeInvalidOrderbook},
		{name: "short_level", body: `{"bids":[["1"]],"asks":[["2","1"]]}`, code: http.StatusOK, want: apperror.CodeInvalidOrderbook},
		{name: "bad_json", body: `{"bids":`, code: http.StatusOK, want: apperror.CodeOrderbookFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				w.Write([]byte(tt.body))
			})

			_, err := c.Orderbook(context.Background())
			if got := apperror.GetCode(err); got != tt.want {
				t.Errorf("code = %s, want %s (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestClient_CircuitOpens(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	for range 5 {
		if _, err := c.Orderbook(ctx); err == nil {
			t.Fatal("expected error")
		}
	}

	_, err := c.Orderbook(ctx)
	if got := apperror.GetCode(err); got != apperror.CodeCircuitOpen {
		t.Errorf("code = %s, want CIRCUIT_OPEN", got)
	}
	if calls.Load() != 5 {
		t.Errorf("server calls = %d, want 5", calls.Load())
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	if _, err := NewClient(ClientConfig{}, logger.NewNop()); err == nil {
		t.Error("NewClient() expected error without base url")
	}
}
