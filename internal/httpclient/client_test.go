package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetJSON_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/api/v3/depth", r.URL.Path)
		require.Equal(t, "ETH/USDC", r.URL.Query().Get("symbol"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	c, err := New(Config{
		Name:    "test",
		BaseURL: srv.URL + "/v1/",
		Headers: map[string]string{"Accept": "application/json"},
	})
	require.NoError(t, err)

	var out struct {
		Value int `json:"value"`
	}
	err = c.GetJSON(context.Background(), "/api/v3/depth", url.Values{"symbol": {"ETH/USDC"}}, &out)
	require.NoError(t, err)
	require.Equal(t, 42, out.Value)
}

func TestGetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"code":-1003,"msg":"too many requests"}`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.GetJSON(context.Background(), "depth", nil, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	require.Contains(t, err.Error(), "too many requests")
}

func TestGetJSON_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var out map[string]any
	err = c.GetJSON(context.Background(), "/", nil, &out)
	require.Error(t, err)
	require.Zero(t, StatusCode(err))
}

func TestGetJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	require.Error(t, c.GetJSON(context.Background(), "/", nil, nil))
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/depth"})
	require.Error(t, err)
}
