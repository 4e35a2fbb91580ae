package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func TestServer_Health(t *testing.T) {
	s := NewServer(0, "test", nil)
	s.RegisterCheck("simulation", func(context.Context) (string, error) { return "3/10 paths", nil })

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Equal(t, "ok", report.Status)
	require.Equal(t, "3/10 paths", report.Probes["simulation"].Detail)
}

func TestServer_Degraded(t *testing.T) {
	s := NewServer(0, "test", nil)
	s.RegisterCheck("market", func(context.Context) (string, error) { return "", errors.New("circuit open") })
	s.RegisterCheck("pool", func(context.Context) (string, error) { return "ready", nil })

	report := s.Evaluate(context.Background())
	require.False(t, report.Healthy())
	require.Equal(t, "circuit open", report.Probes["market"].Error)
	require.True(t, report.Probes["pool"].Healthy)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	for path, want := range map[string]int{
		"/health": http.StatusServiceUnavailable,
		"/ready":  http.StatusServiceUnavailable,
		"/live":   http.StatusOK,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, want, resp.StatusCode, path)
	}
}

func TestServer_NoProbesIsHealthy(t *testing.T) {
	require.True(t, NewServer(0, "", nil).Evaluate(context.Background()).Healthy())
}

func TestServer_RegisterRoutesOnSharedRouter(t *testing.T) {
	s := NewServer(0, "test", nil)
	router := mux.NewRouter()
	s.RegisterRoutes(router.PathPrefix("/probe").Subrouter())

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/probe/live")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/probe/ready", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
