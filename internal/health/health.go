// Package health exposes liveness and readiness probes for a running
// simulation.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/dynfee-amm/internal/logger"
)

const probeTimeout = 3 * time.Second

// Probe reports a component's state. A non-nil error marks it unhealthy;
// detail is shown either way.
type Probe func(ctx context.Context) (detail string, err error)

// Result is one probe outcome in a Report.
type Result struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the body served on /health.
type Report struct {
	Status  string            `json:"status"`
	Version string            `json:"version,omitempty"`
	Uptime  string            `json:"uptime"`
	Probes  map[string]Result `json:"probes"`
}

// Healthy reports whether every probe passed.
func (r Report) Healthy() bool {
	return r.Status == "ok"
}

// Server serves /health, /ready and /live.
type Server struct {
	addr    string
	version string
	started time.Time
	log     logger.LoggerInterface

	mu     sync.RWMutex
	probes map[string]Probe
	srv    *http.Server
}

// NewServer returns a server bound to port once Start is called.
func NewServer(port int, version string, log logger.LoggerInterface) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		addr:    net.JoinHostPort("", strconv.Itoa(port)),
		version: version,
		started: time.Now(),
		log:     log,
		probes:  make(map[string]Probe),
	}
}

// RegisterCheck adds or replaces the probe stored under name.
func (s *Server) RegisterCheck(name string, p Probe) {
	s.mu.Lock()
	s.probes[name] = p
	s.mu.Unlock()
}

// Evaluate runs every probe concurrently.
func (s *Server) Evaluate(ctx context.Context) Report {
	s.mu.RLock()
	names := make([]string, 0, len(s.probes))
	for name := range s.probes {
		names = append(names, name)
	}
	slices.Sort(names)
	probes := make([]Probe, len(names))
	for i, name := range names {
		probes[i] = s.probes[name]
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	results := make([]Result, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			detail, err := p(ctx)
			results[i] = Result{Healthy: err == nil, Detail: detail}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Status:  "ok",
		Version: s.version,
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
		Probes:  make(map[string]Result, len(names)),
	}
	for i, name := range names {
		report.Probes[name] = results[i]
		if !results[i].Healthy {
			report.Status = "degraded"
		}
	}
	return report
}

// RegisterRoutes mounts the probe endpoints on router.
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	router.HandleFunc("/live", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
}

// Handler returns a router serving only the probe endpoints.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	s.RegisterRoutes(router)
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.Evaluate(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(report.Healthy()))
	_ = json.NewEncoder(w).Encode(report)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(statusFor(s.Evaluate(r.Context()).Healthy()))
}

func statusFor(healthy bool) int {
	if healthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// Start begins serving in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: probeTimeout}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Warn(context.Background(), "health server stopped", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
