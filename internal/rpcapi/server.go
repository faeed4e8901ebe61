package rpcapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/s4nju/eden/internal/runtime"
	"github.com/s4nju/eden/pkg/log"
)

// Server exposes a Runtime's mounts and their Journals over net/http.
type Server struct {
	rt     *runtime.Runtime
	logger log.Logger
	srv    *http.Server
	lis    net.Listener
}

// New builds a Server routing the mount-scoped journal endpoints against rt.
func New(rt *runtime.Runtime, logger log.Logger) *Server {
	mux := http.NewServeMux()
	s := &Server{rt: rt, logger: logger, srv: &http.Server{Handler: cors(mux)}}

	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/mounts/create", s.handleMountCreate)
	mux.HandleFunc("/v1/mounts/", s.handleMountScoped)
	return s
}

// ListenAndServe blocks serving addr until ctx is cancelled or the listener
// fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(cctx)
	case err := <-errCh:
		return err
	}
}

// Close closes the listener without waiting for in-flight requests.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		s.logError("health check failed", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// logError reports err through the configured logger, if any. It adds no
// component tag of its own; the daemon passes a logger already tagged
// "rpcapi".
func (s *Server) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, log.Err(err))
	}
}

type mountCreateReq struct {
	Name string `json:"name"`
	Root string `json:"root"`
}

func (s *Server) handleMountCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req mountCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	m, err := s.rt.EnsureMount(req.Name, req.Root)
	if err != nil {
		s.logError("ensure mount failed", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"name": m.Name, "root": m.Root, "generation": m.Generation})
}

// handleMountScoped dispatches /v1/mounts/{mount}/journal/{op} routes plus
// the sibling /v1/mounts/{mount}/metrics route, resolving the mount from
// the registry the way the teacher's controllers resolve a
// namespace/channel pair before calling exactly one service method.
func (s *Server) handleMountScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/mounts/")
	parts := strings.SplitN(rest, "/", 3)

	if len(parts) == 2 && parts[1] == "metrics" {
		m, ok := s.rt.Mount(parts[0])
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.handleMetrics(w, r, m)
		return
	}

	if len(parts) < 3 || parts[1] != "journal" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	mountName, op := parts[0], parts[2]

	m, ok := s.rt.Mount(mountName)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch op {
	case "latest":
		s.handleLatest(w, r, m)
	case "stats":
		s.handleStats(w, r, m)
	case "range":
		s.handleRange(w, r, m)
	case "debug":
		s.handleDebug(w, r, m)
	case "watch":
		s.handleWatch(w, r, m)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
