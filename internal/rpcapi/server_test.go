package rpcapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/s4nju/eden/internal/config"
	"github.com/s4nju/eden/internal/journal"
	"github.com/s4nju/eden/internal/runtime"
)

func newTestServer(t *testing.T) (*Server, *runtime.Runtime) {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = config.FsyncNever
	rt, err := runtime.Open(runtime.Options{Config: cfg})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return New(rt, nil), rt
}

func TestHealthzReportsOK(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %+v", body)
	}
}

func TestMountCreateThenLatestRoundtrip(t *testing.T) {
	s, rt := newTestServer(t)

	createBody := strings.NewReader(`{"name":"work","root":"/checkouts/work"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/mounts/create", createBody)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	m, ok := rt.Mount("work")
	if !ok {
		t.Fatalf("expected mount to exist after create")
	}
	m.Journal.RecordCreated("a.txt")

	req = httptest.NewRequest(http.MethodGet, "/v1/mounts/work/journal/latest", nil)
	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var info journal.DeltaInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode latest: %v", err)
	}
	if info.SequenceID != 1 {
		t.Fatalf("expected sequence 1, got %d", info.SequenceID)
	}
}

func TestUnknownMountReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/mounts/ghost/journal/latest", nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMetricsEndpointReportsAppendCount(t *testing.T) {
	s, rt := newTestServer(t)
	m, err := rt.EnsureMount("work", "/checkouts/work")
	if err != nil {
		t.Fatalf("ensure mount: %v", err)
	}
	m.Create("a.txt")
	m.Create("b.txt")

	req := httptest.NewRequest(http.MethodGet, "/v1/mounts/work/metrics", nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body metricsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if body.Appends != 2 {
		t.Fatalf("expected 2 recorded appends, got %d", body.Appends)
	}
}

func TestDebugEndpointRespectsLimit(t *testing.T) {
	s, rt := newTestServer(t)
	m, err := rt.EnsureMount("work", "/checkouts/work")
	if err != nil {
		t.Fatalf("ensure mount: %v", err)
	}
	m.Create("a.txt")
	var toHash journal.Hash
	toHash[0] = 1
	m.CheckoutTo(toHash)
	m.Create("b.txt")

	req := httptest.NewRequest(http.MethodGet, "/v1/mounts/work/journal/debug?limit=1", nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var entries []journal.DebugJournalDelta
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode debug entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry due to limit, got %d", len(entries))
	}
}
