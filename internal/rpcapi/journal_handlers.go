package rpcapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/s4nju/eden/internal/journal"
	"github.com/s4nju/eden/internal/mount"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request, m *mount.Mount) {
	latest, ok := m.Journal.GetLatest()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "journal is empty"})
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, m *mount.Mount) {
	stats, ok := m.Journal.GetStats()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "journal is empty"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request, m *mount.Mount) {
	since, err := parseSequenceParam(r, "since")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rng, ok := m.Journal.AccumulateRange(since)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no entries at or after the requested sequence"})
		return
	}
	writeJSON(w, http.StatusOK, rng)
}

type metricsResponse struct {
	Appends        int64 `json:"appends"`
	TruncatedReads int64 `json:"truncated_reads"`
	HashMismatches int64 `json:"hash_mismatches"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request, m *mount.Mount) {
	if m.Stats == nil {
		writeJSON(w, http.StatusOK, metricsResponse{})
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{
		Appends:        m.Stats.Appends(),
		TruncatedReads: m.Stats.TruncatedReads(),
		HashMismatches: m.Stats.HashMismatches(),
	})
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request, m *mount.Mount) {
	from, err := parseSequenceParam(r, "from")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}
	entries := m.Journal.GetDebugRawJournalInfo(from, limit, m.Generation)
	writeJSON(w, http.StatusOK, entries)
}

func parseSequenceParam(r *http.Request, name string) (journal.SequenceNumber, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, err
	}
	return journal.SequenceNumber(n), nil
}
