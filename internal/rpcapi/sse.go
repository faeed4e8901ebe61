package rpcapi

import (
	"encoding/json"
	"net/http"

	"github.com/s4nju/eden/internal/mount"
	"github.com/s4nju/eden/internal/watch"
)

// handleWatch drives internal/watch.Session over Server-Sent Events: each
// matching batch is JSON-encoded and written as an SSE "data:" frame,
// mirroring the teacher's controllers/sse.go framing.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request, m *mount.Mount) {
	filter, err := watch.NewFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	sess := watch.NewSession(m.Journal, filter, 64)
	defer sess.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-sess.Events():
			if !ok {
				return
			}
			if err := writeSSEBatch(w, batch); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSEBatch(w http.ResponseWriter, batch watch.Batch) error {
	b, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n\n"))
	return err
}
