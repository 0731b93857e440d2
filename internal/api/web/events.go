package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/johan198205/lekia-translations-sub000/internal/domain"
)

// event is one SSE frame payload. The frame on the wire is
// "event: <json>\n\n".
type event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// handleBatchEvents streams progress for one (batch, selection) pair. The
// stream polls persisted state; it never talks to the orchestrator directly,
// so any number of streams can watch the same run. The request context ends
// when the client goes away, which stops both tickers and releases the
// handler.
func (s *Server) handleBatchEvents(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r)
	if err != nil {
		writeError(w, domain.ErrNotValid)
		return
	}
	b, err := s.d.Batches.Get(r.Context(), batchID)
	if err != nil {
		writeError(w, err)
		return
	}
	if b == nil {
		writeError(w, fmt.Errorf("batch %d: %w", batchID, domain.ErrNotFound))
		return
	}
	itemIDs, err := s.resolveSelection(r.Context(), batchID, nil, parseIndices(r.URL.Query().Get("selectedIndices")))
	if err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(e event) {
		payload, err := json.Marshal(e)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\n\n", payload)
		flusher.Flush()
	}

	send(event{Type: "connected"})

	snap, err := s.d.Progress.Summarize(r.Context(), batchID, itemIDs)
	if err != nil {
		send(event{Type: "error", Data: map[string]string{"error": "progress read failed"}})
		return
	}
	send(event{Type: "progress", Data: snap})
	if snap.TerminalFor(b.JobType) {
		send(event{Type: "end"})
		return
	}

	poll := time.NewTicker(s.d.PollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(s.d.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			send(event{Type: "heartbeat"})
		case <-poll.C:
			snap, err := s.d.Progress.Summarize(r.Context(), batchID, itemIDs)
			if err != nil {
				send(event{Type: "error", Data: map[string]string{"error": "progress read failed"}})
				return
			}
			if snap.TerminalFor(b.JobType) {
				// Terminal state ends the stream with exactly one end frame
				// and no trailing progress frame.
				send(event{Type: "end"})
				return
			}
			send(event{Type: "progress", Data: snap})
		}
	}
}

func parseIndices(raw string) []int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
