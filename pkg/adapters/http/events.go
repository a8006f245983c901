package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
//
// The first event carries the full playback state and current step; later
// events carry only the fields that changed. The optional watch parameter
// (comma separated: cursor, playing, speed) drops diffs touching none of them.
// The stream ends when the client disconnects or the session is deleted.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "id")

	states, cancel := e.Session.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.logger.Info("SSE: Subscribing to session updates", "session_id", sessionID)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")

	watch := parseWatch(r.URL.Query().Get("watch"))

	last := e.Session.State()
	initial := domain.DiffPlayback(sessionID, nil, last)
	initial.Step = e.Session.View().Step
	s.send(w, initial)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: Client disconnected", "session_id", sessionID)
			return
		case state, ok := <-states:
			if !ok {
				fmt.Fprintf(w, "event: closed\ndata: %s\n\n", sessionID)
				flusher.Flush()
				return
			}
			diff := domain.DiffPlayback(sessionID, &last, state)
			last = state
			if diff == nil || !watch.keep(diff) {
				continue
			}
			if diff.CursorMoved() {
				diff.Step = e.Session.View().Step
			}
			s.send(w, diff)
			flusher.Flush()
		}
	}
}

func (s *Server) send(w http.ResponseWriter, diff *domain.PlaybackDiff) {
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("SSE: Diff encode failed", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}

type watchFilter map[string]bool

func parseWatch(raw string) watchFilter {
	if raw == "" {
		return nil
	}
	f := watchFilter{}
	for _, field := range strings.Split(raw, ",") {
		f[strings.TrimSpace(field)] = true
	}
	return f
}

func (f watchFilter) keep(d *domain.PlaybackDiff) bool {
	if len(f) == 0 {
		return true
	}
	return (f["cursor"] && d.CursorMoved()) ||
		(f["playing"] && d.IsPlaying != nil) ||
		(f["speed"] && d.Speed != nil)
}
