package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"yt-fetch-bot/internal/model"
)

// streamJob emits job snapshots as Server-Sent Events at a fixed
// cadence, ending with the terminal snapshot.
func (s *Server) streamJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.Registry.Get(id); err != nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(s.streamInterval())
	defer ticker.Stop()

	for {
		job, err := s.Registry.Get(id)
		if err != nil {
			return
		}
		data, err := json.Marshal(job.Snapshot())
		if err != nil {
			return
		}
		if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
			return
		}
		flusher.Flush()

		if model.IsTerminal(job.Status) {
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// streamJobWS is the same snapshot stream over a WebSocket; the
// connection closes right after the terminal snapshot.
func (s *Server) streamJobWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.Registry.Get(id); err != nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error("upgrading to websocket", "err", err.Error())
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(s.streamInterval())
	defer ticker.Stop()

	for {
		job, err := s.Registry.Get(id)
		if err != nil {
			return
		}
		if err := conn.WriteJSON(job.Snapshot()); err != nil {
			return
		}
		if model.IsTerminal(job.Status) {
			_ = conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			)
			return
		}
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
