// Package api exposes the job core over HTTP: REST endpoints, two
// push-stream variants (SSE and WebSocket), artifact serving, and the
// static frontend. It depends only on the registry and orchestrator
// contracts.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"yt-fetch-bot/internal/orchestrator"
	"yt-fetch-bot/internal/registry"
)

const defaultStreamInterval = 400 * time.Millisecond

type Server struct {
	Logger   *slog.Logger
	Registry *registry.Registry
	Orch     *orchestrator.Orchestrator

	// StaticDir, when non-empty, is served at / for the web frontend.
	StaticDir string

	// StreamInterval is the push-stream emission cadence.
	StreamInterval time.Duration

	upgrader websocket.Upgrader
}

func (s *Server) streamInterval() time.Duration {
	if s.StreamInterval > 0 {
		return s.StreamInterval
	}
	return defaultStreamInterval
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.Logger.Info("starting api", "addr", addr)

	mux := http.NewServeMux()
	s.Bind(mux)
	server := http.Server{Addr: addr, Handler: withCORS(mux)}

	go func() {
		<-ctx.Done()

		// New, non-canceled context so in-flight responses get a
		// grace period.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.Logger.Error("shutting down http server", "err", err.Error())
			if err := server.Close(); err != nil {
				s.Logger.Error("force-closing http server", "err", err.Error())
			}
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("running api server: %w", err)
	}
	return nil
}

func (s *Server) Bind(mux *http.ServeMux) {
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(*http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("POST /api/jobs/download", s.createJob)
	mux.HandleFunc("GET /api/jobs", s.listJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.getJob)
	mux.HandleFunc("GET /api/jobs/{id}/stream", s.streamJob)
	mux.HandleFunc("GET /api/jobs/{id}/ws", s.streamJobWS)
	mux.HandleFunc("GET /api/jobs/{id}/download-file", s.serveArtifact)

	if s.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.StaticDir)))
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
