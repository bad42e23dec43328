package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"yt-fetch-bot/internal/model"
	"yt-fetch-bot/internal/registry"
)

type downloadRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.Logger.Error("marshaling response body", "err", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.Quality == "" {
		req.Quality = "best"
	}

	job, err := s.Orch.CreateAndEnqueue(req.URL, req.Quality)
	if err != nil {
		s.Logger.Error("creating job", "err", err.Error())
		s.writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	s.Logger.Info("job created", "job", job.ID, "quality", job.Quality)
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"id":     job.ID,
		"status": job.Status,
	})
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Registry.List())
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "job not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request) {
	job, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if job.Status != model.StatusDone {
		s.writeError(w, http.StatusBadRequest, "job not finished: "+job.Status)
		return
	}
	if s.Orch.DeliveryTooLarge(job) {
		s.writeError(w, http.StatusRequestEntityTooLarge,
			"artifact too large to deliver: "+model.FormatSize(job.Filesize)+
				" (limit "+model.FormatSize(s.Orch.DeliveryLimit())+")")
		return
	}
	if _, err := os.Stat(job.File); err != nil {
		s.writeError(w, http.StatusNotFound, "artifact missing from storage")
		return
	}

	contentType := "video/mp4"
	if strings.HasSuffix(job.Filename, ".mp3") {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+job.Filename+`"`)
	http.ServeFile(w, r, job.File)
}
