package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleBookStructure returns the segmented chapter/scene structure of a
// processed book.
func (s *Server) handleBookStructure(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	structure := job.Structure()
	if structure == nil {
		jsonError(w, "structure not ready", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(structure)
}

// handleBookScript returns the director's script output for a processed book.
func (s *Server) handleBookScript(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	script := job.Script()
	if script == nil {
		jsonError(w, "script not available", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(script)
}

func (s *Server) handleDirectorStats(w http.ResponseWriter, r *http.Request) {
	d := s.orchestrator.DirectorClient()
	if d == nil || d.Stats == nil {
		jsonError(w, "director stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": d.Model(),
		"stats": d.Stats.Snapshot(),
	})
}
