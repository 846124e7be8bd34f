package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mpeters/winnow/internal/prune"
	"github.com/mpeters/winnow/internal/store"
)

func (s *Server) handleListMemories(w http.ResponseWriter, r *http.Request) {
	memories, err := s.db.ListMemories()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if memories == nil {
		memories = []store.Memory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"memories": memories,
		"count":    len(memories),
	})
}

func (s *Server) handleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content    string   `json:"content"`
		Tags       []string `json:"tags"`
		Importance string   `json:"importance"`
		SessionID  string   `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}

	m := &store.Memory{
		Content:    req.Content,
		Tags:       req.Tags,
		Importance: req.Importance,
		SessionID:  req.SessionID,
	}
	if err := s.db.CreateMemory(m); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleTouchMemory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := s.db.TouchMemory(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteMemories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids required")
		return
	}

	deleted, err := s.db.DeleteMemories(req.IDs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string           `json:"session_id"`
		Config    *prune.Overrides `json:"config"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	memories, err := s.db.ListMemories()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	analysis := s.engine.Analyze(r.Context(), prune.Request{
		Memories:  store.Views(memories),
		SessionID: req.SessionID,
		Overrides: req.Config,
	})
	if analysis.Candidates == nil {
		analysis.Candidates = []*prune.Candidate{}
	}
	writeJSON(w, http.StatusOK, analysis)
}
