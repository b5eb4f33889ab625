package httpapi

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/sandevgo/echovoice/internal/core"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	agents, err := s.agents.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count agents")
		return
	}
	documents, err := s.documents.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count documents")
		return
	}

	providers := s.providers.Status(r.Context())
	anyAvailable := false
	for _, p := range providers {
		if p.Available {
			anyAvailable = true
			break
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": map[string]any{
			"version":         core.EchoVersion,
			"total_agents":    agents,
			"total_documents": documents,
			"providers":       providers,
			"system_ready":    anyAvailable && documents > 0,
		},
	})
}

// handleAudio serves synthesized replies. The name is sanitized so the
// handler can only ever read from the audio directory.
func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(mux.Vars(r)["filename"])
	if name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	path := filepath.Join(s.audioDir, name)
	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}
