package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/internal/providers/rag"
	"github.com/sandevgo/echovoice/pkg/log"
)

type createDocumentRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
}

// handleCreateDocument ingests extracted plain text: the body is
// chunked with the token chunker and stored atomically with the
// document record.
func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	doc := core.Document{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Categories: req.Categories,
		WordCount:  len(strings.Fields(req.Content)),
		CreatedAt:  time.Now().UTC(),
	}

	var chunks []core.DocumentChunk
	for _, c := range rag.ChunkText(req.Content, rag.DefaultChunkerConfig()) {
		chunks = append(chunks, core.DocumentChunk{
			DocumentID: doc.ID,
			Title:      doc.Title,
			Position:   c.Index,
			Text:       c.Text,
			Categories: doc.Categories,
		})
	}

	if err := s.documents.Save(r.Context(), doc, chunks); err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("title", doc.Title).Msg("document ingest failed")
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}

	log.FromCtx(r.Context()).Info().
		Str("doc", doc.ID).
		Int("chunks", len(chunks)).
		Int("words", doc.WordCount).
		Msg("document ingested")

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"doc_id":      doc.ID,
		"chunk_count": len(chunks),
		"word_count":  doc.WordCount,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []core.Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "documents": docs})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, core.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
