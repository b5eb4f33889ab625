package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sandevgo/echovoice/internal/core"
)

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.agents.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list agents")
		return
	}
	if agents == nil {
		agents = []core.Agent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "agents": agents})
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var agent core.Agent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if agent.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	if agent.Type == "" {
		agent.Type = core.AgentSupport
	}
	agent.CreatedAt = time.Now().UTC()

	if err := s.agents.Save(r.Context(), agent); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save agent")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "agent_id": agent.ID})
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.agents.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, core.ErrAgentNotFound) {
			writeError(w, http.StatusNotFound, "agent not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load agent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "agent": agent})
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.agents.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, core.ErrAgentNotFound) {
			writeError(w, http.StatusNotFound, "agent not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete agent")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	greeting, err := s.turns.Greeting(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, core.ErrAgentNotFound) {
			writeError(w, http.StatusNotFound, "agent not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build greeting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "greeting": greeting})
}
