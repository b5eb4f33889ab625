package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/internal/service/router"
	"github.com/sandevgo/echovoice/pkg/log"
)

// TurnRunner is the conversation pipeline as the transport sees it.
type TurnRunner interface {
	VoiceTurn(ctx context.Context, agentID string, audio []byte, duration time.Duration) (core.TurnResult, error)
	TextTurn(ctx context.Context, agentID, message string) (core.TurnResult, error)
	Greeting(ctx context.Context, agentID string) (string, error)
}

// ProviderHealth reports the router's per-provider view for the
// status endpoint.
type ProviderHealth interface {
	Status(ctx context.Context) []router.ProviderStatus
}

type Server struct {
	http      *http.Server
	turns     TurnRunner
	agents    core.AgentRepository
	documents core.DocumentRepository
	providers ProviderHealth
	audioDir  string
}

func NewServer(
	addr string,
	turns TurnRunner,
	agents core.AgentRepository,
	documents core.DocumentRepository,
	providers ProviderHealth,
	audioDir string,
) *Server {
	s := &Server{
		turns:     turns,
		agents:    agents,
		documents: documents,
		providers: providers,
		audioDir:  audioDir,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/speech-chat", s.handleSpeechChat).Methods(http.MethodPost)
	r.HandleFunc("/api/text-chat", s.handleTextChat).Methods(http.MethodPost)
	r.HandleFunc("/api/agents", s.handleListAgents).Methods(http.MethodGet)
	r.HandleFunc("/api/agents", s.handleCreateAgent).Methods(http.MethodPost)
	r.HandleFunc("/api/agents/{id}", s.handleGetAgent).Methods(http.MethodGet)
	r.HandleFunc("/api/agents/{id}", s.handleDeleteAgent).Methods(http.MethodDelete)
	r.HandleFunc("/api/agents/{id}/greeting", s.handleGreeting).Methods(http.MethodGet)
	r.HandleFunc("/api/documents", s.handleCreateDocument).Methods(http.MethodPost)
	r.HandleFunc("/api/documents", s.handleListDocuments).Methods(http.MethodGet)
	r.HandleFunc("/api/documents/{id}", s.handleDeleteDocument).Methods(http.MethodDelete)
	r.HandleFunc("/api/audio/{filename}", s.handleAudio).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.http.Addr).Msg("http server listening")
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(_ context.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Handler exposes the routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}
