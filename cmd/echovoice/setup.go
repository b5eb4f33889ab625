package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/providers/llm"
	"github.com/sandevgo/echovoice/internal/providers/speech"
	"github.com/sandevgo/echovoice/internal/service/answer"
	"github.com/sandevgo/echovoice/internal/service/conversation"
	"github.com/sandevgo/echovoice/internal/service/gate"
	"github.com/sandevgo/echovoice/internal/service/retrieval"
	"github.com/sandevgo/echovoice/internal/service/router"
	"github.com/sandevgo/echovoice/internal/storage/sqlite"
	"github.com/sandevgo/echovoice/internal/transport/httpapi"
	"github.com/sandevgo/echovoice/pkg/log"
	"github.com/sandevgo/echovoice/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	audioCfg := config.NewAudioConfig(ctx)
	retrievalCfg := config.NewRetrievalConfig(ctx)
	routerCfg := config.NewRouterConfig(ctx)
	speechCfg := config.NewSpeechConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	agentRepo := sqlite.NewAgentRepo(db)
	documentRepo := sqlite.NewDocumentRepo(db)

	if err := agentRepo.SeedDefault(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed default agent")
	}

	// 3. Inference providers + failover router
	providers, err := llm.NewProviders(ctx, appCfg, routerCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize inference providers")
	}
	providerRouter := router.New(providers, routerCfg)

	// 4. Speech adapters
	transcriber := speech.NewTranscriber(speechCfg.TranscriberURL, speechCfg.TranscriberTimeout)
	synthesizer, err := speech.NewSynthesizer(speechCfg.SynthesizerURL, appCfg.GetAudioPath(), speechCfg.SynthesizerTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize speech synthesizer")
	}

	// 5. Conversation pipeline
	orchestrator := conversation.NewOrchestrator(
		agentRepo,
		gate.New(audioCfg),
		transcriber,
		retrieval.NewIndex(documentRepo, retrievalCfg),
		answer.NewSynthesizer(providerRouter),
		synthesizer,
		appCfg,
	)

	// 6. Transport
	server := httpapi.NewServer(
		appCfg.ListenAddr,
		orchestrator,
		agentRepo,
		documentRepo,
		providerRouter,
		appCfg.GetAudioPath(),
	)
	services = append(services, server)

	return services
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
