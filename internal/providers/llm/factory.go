package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/pkg/log"
)

// NewProviders builds the ordered inference provider list from the
// configured names, highest priority first.
func NewProviders(ctx context.Context, appCfg *config.AppConfig, routerCfg *config.RouterConfig) ([]core.InferenceProvider, error) {
	var providers []core.InferenceProvider

	for _, name := range appCfg.Providers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		log.FromCtx(ctx).Info().
			Str("provider", name).
			Msg("starting llm provider")

		switch name {
		case "ollama":
			c := config.NewOllamaConfig(ctx)
			providers = append(providers, NewOllama(c.BaseURL, c.APIKey, c.Model, routerCfg.ProviderTimeout))
		case "gemini":
			c := config.NewGeminiConfig(ctx)
			providers = append(providers, NewGemini(c.BaseURL, c.APIKey, c.Model, routerCfg.ProviderTimeout))
		case "custom":
			c := config.NewCustomConfig(ctx)
			providers = append(providers, NewOpenAICompatible("custom", c.BaseURL, c.APIKey, c.Model, routerCfg.ProviderTimeout))
		default:
			return nil, fmt.Errorf("unknown llm provider: %s", name)
		}
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no llm providers configured")
	}
	return providers, nil
}
