package router

import (
	"context"
	"fmt"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/pkg/log"
)

// Router walks an ordered list of inference providers and returns the
// first successful completion. A provider that keeps failing is parked
// in a cooldown window and skipped until it expires.
type Router struct {
	providers []core.InferenceProvider
	health    *health
	timeout   config.RouterConfig
}

func New(providers []core.InferenceProvider, cfg *config.RouterConfig) *Router {
	return &Router{
		providers: providers,
		health:    newHealth(cfg.FailureThreshold, cfg.Cooldown),
		timeout:   *cfg,
	}
}

// Complete tries each provider in configured order. Providers in
// cooldown are skipped without an attempt. If every provider fails or
// is skipped, the turn fails with ErrAllProvidersUnavailable.
func (r *Router) Complete(ctx context.Context, prompt core.Prompt) (string, error) {
	logger := log.FromCtx(ctx)

	for _, p := range r.providers {
		if !r.health.available(p.Name()) {
			logger.Debug().Str("provider", p.Name()).Msg("provider in cooldown, skipping")
			continue
		}

		answer, err := r.infer(ctx, p, prompt)
		if err != nil {
			cooled := r.health.reportFailure(p.Name())
			logger.Warn().Err(err).
				Str("provider", p.Name()).
				Bool("cooldown", cooled).
				Msg("provider attempt failed")
			continue
		}

		r.health.reportSuccess(p.Name())
		logger.Debug().Str("provider", p.Name()).Msg("completion served")
		return answer, nil
	}

	return "", fmt.Errorf("%w: tried %d providers", core.ErrAllProvidersUnavailable, len(r.providers))
}

// ProviderStatus is a point-in-time health view of one provider,
// exposed on the status endpoint.
type ProviderStatus struct {
	Name       string `json:"name"`
	Available  bool   `json:"available"`
	Failures   int    `json:"consecutive_failures"`
	InCooldown bool   `json:"in_cooldown"`
}

// prober is implemented by providers that can answer a cheap liveness
// probe, like the Ollama tags endpoint.
type prober interface {
	Available(ctx context.Context) bool
}

// Status reports each provider's health. Providers that support a
// liveness probe are probed in addition to the cooldown check, so the
// status endpoint reflects a dead local server before the first failed
// turn.
func (r *Router) Status(ctx context.Context) []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(r.providers))
	for _, p := range r.providers {
		failures, cooled := r.health.snapshot(p.Name())

		available := !cooled
		if pr, ok := p.(prober); ok && available {
			available = pr.Available(ctx)
		}

		statuses = append(statuses, ProviderStatus{
			Name:       p.Name(),
			Available:  available,
			Failures:   failures,
			InCooldown: cooled,
		})
	}
	return statuses
}

func (r *Router) infer(ctx context.Context, p core.InferenceProvider, prompt core.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout.ProviderTimeout)
	defer cancel()
	return p.Infer(ctx, prompt)
}
