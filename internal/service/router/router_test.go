package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
)

type fakeProvider struct {
	name   string
	answer string
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Infer(_ context.Context, _ core.Prompt) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func testConfig() *config.RouterConfig {
	return &config.RouterConfig{
		FailureThreshold: 2,
		Cooldown:         30 * time.Second,
		ProviderTimeout:  time.Second,
	}
}

func TestCompleteFirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "ollama", answer: "from ollama"}
	second := &fakeProvider{name: "gemini", answer: "from gemini"}
	r := New([]core.InferenceProvider{first, second}, testConfig())

	answer, err := r.Complete(context.Background(), core.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from ollama", answer)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "second provider must not be called when first succeeds")
}

func TestCompleteFallsBack(t *testing.T) {
	first := &fakeProvider{name: "ollama", err: errors.New("connection refused")}
	second := &fakeProvider{name: "gemini", answer: "from gemini"}
	r := New([]core.InferenceProvider{first, second}, testConfig())

	answer, err := r.Complete(context.Background(), core.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "from gemini", answer)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestCompleteAllFail(t *testing.T) {
	first := &fakeProvider{name: "ollama", err: errors.New("down")}
	second := &fakeProvider{name: "gemini", err: errors.New("quota exceeded")}
	r := New([]core.InferenceProvider{first, second}, testConfig())

	_, err := r.Complete(context.Background(), core.Prompt{User: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAllProvidersUnavailable))
}

func TestCompleteCooldownSkipsProvider(t *testing.T) {
	failing := &fakeProvider{name: "ollama", err: errors.New("down")}
	backup := &fakeProvider{name: "gemini", answer: "ok"}
	r := New([]core.InferenceProvider{failing, backup}, testConfig())

	// Threshold is 2: two failed turns park the provider.
	for i := 0; i < 2; i++ {
		_, err := r.Complete(context.Background(), core.Prompt{User: "hi"})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, failing.calls)

	_, err := r.Complete(context.Background(), core.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, 2, failing.calls, "provider in cooldown must be skipped without an attempt")
	assert.Equal(t, 3, backup.calls)
}

func TestCompleteCooldownExpires(t *testing.T) {
	failing := &fakeProvider{name: "ollama", err: errors.New("down")}
	backup := &fakeProvider{name: "gemini", answer: "ok"}
	r := New([]core.InferenceProvider{failing, backup}, testConfig())

	now := time.Now()
	r.health.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, _ = r.Complete(context.Background(), core.Prompt{User: "hi"})
	}
	assert.False(t, r.health.available("ollama"))

	now = now.Add(31 * time.Second)
	assert.True(t, r.health.available("ollama"))

	failing.err = nil
	failing.answer = "recovered"
	answer, err := r.Complete(context.Background(), core.Prompt{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
}

type probedProvider struct {
	fakeProvider
	reachable bool
	probes    int
}

func (p *probedProvider) Available(context.Context) bool {
	p.probes++
	return p.reachable
}

func TestStatusProbesProviders(t *testing.T) {
	dead := &probedProvider{fakeProvider: fakeProvider{name: "ollama", answer: "x"}, reachable: false}
	plain := &fakeProvider{name: "gemini", answer: "y"}
	r := New([]core.InferenceProvider{dead, plain}, testConfig())

	statuses := r.Status(context.Background())
	require.Len(t, statuses, 2)

	assert.Equal(t, "ollama", statuses[0].Name)
	assert.False(t, statuses[0].Available, "failed probe must mark the provider unavailable")
	assert.False(t, statuses[0].InCooldown)

	assert.Equal(t, "gemini", statuses[1].Name)
	assert.True(t, statuses[1].Available, "providers without a probe report cooldown state only")

	dead.reachable = true
	statuses = r.Status(context.Background())
	assert.True(t, statuses[0].Available)
}

func TestStatusSkipsProbeInCooldown(t *testing.T) {
	failing := &probedProvider{fakeProvider: fakeProvider{name: "ollama", err: errors.New("down")}}
	backup := &fakeProvider{name: "gemini", answer: "ok"}
	r := New([]core.InferenceProvider{failing, backup}, testConfig())

	for i := 0; i < 2; i++ {
		_, _ = r.Complete(context.Background(), core.Prompt{User: "hi"})
	}

	statuses := r.Status(context.Background())
	assert.True(t, statuses[0].InCooldown)
	assert.False(t, statuses[0].Available)
	assert.Equal(t, 0, failing.probes, "cooldown already answers the question, no probe needed")
}

func TestSuccessResetsFailureCount(t *testing.T) {
	flaky := &fakeProvider{name: "ollama", err: errors.New("down")}
	backup := &fakeProvider{name: "gemini", answer: "ok"}
	r := New([]core.InferenceProvider{flaky, backup}, testConfig())

	// One failure, then a success, then another failure: never two
	// consecutive, so no cooldown.
	_, _ = r.Complete(context.Background(), core.Prompt{User: "hi"})

	flaky.err = nil
	flaky.answer = "ok"
	_, _ = r.Complete(context.Background(), core.Prompt{User: "hi"})

	flaky.err = errors.New("down again")
	_, _ = r.Complete(context.Background(), core.Prompt{User: "hi"})

	assert.True(t, r.health.available("ollama"))
}
