package router

import (
	"sync"
	"time"
)

// health tracks consecutive failures per provider and places a
// provider in cooldown once the threshold is reached. Safe for
// concurrent turns.
type health struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	states    map[string]*providerState

	now func() time.Time
}

type providerState struct {
	failures      int
	cooldownUntil time.Time
}

func newHealth(threshold int, cooldown time.Duration) *health {
	return &health{
		threshold: threshold,
		cooldown:  cooldown,
		states:    make(map[string]*providerState),
		now:       time.Now,
	}
}

func (h *health) available(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.states[name]
	if !ok {
		return true
	}
	return !h.now().Before(st.cooldownUntil)
}

func (h *health) reportSuccess(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.states, name)
}

func (h *health) snapshot(name string) (failures int, inCooldown bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.states[name]
	if !ok {
		return 0, false
	}
	return st.failures, h.now().Before(st.cooldownUntil)
}

// reportFailure records one failed attempt and returns true when the
// provider just entered cooldown.
func (h *health) reportFailure(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.states[name]
	if !ok {
		st = &providerState{}
		h.states[name] = st
	}

	st.failures++
	if st.failures >= h.threshold {
		st.cooldownUntil = h.now().Add(h.cooldown)
		st.failures = 0
		return true
	}
	return false
}
