package fetcher

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter throttles outbound requests per-host on top of a single
// global limiter, so one slow/chatty source can't starve the others.
type hostLimiter struct {
	mu       sync.Mutex
	global   *rate.Limiter
	perHost  map[string]*rate.Limiter
	hostRate rate.Limit
	hostBurst int
}

func newHostLimiter(cfg Config) *hostLimiter {
	return &hostLimiter{
		global:    rate.NewLimiter(rate.Limit(cfg.GlobalRate), cfg.GlobalBurst),
		perHost:   make(map[string]*rate.Limiter),
		hostRate:  rate.Limit(cfg.PerHostRate),
		hostBurst: cfg.PerHostBurst,
	}
}

// Wait blocks until both the global and the host-specific budget admit one
// request, or ctx is cancelled.
func (h *hostLimiter) Wait(ctx context.Context, host string) error {
	if err := h.limiterFor(host).Wait(ctx); err != nil {
		return err
	}
	return h.global.Wait(ctx)
}

func (h *hostLimiter) limiterFor(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.perHost[host]
	if !ok {
		l = rate.NewLimiter(h.hostRate, h.hostBurst)
		h.perHost[host] = l
	}
	return l
}
