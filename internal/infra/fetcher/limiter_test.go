package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHostLimiter_SeparateHostsDoNotShareBudget(t *testing.T) {
	cfg := Config{PerHostRate: 1, PerHostBurst: 1, GlobalRate: 1000, GlobalBurst: 1000}
	l := newHostLimiter(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, l.Wait(ctx, "a.example.com"))
	assert.NoError(t, l.Wait(ctx, "b.example.com"))
}

func TestHostLimiter_ExhaustedHostBudgetBlocksUntilTimeout(t *testing.T) {
	cfg := Config{PerHostRate: 1, PerHostBurst: 1, GlobalRate: 1000, GlobalBurst: 1000}
	l := newHostLimiter(cfg)

	ctx := context.Background()
	assert.NoError(t, l.Wait(ctx, "a.example.com"))

	shortCtx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(shortCtx, "a.example.com"))
}
