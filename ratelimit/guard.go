// ratelimit/guard.go
package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/logging"
)

// Guard wraps a Store with a per-check timeout and a fail-open/fail-closed
// policy for store errors. The engine only ever talks to the store through
// a Guard so an unavailable store degrades to a configured default instead
// of an error on the decision path.
type Guard struct {
	store        Store
	failOpen     bool
	checkTimeout time.Duration
}

func NewGuard(store Store, failOpen bool, checkTimeout time.Duration) *Guard {
	if checkTimeout <= 0 {
		checkTimeout = 250 * time.Millisecond
	}
	return &Guard{store: store, failOpen: failOpen, checkTimeout: checkTimeout}
}

// Check forwards to the store. On error or timeout it substitutes the fail
// mode: fail-open admits the request, fail-closed rejects it.
func (g *Guard) Check(ctx context.Context, scopeKey string, limit int, window time.Duration) (Result, bool) {
	checkCtx, cancel := context.WithTimeout(ctx, g.checkTimeout)
	defer cancel()

	result, err := g.store.Check(checkCtx, scopeKey, limit, window)
	if err != nil {
		logging.Warn("Rate limit store check failed",
			zap.String("scope", scopeKey),
			zap.Bool("failOpen", g.failOpen),
			zap.Error(err))
		return Result{Allowed: g.failOpen, Remaining: 0, ResetAt: time.Now().Add(window)}, false
	}
	return result, true
}
