// ratelimit/store.go
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a counter check for one scope key.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Store is the external counter collaborator. Implementations must be atomic
// per scope key; the engine never counts in-process.
type Store interface {
	Check(ctx context.Context, scopeKey string, limit int, window time.Duration) (Result, error)
}
