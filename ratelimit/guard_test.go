package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubStore struct {
	result Result
	err    error
	delay  time.Duration
}

func (s *stubStore) Check(ctx context.Context, scopeKey string, limit int, window time.Duration) (Result, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if s.err != nil {
		return Result{}, s.err
	}
	return s.result, nil
}

func TestGuardCheck(t *testing.T) {
	window := time.Minute

	t.Run("healthy store result passes through", func(t *testing.T) {
		reset := time.Now().Add(window)
		guard := NewGuard(&stubStore{result: Result{Allowed: true, Remaining: 7, ResetAt: reset}}, false, time.Second)

		result, fromStore := guard.Check(context.Background(), "p-1:u-1", 10, window)
		assert.True(t, fromStore)
		assert.True(t, result.Allowed)
		assert.Equal(t, 7, result.Remaining)
		assert.Equal(t, reset, result.ResetAt)
	})

	t.Run("store error fails open", func(t *testing.T) {
		guard := NewGuard(&stubStore{err: errors.New("connection refused")}, true, time.Second)

		result, fromStore := guard.Check(context.Background(), "p-1:u-1", 10, window)
		assert.False(t, fromStore)
		assert.True(t, result.Allowed)
	})

	t.Run("store error fails closed", func(t *testing.T) {
		guard := NewGuard(&stubStore{err: errors.New("connection refused")}, false, time.Second)

		result, fromStore := guard.Check(context.Background(), "p-1:u-1", 10, window)
		assert.False(t, fromStore)
		assert.False(t, result.Allowed)
	})

	t.Run("slow store times out into fail mode", func(t *testing.T) {
		guard := NewGuard(&stubStore{delay: 200 * time.Millisecond, result: Result{Allowed: true}}, false, 10*time.Millisecond)

		start := time.Now()
		result, fromStore := guard.Check(context.Background(), "p-1:u-1", 10, window)
		assert.False(t, fromStore)
		assert.False(t, result.Allowed)
		assert.Less(t, time.Since(start), 150*time.Millisecond)
	})

	t.Run("zero timeout gets a default", func(t *testing.T) {
		guard := NewGuard(&stubStore{result: Result{Allowed: true}}, false, 0)
		_, fromStore := guard.Check(context.Background(), "p-1:u-1", 10, window)
		assert.True(t, fromStore)
	})
}
