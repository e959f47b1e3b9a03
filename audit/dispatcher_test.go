package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (s *memorySink) Record(ctx context.Context, event Event) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) recorded() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestDispatcherDelivers(t *testing.T) {
	sink := &memorySink{}
	dispatcher := NewDispatcher(sink, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)

	dispatcher.Record(Event{PolicyID: "p-1", Framework: "GDPR", Timestamp: time.Now()})

	require.Eventually(t, func() bool {
		return len(sink.recorded()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "p-1", sink.recorded()[0].PolicyID)
}

func TestDispatcherNeverBlocksCaller(t *testing.T) {
	// A sink that never completes and a full queue must not stall Record.
	sink := &memorySink{block: make(chan struct{})}
	dispatcher := NewDispatcher(sink, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			dispatcher.Record(Event{PolicyID: "p-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
}

func TestDispatcherSwallowsSinkErrors(t *testing.T) {
	sink := &memorySink{err: errors.New("index unavailable")}
	dispatcher := NewDispatcher(sink, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)

	// Errors are logged, not surfaced; subsequent events keep flowing.
	dispatcher.Record(Event{PolicyID: "p-1"})
	dispatcher.Record(Event{PolicyID: "p-2"})
	time.Sleep(50 * time.Millisecond)
}

func TestDispatcherDefaultBuffer(t *testing.T) {
	dispatcher := NewDispatcher(&memorySink{}, 0)
	assert.Equal(t, 256, cap(dispatcher.events))
}
