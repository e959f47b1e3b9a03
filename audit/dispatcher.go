// audit/dispatcher.go
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/logging"
)

// Dispatcher decouples decision latency from audit persistence: Record
// enqueues and returns immediately, a single worker drains the queue into
// the sink. A full queue drops the event with a warning; audit delivery is
// best-effort and never fails a decision.
type Dispatcher struct {
	sink          Sink
	events        chan Event
	recordTimeout time.Duration
}

func NewDispatcher(sink Sink, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Dispatcher{
		sink:          sink,
		events:        make(chan Event, bufferSize),
		recordTimeout: 5 * time.Second,
	}
}

// Record enqueues an event without blocking.
func (d *Dispatcher) Record(event Event) {
	select {
	case d.events <- event:
	default:
		logging.Warn("Audit queue full, dropping event",
			zap.String("policyId", event.PolicyID),
			zap.String("framework", event.Framework))
	}
}

// Start begins draining the queue until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.process(ctx)
}

func (d *Dispatcher) process(ctx context.Context) {
	for {
		select {
		case event := <-d.events:
			recordCtx, cancel := context.WithTimeout(ctx, d.recordTimeout)
			if err := d.sink.Record(recordCtx, event); err != nil {
				logging.Error("Audit sink record failed",
					zap.String("policyId", event.PolicyID),
					zap.Error(err))
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
