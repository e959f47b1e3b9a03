// audit/sink.go
package audit

import "context"

// Sink persists audit events. Implementations may block; the engine never
// calls a Sink directly, it goes through a Dispatcher.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// Recorder is the non-blocking surface the engine sees. Record must return
// immediately; delivery is best-effort.
type Recorder interface {
	Record(event Event)
}
