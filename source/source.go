// source/source.go
package source

import (
	"context"

	"github.com/arbiterhq/arbiter/model"
)

// PolicySource supplies the ordered policy batch for an evaluation request.
// Persistence and versioning live behind this interface; the engine only
// consumes the ordered slice.
type PolicySource interface {
	Policies(ctx context.Context) ([]model.Policy, error)
}
