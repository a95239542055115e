package discovery

import (
	"context"

	"github.com/phrazzld/scholar-api/internal/domain"
)

// ProgressFunc receives incremental human-readable progress messages
// emitted by a discovery task while it runs. Implementations must be
// safe to call from the task's goroutine and must never block for long;
// progress is advisory only and is never used for control decisions.
type ProgressFunc func(message string)

// Discoverer runs one resource-discovery task. It takes the job's
// immutable inputs and produces the raw textual report, or an error.
//
// The context carries the job's cooperative cancellation signal: a
// well-behaved implementation checks ctx at its internal checkpoints and
// returns ctx.Err() promptly once cancelled. There is no bound on how
// long an implementation may take otherwise.
type Discoverer interface {
	DiscoverResources(ctx context.Context, inputs domain.DiscoveryInputs, progress ProgressFunc) (string, error)
}
