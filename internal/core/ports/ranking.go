package ports

import (
	"context"

	"github.com/performile/courier-platform/internal/core/domain"
)

// RankingUpdateInput is a batch of candidate couriers whose ranking scores
// should be recomputed. CourierIDs may contain duplicates and blanks; the
// service filters them. PostalCode is normalized before use. Context is a
// free-text label for diagnostics only.
type RankingUpdateInput struct {
	CourierIDs []string
	PostalCode string
	Context    string
}

// RankingService submits fire-and-forget ranking recomputations. Update
// never returns an error to the caller: failures are logged, not raised.
type RankingService interface {
	Update(ctx context.Context, input RankingUpdateInput)
}

// RankingQueue accepts ranking tasks for asynchronous processing. No
// ordering across couriers, no result; failures are observable only via
// logs and metrics.
type RankingQueue interface {
	Enqueue(task domain.RankingTask)
}

// RankingStore recomputes and upserts a single courier's ranking score.
// Recomputation is idempotent: a lost update is repaired by the next
// triggering event.
type RankingStore interface {
	RecomputeScore(ctx context.Context, courierID string, postalCode *string) error
}

// RankingDebouncer collapses bursts of recompute triggers for the same
// courier/postal pair into one recomputation.
type RankingDebouncer interface {
	ShouldSkip(ctx context.Context, courierID string, postalCode *string) (bool, error)
	Mark(ctx context.Context, courierID string, postalCode *string) error
}
