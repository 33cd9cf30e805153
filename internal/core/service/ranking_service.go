package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

// RankingService turns a raw batch of courier ids into individual ranking
// tasks and submits them to the queue. Explicitly fire-and-forget: Update
// has no return value and never surfaces a failure to the caller.
type RankingService struct {
	queue  ports.RankingQueue
	logger zerolog.Logger
}

func NewRankingService(queue ports.RankingQueue, logger zerolog.Logger) *RankingService {
	return &RankingService{queue: queue, logger: logger}
}

// Update deduplicates and filters the candidate courier ids, normalizes the
// postal code, and enqueues one independent task per remaining courier. An
// empty set after filtering is a silent no-op.
func (s *RankingService) Update(_ context.Context, input ports.RankingUpdateInput) {
	ids := dedupCourierIDs(input.CourierIDs)
	if len(ids) == 0 {
		return
	}

	postal := domain.NormalizePostalCode(input.PostalCode)

	for _, id := range ids {
		s.queue.Enqueue(domain.RankingTask{
			CourierID:  id,
			PostalCode: postal,
			Context:    input.Context,
		})
	}

	s.logger.Debug().
		Int("couriers", len(ids)).
		Str("context", input.Context).
		Msg("ranking updates submitted")
}

// dedupCourierIDs drops blank-after-trim ids and duplicates, preserving
// first-occurrence order.
func dedupCourierIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
