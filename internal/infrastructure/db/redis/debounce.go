package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const debounceTTL = 30 * time.Second

// RankingDebouncer collapses bursts of ranking recompute triggers for the
// same courier/postal pair. Key format: rankdedup:<courier_id>:<postal_code>
type RankingDebouncer struct {
	client *redis.Client
}

func NewRankingDebouncer(client *redis.Client) *RankingDebouncer {
	return &RankingDebouncer{client: client}
}

// ShouldSkip reports whether an equivalent recompute ran inside the TTL.
func (d *RankingDebouncer) ShouldSkip(ctx context.Context, courierID string, postalCode *string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(courierID, postalCode)).Result()
	if err != nil {
		return false, fmt.Errorf("debounce check: %w", err)
	}
	return n > 0, nil
}

// Mark records that a recompute ran (expires after debounceTTL).
func (d *RankingDebouncer) Mark(ctx context.Context, courierID string, postalCode *string) error {
	return d.client.Set(ctx, d.key(courierID, postalCode), "1", debounceTTL).Err()
}

func (d *RankingDebouncer) key(courierID string, postalCode *string) string {
	postal := ""
	if postalCode != nil {
		postal = *postalCode
	}
	return fmt.Sprintf("rankdedup:%s:%s", courierID, postal)
}
