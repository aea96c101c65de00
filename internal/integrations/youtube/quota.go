package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Quota cost units per YouTube Data API call kind, matching the upstream
// pricing (list calls cost 1 unit).
const (
	CostChannelList = 1
	CostVideoList   = 1
	CostSearch      = 100
)

// ErrQuotaExceeded is returned when the daily quota budget is exhausted.
var ErrQuotaExceeded = errors.New("youtube daily quota exceeded")

// QuotaTracker accounts daily API cost units in Redis. The counter key rolls
// over at UTC midnight, matching YouTube's quota reset.
type QuotaTracker struct {
	client  *redis.Client
	limit   int64
	enforce bool
}

// NewQuotaTracker creates a quota tracker. With enforce false the tracker
// still counts usage but never blocks calls.
func NewQuotaTracker(client *redis.Client, dailyLimit int64, enforce bool) *QuotaTracker {
	return &QuotaTracker{client: client, limit: dailyLimit, enforce: enforce}
}

func quotaKey(day time.Time) string {
	return "youtube:quota:" + day.UTC().Format("2006-01-02")
}

// Spend records cost units against today's budget. Returns ErrQuotaExceeded
// when enforcement is on and the spend would cross the limit; the overspend is
// rolled back so a later smaller call can still fit.
func (t *QuotaTracker) Spend(ctx context.Context, cost int64) error {
	key := quotaKey(time.Now())
	total, err := t.client.IncrBy(ctx, key, cost).Result()
	if err != nil {
		return fmt.Errorf("quota incr: %w", err)
	}
	// First spend of the day sets the expiry.
	if total == cost {
		t.client.Expire(ctx, key, 48*time.Hour)
	}
	if t.enforce && total > t.limit {
		t.client.DecrBy(ctx, key, cost)
		return ErrQuotaExceeded
	}
	return nil
}

// Used returns today's consumed cost units.
func (t *QuotaTracker) Used(ctx context.Context) (int64, error) {
	used, err := t.client.Get(ctx, quotaKey(time.Now())).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return used, err
}

// Limit returns the configured daily budget.
func (t *QuotaTracker) Limit() int64 { return t.limit }
