package quota

import (
	"context"
	"fmt"
	"time"
)

// Store persists per-user daily usage counters. Increment must admit
// and count atomically: under concurrent calls for the same user and
// day, at most limit admissions succeed.
type Store interface {
	// Increment bumps the counter if used_count < limit (or limit is
	// Unlimited) and returns the count after the bump. The admission
	// that reaches the limit stamps at as the limit-hit time in the
	// same operation; later stamps never overwrite it. It returns
	// ErrQuotaExceeded without counting when the allowance is spent.
	Increment(ctx context.Context, userID, feature, day string, limit int, at time.Time) (int, error)

	// Get returns the current record, or a zero-count record when the
	// user has no usage for the day.
	Get(ctx context.Context, userID, feature, day string) (*Record, error)
}

// Gate enforces per-user daily quotas. Each admission is a single
// atomic read-check-increment against the store; the day boundary is
// server-local midnight.
type Gate struct {
	store Store
	now   func() time.Time
}

// NewGate creates a quota gate backed by the given store.
func NewGate(store Store) *Gate {
	return &Gate{store: store, now: time.Now}
}

// NewGateAt creates a gate with an injected clock, for tests and
// rollover verification.
func NewGateAt(store Store, now func() time.Time) *Gate {
	return &Gate{store: store, now: now}
}

// day formats the current server-local calendar day.
func (g *Gate) day() string {
	return g.now().Format("2006-01-02")
}

// CheckAndIncrement admits one metered request for the user, counting
// it against today's allowance for the tier. The admission that spends
// the last unit also records the limit-hit time; an exhausted
// allowance returns ErrQuotaExceeded without counting. Unlimited tiers
// are always admitted but still counted, so usage stats stay accurate.
func (g *Gate) CheckAndIncrement(ctx context.Context, userID string, tier Tier) (Usage, error) {
	limit := DailyLimit(tier)

	used, err := g.store.Increment(ctx, userID, FeatureAIQueries, g.day(), limit, g.now())
	if err == ErrQuotaExceeded {
		return Usage{Used: limit, Limit: limit, Remaining: 0}, ErrQuotaExceeded
	}
	if err != nil {
		return Usage{}, fmt.Errorf("failed to increment quota: %w", err)
	}

	return usageFor(used, limit), nil
}

// Peek reports today's usage without consuming any allowance.
func (g *Gate) Peek(ctx context.Context, userID string, tier Tier) (Usage, error) {
	rec, err := g.store.Get(ctx, userID, FeatureAIQueries, g.day())
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read quota: %w", err)
	}
	return usageFor(rec.UsedCount, DailyLimit(tier)), nil
}

func usageFor(used, limit int) Usage {
	if limit == Unlimited {
		return Usage{Used: used, Limit: Unlimited, Remaining: Unlimited, Unlimited: true}
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Usage{Used: used, Limit: limit, Remaining: remaining}
}
