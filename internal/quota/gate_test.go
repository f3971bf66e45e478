package quota

import (
	"context"
	"sync"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestDailyLimit(t *testing.T) {
	tests := []struct {
		tier Tier
		want int
	}{
		{TierFree, 5},
		{TierPremium, 50},
		{TierPremiumPlus, Unlimited},
		{Tier("UNKNOWN"), 5},
	}

	for _, tt := range tests {
		if got := DailyLimit(tt.tier); got != tt.want {
			t.Errorf("DailyLimit(%s) = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		raw  string
		want Tier
	}{
		{"FREE", TierFree},
		{"PREMIUM", TierPremium},
		{"PREMIUM_PLUS", TierPremiumPlus},
		{"", TierFree},
		{"gold", TierFree},
	}

	for _, tt := range tests {
		if got := ParseTier(tt.raw); got != tt.want {
			t.Errorf("ParseTier(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestGateAdmitsUpToLimitThenRefuses(t *testing.T) {
	ctx := context.Background()
	gate := NewGateAt(NewMemoryStore(), fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)))

	for i := 1; i <= 5; i++ {
		usage, err := gate.CheckAndIncrement(ctx, "user-1", TierFree)
		if err != nil {
			t.Fatalf("admission %d failed: %v", i, err)
		}
		if usage.Used != i {
			t.Errorf("admission %d: used = %d, want %d", i, usage.Used, i)
		}
		if usage.Remaining != 5-i {
			t.Errorf("admission %d: remaining = %d, want %d", i, usage.Remaining, 5-i)
		}
	}

	usage, err := gate.CheckAndIncrement(ctx, "user-1", TierFree)
	if err != ErrQuotaExceeded {
		t.Fatalf("6th admission: err = %v, want ErrQuotaExceeded", err)
	}
	if usage.Remaining != 0 {
		t.Errorf("6th admission: remaining = %d, want 0", usage.Remaining)
	}
}

func TestGateRefusalDoesNotCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := NewGateAt(store, fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)))

	for i := 0; i < 5; i++ {
		if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err != nil {
			t.Fatalf("admission failed: %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err != ErrQuotaExceeded {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
	}

	rec, err := store.Get(ctx, "user-1", FeatureAIQueries, "2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if rec.UsedCount != 5 {
		t.Errorf("used count = %d, want 5 (refusals must not count)", rec.UsedCount)
	}
}

func TestGateLimitHitStampedOnFinalAdmission(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	clock := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	gate := NewGateAt(store, func() time.Time { return clock })

	// exactly the allowance, no refusal: the last admission itself
	// must carry the stamp
	var final time.Time
	for i := 0; i < 5; i++ {
		final = clock
		if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err != nil {
			t.Fatalf("admission %d failed: %v", i+1, err)
		}
		clock = clock.Add(time.Minute)
	}

	rec, err := store.Get(ctx, "user-1", FeatureAIQueries, "2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if rec.UsedCount != 5 {
		t.Fatalf("used count = %d, want 5", rec.UsedCount)
	}
	if rec.LimitHitAt == nil {
		t.Fatal("limit hit time not stamped on the final admission")
	}
	if !rec.LimitHitAt.Equal(final) {
		t.Errorf("limit hit at %v, want final admission time %v", rec.LimitHitAt, final)
	}
}

func TestGateLimitHitStampedOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	clock := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	gate := NewGateAt(store, func() time.Time { return clock })

	var final time.Time
	for i := 0; i < 5; i++ {
		final = clock
		if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err != nil {
			t.Fatalf("admission failed: %v", err)
		}
		clock = clock.Add(time.Minute)
	}

	// later refusals must not move the stamp
	gate.CheckAndIncrement(ctx, "user-1", TierFree)
	clock = clock.Add(time.Hour)
	gate.CheckAndIncrement(ctx, "user-1", TierFree)

	rec, err := store.Get(ctx, "user-1", FeatureAIQueries, "2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if rec.LimitHitAt == nil {
		t.Fatal("limit hit time not stamped")
	}
	if !rec.LimitHitAt.Equal(final) {
		t.Errorf("limit hit at %v, want final admission time %v", rec.LimitHitAt, final)
	}
}

func TestGateUnlimitedTierNeverRefusesButCounts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := NewGateAt(store, fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)))

	for i := 1; i <= 200; i++ {
		usage, err := gate.CheckAndIncrement(ctx, "user-1", TierPremiumPlus)
		if err != nil {
			t.Fatalf("admission %d failed: %v", i, err)
		}
		if !usage.Unlimited {
			t.Fatalf("admission %d: unlimited flag not set", i)
		}
		if usage.Used != i {
			t.Errorf("admission %d: used = %d, want %d", i, usage.Used, i)
		}
	}
}

func TestGateDayRollover(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	clock := time.Date(2025, 6, 1, 23, 59, 0, 0, time.Local)
	gate := NewGateAt(store, func() time.Time { return clock })

	for i := 0; i < 5; i++ {
		if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err != nil {
			t.Fatalf("admission failed: %v", err)
		}
	}
	if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err != ErrQuotaExceeded {
		t.Fatalf("expected ErrQuotaExceeded before midnight, got %v", err)
	}

	// two minutes later it is a new local day
	clock = clock.Add(2 * time.Minute)
	usage, err := gate.CheckAndIncrement(ctx, "user-1", TierFree)
	if err != nil {
		t.Fatalf("admission after rollover failed: %v", err)
	}
	if usage.Used != 1 {
		t.Errorf("after rollover used = %d, want 1", usage.Used)
	}
}

func TestGateConcurrentAdmissionsNeverExceedLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := NewGateAt(store, fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)))

	const workers = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gate.CheckAndIncrement(ctx, "user-1", TierFree); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 5 {
		t.Errorf("admitted %d concurrent requests, want exactly 5", admitted)
	}
}

func TestGatePeekDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	gate := NewGateAt(store, fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)))

	gate.CheckAndIncrement(ctx, "user-1", TierFree)
	gate.CheckAndIncrement(ctx, "user-1", TierFree)

	for i := 0; i < 3; i++ {
		usage, err := gate.Peek(ctx, "user-1", TierFree)
		if err != nil {
			t.Fatal(err)
		}
		if usage.Used != 2 || usage.Remaining != 3 {
			t.Errorf("peek %d: used=%d remaining=%d, want 2/3", i, usage.Used, usage.Remaining)
		}
	}
}
