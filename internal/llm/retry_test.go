package llm

import (
	"math/rand"
	"testing"
	"time"
)

func TestPolicyDelayWithoutJitter(t *testing.T) {
	p := Policy{
		BaseDelay:  time.Second,
		MaxDelay:   32 * time.Second,
		Multiplier: 2,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 32 * time.Second},
		{6, 32 * time.Second}, // clamped
		{10, 32 * time.Second},
	}

	for _, tt := range tests {
		if got := p.Delay(tt.attempt, nil); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestPolicyDelayJitterStaysWithinFraction(t *testing.T) {
	p := DefaultPolicy()
	rng := rand.New(rand.NewSource(42))

	for attempt := 0; attempt < 8; attempt++ {
		base := p.Delay(attempt, nil)
		lo := time.Duration(float64(base) * (1 - p.JitterFraction))
		hi := time.Duration(float64(base) * (1 + p.JitterFraction))

		for i := 0; i < 1000; i++ {
			got := p.Delay(attempt, rng)
			if got < lo || got > hi {
				t.Fatalf("Delay(%d) = %v, outside [%v, %v]", attempt, got, lo, hi)
			}
		}
	}
}

func TestPolicyDelayJitterIsDeterministicPerSeed(t *testing.T) {
	p := DefaultPolicy()

	a := p.Delay(3, rand.New(rand.NewSource(7)))
	b := p.Delay(3, rand.New(rand.NewSource(7)))
	if a != b {
		t.Errorf("same seed produced %v and %v", a, b)
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", p.MaxRetries)
	}
	if p.BaseDelay != time.Second {
		t.Errorf("BaseDelay = %v, want 1s", p.BaseDelay)
	}
	if p.MaxDelay != 32*time.Second {
		t.Errorf("MaxDelay = %v, want 32s", p.MaxDelay)
	}
}
