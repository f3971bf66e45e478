package llm

import (
	"math"
	"math/rand"
	"time"
)

// Policy controls the retry schedule for upstream model calls.
type Policy struct {
	MaxRetries     int           // retries after the first attempt
	BaseDelay      time.Duration // delay before the first retry
	MaxDelay       time.Duration // ceiling for the exponential schedule
	Multiplier     float64
	JitterFraction float64 // widens each delay by up to this fraction either way
	AttemptTimeout time.Duration
}

// DefaultPolicy is the production retry schedule: 1s, 2s, 4s, 8s, 16s,
// capped at 32s, each widened by ±25% jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     5,
		BaseDelay:      time.Second,
		MaxDelay:       32 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.25,
		AttemptTimeout: 30 * time.Second,
	}
}

// Delay returns the pause before retry number attempt (0-based), with
// jitter applied from rng. Jitter multiplies the clamped base delay so
// the result can exceed MaxDelay by at most the jitter fraction.
func (p Policy) Delay(attempt int, rng *rand.Rand) time.Duration {
	base := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if max := float64(p.MaxDelay); base > max {
		base = max
	}
	if p.JitterFraction > 0 && rng != nil {
		// uniform in [1-j, 1+j]
		factor := 1 + p.JitterFraction*(2*rng.Float64()-1)
		base *= factor
	}
	return time.Duration(base)
}
