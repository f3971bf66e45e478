package quota

import (
	"errors"
	"time"
)

// Tier is a user's subscription level.
type Tier string

const (
	TierFree        Tier = "FREE"
	TierPremium     Tier = "PREMIUM"
	TierPremiumPlus Tier = "PREMIUM_PLUS"
)

// FeatureAIQueries identifies the metered chat resolution feature.
const FeatureAIQueries = "ai_queries"

// Unlimited is the daily limit sentinel for tiers with no cap.
const Unlimited = -1

// ErrQuotaExceeded is returned when a user has spent their daily allowance.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// DailyLimit returns the number of metered requests a tier may make per day.
// Unknown tiers are treated as free.
func DailyLimit(t Tier) int {
	switch t {
	case TierPremiumPlus:
		return Unlimited
	case TierPremium:
		return 50
	default:
		return 5
	}
}

// ParseTier normalizes a raw subscription string from storage into a Tier.
func ParseTier(raw string) Tier {
	switch Tier(raw) {
	case TierPremium:
		return TierPremium
	case TierPremiumPlus:
		return TierPremiumPlus
	default:
		return TierFree
	}
}

// Record is one user's usage counter for one feature on one day.
type Record struct {
	UserID     string
	Feature    string
	Day        string // YYYY-MM-DD in server-local time
	UsedCount  int
	LimitHitAt *time.Time
}

// Usage is a read-only snapshot reported to callers.
type Usage struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}
