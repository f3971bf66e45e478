package profile

import (
	"time"

	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

// WorkoutSummary is one recent completed workout.
type WorkoutSummary struct {
	Name            string
	CompletedAt     *time.Time
	DurationMinutes int
}

// UserContext is the read-only profile snapshot the pipeline works
// from: identity, goals, tier, and the safety constraints that must
// shape any coaching answer.
type UserContext struct {
	FirstName           string
	Language            string
	FitnessGoal         string
	FitnessLevel        string
	HeightCm            float64
	CurrentWeightKg     float64
	TargetWeightKg      float64
	Gender              string
	Tier                quota.Tier
	RecentWorkouts      []WorkoutSummary
	ActivePlanName      string
	Injuries            []string
	DietaryRestrictions []string
	Equipment           []string
}
