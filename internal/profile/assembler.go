package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Abdellatifemara/Forma-sub000/internal/quota"
)

// Assembler loads user context snapshots from PostgreSQL. It only
// reads; missing rows degrade to defaults rather than errors, so a
// half-filled profile still produces a usable context.
type Assembler struct {
	db *pgxpool.Pool
}

// NewAssembler creates a context assembler on the given pool.
func NewAssembler(db *pgxpool.Pool) *Assembler {
	return &Assembler{db: db}
}

// Load gathers the user's profile, tier, recent workouts, active plan,
// and safety constraints into one snapshot.
func (a *Assembler) Load(ctx context.Context, userID string) (*UserContext, error) {
	uc := &UserContext{
		FirstName:    "User",
		Language:     "en",
		FitnessLevel: "BEGINNER",
		Tier:         quota.TierFree,
	}

	err := a.db.QueryRow(ctx, userSQL, userID).Scan(
		&uc.FirstName, &uc.Language, &uc.FitnessGoal, &uc.FitnessLevel,
		&uc.HeightCm, &uc.CurrentWeightKg, &uc.TargetWeightKg, &uc.Gender)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var rawTier string
	err = a.db.QueryRow(ctx, tierSQL, userID).Scan(&rawTier)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	uc.Tier = quota.ParseTier(rawTier)

	rows, err := a.db.Query(ctx, recentWorkoutsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent workouts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w WorkoutSummary
		if err := rows.Scan(&w.Name, &w.CompletedAt, &w.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		uc.RecentWorkouts = append(uc.RecentWorkouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workouts: %w", err)
	}

	err = a.db.QueryRow(ctx, activePlanSQL, userID).Scan(&uc.ActivePlanName)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to load active plan: %w", err)
	}

	var injuries, allergies, conditions []string
	err = a.db.QueryRow(ctx, preferencesSQL, userID).Scan(&injuries, &allergies, &conditions)
	if err != nil && err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	uc.Injuries = append(injuries, conditions...)
	uc.DietaryRestrictions = allergies

	eqRows, err := a.db.Query(ctx, equipmentSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}
	defer eqRows.Close()
	for eqRows.Next() {
		var eq string
		if err := eqRows.Scan(&eq); err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		uc.Equipment = append(uc.Equipment, strings.ToLower(strings.ReplaceAll(eq, "_", " ")))
	}
	if err := eqRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read equipment: %w", err)
	}

	return uc, nil
}
