package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createTableSQL = `
		CREATE TABLE IF NOT EXISTS feature_usage (
			user_id TEXT NOT NULL,
			feature TEXT NOT NULL,
			day DATE NOT NULL,
			used_count INTEGER NOT NULL DEFAULT 0,
			limit_hit_at TIMESTAMP WITH TIME ZONE,
			PRIMARY KEY (user_id, feature, day)
		);
	`

	// the WHERE clause on the conflict update makes the
	// read-check-increment a single atomic statement: when the
	// allowance is spent the update matches no row and RETURNING
	// yields nothing. The bump that reaches the limit stamps
	// limit_hit_at in the same statement, and the COALESCE keeps the
	// first stamp.
	incrementSQL = `
		INSERT INTO feature_usage (user_id, feature, day, used_count, limit_hit_at)
		VALUES ($1, $2, $3, 1, CASE WHEN 1 >= $4 THEN $5::timestamptz END)
		ON CONFLICT (user_id, feature, day) DO UPDATE
			SET used_count = feature_usage.used_count + 1,
				limit_hit_at = CASE
					WHEN feature_usage.used_count + 1 >= $4
						THEN COALESCE(feature_usage.limit_hit_at, $5::timestamptz)
					ELSE feature_usage.limit_hit_at
				END
			WHERE feature_usage.used_count < $4
		RETURNING used_count
	`

	incrementUnlimitedSQL = `
		INSERT INTO feature_usage (user_id, feature, day, used_count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (user_id, feature, day) DO UPDATE
			SET used_count = feature_usage.used_count + 1
		RETURNING used_count
	`

	getSQL = `
		SELECT used_count, limit_hit_at
		FROM feature_usage
		WHERE user_id = $1 AND feature = $2 AND day = $3
	`
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed quota store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Initialize creates the usage table if it doesn't exist.
func (s *PostgresStore) Initialize(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createTableSQL)
	return err
}

// Increment admits, counts, and stamps the limit-hit time in one
// statement. An empty RETURNING set means the conditional update
// matched nothing, so the allowance is spent.
func (s *PostgresStore) Increment(ctx context.Context, userID, feature, day string, limit int, at time.Time) (int, error) {
	var used int
	var err error
	if limit == Unlimited {
		err = s.db.QueryRow(ctx, incrementUnlimitedSQL, userID, feature, day).Scan(&used)
	} else {
		err = s.db.QueryRow(ctx, incrementSQL, userID, feature, day, limit, at).Scan(&used)
	}
	if err == pgx.ErrNoRows {
		return 0, ErrQuotaExceeded
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage: %w", err)
	}
	return used, nil
}

// Get returns the current record, zero-valued when the user has no
// usage for the day.
func (s *PostgresStore) Get(ctx context.Context, userID, feature, day string) (*Record, error) {
	rec := &Record{UserID: userID, Feature: feature, Day: day}
	err := s.db.QueryRow(ctx, getSQL, userID, feature, day).Scan(&rec.UsedCount, &rec.LimitHitAt)
	if err == pgx.ErrNoRows {
		return rec, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read usage: %w", err)
	}
	return rec, nil
}
