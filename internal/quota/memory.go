package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with in-process state. Suitable for
// tests and single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory quota store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func key(userID, feature, day string) string {
	return userID + "|" + feature + "|" + day
}

// Increment bumps the counter under the store mutex, refusing once the
// limit is spent. The bump that reaches the limit keeps the first
// limit-hit stamp.
func (s *MemoryStore) Increment(_ context.Context, userID, feature, day string, limit int, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(userID, feature, day)
	rec, ok := s.records[k]
	if !ok {
		rec = &Record{UserID: userID, Feature: feature, Day: day}
		s.records[k] = rec
	}

	if limit != Unlimited && rec.UsedCount >= limit {
		return rec.UsedCount, ErrQuotaExceeded
	}

	rec.UsedCount++
	if limit != Unlimited && rec.UsedCount >= limit && rec.LimitHitAt == nil {
		stamp := at
		rec.LimitHitAt = &stamp
	}
	return rec.UsedCount, nil
}

// Get returns a copy of the record, zero-valued when absent.
func (s *MemoryStore) Get(_ context.Context, userID, feature, day string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[key(userID, feature, day)]; ok {
		copied := *rec
		return &copied, nil
	}
	return &Record{UserID: userID, Feature: feature, Day: day}, nil
}
