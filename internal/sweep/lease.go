package sweep

import (
	"context"
	"sync"
	"time"
)

// LeaseStore is the time-bounded mutual-exclusion primitive guarding the
// sweep. Acquire succeeds for at most one holder per ttl window; a held lease
// is never released early, it simply expires. That terminal "forget" state is
// what bounds duplicate scans across independent executions.
type LeaseStore interface {
	Acquire(ctx context.Context, name string, now time.Time, ttl time.Duration) (bool, error)
}

// MemoryLeaseStore is the single-process implementation used by the daemon
// when no shared Postgres lease is configured, and by the tests.
type MemoryLeaseStore struct {
	mu     sync.Mutex
	expiry map[string]time.Time
}

func NewMemoryLeaseStore() *MemoryLeaseStore {
	return &MemoryLeaseStore{
		expiry: make(map[string]time.Time),
	}
}

func (s *MemoryLeaseStore) Acquire(ctx context.Context, name string, now time.Time, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if until, ok := s.expiry[name]; ok && now.Before(until) {
		return false, nil
	}
	s.expiry[name] = now.Add(ttl)
	return true, nil
}
