package sweep

import (
	"context"
	"sync"

	"github.com/Setheum-Labs/Setheum-sub001/internal/auction"
)

// Checkpoint is the persisted resume point of an interrupted scan.
type Checkpoint struct {
	Kind   auction.Kind
	Cursor uint64
}

// CheckpointStore persists the scan cursor between sweep invocations so a
// budget-bounded scan resumes where it stopped instead of re-examining the
// same ids.
type CheckpointStore interface {
	Load(ctx context.Context) (Checkpoint, bool, error)
	Save(ctx context.Context, cp Checkpoint) error
	Clear(ctx context.Context) error
}

// MemoryCheckpointStore keeps the cursor in-process.
type MemoryCheckpointStore struct {
	mu  sync.Mutex
	cp  Checkpoint
	set bool
}

func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{}
}

func (s *MemoryCheckpointStore) Load(ctx context.Context) (Checkpoint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cp, s.set, nil
}

func (s *MemoryCheckpointStore) Save(ctx context.Context, cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cp = cp
	s.set = true
	return nil
}

func (s *MemoryCheckpointStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cp = Checkpoint{}
	s.set = false
	return nil
}
