package store

import (
	"context"
	"sync"

	"github.com/brettbedarf/termfs/filesystem"
)

// MemoryStore keeps a deep copy of the last saved state in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	state *filesystem.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*filesystem.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, ErrNoState
	}
	return copyState(s.state)
}

func (s *MemoryStore) Save(ctx context.Context, state *filesystem.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c, err := copyState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.state = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// copyState deep copies a state through its JSON form
func copyState(state *filesystem.State) (*filesystem.State, error) {
	data, err := encodeState(state)
	if err != nil {
		return nil, err
	}
	return decodeState(data)
}
