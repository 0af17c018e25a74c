package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brettbedarf/termfs/filesystem"
)

// MockStateStore implements store.StateStore for testing across packages
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Load(ctx context.Context) (*filesystem.State, error) {
	args := m.Called(ctx)

	// Handle function return types (for tests that build state lazily)
	if fn, ok := args.Get(0).(func(context.Context) *filesystem.State); ok {
		return fn(ctx), args.Error(1)
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filesystem.State), args.Error(1)
}

func (m *MockStateStore) Save(ctx context.Context, state *filesystem.State) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockStateStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
