// Package store persists filesystem [filesystem.State] snapshots between
// runs of a host.
package store

import (
	"context"
	"errors"

	"github.com/brettbedarf/termfs/filesystem"
)

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("no saved state")

// StateStore saves and loads a single tree state.
//
// Implementations must be safe for concurrent use.
type StateStore interface {
	// Load returns the last saved state, or ErrNoState.
	Load(ctx context.Context) (*filesystem.State, error)
	// Save replaces the saved state.
	Save(ctx context.Context, state *filesystem.State) error
	// Close releases any resources held by the store.
	Close() error
}
