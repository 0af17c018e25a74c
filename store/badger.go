package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/brettbedarf/termfs/filesystem"
	"github.com/brettbedarf/termfs/internal/util"
)

// DefaultSlot is the save slot used when none is configured
const DefaultSlot = "default"

// BadgerStoreConfig configures a [BadgerStore].
type BadgerStoreConfig struct {
	// DBPath is the database directory. Ignored when InMemory is set.
	DBPath string
	// Slot selects which saved tree this store reads and writes (Default "default")
	Slot string
	// InMemory keeps the database in memory only
	InMemory bool
}

// BadgerStore keeps states in a BadgerDB database, one per save slot.
//
// Key layout:
//
//	s:<slot>  State (JSON)
type BadgerStore struct {
	db   *badger.DB
	slot string
}

// NewBadgerStore opens (or creates) the database described by cfg.
func NewBadgerStore(ctx context.Context, cfg BadgerStoreConfig) (*BadgerStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.DBPath)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLoggingLevel(badger.WARNING)
	opts = opts.WithCompression(options.None)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", cfg.DBPath, err)
	}
	slot := cfg.Slot
	if slot == "" {
		slot = DefaultSlot
	}
	return &BadgerStore{db: db, slot: slot}, nil
}

func keySlot(slot string) []byte {
	return []byte("s:" + slot)
}

func (s *BadgerStore) Slot() string { return s.slot }

func (s *BadgerStore) Load(ctx context.Context) (*filesystem.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var state *filesystem.State
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keySlot(s.slot))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoState
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			state, err = decodeState(val)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *BadgerStore) Save(ctx context.Context, state *filesystem.State) error {
	logger := util.GetLogger("Store.Badger.Save")

	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keySlot(s.slot), data)
	}); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	logger.Debug().Str("slot", s.slot).Str("revision", state.Revision).Msg("Saved state")
	return nil
}

// Slots lists every save slot present in the database, in key order.
func (s *BadgerStore) Slots(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var slots []string
	prefix := []byte("s:")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			slots = append(slots, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return slots, err
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func encodeState(state *filesystem.State) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*filesystem.State, error) {
	var state filesystem.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}
