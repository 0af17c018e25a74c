package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/termfs/filesystem"
	"github.com/brettbedarf/termfs/internal/util"
)

// FileStore keeps the state in one YAML (.yaml, .yml) or JSON (.json) file.
type FileStore struct {
	path string
	json bool
}

// NewFileStore returns a store for path. The file does not need to exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	case ".json":
		s.json = true
	default:
		return nil, fmt.Errorf("unknown state file extension: %s", path)
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) (*filesystem.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, err
	}

	var state filesystem.State
	if s.json {
		err = json.Unmarshal(data, &state)
	} else {
		err = yaml.Unmarshal(data, &state)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file %s: %w", s.path, err)
	}
	return &state, nil
}

// Save writes state to a temporary file next to the target and renames it
// into place, so readers never see a partial write.
func (s *FileStore) Save(ctx context.Context, state *filesystem.State) error {
	logger := util.GetLogger("Store.Save")

	if err := ctx.Err(); err != nil {
		return err
	}
	var data []byte
	var err error
	if s.json {
		data, err = json.MarshalIndent(state, "", "  ")
	} else {
		data, err = yaml.Marshal(state)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create a temporary state file: %w", err)
	}
	if err := func() error {
		defer tmp.Close()
		_, err := tmp.Write(data)
		return err
	}(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("unable to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("unable to replace state file: %w", err)
	}
	logger.Debug().Str("path", s.path).Str("revision", state.Revision).Msg("Saved state")
	return nil
}

func (s *FileStore) Close() error { return nil }
