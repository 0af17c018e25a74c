// Package session hosts one user's tree: it runs command lines against it,
// accepts edited file contents back from the editor view, and persists the
// tree through a [store.StateStore].
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/brettbedarf/termfs/filesystem"
	"github.com/brettbedarf/termfs/internal/util"
	"github.com/brettbedarf/termfs/requests"
	"github.com/brettbedarf/termfs/shell"
	"github.com/brettbedarf/termfs/store"
)

// Session is not safe for concurrent use; a host runs one command at a time.
type Session struct {
	fs      *filesystem.FileSystem
	cfg     *config.Config
	store   store.StateStore
	shell   *shell.Registry
	user    string
	history []string
}

// Option customizes a [Session].
type Option func(*Session)

// WithStore persists the tree through st.
func WithStore(st store.StateStore) Option {
	return func(s *Session) { s.store = st }
}

// WithRegistry replaces the built-in verbs.
func WithRegistry(r *shell.Registry) Option {
	return func(s *Session) { s.shell = r }
}

// New creates a session for user on an existing tree.
func New(cfg *config.Config, fs *filesystem.FileSystem, user string, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = fs.Config()
	}
	if !shell.ValidUsername(user, cfg.MaxUsernameLen) {
		return nil, fmt.Errorf("invalid username %q: use at most %d word characters, '.' or '-'", user, cfg.MaxUsernameLen)
	}
	s := &Session{fs: fs, cfg: cfg, user: user}
	for _, opt := range opts {
		opt(s)
	}
	if s.shell == nil {
		s.shell = shell.NewRegistry()
		s.shell.RegisterBuiltins()
	}
	return s, nil
}

// Open restores the tree saved in st, or builds seed if nothing has been
// saved yet. A nil seed falls back to [requests.DefaultTree].
func Open(ctx context.Context, cfg *config.Config, st store.StateStore, seed *requests.Tree, user string, opts ...Option) (*Session, error) {
	logger := util.GetLogger("Session.Open")

	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	state, err := st.Load(ctx)
	var fs *filesystem.FileSystem
	switch {
	case err == nil:
		fs, err = filesystem.Restore(state, cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug().Str("revision", state.Revision).Msg("Restored saved tree")
	case errors.Is(err, store.ErrNoState):
		if seed == nil {
			seed = requests.DefaultTree()
		}
		fs, err = seed.Build(cfg)
		if err != nil {
			return nil, err
		}
		logger.Debug().Int("nodes", len(seed.Nodes)).Msg("Built tree from seed")
	default:
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return New(cfg, fs, user, append([]Option{WithStore(st)}, opts...)...)
}

func (s *Session) FS() *filesystem.FileSystem { return s.fs }

func (s *Session) User() string { return s.user }

// Exec runs one command line and records it in the history.
func (s *Session) Exec(line string) termfs.Response {
	logger := util.GetLogger("Session.Exec")
	s.remember(line)
	resp := s.shell.Process(s.fs, line)
	logger.Trace().Str("line", line).Str("goto", string(resp.Goto)).Msg("Command ran")
	return resp
}

// SubmitEdit stores the text returned by the editor view for the file opened
// by an earlier edit command. editing is that response's Editing field.
func (s *Session) SubmitEdit(editing, text string) error {
	return s.fs.EditContents(editing, text)
}

// Prompt renders the prompt for the session's current location
func (s *Session) Prompt() string {
	return shell.Prompt(s.user, s.cfg.Hostname, s.fs.PromptWD())
}

// History returns the remembered command lines, oldest first.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// FormatHistory joins the history one command per line.
func (s *Session) FormatHistory() string {
	return strings.Join(s.history, "\n")
}

func (s *Session) remember(line string) {
	limit := s.cfg.HistoryLimit
	if limit <= 0 {
		return
	}
	if len(s.history) >= limit {
		s.history = append(s.history[:0], s.history[len(s.history)-limit+1:]...)
	}
	s.history = append(s.history, line)
}

// Save snapshots the tree into the session's store. It is a no-op without one.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(ctx, s.fs.Snapshot())
}

// Close releases the session's store.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
