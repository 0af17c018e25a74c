package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/brettbedarf/termfs/filesystem"
	"github.com/brettbedarf/termfs/internal/mocks"
	"github.com/brettbedarf/termfs/requests"
	"github.com/brettbedarf/termfs/shell"
	"github.com/brettbedarf/termfs/store"
)

func newEmptyStore() *mocks.MockStateStore {
	st := &mocks.MockStateStore{}
	st.On("Load", mock.Anything).Return(nil, store.ErrNoState)
	return st
}

func openDefault(t *testing.T, cfg *config.Config, st store.StateStore) *Session {
	t.Helper()
	s, err := Open(context.Background(), cfg, st, nil, "guest")
	require.NoError(t, err)
	return s
}

func TestNew_Username(t *testing.T) {
	t.Parallel()

	fs := filesystem.NewFS(nil)
	for _, user := range []string{"", "bad name", "waytoolongname", ".."} {
		_, err := New(nil, fs, user)
		assert.Error(t, err, "%q", user)
	}
	s, err := New(nil, fs, "ok-user")
	require.NoError(t, err)
	assert.Equal(t, "ok-user", s.User())
	assert.Equal(t, "[ok-user@computer ] $ ", s.Prompt())
}

func TestOpen_BuildsSeedWithoutSavedState(t *testing.T) {
	t.Parallel()

	st := newEmptyStore()
	s := openDefault(t, nil, st)

	st.AssertExpectations(t)
	assert.Equal(t, "[guest@computer guest] $ ", s.Prompt())
	assert.Equal(t, "/home/guest", s.Exec("pwd").Output)
}

func TestOpen_CustomSeed(t *testing.T) {
	t.Parallel()

	seed := &requests.Tree{Nodes: []*termfs.NodeRequest{
		{Path: "/srv/app", Type: termfs.DirNodeType, Current: true},
	}}
	cfg := config.NewDefaultConfig()
	cfg.Hostname = "box"
	s, err := Open(context.Background(), cfg, newEmptyStore(), seed, "ops")
	require.NoError(t, err)
	assert.Equal(t, "[ops@box app] $ ", s.Prompt())
}

func TestOpen_RestoresSavedState(t *testing.T) {
	t.Parallel()

	fs, err := requests.DefaultTree().Build(nil)
	require.NoError(t, err)
	_, err = fs.MakeDirectory("saved")
	require.NoError(t, err)
	_, err = fs.ChangeLocation("saved")
	require.NoError(t, err)

	st := &mocks.MockStateStore{}
	st.On("Load", mock.Anything).Return(fs.Snapshot(), nil)

	s := openDefault(t, nil, st)
	assert.Equal(t, "/home/guest/saved", s.Exec("pwd").Output)
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	t.Run("load failure", func(t *testing.T) {
		t.Parallel()
		st := &mocks.MockStateStore{}
		st.On("Load", mock.Anything).Return(nil, errors.New("disk on fire"))
		_, err := Open(context.Background(), nil, st, nil, "guest")
		assert.ErrorContains(t, err, "disk on fire")
	})
	t.Run("corrupt state", func(t *testing.T) {
		t.Parallel()
		st := &mocks.MockStateStore{}
		st.On("Load", mock.Anything).Return(&filesystem.State{Root: filesystem.NodeState{Type: termfs.FileNodeType}}, nil)
		_, err := Open(context.Background(), nil, st, nil, "guest")
		assert.ErrorContains(t, err, "restore")
	})
	t.Run("bad seed", func(t *testing.T) {
		t.Parallel()
		seed := &requests.Tree{Nodes: []*termfs.NodeRequest{{Path: "/a b", Type: termfs.DirNodeType}}}
		_, err := Open(context.Background(), nil, newEmptyStore(), seed, "guest")
		assert.True(t, termfs.IsKind(err, termfs.NameError))
	})
}

func TestExec_EditAndSubmit(t *testing.T) {
	t.Parallel()

	s := openDefault(t, nil, newEmptyStore())
	s.Exec("touch draft")

	resp := s.Exec("edit draft")
	require.Equal(t, termfs.Editor, resp.Goto)
	require.NoError(t, s.SubmitEdit(resp.Editing, "v2"))
	assert.Equal(t, termfs.Response{Output: "v2", Goto: termfs.Reader, Name: "draft"}, s.Exec("read draft"))

	assert.True(t, termfs.IsKind(s.SubmitEdit("welcome.txt", "x"), termfs.EditError))
}

func TestExec_CustomRegistry(t *testing.T) {
	t.Parallel()

	r := shell.NewRegistry()
	r.RegisterBuiltins(shell.PwdVerb)
	s, err := Open(context.Background(), nil, newEmptyStore(), nil, "guest", WithRegistry(r))
	require.NoError(t, err)

	assert.Equal(t, "/home/guest", s.Exec("pwd").Output)
	assert.Equal(t, "ERROR: rm is not a valid command", s.Exec("rm welcome.txt").Output)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.HistoryLimit = 3
	s := openDefault(t, cfg, newEmptyStore())

	for _, line := range []string{"pwd", "ls", "cd /", "ls -a", "bogus"} {
		s.Exec(line)
	}
	assert.Equal(t, []string{"cd /", "ls -a", "bogus"}, s.History())
	assert.Equal(t, "cd /\nls -a\nbogus", s.FormatHistory())

	cfg.HistoryLimit = 0
	s = openDefault(t, cfg, newEmptyStore())
	s.Exec("pwd")
	assert.Empty(t, s.History())
}

func TestSaveAndClose(t *testing.T) {
	t.Parallel()

	st := newEmptyStore()
	s := openDefault(t, nil, st)
	s.Exec("mkdir kept")

	st.On("Save", mock.Anything, mock.MatchedBy(func(state *filesystem.State) bool {
		restored, err := filesystem.Restore(state, nil)
		if err != nil {
			return false
		}
		_, err = restored.Lookup("/home/guest/kept")
		return err == nil
	})).Return(nil).Once()
	st.On("Close").Return(nil).Once()

	require.NoError(t, s.Save(context.Background()))
	require.NoError(t, s.Close())
	st.AssertExpectations(t)

	bare, err := New(nil, filesystem.NewFS(nil), "guest")
	require.NoError(t, err)
	assert.NoError(t, bare.Save(context.Background()))
	assert.NoError(t, bare.Close())
}

func TestServe(t *testing.T) {
	t.Parallel()

	st := newEmptyStore()
	st.On("Save", mock.Anything, mock.Anything).Return(nil)
	s := openDefault(t, nil, st)

	script := strings.Join([]string{
		"mkdir foo",
		"cd foo",
		"pwd",
		"touch note",
		"edit note",
		"line one",
		"line two",
		".",
		"read note",
		"rm /etc",
		"history",
		"exit",
		"pwd",
	}, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), strings.NewReader(script), &out))

	got := out.String()
	assert.Contains(t, got, "[guest@computer guest] $ ")
	assert.Contains(t, got, "[guest@computer foo] $ /home/guest/foo\n")
	assert.Contains(t, got, "--- new contents ---\n")
	assert.Contains(t, got, "--- note ---\nline one\nline two\n--- end of note ---\n")
	assert.Contains(t, got, "ERROR: etc is system protected and cannot be removed\n")
	assert.Contains(t, got, "mkdir foo\ncd foo\npwd\ntouch note\nedit note\nread note\nrm /etc\n")
	assert.Equal(t, 1, strings.Count(got, "/home/guest/foo\n"), "nothing runs after exit")

	st.AssertNumberOfCalls(t, "Save", 7)
}

func TestServe_EOFAndErrors(t *testing.T) {
	t.Parallel()

	t.Run("eof", func(t *testing.T) {
		t.Parallel()
		s := openDefault(t, nil, newEmptyStore())
		var out bytes.Buffer
		require.NoError(t, s.Serve(context.Background(), strings.NewReader(""), &out))
		assert.Equal(t, "[guest@computer guest] $ \n", out.String())
	})
	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		s := openDefault(t, nil, newEmptyStore())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := s.Serve(ctx, strings.NewReader("pwd\n"), &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("save failure", func(t *testing.T) {
		t.Parallel()
		st := newEmptyStore()
		st.On("Save", mock.Anything, mock.Anything).Return(errors.New("read-only"))
		s := openDefault(t, nil, st)
		err := s.Serve(context.Background(), strings.NewReader("pwd\n"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to save session")
	})
	t.Run("rejected edit", func(t *testing.T) {
		t.Parallel()
		st := newEmptyStore()
		st.On("Save", mock.Anything, mock.Anything).Return(nil)
		s := openDefault(t, nil, st)
		var out bytes.Buffer
		require.NoError(t, s.Serve(context.Background(), strings.NewReader("edit welcome.txt\n"), &out))
		assert.Contains(t, out.String(), "ERROR: You lack permission to edit welcome.txt\n")
	})
}
