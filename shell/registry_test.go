package shell

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/filesystem"
)

func constHandler(out string) Handler {
	return func(*filesystem.FileSystem, []string) (termfs.Response, error) {
		return termfs.Response{Output: out, Goto: termfs.CommandLine}, nil
	}
}

func TestRegister_SingleVerb(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("hello", constHandler("hi"))

	h, err := r.Handler("hello")
	require.NoError(t, err)
	resp, err := h(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Output)
}

func TestRegister_CaseInsensitive(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("Hello", constHandler("hi"))

	_, err := r.Handler("HELLO")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, r.Verbs())
}

func TestRegister_DuplicateVerb(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("test", constHandler("first"))
	r.Register("test", constHandler("second"))

	h, err := r.Handler("test")
	require.NoError(t, err)
	resp, _ := h(nil, nil)
	assert.Equal(t, "first", resp.Output)
}

func TestRegister_Concurrent(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	r := NewRegistry()

	for i := range 100 {
		wg.Go(func() {
			verb := fmt.Sprintf("verb%d", i)
			r.Register(verb, constHandler(verb))
			h, err := r.Handler(verb)
			assert.NoError(t, err)
			if h != nil {
				resp, _ := h(nil, nil)
				assert.Equal(t, verb, resp.Output)
			}
		})
	}
	wg.Wait()
	assert.Len(t, r.Verbs(), 100)
}

func TestHandler_Unregistered(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Handler("Nope")
	require.Error(t, err)
	assert.True(t, termfs.IsKind(err, termfs.InvalidCommandError))
	assert.Equal(t, "nope is not a valid command", err.Error())
}

func TestRegisterBuiltins(t *testing.T) {
	t.Parallel()

	all := NewRegistry()
	all.RegisterBuiltins()
	assert.Equal(t, []string{"cd", "cp", "edit", "ls", "man", "mkdir", "mv", "pwd", "read", "rm", "touch"}, all.Verbs())

	readOnly := NewRegistry()
	readOnly.RegisterBuiltins(PwdVerb, LsVerb, CdVerb, ReadVerb, "bogus")
	assert.Equal(t, []string{"cd", "ls", "pwd", "read"}, readOnly.Verbs())

	fs := newTestFS(t)
	before := fs.Snapshot()
	assert.Equal(t, "ERROR: rm is not a valid command", readOnly.Process(fs, "rm diary").Output)
	assert.Equal(t, "/home/guest", readOnly.Process(fs, "pwd").Output)
	requireUnchanged(t, before, fs)
}

func TestProcess_CustomVerbErrors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("fail", func(*filesystem.FileSystem, []string) (termfs.Response, error) {
		return termfs.Response{Output: "partial"}, termfs.NewError(termfs.FindError, "thing")
	})

	resp := r.Process(newTestFS(t), "fail")
	assert.Equal(t, termfs.Response{Output: "ERROR: thing does not exist", Goto: termfs.CommandLine}, resp)
}
