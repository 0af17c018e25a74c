package filesystem

import (
	"testing"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// createTestFS builds the tree used by most tests:
//
//	/                      root (id 0)
//	├── home               system
//	│   └── guest          system, home + current
//	│       ├── notes.txt  system file "hello"
//	│       └── diary      user dir
//	│           └── day1   user file "dear diary"
//	├── etc                system
//	│   ├── passwd         system file
//	│   └── .secret        hidden file
//	└── quiz               user dir
//	    └── q1.question
func createTestFS(t *testing.T) *FileSystem {
	t.Helper()
	fs := NewFS(nil)
	root := fs.Root()

	home := mustDir(t)(fs.AddDirectory(root, "home"))
	guest := mustDir(t)(fs.AddDirectory(home, "guest"))
	fs.SetHomeLocation(guest)
	fs.SetCurrentLocation(guest)
	_, err := fs.AddFile(guest, "notes.txt", "hello")
	require.NoError(t, err)
	diary := mustDir(t)(fs.AddUserDirectory(guest, "diary"))
	day1, err := fs.AddUserFile(diary, "day1")
	require.NoError(t, err)
	require.NoError(t, fs.EditContents("diary/day1", "dear diary"))
	require.Equal(t, "dear diary", day1.Contents())

	etc := mustDir(t)(fs.AddDirectory(root, "etc"))
	_, err = fs.AddFile(etc, "passwd", "guest:x:1000")
	require.NoError(t, err)
	_, err = fs.AddHiddenFile(etc, ".secret", "42")
	require.NoError(t, err)

	quiz := mustDir(t)(fs.AddUserDirectory(root, "quiz"))
	_, err = fs.AddQuestionFile(quiz, "q1")
	require.NoError(t, err)

	require.NoError(t, fs.Validate())
	return fs
}

func mustDir(t *testing.T) func(*Directory, error) *Directory {
	return func(d *Directory, err error) *Directory {
		t.Helper()
		require.NoError(t, err)
		return d
	}
}

// mustLookup returns the node at an absolute path
func mustLookup(t *testing.T, fs *FileSystem, path string) Node {
	t.Helper()
	n, err := fs.Lookup(path)
	require.NoError(t, err, "lookup %s", path)
	return n
}

func requireKind(t *testing.T, err error, kind termfs.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, termfs.KindOf(err), "unexpected error: %v", err)
}

// requireUnchanged fails if fs no longer matches the snapshot taken before
func requireUnchanged(t *testing.T, before *State, fs *FileSystem) {
	t.Helper()
	if diff := cmp.Diff(before, fs.Snapshot(), cmpopts.IgnoreFields(State{}, "Revision")); diff != "" {
		t.Fatalf("tree changed (-before +after):\n%s", diff)
	}
}

func testConfig() *config.Config {
	cfg := config.NewDefaultConfig()
	cfg.RootName = "root"
	return cfg
}
