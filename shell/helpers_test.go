package shell

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/filesystem"
)

// newTestFS seeds a small tree with the user standing in /home/guest:
//
//	/home/guest/notes.txt   system file
//	/home/guest/diary/day1  user file
//	/etc/passwd, /etc/.secret (hidden)
//	/quiz/q1.question
func newTestFS(t *testing.T) *filesystem.FileSystem {
	t.Helper()
	fs := filesystem.NewFS(nil)
	reqs := []*termfs.NodeRequest{
		{Path: "/home/guest", Type: termfs.DirNodeType, Home: true, Current: true},
		{Path: "/home/guest/notes.txt", Type: termfs.FileNodeType, Contents: "hello"},
		{Path: "/home/guest/diary", Type: termfs.DirNodeType, Kind: termfs.UserKind},
		{Path: "/home/guest/diary/day1", Type: termfs.FileNodeType, Kind: termfs.UserKind, Contents: "dear diary"},
		{Path: "/etc/passwd", Type: termfs.FileNodeType, Contents: "guest:x:1000"},
		{Path: "/etc/.secret", Type: termfs.FileNodeType, Kind: termfs.HiddenKind, Contents: "42"},
		{Path: "/quiz", Type: termfs.DirNodeType, Kind: termfs.UserKind},
		{Path: "/quiz/q1", Type: termfs.QuestionNodeType},
	}
	for _, req := range reqs {
		_, err := fs.AddNode(req)
		require.NoError(t, err, "seed %s", req.Path)
	}
	require.NoError(t, fs.Validate())
	return fs
}

// run processes each line in order and returns the last response
func run(t *testing.T, fs *filesystem.FileSystem, lines ...string) termfs.Response {
	t.Helper()
	var resp termfs.Response
	for _, l := range lines {
		resp = Process(fs, l)
	}
	return resp
}

func requireUnchanged(t *testing.T, before *filesystem.State, fs *filesystem.FileSystem) {
	t.Helper()
	if diff := cmp.Diff(before, fs.Snapshot(), cmpopts.IgnoreFields(filesystem.State{}, "Revision")); diff != "" {
		t.Fatalf("tree changed (-before +after):\n%s", diff)
	}
}
