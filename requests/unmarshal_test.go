package requests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/brettbedarf/termfs/internal/util"
)

const seedYAML = `
root: mainframe
nodes:
  - path: /home/guest
    home: true
    current: true
  - path: /home/guest/notes.txt
    contents: hello
  - path: /home/guest/diary
    kind: user
  - path: /vault/.key
    kind: hidden
    contents: "1234"
    perms: {read: false}
  - path: /quiz/q1
    type: question
`

const seedJSON = `{
  "root": "mainframe",
  "nodes": [
    {"path": "/home/guest", "home": true, "current": true},
    {"path": "/home/guest/notes.txt", "contents": "hello"},
    {"path": "/home/guest/diary", "kind": "user"},
    {"path": "/vault/.key", "kind": "hidden", "contents": "1234", "perms": {"read": false}},
    {"path": "/quiz/q1", "type": "question"}
  ]
}`

func expectedSeed() *Tree {
	return &Tree{
		RootName: util.Pointer("mainframe"),
		Nodes: []*termfs.NodeRequest{
			{Path: "/home/guest", Type: termfs.DirNodeType, Kind: termfs.SystemKind, Home: true, Current: true},
			{Path: "/home/guest/notes.txt", Type: termfs.FileNodeType, Kind: termfs.SystemKind, Contents: "hello"},
			{Path: "/home/guest/diary", Type: termfs.DirNodeType, Kind: termfs.UserKind},
			{Path: "/vault/.key", Type: termfs.FileNodeType, Kind: termfs.HiddenKind, Contents: "1234", Perms: map[string]bool{"read": false}},
			{Path: "/quiz/q1", Type: termfs.QuestionNodeType, Kind: termfs.SystemKind},
		},
	}
}

func TestUnmarshalTree(t *testing.T) {
	t.Parallel()

	for format, data := range map[Format]string{YAMLFormat: seedYAML, JSONFormat: seedJSON} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			tree, err := UnmarshalTree([]byte(data), format)
			require.NoError(t, err)
			assert.Equal(t, expectedSeed(), tree)
		})
	}
}

func TestUnmarshalTree_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		errMsg string
	}{
		{"missing path", `nodes: [{kind: user}]`, "Path"},
		{"bad type", `nodes: [{path: /a, type: link}]`, "oneof"},
		{"bad kind", `nodes: [{path: /a, kind: admin}]`, "oneof"},
		{"bad perm", `nodes: [{path: /a, perms: {execute: true}}]`, "oneof"},
		{"not yaml", `nodes: [`, "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := UnmarshalTree([]byte(tt.data), YAMLFormat)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := UnmarshalTree([]byte(seedJSON), Format("toml"))
	assert.Error(t, err)
}

func TestLoadTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, data := range map[string]string{"seed.yml": seedYAML, "seed.yaml": seedYAML, "seed.json": seedJSON} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
		tree, err := LoadTree(path)
		require.NoError(t, err, name)
		assert.Equal(t, expectedSeed(), tree, name)
	}

	_, err := LoadTree(filepath.Join(dir, "seed.txt"))
	assert.ErrorContains(t, err, "unknown seed file extension")
	_, err = LoadTree(filepath.Join(dir, "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestTree_Build(t *testing.T) {
	t.Parallel()

	tree, err := UnmarshalTree([]byte(seedYAML), YAMLFormat)
	require.NoError(t, err)
	fs, err := tree.Build(nil)
	require.NoError(t, err)
	require.NoError(t, fs.Validate())

	assert.Equal(t, "mainframe", fs.Root().Name())
	assert.Equal(t, "guest", fs.PromptWD())
	assert.Same(t, fs.HomeLocation(), fs.CurrentLocation())
	p, err := fs.WorkingPath(fs.CurrentLocation())
	require.NoError(t, err)
	assert.Equal(t, "/mainframe/home/guest", p)

	key, err := fs.Lookup("/vault/.key")
	require.NoError(t, err)
	assert.False(t, key.Permissions().Read)
	assert.False(t, key.Permissions().Visible)

	q, err := fs.Lookup("/quiz/q1.question")
	require.NoError(t, err)
	assert.True(t, q.Permissions().Question)

	diary, err := fs.Lookup("diary")
	require.NoError(t, err)
	assert.True(t, diary.Permissions().Delete)
}

func TestTree_BuildKeepsConfiguredRoot(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()
	cfg.RootName = "disk"
	fs, err := (&Tree{Nodes: []*termfs.NodeRequest{{Path: "/a", Type: termfs.DirNodeType}}}).Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, "disk", fs.Root().Name())

	fs, err = (&Tree{RootName: util.Pointer("other")}).Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, "other", fs.Root().Name())
	assert.Equal(t, "disk", cfg.RootName, "caller's config is not modified")
}

func TestTree_BuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		reqs []*termfs.NodeRequest
		kind termfs.ErrorKind
	}{
		{"duplicate file", []*termfs.NodeRequest{
			{Path: "/a", Type: termfs.FileNodeType},
			{Path: "/A", Type: termfs.FileNodeType},
		}, termfs.DuplicateChildError},
		{"through a file", []*termfs.NodeRequest{
			{Path: "/a", Type: termfs.FileNodeType},
			{Path: "/a/b", Type: termfs.FileNodeType},
		}, termfs.CDError},
		{"illegal name", []*termfs.NodeRequest{
			{Path: "/a b", Type: termfs.DirNodeType},
		}, termfs.NameError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := (&Tree{Nodes: tt.reqs}).Build(nil)
			require.Error(t, err)
			assert.True(t, termfs.IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestDefaultTree(t *testing.T) {
	t.Parallel()

	fs, err := DefaultTree().Build(nil)
	require.NoError(t, err)
	require.NoError(t, fs.Validate())
	require.NotNil(t, fs.CurrentLocation())
	assert.Equal(t, "guest", fs.PromptWD())

	welcome, err := fs.ReadContents("welcome.txt")
	require.NoError(t, err)
	assert.Contains(t, welcome, "man")
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]Format{"a.yaml": YAMLFormat, "b.YML": YAMLFormat, "c.json": JSONFormat} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("d.toml")
	assert.Error(t, err)
}
