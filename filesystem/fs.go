package filesystem

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/brettbedarf/termfs/internal/util"
)

// RootID is the fixed id of every tree's root directory
const RootID uint64 = 0

// FileSystem owns the root directory and the backlink table: one child id to
// parent id entry per non-root node. The table is the only way to ascend the
// tree, so the node graph itself stays acyclic and copies as plain values.
//
// FileSystem is not safe for concurrent use; hosts run one command at a time.
type FileSystem struct {
	cfg       *config.Config
	root      *Directory
	backlinks map[uint64]uint64 // child id -> parent id
	nextID    uint64            // next id to allocate; never decreases
}

// NewFS creates a tree holding only a root directory named cfg.RootName.
// A nil cfg uses the defaults.
func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	root := &Directory{nodeBase: nodeBase{id: RootID, name: cfg.RootName, perms: SystemPermissions()}}
	return &FileSystem{
		cfg:       cfg,
		root:      root,
		backlinks: make(map[uint64]uint64),
		nextID:    RootID + 1,
	}
}

// Config returns the configuration the tree was created with
func (fs *FileSystem) Config() *config.Config {
	return fs.cfg
}

// Root returns the root directory
func (fs *FileSystem) Root() *Directory {
	return fs.root
}

// NextID returns the id the next created node will receive
func (fs *FileSystem) NextID() uint64 {
	return fs.nextID
}

// FindByID searches the tree depth-first for the node with the given id.
func (fs *FileSystem) FindByID(id uint64) (Node, bool) {
	var found Node
	walk(fs.root, func(n Node) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// ParentID returns the id recorded in the backlink table for n's parent.
func (fs *FileSystem) ParentID(n Node) (uint64, bool) {
	id, ok := fs.backlinks[n.ID()]
	return id, ok
}

// GetParent returns n's parent directory via the backlink table.
// The root has no entry and fails with a ParentError.
func (fs *FileSystem) GetParent(n Node) (*Directory, error) {
	pid, ok := fs.backlinks[n.ID()]
	if !ok {
		return nil, termfs.NewError(termfs.ParentError, n.Name())
	}
	p, ok := fs.FindByID(pid)
	if !ok {
		return nil, termfs.NewError(termfs.ParentError, n.Name())
	}
	dir, ok := p.(*Directory)
	if !ok {
		return nil, termfs.NewError(termfs.ParentError, n.Name())
	}
	return dir, nil
}

// GetChild finds a child of dir by case-insensitive name.
func (fs *FileSystem) GetChild(dir *Directory, name string) (Node, error) {
	if c, ok := dir.child(name); ok {
		return c, nil
	}
	return nil, termfs.NewError(termfs.FindError, name)
}

// CurrentLocation returns the directory flagged as the user's location, or
// nil if none has been set yet.
func (fs *FileSystem) CurrentLocation() *Directory {
	return fs.findDir(func(d *Directory) bool { return d.current })
}

// HomeLocation returns the directory flagged as home, or nil if none has been set yet.
func (fs *FileSystem) HomeLocation() *Directory {
	return fs.findDir(func(d *Directory) bool { return d.home })
}

// SetHomeLocation moves the home flag onto dir.
func (fs *FileSystem) SetHomeLocation(dir *Directory) {
	if old := fs.HomeLocation(); old != nil {
		old.home = false
	}
	dir.home = true
}

// SetCurrentLocation moves the current location flag onto dir.
func (fs *FileSystem) SetCurrentLocation(dir *Directory) {
	if old := fs.CurrentLocation(); old != nil {
		old.current = false
	}
	dir.current = true
}

func (fs *FileSystem) findDir(match func(*Directory) bool) *Directory {
	var found *Directory
	walk(fs.root, func(n Node) bool {
		if d, ok := n.(*Directory); ok && match(d) {
			found = d
			return false
		}
		return true
	})
	return found
}

// cwd is the starting point for relative paths; root until a location is set
func (fs *FileSystem) cwd() *Directory {
	if d := fs.CurrentLocation(); d != nil {
		return d
	}
	return fs.root
}

// home is the target of an empty path; root until a home is set
func (fs *FileSystem) home() *Directory {
	if d := fs.HomeLocation(); d != nil {
		return d
	}
	return fs.root
}

// checkLink fails with DuplicateChildError if parent already has a child
// with name under case-insensitive comparison.
func (fs *FileSystem) checkLink(parent *Directory, name string) error {
	if _, exists := parent.child(name); exists {
		return &termfs.Error{Kind: termfs.DuplicateChildError, Parent: parent.name, Name: name}
	}
	return nil
}

// link appends child to parent and records its backlink.
func (fs *FileSystem) link(parent *Directory, child Node) error {
	if err := fs.checkLink(parent, child.Name()); err != nil {
		return err
	}
	parent.children = append(parent.children, child)
	fs.backlinks[child.ID()] = parent.id
	return nil
}

func (fs *FileSystem) allocID() uint64 {
	id := fs.nextID
	fs.nextID++
	return id
}

// truncate caps s to the configured content limit in characters
func (fs *FileSystem) truncate(s string) string {
	limit := fs.cfg.ContentLimit
	if limit <= 0 {
		return s
	}
	// fast path: byte length bounds rune count
	if len(s) <= limit {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// AddDirectory creates a system directory under parent.
func (fs *FileSystem) AddDirectory(parent *Directory, name string) (*Directory, error) {
	if err := fs.checkLink(parent, name); err != nil {
		return nil, err
	}
	dir := &Directory{nodeBase: nodeBase{id: fs.allocID(), name: name, perms: SystemPermissions()}}
	if err := fs.link(parent, dir); err != nil {
		return nil, err
	}
	return dir, nil
}

// AddHiddenDirectory creates a system directory that ls only shows with -a.
func (fs *FileSystem) AddHiddenDirectory(parent *Directory, name string) (*Directory, error) {
	dir, err := fs.AddDirectory(parent, name)
	if err != nil {
		return nil, err
	}
	dir.perms.Visible = false
	return dir, nil
}

// AddUserDirectory creates a directory the user may copy and delete.
func (fs *FileSystem) AddUserDirectory(parent *Directory, name string) (*Directory, error) {
	dir, err := fs.AddDirectory(parent, name)
	if err != nil {
		return nil, err
	}
	dir.perms.Copy = true
	dir.perms.Delete = true
	return dir, nil
}

// AddFile creates a system file under parent. Contents beyond the content
// limit are dropped.
func (fs *FileSystem) AddFile(parent *Directory, name, contents string) (*File, error) {
	if err := fs.checkLink(parent, name); err != nil {
		return nil, err
	}
	f := &File{
		nodeBase: nodeBase{id: fs.allocID(), name: name, perms: SystemPermissions()},
		contents: fs.truncate(contents),
	}
	if err := fs.link(parent, f); err != nil {
		return nil, err
	}
	return f, nil
}

// AddHiddenFile creates a system file that ls only shows with -a.
func (fs *FileSystem) AddHiddenFile(parent *Directory, name, contents string) (*File, error) {
	f, err := fs.AddFile(parent, name, contents)
	if err != nil {
		return nil, err
	}
	f.perms.Visible = false
	return f, nil
}

// AddUserFile creates an empty file the user may copy, delete and edit.
func (fs *FileSystem) AddUserFile(parent *Directory, name string) (*File, error) {
	f, err := fs.AddFile(parent, name, "")
	if err != nil {
		return nil, err
	}
	f.perms.Copy = true
	f.perms.Delete = true
	f.perms.Edit = true
	return f, nil
}

// AddQuestionFile creates baseName+".question", an unreadable quiz artifact.
func (fs *FileSystem) AddQuestionFile(parent *Directory, baseName string) (*File, error) {
	f, err := fs.AddFile(parent, baseName+".question", "")
	if err != nil {
		return nil, err
	}
	f.perms.Question = true
	f.perms.Read = false
	return f, nil
}

// AddNode seeds a node described by req, creating any missing ancestor
// directories as system directories, the way `mkdir -p` would.
// A directory request for a path that already holds a directory is not an
// error; its markers and permission overrides are still applied.
func (fs *FileSystem) AddNode(req *termfs.NodeRequest) (Node, error) {
	logger := util.GetLogger("FS.AddNode")

	segments := splitSegments(req.Path)
	if len(segments) == 0 {
		// the root itself; only markers and overrides apply
		if err := fs.applyRequest(fs.root, req); err != nil {
			return nil, err
		}
		return fs.root, nil
	}

	parent := fs.root
	for _, name := range segments[:len(segments)-1] {
		next, err := fs.ensureDir(parent, name)
		if err != nil {
			logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to create ancestor directory")
			return nil, err
		}
		parent = next
	}

	leaf := segments[len(segments)-1]
	if !ValidName(leaf) {
		return nil, termfs.NewError(termfs.NameError, leaf)
	}

	var node Node
	var err error
	switch req.Type {
	case termfs.DirNodeType, "":
		if existing, ok := parent.child(leaf); ok {
			d, isDir := existing.(*Directory)
			if !isDir {
				return nil, &termfs.Error{Kind: termfs.DuplicateChildError, Parent: parent.name, Name: leaf}
			}
			node = d
			break
		}
		node, err = fs.addDirOfKind(parent, leaf, req.Kind)
	case termfs.FileNodeType:
		node, err = fs.addFileOfKind(parent, leaf, req.Contents, req.Kind)
	case termfs.QuestionNodeType:
		node, err = fs.AddQuestionFile(parent, leaf)
	default:
		err = fmt.Errorf("unknown node type %q", req.Type)
	}
	if err != nil {
		logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to add node")
		return nil, err
	}

	if err := fs.applyRequest(node, req); err != nil {
		return nil, err
	}
	logger.Debug().Str("path", req.Path).Uint64("id", node.ID()).Msg("Added node")
	return node, nil
}

func (fs *FileSystem) ensureDir(parent *Directory, name string) (*Directory, error) {
	if existing, ok := parent.child(name); ok {
		if d, isDir := existing.(*Directory); isDir {
			return d, nil
		}
		return nil, termfs.NewError(termfs.CDError, name)
	}
	if !ValidName(name) {
		return nil, termfs.NewError(termfs.NameError, name)
	}
	return fs.AddDirectory(parent, name)
}

func (fs *FileSystem) addDirOfKind(parent *Directory, name string, kind termfs.NodeKind) (*Directory, error) {
	switch kind {
	case termfs.SystemKind, "":
		return fs.AddDirectory(parent, name)
	case termfs.HiddenKind:
		return fs.AddHiddenDirectory(parent, name)
	case termfs.UserKind:
		return fs.AddUserDirectory(parent, name)
	}
	return nil, fmt.Errorf("unknown node kind %q", kind)
}

func (fs *FileSystem) addFileOfKind(parent *Directory, name, contents string, kind termfs.NodeKind) (*File, error) {
	switch kind {
	case termfs.SystemKind, "":
		return fs.AddFile(parent, name, contents)
	case termfs.HiddenKind:
		return fs.AddHiddenFile(parent, name, contents)
	case termfs.UserKind:
		f, err := fs.AddUserFile(parent, name)
		if err != nil {
			return nil, err
		}
		f.contents = fs.truncate(contents)
		return f, nil
	}
	return nil, fmt.Errorf("unknown node kind %q", kind)
}

// applyRequest applies permission overrides and location markers from req
func (fs *FileSystem) applyRequest(n Node, req *termfs.NodeRequest) error {
	for flag, v := range req.Perms {
		if err := n.Permissions().Set(flag, v); err != nil {
			return fmt.Errorf("%s: %w", req.Path, err)
		}
	}
	if !req.Home && !req.Current {
		return nil
	}
	dir, ok := n.(*Directory)
	if !ok {
		return fmt.Errorf("%s: only directories can be home or current location", req.Path)
	}
	if req.Home {
		fs.SetHomeLocation(dir)
	}
	if req.Current {
		fs.SetCurrentLocation(dir)
	}
	return nil
}

// splitSegments splits p on "/" dropping empty segments
func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
