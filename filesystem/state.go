package filesystem

import (
	"fmt"
	"sort"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/config"
	"github.com/google/uuid"
)

// State is the persisted shape of a tree: the root directory value with all
// descendants, the backlink table as an ordered list of pairs, and the id
// counter. It holds no pointers between nodes, so hosts may copy, marshal and
// restore it freely.
type State struct {
	// Revision is stamped fresh on every snapshot so hosts can tell saves apart
	Revision  string     `json:"revision" yaml:"revision"`
	Root      NodeState  `json:"root" yaml:"root"`
	Backlinks []Backlink `json:"backlinks" yaml:"backlinks"`
	NextID    uint64     `json:"next_id" yaml:"next_id"`
}

// Backlink records that Child lives in directory Parent.
type Backlink struct {
	Child  uint64 `json:"child" yaml:"child"`
	Parent uint64 `json:"parent" yaml:"parent"`
}

// NodeState is the value form of a [Node].
type NodeState struct {
	ID          uint64          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Type        termfs.NodeType `json:"type" yaml:"type"`
	Permissions Permissions     `json:"permissions" yaml:"permissions"`
	Contents    string          `json:"contents,omitempty" yaml:"contents,omitempty"`
	Children    []NodeState     `json:"children,omitempty" yaml:"children,omitempty"`
	Current     bool            `json:"current,omitempty" yaml:"current,omitempty"`
	Home        bool            `json:"home,omitempty" yaml:"home,omitempty"`
}

// Snapshot captures the tree as a [State]. Backlinks are ordered by child id,
// which is also the order they were created in.
func (fs *FileSystem) Snapshot() *State {
	links := make([]Backlink, 0, len(fs.backlinks))
	for child, parent := range fs.backlinks {
		links = append(links, Backlink{Child: child, Parent: parent})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Child < links[j].Child })

	return &State{
		Revision:  uuid.NewString(),
		Root:      nodeState(fs.root),
		Backlinks: links,
		NextID:    fs.nextID,
	}
}

func nodeState(n Node) NodeState {
	switch v := n.(type) {
	case *File:
		return NodeState{ID: v.id, Name: v.name, Type: termfs.FileNodeType, Permissions: v.perms, Contents: v.contents}
	case *Directory:
		s := NodeState{ID: v.id, Name: v.name, Type: termfs.DirNodeType, Permissions: v.perms, Current: v.current, Home: v.home}
		if len(v.children) > 0 {
			s.Children = make([]NodeState, len(v.children))
			for i, c := range v.children {
				s.Children[i] = nodeState(c)
			}
		}
		return s
	}
	return NodeState{}
}

// Restore rebuilds a tree from state and checks it with [FileSystem.Validate].
// The backlink table must describe exactly the parent of every non-root node.
// A nil cfg uses the defaults.
func Restore(state *State, cfg *config.Config) (*FileSystem, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if state.Root.Type != termfs.DirNodeType {
		return nil, fmt.Errorf("restore: root must be a directory, got %q", state.Root.Type)
	}
	if state.Root.ID != RootID {
		return nil, fmt.Errorf("restore: root id must be %d, got %d", RootID, state.Root.ID)
	}

	root, err := restoreNode(state.Root)
	if err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	fs := &FileSystem{
		cfg:       cfg,
		root:      root.(*Directory),
		backlinks: make(map[uint64]uint64, len(state.Backlinks)),
		nextID:    state.NextID,
	}
	for _, l := range state.Backlinks {
		if _, dup := fs.backlinks[l.Child]; dup {
			return nil, fmt.Errorf("restore: duplicate backlink for node %d", l.Child)
		}
		fs.backlinks[l.Child] = l.Parent
	}
	if err := fs.Validate(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	return fs, nil
}

func restoreNode(s NodeState) (Node, error) {
	base := nodeBase{id: s.ID, name: s.Name, perms: s.Permissions}
	switch s.Type {
	case termfs.FileNodeType:
		if len(s.Children) > 0 {
			return nil, fmt.Errorf("file %d has children", s.ID)
		}
		if s.Current || s.Home {
			return nil, fmt.Errorf("file %d cannot be a location", s.ID)
		}
		return &File{nodeBase: base, contents: s.Contents}, nil
	case termfs.DirNodeType:
		d := &Directory{nodeBase: base, current: s.Current, home: s.Home}
		d.children = make([]Node, 0, len(s.Children))
		for _, cs := range s.Children {
			c, err := restoreNode(cs)
			if err != nil {
				return nil, err
			}
			d.children = append(d.children, c)
		}
		return d, nil
	}
	return nil, fmt.Errorf("node %d has unknown type %q", s.ID, s.Type)
}

// Clone returns a deep copy of the tree that shares no mutable state with fs.
func (fs *FileSystem) Clone() *FileSystem {
	links := make(map[uint64]uint64, len(fs.backlinks))
	for k, v := range fs.backlinks {
		links[k] = v
	}
	return &FileSystem{
		cfg:       fs.cfg,
		root:      fs.root.clone().(*Directory),
		backlinks: links,
		nextID:    fs.nextID,
	}
}
