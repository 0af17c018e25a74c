package filesystem

import (
	"strings"

	"github.com/brettbedarf/termfs"
)

// Node is a File or a Directory. Nodes never reference their parent; the
// owning [FileSystem] keeps the child to parent links.
type Node interface {
	termfs.NodeInfo
	// Permissions returns the node's mutable permission set
	Permissions() *Permissions

	// clone returns a deep copy sharing no mutable state with n
	clone() Node
}

type nodeBase struct {
	id    uint64
	name  string
	perms Permissions
}

func (n *nodeBase) ID() uint64                { return n.id }
func (n *nodeBase) Name() string              { return n.name }
func (n *nodeBase) Permissions() *Permissions { return &n.perms }

// File is a leaf node holding text contents.
type File struct {
	nodeBase
	contents string
}

func (f *File) IsDir() bool { return false }

// Contents returns the file's text regardless of its read permission.
// Use [FileSystem.ReadContents] for permission-checked access.
func (f *File) Contents() string { return f.contents }

func (f *File) clone() Node {
	c := *f
	return &c
}

// Directory owns an ordered list of children.
type Directory struct {
	nodeBase
	children []Node
	current  bool // user's working directory; at most one per tree
	home     bool // target of a bare cd; at most one per tree
}

func (d *Directory) IsDir() bool { return true }

// Children returns a copy of the directory's child list in insertion order.
func (d *Directory) Children() []Node {
	out := make([]Node, len(d.children))
	copy(out, d.children)
	return out
}

// IsCurrentLocation reports whether the user is standing in d
func (d *Directory) IsCurrentLocation() bool { return d.current }

// IsHomeLocation reports whether d is the user's home
func (d *Directory) IsHomeLocation() bool { return d.home }

func (d *Directory) clone() Node {
	c := &Directory{nodeBase: d.nodeBase, current: d.current, home: d.home}
	c.children = make([]Node, len(d.children))
	for i, child := range d.children {
		c.children[i] = child.clone()
	}
	return c
}

// child finds a child by case-insensitive name
func (d *Directory) child(name string) (Node, bool) {
	for _, c := range d.children {
		if strings.EqualFold(c.Name(), name) {
			return c, true
		}
	}
	return nil, false
}

// removeChild detaches the child with the given id, keeping the order of the rest
func (d *Directory) removeChild(id uint64) {
	kept := d.children[:0]
	for _, c := range d.children {
		if c.ID() != id {
			kept = append(kept, c)
		}
	}
	// clear the vacated tail so the detached node is not retained
	for i := len(kept); i < len(d.children); i++ {
		d.children[i] = nil
	}
	d.children = kept
}

// walk visits n and its descendants depth-first, parents before children.
// Returning false from fn stops the walk.
func walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	if d, ok := n.(*Directory); ok {
		for _, c := range d.children {
			if !walk(c, fn) {
				return false
			}
		}
	}
	return true
}

// contains reports whether the subtree rooted at n includes the node with id
func contains(n Node, id uint64) bool {
	found := false
	walk(n, func(c Node) bool {
		if c.ID() == id {
			found = true
			return false
		}
		return true
	})
	return found
}
