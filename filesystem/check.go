package filesystem

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants of the tree:
//   - ids are unique and below the id counter
//   - the backlink table has exactly one entry per non-root node, naming its
//     actual parent, and none for the root
//   - sibling names are unique ignoring case, and every non-root name is legal
//   - at most one directory is the current location and at most one is home
func (fs *FileSystem) Validate() error {
	seen := make(map[uint64]bool)
	var current, home int
	var err error

	var check func(n Node, parent *Directory)
	check = func(n Node, parent *Directory) {
		if err != nil {
			return
		}
		id := n.ID()
		if seen[id] {
			err = fmt.Errorf("duplicate node id %d", id)
			return
		}
		seen[id] = true
		if id >= fs.nextID {
			err = fmt.Errorf("node id %d is not below the id counter %d", id, fs.nextID)
			return
		}

		if parent == nil {
			if _, ok := fs.backlinks[id]; ok {
				err = fmt.Errorf("root %d has a backlink", id)
				return
			}
		} else {
			if !ValidName(n.Name()) {
				err = fmt.Errorf("node %d has illegal name %q", id, n.Name())
				return
			}
			pid, ok := fs.backlinks[id]
			if !ok {
				err = fmt.Errorf("node %d has no backlink", id)
				return
			}
			if pid != parent.id {
				err = fmt.Errorf("node %d backlink names %d, owned by %d", id, pid, parent.id)
				return
			}
		}

		d, ok := n.(*Directory)
		if !ok {
			return
		}
		if d.current {
			current++
		}
		if d.home {
			home++
		}
		names := make(map[string]bool, len(d.children))
		for _, c := range d.children {
			key := strings.ToUpper(c.Name())
			if names[key] {
				err = fmt.Errorf("directory %d has more than one child named %q", d.id, c.Name())
				return
			}
			names[key] = true
			check(c, d)
		}
	}
	check(fs.root, nil)
	if err != nil {
		return err
	}

	if len(fs.backlinks) != len(seen)-1 {
		return fmt.Errorf("backlink table has %d entries for %d non-root nodes", len(fs.backlinks), len(seen)-1)
	}
	if current > 1 {
		return fmt.Errorf("%d directories are marked as the current location", current)
	}
	if home > 1 {
		return fmt.Errorf("%d directories are marked as home", home)
	}
	return nil
}
