package filesystem

import (
	"regexp"
	"strings"

	"github.com/brettbedarf/termfs"
)

var namePattern = regexp.MustCompile(`^[.\w-]*$`)

// ValidName reports whether name may be given to a node: word characters,
// "." and "-" only, non-empty, and neither "." nor "..".
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && namePattern.MatchString(name)
}

// ResolvePath walks path from start and returns the directory it names.
//
// An empty path names the home location. A leading "/" restarts at the root.
// Empty and "." segments stay put, ".." ascends through the backlink table,
// and any other segment must name a child directory or the walk fails with a
// CDError for that segment. Files are not traversable, so naming one fails
// the same way a missing entry does.
func (fs *FileSystem) ResolvePath(start *Directory, path string) (*Directory, error) {
	if path == "" {
		return fs.home(), nil
	}
	cur := start
	if strings.HasPrefix(path, "/") {
		cur = fs.root
		path = path[1:]
	}
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			parent, err := fs.GetParent(cur)
			if err != nil {
				return nil, err
			}
			cur = parent
		default:
			child, ok := cur.child(seg)
			if !ok {
				return nil, termfs.NewError(termfs.CDError, seg)
			}
			dir, ok := child.(*Directory)
			if !ok {
				return nil, termfs.NewError(termfs.CDError, seg)
			}
			cur = dir
		}
	}
	return cur, nil
}

// Resolve is [FileSystem.ResolvePath] starting at the current location.
func (fs *FileSystem) Resolve(path string) (*Directory, error) {
	return fs.ResolvePath(fs.cwd(), path)
}

// SplitLeaf separates path into its parent path and leaf name. A path with no
// "/" has parent "." so it resolves against the current location; a path
// whose only "/" is the leading one has parent "/".
func SplitLeaf(path string) (parent, leaf string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return ".", path
	}
	if i == 0 {
		return "/", path[1:]
	}
	return path[:i], path[i+1:]
}

// lookup resolves path's parent and returns the leaf node it names
func (fs *FileSystem) lookup(path string) (*Directory, Node, string, error) {
	parentPath, leaf := SplitLeaf(path)
	parent, err := fs.Resolve(parentPath)
	if err != nil {
		return nil, nil, leaf, err
	}
	n, err := fs.GetChild(parent, leaf)
	if err != nil {
		return nil, nil, leaf, err
	}
	return parent, n, leaf, nil
}

// Lookup returns the node named by path relative to the current location.
func (fs *FileSystem) Lookup(path string) (Node, error) {
	_, n, _, err := fs.lookup(path)
	return n, err
}

// trimTrailingSlash drops a single trailing "/" so "dir/" names dir itself
func trimTrailingSlash(path string) string {
	return strings.TrimSuffix(path, "/")
}
