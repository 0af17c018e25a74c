package filesystem

import (
	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/internal/util"
)

// Every operation below performs all of its permission and structure checks
// before it mutates anything, so a failed operation leaves the tree as it was.

// ChangeLocation resolves path from the current location and moves the
// current location flag onto the result. An empty path goes home.
func (fs *FileSystem) ChangeLocation(path string) (*Directory, error) {
	logger := util.GetLogger("FS.ChangeLocation")
	logger.Trace().Str("path", path).Msg("ChangeLocation called")

	dir, err := fs.Resolve(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to resolve directory")
		return nil, err
	}
	fs.SetCurrentLocation(dir)
	return dir, nil
}

// WorkingPath returns the absolute path of dir, built by walking backlinks
// up to the root. The root itself is "/" followed by its name.
func (fs *FileSystem) WorkingPath(dir *Directory) (string, error) {
	if dir.id == fs.root.id {
		return "/" + dir.name, nil
	}
	parent, err := fs.GetParent(dir)
	if err != nil {
		return "", err
	}
	p, err := fs.WorkingPath(parent)
	if err != nil {
		return "", err
	}
	if p == "/" {
		return p + dir.name, nil
	}
	return p + "/" + dir.name, nil
}

// PromptWD returns the name of the current location for display in a prompt.
func (fs *FileSystem) PromptWD() string {
	return fs.cwd().name
}

// MakeDirectory creates a user directory at path.
func (fs *FileSystem) MakeDirectory(path string) (*Directory, error) {
	logger := util.GetLogger("FS.MakeDirectory")

	parentPath, name := SplitLeaf(trimTrailingSlash(path))
	parent, err := fs.Resolve(parentPath)
	if err != nil {
		return nil, err
	}
	if !ValidName(name) {
		return nil, termfs.NewError(termfs.NameError, name)
	}
	dir, err := fs.AddUserDirectory(parent, name)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to create directory")
		return nil, err
	}
	logger.Debug().Str("path", path).Uint64("id", dir.id).Msg("Created directory")
	return dir, nil
}

// Touch creates an empty user file at path.
func (fs *FileSystem) Touch(path string) (*File, error) {
	logger := util.GetLogger("FS.Touch")

	parentPath, name := SplitLeaf(path)
	parent, err := fs.Resolve(parentPath)
	if err != nil {
		return nil, err
	}
	if !ValidName(name) {
		return nil, termfs.NewError(termfs.NameError, name)
	}
	f, err := fs.AddUserFile(parent, name)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to create file")
		return nil, err
	}
	logger.Debug().Str("path", path).Uint64("id", f.id).Msg("Created file")
	return f, nil
}

// Remove deletes the node at path together with its whole subtree.
// The node must carry the delete permission, and it must not be the current
// location or one of its ancestors.
func (fs *FileSystem) Remove(path string) error {
	logger := util.GetLogger("FS.Remove")
	logger.Trace().Str("path", path).Msg("Remove called")

	parent, target, leaf, err := fs.lookup(trimTrailingSlash(path))
	if err != nil {
		return err
	}
	if err := fs.checkRemovable(target, leaf); err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Refused to remove node")
		return err
	}
	fs.detach(parent, target)
	logger.Debug().Str("path", path).Uint64("id", target.ID()).Msg("Removed node")
	return nil
}

func (fs *FileSystem) checkRemovable(n Node, leaf string) error {
	if !n.Permissions().Delete {
		return termfs.NewError(termfs.RMError, leaf)
	}
	if cur := fs.CurrentLocation(); cur != nil && contains(n, cur.id) {
		return termfs.NewError(termfs.RMSubDirError, leaf)
	}
	return nil
}

// detach unlinks n from parent and drops the backlinks of n and every
// descendant. The subtree is unreachable once unlinked.
func (fs *FileSystem) detach(parent *Directory, n Node) {
	parent.removeChild(n.ID())
	walk(n, func(c Node) bool {
		delete(fs.backlinks, c.ID())
		return true
	})
}

// Copy deep copies the node at src to dst and returns the new node.
//
// If dst names an existing directory the copy is placed inside it under the
// source's name. Otherwise dst is split into a parent directory and a new
// name, where an empty name (dst ending in "/") keeps the source's name.
// Every copied node gets a fresh id and the exact permissions of its source.
func (fs *FileSystem) Copy(src, dst string) (Node, error) {
	logger := util.GetLogger("FS.Copy")
	logger.Trace().Str("src", src).Str("dst", dst).Msg("Copy called")

	_, source, leaf, err := fs.lookup(trimTrailingSlash(src))
	if err != nil {
		return nil, err
	}
	if !source.Permissions().Copy {
		return nil, termfs.NewError(termfs.CPError, leaf)
	}
	target, name, err := fs.copyDestination(source, dst)
	if err != nil {
		logger.Debug().Err(err).Str("dst", dst).Msg("Invalid copy destination")
		return nil, err
	}
	copied, err := fs.copyTree(source, target, name)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("src", src).Str("dst", dst).Uint64("id", copied.ID()).Msg("Copied node")
	return copied, nil
}

// copyDestination picks the directory and name a copy of source lands at,
// checking every condition copyTree could otherwise fail on.
func (fs *FileSystem) copyDestination(source Node, dst string) (*Directory, string, error) {
	target, err := fs.Resolve(dst)
	name := source.Name()
	if err != nil {
		parentPath, leaf := SplitLeaf(dst)
		target, err = fs.Resolve(parentPath)
		if err != nil {
			return nil, "", err
		}
		if leaf != "" {
			if !ValidName(leaf) {
				return nil, "", termfs.NewError(termfs.NameError, leaf)
			}
			name = leaf
		}
	}
	if source.IsDir() && contains(source, target.id) {
		return nil, "", termfs.NewError(termfs.InvalidDestError, source.Name())
	}
	if err := fs.checkLink(target, name); err != nil {
		return nil, "", err
	}
	return target, name, nil
}

// copyTree recreates src under target as name. target must not lie inside src.
func (fs *FileSystem) copyTree(src Node, target *Directory, name string) (Node, error) {
	switch s := src.(type) {
	case *File:
		f, err := fs.AddFile(target, name, s.contents)
		if err != nil {
			return nil, err
		}
		f.perms = s.perms
		return f, nil
	case *Directory:
		d, err := fs.AddDirectory(target, name)
		if err != nil {
			return nil, err
		}
		d.perms = s.perms
		for _, child := range s.children {
			if _, err := fs.copyTree(child, d, child.Name()); err != nil {
				return nil, err
			}
		}
		return d, nil
	}
	return nil, termfs.NewError(termfs.FindError, src.Name())
}

// Move copies src to dst and then removes src. Copy, delete and
// current-location failures are reported as an MVError naming the source;
// any other failure is returned unchanged. Every check runs before the copy,
// so a failed move never leaves a duplicate behind.
func (fs *FileSystem) Move(src, dst string) (Node, error) {
	logger := util.GetLogger("FS.Move")
	logger.Trace().Str("src", src).Str("dst", dst).Msg("Move called")

	parent, source, leaf, err := fs.lookup(trimTrailingSlash(src))
	if err != nil {
		return nil, err
	}
	if !source.Permissions().Copy {
		return nil, termfs.NewError(termfs.MVError, leaf)
	}
	if err := fs.checkRemovable(source, leaf); err != nil {
		logger.Debug().Err(err).Str("src", src).Msg("Refused to move node")
		return nil, termfs.NewError(termfs.MVError, leaf)
	}
	target, name, err := fs.copyDestination(source, dst)
	if err != nil {
		return nil, err
	}
	moved, err := fs.copyTree(source, target, name)
	if err != nil {
		return nil, err
	}
	fs.detach(parent, source)
	logger.Debug().Str("src", src).Str("dst", dst).Uint64("id", moved.ID()).Msg("Moved node")
	return moved, nil
}

// ReadFile returns the file at path if it may be read.
func (fs *FileSystem) ReadFile(path string) (*File, error) {
	_, n, leaf, err := fs.lookup(path)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*File)
	if !ok {
		return nil, termfs.NewError(termfs.ReadDirError, leaf)
	}
	if !f.perms.Read {
		return nil, termfs.NewError(termfs.ReadError, f.name)
	}
	return f, nil
}

// ReadContents returns the contents of the file at path.
func (fs *FileSystem) ReadContents(path string) (string, error) {
	f, err := fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return f.contents, nil
}

// OpenForEdit returns the file at path if it may be both edited and read,
// which is what an editor view needs to show and later replace its contents.
func (fs *FileSystem) OpenForEdit(path string) (*File, error) {
	f, err := fs.editable(path)
	if err != nil {
		return nil, err
	}
	if !f.perms.Read {
		return nil, termfs.NewError(termfs.ReadError, f.name)
	}
	return f, nil
}

// EditContents replaces the contents of the file at path. Text beyond the
// content limit is dropped.
func (fs *FileSystem) EditContents(path, text string) error {
	logger := util.GetLogger("FS.EditContents")

	f, err := fs.editable(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Refused to edit file")
		return err
	}
	f.contents = fs.truncate(text)
	logger.Debug().Str("path", path).Int("len", len(f.contents)).Msg("Edited file")
	return nil
}

func (fs *FileSystem) editable(path string) (*File, error) {
	_, n, leaf, err := fs.lookup(path)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*File)
	if !ok {
		return nil, termfs.NewError(termfs.EditDirError, leaf)
	}
	if !f.perms.Edit {
		return nil, termfs.NewError(termfs.EditError, f.name)
	}
	return f, nil
}
