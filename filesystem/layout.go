package filesystem

import (
	"strings"
	"unicode/utf8"
)

// ListDirectory returns dir's children in insertion order, skipping nodes
// without the visible permission unless showHidden is set.
func (fs *FileSystem) ListDirectory(dir *Directory, showHidden bool) []Node {
	out := make([]Node, 0, len(dir.children))
	for _, c := range dir.children {
		if c.Permissions().Visible || showHidden {
			out = append(out, c)
		}
	}
	return out
}

// List renders the listing of the directory at path. If path's last segment
// names a file instead, the file's name is returned.
func (fs *FileSystem) List(path string, showHidden bool) (string, error) {
	dir, err := fs.Resolve(path)
	if err == nil {
		entries := fs.ListDirectory(dir, showHidden)
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		return Layout(names, fs.cfg.LineWidth, fs.cfg.EntryGap), nil
	}
	if n, lerr := fs.Lookup(trimTrailingSlash(path)); lerr == nil && !n.IsDir() {
		return n.Name(), nil
	}
	return "", err
}

// Layout joins names into lines no wider than width, separated by gap spaces.
// A name that is wider than width on its own still gets a line to itself.
func Layout(names []string, width, gap int) string {
	var out, line strings.Builder
	lineLen := 0
	sep := strings.Repeat(" ", gap)
	for _, name := range names {
		n := utf8.RuneCountInString(name)
		switch {
		case line.Len() == 0 && lineLen == 0:
			line.WriteString(name)
			lineLen = n
		case lineLen+gap+n <= width:
			line.WriteString(sep)
			line.WriteString(name)
			lineLen += gap + n
		default:
			out.WriteString(line.String())
			out.WriteByte('\n')
			line.Reset()
			line.WriteString(name)
			lineLen = n
		}
	}
	out.WriteString(line.String())
	return out.String()
}
