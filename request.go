package termfs

// NodeRequest describes a node to seed into a tree before play starts.
// It should be passed from entrypoints (seed files, hosts) to the filesystem
// AddNode method.
type NodeRequest struct {
	// Path is absolute from root, e.g. "home/guest/notes.txt". A leading "/" is optional.
	Path     string
	Type     NodeType
	Kind     NodeKind
	Contents string // File contents; ignored for directories and questions
	// Perms overrides individual permission flags after creation, keyed by flag name
	Perms map[string]bool
	// Home marks the directory as the home location
	Home bool
	// Current marks the directory as the current location
	Current bool
}

// NodeType valid types are FileNodeType "file", DirNodeType "dir" and
// QuestionNodeType "question"
type NodeType string

const (
	FileNodeType     NodeType = "file"
	DirNodeType      NodeType = "dir"
	QuestionNodeType NodeType = "question"
)

// NodeKind selects the baseline permission set a seeded node is created with.
type NodeKind string

const (
	SystemKind NodeKind = "system" // read-only, visible, protected
	HiddenKind NodeKind = "hidden" // system, but not listed without -a
	UserKind   NodeKind = "user"   // deletable and copyable (files also editable)
)
