package termfs

// NodeInfo provides read-only access to node information for external consumers
type NodeInfo interface {
	// ID returns the node's unique, never reused identifier
	ID() uint64

	// Name returns the node's name (last path component)
	Name() string

	// IsDir reports whether the node is a Directory
	IsDir() bool
}
