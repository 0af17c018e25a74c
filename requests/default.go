package requests

import (
	_ "embed"
	"fmt"
)

//go:embed default_tree.yaml
var defaultTreeYAML []byte

// DefaultTree returns the tree hosts start from when no seed file is given.
func DefaultTree() *Tree {
	tree, err := UnmarshalTree(defaultTreeYAML, YAMLFormat)
	if err != nil {
		panic(fmt.Sprintf("embedded default tree is invalid: %v", err))
	}
	return tree
}
