package requests

import "github.com/brettbedarf/termfs"

// TreeDTO is the JSON/YAML representation of a seed tree
type TreeDTO struct {
	RootName *string          `json:"root,omitempty" yaml:"root,omitempty"` // Overrides the configured root name
	Nodes    []NodeRequestDTO `json:"nodes" yaml:"nodes" validate:"dive"`
}

// NodeRequestDTO is the JSON/YAML representation of [termfs.NodeRequest]
//
// Ex.
//
//	- path: /home/guest
//	  home: true
//	  current: true
//	- path: /home/guest/notes.txt
//	  contents: "remember the milk"
//	  kind: user
//	  perms: {edit: false}
type NodeRequestDTO struct {
	Path     string           `json:"path" yaml:"path" validate:"required"`
	Type     *termfs.NodeType `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=file dir question"` // Default file if contents given, else dir
	Kind     *termfs.NodeKind `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=system hidden user"` // Default system
	Contents *string          `json:"contents,omitempty" yaml:"contents,omitempty"`
	Perms    map[string]bool  `json:"perms,omitempty" yaml:"perms,omitempty" validate:"omitempty,dive,keys,oneof=delete visible copy edit read question,endkeys"`
	Home     *bool            `json:"home,omitempty" yaml:"home,omitempty"`
	Current  *bool            `json:"current,omitempty" yaml:"current,omitempty"`
}
