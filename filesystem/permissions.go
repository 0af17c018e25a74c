package filesystem

import "fmt"

// Permission flag names, as used in seed files and permission overrides
const (
	PermDelete   = "delete"
	PermVisible  = "visible"
	PermCopy     = "copy"
	PermEdit     = "edit"
	PermRead     = "read"
	PermQuestion = "question"
)

// Permissions is the fixed set of capability flags carried by every node.
// No flag implies another; each operation checks the one it needs.
type Permissions struct {
	Delete   bool `json:"delete" yaml:"delete"`     // removable by rm
	Visible  bool `json:"visible" yaml:"visible"`   // listed by ls without -a
	Copy     bool `json:"copy" yaml:"copy"`         // may be the source of cp/mv
	Edit     bool `json:"edit" yaml:"edit"`         // file contents may be replaced
	Read     bool `json:"read" yaml:"read"`         // file contents may be retrieved
	Question bool `json:"question" yaml:"question"` // locked quiz artifact; meaning is up to the host
}

// SystemPermissions is the baseline every node is created with.
func SystemPermissions() Permissions {
	return Permissions{Visible: true, Read: true}
}

// Set assigns the flag with the given name.
func (p *Permissions) Set(flag string, v bool) error {
	switch flag {
	case PermDelete:
		p.Delete = v
	case PermVisible:
		p.Visible = v
	case PermCopy:
		p.Copy = v
	case PermEdit:
		p.Edit = v
	case PermRead:
		p.Read = v
	case PermQuestion:
		p.Question = v
	default:
		return fmt.Errorf("unknown permission flag %q", flag)
	}
	return nil
}
