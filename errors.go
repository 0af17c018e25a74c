package termfs

import (
	"errors"
	"fmt"
)

// ErrorKind tags every failure the engine and dispatcher can report.
type ErrorKind int

const (
	// Permission violations
	ReadError ErrorKind = iota + 1
	EditError
	RMError
	CPError

	// Structural violations
	ReadDirError
	EditDirError
	DuplicateChildError
	FindError
	ParentError
	CDError
	RMSubDirError
	InvalidDestError

	// Derived from a failed copy-then-remove sequence
	MVError

	// Input validation
	NameError
	InvalidCommandError
	InvalidArgNumError
)

var kindNames = map[ErrorKind]string{
	ReadError:           "ReadError",
	EditError:           "EditError",
	RMError:             "RMError",
	CPError:             "CPError",
	ReadDirError:        "ReadDirError",
	EditDirError:        "EditDirError",
	DuplicateChildError: "DuplicateChildError",
	FindError:           "FindError",
	ParentError:         "ParentError",
	CDError:             "CDError",
	RMSubDirError:       "RMSubDirError",
	InvalidDestError:    "InvalidDestError",
	MVError:             "MVError",
	NameError:           "NameError",
	InvalidCommandError: "InvalidCommandError",
	InvalidArgNumError:  "InvalidArgNumError",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type surfaced by filesystem operations and the
// command dispatcher. Name is the node, segment or keyword the failure is
// about; Parent is only set for DuplicateChildError.
type Error struct {
	Kind   ErrorKind
	Name   string
	Parent string
}

// NewError returns an *Error of the given kind about name.
func NewError(kind ErrorKind, name string) *Error {
	return &Error{Kind: kind, Name: name}
}

func (e *Error) Error() string {
	switch e.Kind {
	case ReadError:
		return "You lack permission to read " + e.Name
	case ReadDirError:
		return "You cannot read Directory " + e.Name
	case EditError:
		return "You lack permission to edit " + e.Name
	case EditDirError:
		return "You cannot edit Directory " + e.Name
	case DuplicateChildError:
		return e.Parent + " already has child named " + e.Name
	case FindError:
		return e.Name + " does not exist"
	case ParentError:
		return e.Name + " has no Parent"
	case CDError:
		return "Directory " + e.Name + " does not exist"
	case RMError:
		return e.Name + " is system protected and cannot be removed"
	case RMSubDirError:
		return "Cannot remove current directory"
	case CPError:
		return e.Name + " is system protected and cannot be copied"
	case MVError:
		return e.Name + " is system protected and cannot be moved"
	case InvalidDestError:
		return "Cannot copy " + e.Name + " into itself"
	case NameError:
		return "File Name must not contain special characters"
	case InvalidCommandError:
		return e.Name + " is not a valid command"
	case InvalidArgNumError:
		return "Invalid number of arguments provided"
	default:
		return e.Kind.String() + ": " + e.Name
	}
}

// Is lets errors.Is match on kind alone, e.g. errors.Is(err, &Error{Kind: FindError}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries an *Error with the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
