// Package termfs contains core domain types shared by the termfs virtual
// filesystem engine, its command dispatcher and its hosts.
package termfs

import "strings"

// Goto names the view a host should show after a command has run.
type Goto string

const (
	CommandLine Goto = "command line"
	Reader      Goto = "reader"
	Editor      Goto = "editor"
)

// Response is the uniform result of running one command line.
type Response struct {
	Output string `json:"output" yaml:"output"`
	Goto   Goto   `json:"goto" yaml:"goto"`
	// Name is the display name of the file opened in the reader or editor
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Editing is the path, as typed, of the file opened in the editor.
	// Hosts pass it back when submitting the edited contents.
	Editing string `json:"editing,omitempty" yaml:"editing,omitempty"`
}

// ErrorPrefix starts the output of every failed command
const ErrorPrefix = "ERROR: "

// ErrorResponse formats err for the command line view.
func ErrorResponse(err error) Response {
	return Response{Output: ErrorPrefix + err.Error(), Goto: CommandLine}
}

// IsError reports whether r reports a failed command. Node names cannot
// contain the prefix, so no successful command line output starts with it.
func (r Response) IsError() bool {
	return r.Goto == CommandLine && strings.HasPrefix(r.Output, ErrorPrefix)
}
