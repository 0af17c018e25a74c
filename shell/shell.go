// Package shell turns command lines into filesystem operations and their
// results into [termfs.Response] values for a host to display.
package shell

import (
	"strings"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/filesystem"
	"github.com/brettbedarf/termfs/internal/util"
)

var builtins = newBuiltinRegistry()

func newBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.RegisterBuiltins()
	return r
}

// Process runs line against fs with the built-in verbs.
func Process(fs *filesystem.FileSystem, line string) termfs.Response {
	return builtins.Process(fs, line)
}

// Process tokenizes line on whitespace and runs the handler for its first
// token. Every failure is reported as an error response on the command line;
// Process never returns a raw error.
func (r *Registry) Process(fs *filesystem.FileSystem, line string) termfs.Response {
	logger := util.GetLogger("Shell.Process")
	logger.Trace().Str("line", line).Msg("Process called")

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return termfs.ErrorResponse(termfs.NewError(termfs.InvalidCommandError, ""))
	}
	h, err := r.Handler(fields[0])
	if err != nil {
		logger.Debug().Str("verb", fields[0]).Msg("Unknown command")
		return termfs.ErrorResponse(err)
	}
	resp, err := h(fs, fields[1:])
	if err != nil {
		logger.Debug().Err(err).Str("line", line).Msg("Command failed")
		return termfs.ErrorResponse(err)
	}
	return resp
}

// Prompt renders the command line prompt for login on host in directory wd.
func Prompt(login, host, wd string) string {
	return "[" + login + "@" + host + " " + wd + "] $ "
}

// ValidUsername reports whether name may be used as a login: a legal node
// name of at most maxLen characters.
func ValidUsername(name string, maxLen int) bool {
	return filesystem.ValidName(name) && len([]rune(name)) <= maxLen
}
