package shell

import (
	"slices"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/filesystem"
)

// Handler runs one verb against fs with the arguments that followed it on
// the command line.
type Handler func(fs *filesystem.FileSystem, args []string) (termfs.Response, error)

// Registry maps verbs to their handlers. Verbs are matched case-insensitively.
type Registry struct {
	verbs *xsync.Map[string, Handler]
}

func NewRegistry() *Registry {
	return &Registry{verbs: xsync.NewMap[string, Handler]()}
}

// Register ties a handler to a verb. The first handler registered for a verb
// is kept; later registrations of the same verb are ignored.
func (r *Registry) Register(verb string, h Handler) {
	r.verbs.LoadOrStore(strings.ToLower(verb), h)
}

// Handler returns the handler registered for verb.
func (r *Registry) Handler(verb string) (Handler, error) {
	h, ok := r.verbs.Load(strings.ToLower(verb))
	if !ok {
		return nil, termfs.NewError(termfs.InvalidCommandError, strings.ToLower(verb))
	}
	return h, nil
}

// Verbs returns the registered verbs in sorted order.
func (r *Registry) Verbs() []string {
	out := make([]string, 0, r.verbs.Size())
	r.verbs.Range(func(verb string, _ Handler) bool {
		out = append(out, verb)
		return true
	})
	slices.Sort(out)
	return out
}
