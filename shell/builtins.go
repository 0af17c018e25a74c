package shell

import (
	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/filesystem"
)

type BuiltinVerb = string

const (
	PwdVerb   BuiltinVerb = "pwd"
	LsVerb    BuiltinVerb = "ls"
	CdVerb    BuiltinVerb = "cd"
	RmVerb    BuiltinVerb = "rm"
	CpVerb    BuiltinVerb = "cp"
	MvVerb    BuiltinVerb = "mv"
	MkdirVerb BuiltinVerb = "mkdir"
	TouchVerb BuiltinVerb = "touch"
	ReadVerb  BuiltinVerb = "read"
	EditVerb  BuiltinVerb = "edit"
	ManVerb   BuiltinVerb = "man"
)

// ShowHiddenFlag makes ls include entries without the visible permission
const ShowHiddenFlag = "-a"

// ManualName is the reader title of the man page
const ManualName = "Command Manual"

var builtinHandlers = map[BuiltinVerb]Handler{
	PwdVerb:   pwd,
	LsVerb:    ls,
	CdVerb:    cd,
	RmVerb:    rm,
	CpVerb:    cp,
	MvVerb:    mv,
	MkdirVerb: mkdir,
	TouchVerb: touch,
	ReadVerb:  read,
	EditVerb:  edit,
	ManVerb:   man,
}

// RegisterBuiltins registers every built-in verb by default,
// or only the given ones if verbs are provided.
func (r *Registry) RegisterBuiltins(verbs ...BuiltinVerb) {
	if len(verbs) == 0 {
		for verb := range builtinHandlers {
			verbs = append(verbs, verb)
		}
	}
	for _, verb := range verbs {
		if h, ok := builtinHandlers[verb]; ok {
			r.Register(verb, h)
		}
	}
}

func checkArgNum(expected int, args []string) error {
	if len(args) != expected {
		return termfs.NewError(termfs.InvalidArgNumError, "")
	}
	return nil
}

func commandLine(output string) termfs.Response {
	return termfs.Response{Output: output, Goto: termfs.CommandLine}
}

func pwd(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(0, args); err != nil {
		return termfs.Response{}, err
	}
	cur := fs.CurrentLocation()
	if cur == nil {
		cur = fs.Root()
	}
	p, err := fs.WorkingPath(cur)
	if err != nil {
		return termfs.Response{}, err
	}
	return commandLine(p), nil
}

// ls accepts an optional path and an optional -a flag on either side of it.
func ls(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	path, showHidden := ".", false
	switch len(args) {
	case 0:
	case 1:
		if args[0] == ShowHiddenFlag {
			showHidden = true
		} else {
			path = args[0]
		}
	case 2:
		switch {
		case args[0] == ShowHiddenFlag:
			path = args[1]
		case args[1] == ShowHiddenFlag:
			path = args[0]
		default:
			return termfs.Response{}, termfs.NewError(termfs.InvalidArgNumError, "")
		}
		showHidden = true
	default:
		return termfs.Response{}, termfs.NewError(termfs.InvalidArgNumError, "")
	}
	out, err := fs.List(path, showHidden)
	if err != nil {
		return termfs.Response{}, err
	}
	return commandLine(out), nil
}

func cd(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	path := ""
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return termfs.Response{}, termfs.NewError(termfs.InvalidArgNumError, "")
	}
	if _, err := fs.ChangeLocation(path); err != nil {
		return termfs.Response{}, err
	}
	return commandLine(""), nil
}

func rm(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(1, args); err != nil {
		return termfs.Response{}, err
	}
	if err := fs.Remove(args[0]); err != nil {
		return termfs.Response{}, err
	}
	return commandLine(""), nil
}

func cp(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(2, args); err != nil {
		return termfs.Response{}, err
	}
	if _, err := fs.Copy(args[0], args[1]); err != nil {
		return termfs.Response{}, err
	}
	return commandLine(""), nil
}

func mv(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(2, args); err != nil {
		return termfs.Response{}, err
	}
	if _, err := fs.Move(args[0], args[1]); err != nil {
		return termfs.Response{}, err
	}
	return commandLine(""), nil
}

func mkdir(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(1, args); err != nil {
		return termfs.Response{}, err
	}
	if _, err := fs.MakeDirectory(args[0]); err != nil {
		return termfs.Response{}, err
	}
	return commandLine(""), nil
}

func touch(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(1, args); err != nil {
		return termfs.Response{}, err
	}
	if _, err := fs.Touch(args[0]); err != nil {
		return termfs.Response{}, err
	}
	return commandLine(""), nil
}

func read(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(1, args); err != nil {
		return termfs.Response{}, err
	}
	f, err := fs.ReadFile(args[0])
	if err != nil {
		return termfs.Response{}, err
	}
	return termfs.Response{Output: f.Contents(), Goto: termfs.Reader, Name: f.Name()}, nil
}

// edit only opens the editor; the host submits the new contents afterwards
// with the path echoed back in Editing.
func edit(fs *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(1, args); err != nil {
		return termfs.Response{}, err
	}
	f, err := fs.OpenForEdit(args[0])
	if err != nil {
		return termfs.Response{}, err
	}
	return termfs.Response{Output: f.Contents(), Goto: termfs.Editor, Editing: args[0], Name: f.Name()}, nil
}

func man(_ *filesystem.FileSystem, args []string) (termfs.Response, error) {
	if err := checkArgNum(0, args); err != nil {
		return termfs.Response{}, err
	}
	return termfs.Response{Output: Manual, Goto: termfs.Reader, Name: ManualName}, nil
}
