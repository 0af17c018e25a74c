package shell

import "strings"

type manEntry struct {
	usage string
	lines []string
}

var manEntries = []manEntry{
	{"pwd", []string{
		"Prints the path from the root to the current directory",
	}},
	{"ls [optional: -a] [optional: path/to/directory]", []string{
		"Prints the contents of the directory at the given path",
		"If no path is given, prints the contents of the current directory",
		"With -a, hidden entries are included",
	}},
	{"cd [optional: path/to/directory]", []string{
		"Moves the user to the directory at the given path",
		"If no path is given, moves the user to their home directory",
	}},
	{"rm [path/to/object]", []string{
		"Deletes the directory or file at the given path",
		"If a directory is deleted, all its contents will be deleted",
	}},
	{"cp [path/to/file] [path/to/destination]", []string{
		"Copies the file at the given path to the destination path",
		"If the destination is a directory, the copy takes the original file's name",
		"If the destination is a non-existent file, the copy takes that name",
	}},
	{"mv [path/to/file] [path/to/destination]", []string{
		"Moves the file at the given path to the destination path",
		"If the destination is a directory, the file is moved into it",
		"If the destination is a non-existent file, file is moved and renamed to it",
	}},
	{"mkdir [directory name]", []string{
		"Creates a new directory with the given name in the current directory",
	}},
	{"touch [file name]", []string{
		"Creates a new empty file with the given name in the current directory",
	}},
	{"read [path/to/file]", []string{
		"Read the contents of the file at the given path",
	}},
	{"edit [path/to/file]", []string{
		"Edit the contents of the file at the given path",
	}},
}

// Manual is the plain-text help shown by man
var Manual = renderManual(manEntries)

func renderManual(entries []manEntry) string {
	var b strings.Builder
	indent := strings.Repeat(" ", 5)
	for _, e := range entries {
		b.WriteString("Command ")
		b.WriteString(e.usage)
		b.WriteByte('\n')
		for _, l := range e.lines {
			b.WriteString(indent)
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
