package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/internal/util"
)

const (
	// EndOfEdit is the line that finishes editor input
	EndOfEdit = "."
	// HistoryCommand prints the remembered command lines
	HistoryCommand = "history"
)

// LogoutCommands end an interactive session
var LogoutCommands = []string{"exit", "logout"}

// Serve runs an interactive loop on in and out until in is exhausted, a
// logout command is read, or ctx is done. The tree is saved after every
// command. Reader output is framed by its name; editor output is followed by
// the new contents, read up to a line holding only ".".
func (s *Session) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := util.GetLogger("Session.Serve")
	logger.Info().Str("user", s.user).Msg("Session started")

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, s.Prompt())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := scanner.Text()
		cmd := strings.ToLower(strings.TrimSpace(line))
		if slices.Contains(LogoutCommands, cmd) {
			break
		}
		if cmd == HistoryCommand {
			if h := s.FormatHistory(); h != "" {
				fmt.Fprintln(out, h)
			}
			s.remember(line)
			continue
		}

		resp := s.Exec(line)
		if err := s.render(resp, scanner, out); err != nil {
			return err
		}
		if err := s.Save(ctx); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	logger.Info().Str("user", s.user).Msg("Session ended")
	return nil
}

func (s *Session) render(resp termfs.Response, scanner *bufio.Scanner, out io.Writer) error {
	switch resp.Goto {
	case termfs.Reader:
		fmt.Fprintf(out, "--- %s ---\n", resp.Name)
		writeBlock(out, resp.Output)
		fmt.Fprintf(out, "--- end of %s ---\n", resp.Name)
	case termfs.Editor:
		fmt.Fprintf(out, "--- editing %s (finish with a line holding only %q) ---\n", resp.Name, EndOfEdit)
		writeBlock(out, resp.Output)
		fmt.Fprintln(out, "--- new contents ---")
		var lines []string
		for scanner.Scan() {
			if scanner.Text() == EndOfEdit {
				break
			}
			lines = append(lines, scanner.Text())
		}
		if err := s.SubmitEdit(resp.Editing, strings.Join(lines, "\n")); err != nil {
			fmt.Fprintln(out, termfs.ErrorResponse(err).Output)
		}
	default:
		if resp.Output != "" {
			fmt.Fprintln(out, resp.Output)
		}
	}
	return scanner.Err()
}

func writeBlock(out io.Writer, text string) {
	if text == "" {
		return
	}
	fmt.Fprintln(out, strings.TrimSuffix(text, "\n"))
}

