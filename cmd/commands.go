package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brettbedarf/termfs"
	"github.com/brettbedarf/termfs/internal/util"
	"github.com/brettbedarf/termfs/requests"
	"github.com/brettbedarf/termfs/store"
)

func initCmd(opts *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a fresh saved tree from the seed definition",
		Long: `Create a fresh saved tree from the seed definition given with --nodes,
or from the built-in default tree. Refuses to replace an existing saved
tree unless --force is given.`,
		Example: `  termfs init --nodes seed.yaml --state game.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := util.GetLogger("CLI.Init")
			ctx := cmd.Context()

			st, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := st.Load(ctx); err == nil && !force {
				return fmt.Errorf("a saved tree already exists at %s (use --force to replace it)", opts.v.GetString("state"))
			} else if err != nil && !errors.Is(err, store.ErrNoState) && !force {
				return err
			}

			seed, err := opts.seed()
			if err != nil {
				return err
			}
			if seed == nil {
				seed = requests.DefaultTree()
			}
			fs, err := seed.Build(opts.cfg)
			if err != nil {
				return err
			}
			state := fs.Snapshot()
			if err := st.Save(ctx, state); err != nil {
				return err
			}
			logger.Info().Str("revision", state.Revision).Uint64("next_id", state.NextID).Msg("Initialized tree")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing saved tree")
	return cmd
}

func execCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "exec <command line>...",
		Short: "Run one command line against the saved tree",
		Long: `Run one command line against the saved tree and save the result.

The arguments are joined with spaces into a single command line. With
--output json or yaml the full response (output, goto, name, editing) is
printed instead of just its output. A failed command exits with status 1.`,
		Example: `  termfs exec ls -a /etc
  termfs exec --output json edit notes.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			resp := s.Exec(strings.Join(args, " "))
			if err := s.Save(ctx); err != nil {
				return err
			}
			if err := printResponse(cmd.OutOrStdout(), resp, output); err != nil {
				return err
			}
			if resp.IsError() {
				return errCommandFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")
	// Flags after the first argument belong to the command line, as in ls -a
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func writeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write <path>",
		Short: "Replace a file's contents with standard input",
		Long: `Replace the contents of the file at path with standard input, the way
an editor view submits its result. The file must carry the edit
permission; contents beyond the content limit are dropped.`,
		Example: `  echo "new text" | termfs write notes.txt`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read standard input: %w", err)
			}
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SubmitEdit(args[0], strings.TrimSuffix(string(text), "\n")); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), termfs.ErrorResponse(err).Output)
				return errCommandFailed
			}
			return s.Save(ctx)
		},
	}
	return cmd
}

func replCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session on the saved tree",
		Long: `Start an interactive session on the saved tree. The tree is saved after
every command. Type exit or logout (or send end of input) to leave, and
history to list recent commands. After edit, type the new contents and
finish with a line holding only ".".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := opts.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func showConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show-config",
		Short: "Show the configuration derived from defaults, file, environment and flags",
		Long: `Show the configuration derived from defaults, the --config file, TERMFS_*
environment variables and flags.

The derived configuration is rendered in YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(opts.cfg)
		},
	}
}

func printResponse(w io.Writer, resp termfs.Response, format string) error {
	switch format {
	case "text":
		if resp.Output != "" {
			_, err := fmt.Fprintln(w, strings.TrimSuffix(resp.Output, "\n"))
			return err
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(resp)
	}
	return fmt.Errorf("unknown output format %q", format)
}
