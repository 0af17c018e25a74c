package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brettbedarf/termfs/config"
	"github.com/brettbedarf/termfs/internal/util"
	"github.com/brettbedarf/termfs/requests"
	"github.com/brettbedarf/termfs/session"
	"github.com/brettbedarf/termfs/store"
)

// errCommandFailed marks a command whose error response was already written
var errCommandFailed = errors.New("command failed")

const (
	fileStoreType   = "file"
	badgerStoreType = "badger"

	defaultStatePath = "termfs-state.yaml"
	defaultUser      = "guest"
)

// configEnvKeys are the config override keys that may also come from TERMFS_* variables
var configEnvKeys = []string{
	"content_limit", "line_width", "entry_gap", "hostname",
	"max_username_len", "root_name", "history_limit",
}

// options holds the resolved global flags
type options struct {
	v   *viper.Viper
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "termfs",
		Short: "A permissioned virtual filesystem driven by shell commands",
		Long: `termfs keeps a small in-memory filesystem tree, persists it between runs
and answers shell style commands (pwd, ls, cd, rm, cp, mv, mkdir, touch,
read, edit, man) against it.

Every flag may also be given as a TERMFS_<FLAG> environment variable.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to a YAML or JSON config override file")
	flags.IntP("verbose", "v", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace)")
	flags.StringP("state", "s", defaultStatePath, "Path of the state file, or database directory for the badger store")
	flags.String("store", fileStoreType, "State store type: file or badger")
	flags.String("slot", store.DefaultSlot, "Save slot within the badger store")
	flags.StringP("user", "u", defaultUser, "Login name shown in the prompt")
	flags.StringP("nodes", "n", "", "Seed tree definition (YAML or JSON) used when no state has been saved")

	opts.v.SetEnvPrefix("TERMFS")
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()
	if err := opts.v.BindPFlags(flags); err != nil {
		panic(err)
	}
	for _, key := range configEnvKeys {
		_ = opts.v.BindEnv(key)
	}

	cmd.AddCommand(initCmd(opts))
	cmd.AddCommand(execCmd(opts))
	cmd.AddCommand(writeCmd(opts))
	cmd.AddCommand(replCmd(opts))
	cmd.AddCommand(showConfigCmd(opts))
	return cmd
}

// load resolves the config from defaults, the config file, then the
// environment and flags, and initializes logging.
func (o *options) load() error {
	var override config.ConfigOverride
	if path := o.v.GetString("config"); path != "" {
		fileOverride, err := config.LoadConfigOverrideFile(path)
		if err != nil {
			return fmt.Errorf("failed to load config file: %w", err)
		}
		override = *fileOverride
	}
	if o.v.IsSet("verbose") {
		override.LogLvl = util.Pointer(o.v.GetInt("verbose"))
	}
	intKeys := map[string]**int{
		"content_limit":    &override.ContentLimit,
		"line_width":       &override.LineWidth,
		"entry_gap":        &override.EntryGap,
		"max_username_len": &override.MaxUsernameLen,
		"history_limit":    &override.HistoryLimit,
	}
	for key, field := range intKeys {
		if o.v.IsSet(key) {
			*field = util.Pointer(o.v.GetInt(key))
		}
	}
	if o.v.IsSet("hostname") {
		override.Hostname = util.Pointer(o.v.GetString("hostname"))
	}
	if o.v.IsSet("root_name") {
		override.RootName = util.Pointer(o.v.GetString("root_name"))
	}

	cfg := config.NewConfig(&override)
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	util.InitializeLogger(cfg.LogLvl)
	util.GetLogger("CLI").Debug().Interface("config", cfg).Msg("Configuration loaded")
	return nil
}

func (o *options) openStore(ctx context.Context) (store.StateStore, error) {
	path := o.v.GetString("state")
	switch t := o.v.GetString("store"); t {
	case fileStoreType:
		return store.NewFileStore(path)
	case badgerStoreType:
		return store.NewBadgerStore(ctx, store.BadgerStoreConfig{DBPath: path, Slot: o.v.GetString("slot")})
	default:
		return nil, fmt.Errorf("unknown store type %q", t)
	}
}

// seed returns the tree named by --nodes, or nil for the built-in default
func (o *options) seed() (*requests.Tree, error) {
	path := o.v.GetString("nodes")
	if path == "" {
		return nil, nil
	}
	return requests.LoadTree(path)
}

func (o *options) openSession(ctx context.Context) (*session.Session, error) {
	st, err := o.openStore(ctx)
	if err != nil {
		return nil, err
	}
	seed, err := o.seed()
	if err != nil {
		st.Close()
		return nil, err
	}
	s, err := session.Open(ctx, o.cfg, st, seed, o.v.GetString("user"))
	if err != nil {
		st.Close()
		return nil, err
	}
	return s, nil
}
