// Package cli implements the hbnb command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/hbnb/internal/console"
	"github.com/mesh-intelligence/hbnb/internal/logger"
	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/hbnb"
	"github.com/mesh-intelligence/hbnb/pkg/store"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	fileName  string
	logLevel  string
}

// app carries the state shared by one command invocation.
type app struct {
	flags rootFlags
	v     *viper.Viper
	log   zerolog.Logger
	reg   *types.Registry
}

func newApp() *app {
	return &app{
		v:   viper.New(),
		log: zerolog.Nop(),
		reg: types.DefaultRegistry(),
	}
}

// NewRootCmd creates the top-level "hbnb" command with global flags and all
// subcommands registered. Without a subcommand it runs the console.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "hbnb",
		Short:   "Manage hbnb records from a console or the command line",
		Long:    "hbnb stores users, places, cities, states, amenities and reviews\nin a single backing file and edits them through a line-oriented console.",
		Version: hbnb.Version,
		Args:    cobra.NoArgs,
		// Commands print their own failures; Execute maps errors to exit codes.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runConsole,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the backing file (default: working directory)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json or sqlite (default: json)")
	pf.StringVar(&a.flags.fileName, "file", "", "backing file name (default: file.json, file.db for sqlite)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (default: warn)")

	root.AddCommand(a.newConsoleCmd())
	root.AddCommand(a.recordCmds()...)
	root.AddCommand(a.newKindsCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// setup loads configuration and builds the logger before any subcommand.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir, cmd)
	if err != nil {
		return err
	}
	a.v = v

	log, err := logger.New(cmd.ErrOrStderr(), v.GetString(cfgKeyLogLevel))
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug().Str("config_dir", configDir).Str("config_file", v.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

// storeConfig assembles the store configuration from flags, config.yaml and
// the environment.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:  a.v.GetString(cfgKeyBackend),
		DataDir:  dataDir,
		FileName: a.v.GetString(cfgKeyFileName),
	}, nil
}

// openStore returns the configured store, reloaded from its backing file.
func (a *app) openStore() (types.Store, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.New(cfg, a.log)
	if err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// newConsole opens the store and returns a console writing to the
// command's output.
func (a *app) newConsole(cmd *cobra.Command, opts ...console.Option) (*console.Console, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	opts = append([]console.Option{console.WithLogger(a.log)}, opts...)
	return console.New(s, a.reg, cmd.OutOrStdout(), opts...), nil
}

// reported marks errors the console has already printed.
type reported struct{ err error }

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrPersistence), errors.Is(err, types.ErrCorruptStore):
		return exitSysError
	default:
		return exitUserError
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	stop()

	code := exitCode(err)
	if err != nil {
		var r reported
		if !errors.As(err, &r) {
			fmt.Fprintln(os.Stderr, "hbnb:", err)
		}
		if code == exitSysError {
			a.log.Error().Stack().Err(err).Msg("command failed")
		}
	}
	os.Exit(code)
}
