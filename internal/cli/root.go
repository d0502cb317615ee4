// Package cli implements the shopmap command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/shopmap/internal/logging"
	"github.com/mesh-intelligence/shopmap/internal/paths"
	"github.com/mesh-intelligence/shopmap/internal/printer"
	"github.com/mesh-intelligence/shopmap/pkg/shopmap"
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
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "shopmap" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "shopmap",
		Short:   "Map the shelves of a shop floor",
		Long:    "Shopmap keeps a 6x10 grid of shelf slots, the items on each shelf,\nand exports or imports the whole map as a JSON document.",
		Version: shopmap.Version,
		// Errors are printed once by Execute.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return userError(err)
	})

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $(CWD)/.shopmap)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.shopmap-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newShowCmd(a),
		newOccupyCmd(a),
		newAddCmd(a),
		newItemsCmd(a),
		newFindCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newEditCmd(a),
		newWatchCmd(a),
	)

	return root
}

// setup resolves the config directory, reads config.yaml and builds the
// logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	level := v.GetString(cfgKeyLogLevel)
	if a.flags.verbose {
		level = logging.LevelDebug
	}
	logger, err := logging.New(level)
	if err != nil {
		return userError(err)
	}

	a.configDir = configDir
	a.v = v
	a.logger = logger.With(zap.String("command", cmd.Name()))
	a.logger.Debug("config loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", v.ConfigFileUsed()),
	)
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err == nil {
		return
	}
	code := ExitCode(err)
	title := "Error"
	if code == exitSysError {
		title = "System error"
	}
	printer.Error(os.Stderr, title, err.Error(), hints(err))
	os.Exit(code)
}

// hints suggests next steps for well-known failures.
func hints(err error) []string {
	var ce *cmdError
	if errors.As(err, &ce) && len(ce.hints) > 0 {
		return ce.hints
	}
	return nil
}
