package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/printer"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a shopmap workspace",
		Long:  "Create the configuration directory with a default config.yaml, then create\nthe data directory with an empty shop map.",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) (err error) {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	created, err := writeConfigIfMissing(a.configPath(), a.flags.dataDir)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if created {
		// Pick up the file just written.
		v, err := loadConfig(a.configDir)
		if err != nil {
			return err
		}
		a.v = v
	}

	ws, err := a.attachWorkspace(a.logger)
	if err != nil {
		return err
	}
	defer ws.detach(&err)

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return json.NewEncoder(out).Encode(map[string]string{
			"config_dir": a.configDir,
			"data_dir":   ws.config.DataDir,
			"map":        ws.backend.MapPath(),
		})
	}

	printer.Success(out, "shopmap initialized")
	printer.Info(out, "  config: %s", a.configDir)
	printer.Info(out, "  data:   %s", ws.config.DataDir)
	return nil
}
