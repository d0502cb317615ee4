package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/printer"
	"github.com/mesh-intelligence/shopmap/internal/watch"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-render a map file whenever it changes",
		Long: `Watch renders a shop map file and renders it again each time it changes
on disk. Without an argument it watches the workspace map. Malformed
versions of the file are reported and skipped.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.workspaceConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.DataDir, exchange.FileName)
			if len(args) == 1 {
				path = args[0]
			}

			out := cmd.OutOrStdout()
			render := func(slots types.Slots) {
				fmt.Fprintf(out, "\n%s\n", time.Now().Format(time.TimeOnly))
				printer.Grid(out, slots)
				printer.Info(out, "%d/%d slots occupied", slots.Occupied(), types.SlotCount)
			}

			slots, err := exchange.Load(path, exchange.StrictIf(cfg.StrictImport))
			switch {
			case err == nil:
				render(slots)
			case errors.Is(err, os.ErrNotExist):
				printer.Warning(out, "%s does not exist yet", path)
			case errors.Is(err, types.ErrFormat):
				printer.Warning(out, "%v", err)
			default:
				return err
			}

			w, err := watch.New(path, render,
				watch.WithLogger(a.logger),
				watch.WithStrict(cfg.StrictImport),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			printer.Step(out, "watching %s (ctrl+c to stop)", w.Path())
			return w.Run(ctx)
		},
	}
}

