package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/printer"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Render the shop map",
		Long:  "Render the 6x10 shelf grid. With --json, print the map in exchange format.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ws, err := a.attachWorkspace(a.logger)
			if err != nil {
				return err
			}
			defer ws.detach(&err)

			slots := ws.layout.Observe()
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return exchange.Write(out, slots, true)
			}
			printer.Grid(out, slots)
			printer.Info(out, "%d/%d slots occupied", slots.Occupied(), types.SlotCount)
			return nil
		},
	}
}
