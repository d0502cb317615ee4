package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/printer"
)

func newOccupyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "occupy <index>",
		Short: "Place a new empty shelf in a slot",
		Long: `Occupy creates a shelf in an empty slot. The shelf is named from the
configured prefix and the slot number, and gets the configured color.

Example:
  shopmap occupy 5`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			ws, err := a.attachWorkspace(a.logger)
			if err != nil {
				return err
			}
			defer ws.detach(&err)

			shelf, err := ws.layout.OccupySlot(index)
			if err != nil {
				return layoutError(err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeShelfJSON(out, shelf)
			}
			printer.Success(out, "created %s in slot %d", shelf.Name, index)
			return nil
		},
	}
}
