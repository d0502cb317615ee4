package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/printer"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <index> <item>...",
		Short: "Append items to a shelf",
		Long: `Add appends each item, in order, to the shelf in the given slot.
Items added before a failing one are kept.

Example:
  shopmap add 5 Rice Beans "Red lentils"`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
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

			var shelf *types.Shelf
			for _, item := range args[1:] {
				shelf, err = ws.layout.AddItem(index, item)
				if err != nil {
					return layoutError(err)
				}
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeShelfJSON(out, shelf)
			}
			printer.Success(out, "added %d item(s) to %s", len(args)-1, shelf.Name)
			printer.Shelf(out, index, shelf)
			return nil
		},
	}
}
