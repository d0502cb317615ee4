package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/printer"
)

func newItemsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "items <index>",
		Short: "List the items on one shelf",
		Args:  usageArgs(cobra.ExactArgs(1)),
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

			shelf, err := ws.layout.Shelf(index)
			if err != nil {
				return layoutError(err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeShelfJSON(out, shelf)
			}
			printer.Shelf(out, index, shelf)
			return nil
		},
	}
}
