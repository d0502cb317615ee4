package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/printer"
)

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>...",
		Short: "Find which shelves hold an item",
		Long: `Find lists every item containing the query, ignoring case, ordered by
slot and then by position on the shelf. Multiple words are searched as
one phrase.

Example:
  shopmap find milk`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			query := strings.Join(args, " ")

			ws, err := a.attachWorkspace(a.logger)
			if err != nil {
				return err
			}
			defer ws.detach(&err)

			locs, err := ws.backend.FindItems(query)
			if err != nil {
				return layoutError(err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(locs)
			}
			printer.Locations(out, locs)
			return nil
		},
	}
}
