package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/printer"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

func newImportCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the shop map with an exported file",
		Long: `Import replaces the whole workspace map with the contents of an exchange
file (- reads standard input). The file is fully validated first; if it
is malformed the workspace is left unchanged.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ws, err := a.attachWorkspace(a.logger)
			if err != nil {
				return err
			}
			defer ws.detach(&err)

			opt := exchange.StrictIf(strict || ws.config.StrictImport)
			var slots types.Slots
			if args[0] == "-" {
				slots, err = exchange.Read(cmd.InOrStdin(), opt)
			} else {
				slots, err = exchange.Load(args[0], opt)
			}
			if err != nil {
				return layoutError(fmt.Errorf("import %s: %w", args[0], err))
			}

			if err := ws.layout.ReplaceAll(slots); err != nil {
				return err
			}
			a.logger.Info("map imported", zapPath(args[0]))

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return json.NewEncoder(out).Encode(map[string]int{"shelves": slots.Occupied()})
			}
			printer.Success(out, "imported %d shelves", slots.Occupied())
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "reject shelves whose index differs from their position")
	return cmd
}
