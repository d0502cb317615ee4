package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/printer"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output  string
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the shop map as JSON",
		Long: `Export writes the shop map in exchange format. By default the file is
staged as shop_map.json in the cache directory, ready to be shared, and
its path is printed. Use --output to write elsewhere, or --output - for
standard output.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ws, err := a.attachWorkspace(a.logger)
			if err != nil {
				return err
			}
			defer ws.detach(&err)

			slots := ws.layout.Observe()
			out := cmd.OutOrStdout()

			if output == "-" {
				return exchange.Write(out, slots, !compact)
			}

			var path string
			switch {
			case output == "":
				path, err = exchange.Stage(ws.config.CacheDir, slots)
			case compact:
				path, err = output, exchange.SaveCompact(output, slots)
			default:
				path, err = output, exchange.Save(output, slots)
			}
			if err != nil {
				return err
			}
			a.logger.Info("map exported", zapPath(path))

			if a.flags.jsonMode {
				return json.NewEncoder(out).Encode(map[string]any{
					"path":       path,
					"media_type": exchange.MediaType,
					"shelves":    slots.Occupied(),
				})
			}
			printer.Success(out, "exported %d shelves", slots.Occupied())
			printer.Info(out, "%s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this path instead of the cache dir (- for stdout)")
	cmd.Flags().BoolVar(&compact, "compact", false, "write compact JSON")
	return cmd
}
