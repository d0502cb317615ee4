package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/shopmap/pkg/shopmap"
)

const modulePath = "github.com/mesh-intelligence/shopmap"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shopmap version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "shopmap v%s\nmodule: %s\n", shopmap.Version, modulePath)
			return nil
		},
	}
}
