// Shared helpers for shopmap CLI commands.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/sqlite"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// workspace is an attached backend and its layout.
type workspace struct {
	backend *sqlite.Backend
	layout  types.Layout
	config  types.Config
}

// attachWorkspace resolves the workspace config, creates a SQLite backend,
// and attaches it. The caller must call detach.
func (a *app) attachWorkspace(logger *zap.Logger) (*workspace, error) {
	cfg, err := a.workspaceConfig()
	if err != nil {
		return nil, err
	}

	backend := sqlite.NewBackend(sqlite.WithLogger(logger))
	if err := backend.Attach(cfg); err != nil {
		return nil, layoutError(fmt.Errorf("attach workspace: %w", err))
	}
	layout, err := backend.Layout()
	if err != nil {
		backend.Detach()
		return nil, err
	}
	return &workspace{backend: backend, layout: layout, config: cfg}, nil
}

// detach releases the workspace and merges a flush failure into err.
func (w *workspace) detach(err *error) {
	if derr := w.backend.Detach(); derr != nil && *err == nil {
		*err = fmt.Errorf("save workspace: %w", derr)
	}
}

// parseIndex parses a slot index argument.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError(fmt.Errorf("slot index %q is not a number", arg))
	}
	return index, nil
}

// usageArgs wraps a cobra argument validator so its failures exit with
// the user error code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return userError(err)
		}
		return nil
	}
}

// writeShelfJSON prints a shelf in exchange wire form.
func writeShelfJSON(w io.Writer, shelf *types.Shelf) error {
	data, err := exchange.EncodeShelf(shelf, true)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func zapPath(path string) zap.Field {
	return zap.String("path", path)
}
