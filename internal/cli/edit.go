package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/shopmap/internal/exchange"
	"github.com/mesh-intelligence/shopmap/internal/logging"
	"github.com/mesh-intelligence/shopmap/internal/tui"
	"github.com/mesh-intelligence/shopmap/internal/watch"
	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// editLogFile receives editor logs; the terminal belongs to the editor.
const editLogFile = "shopmap.log"

func newEditCmd(a *app) *cobra.Command {
	var watchMap bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the shop map interactively",
		Long: `Edit opens the interactive grid editor. Move with the arrow keys or hjkl,
press enter on an empty slot to place a shelf and on a shelf to add
items, s to stage an export, q to quit.

With --watch, changes other programs make to the workspace map file are
loaded into the editor as they happen.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEdit(cmd.Context(), watchMap)
		},
	}

	cmd.Flags().BoolVarP(&watchMap, "watch", "w", false, "load external edits to the map file live")
	return cmd
}

func (a *app) runEdit(ctx context.Context, watchMap bool) (err error) {
	cfg, err := a.workspaceConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	level := a.v.GetString(cfgKeyLogLevel)
	if a.flags.verbose {
		level = logging.LevelDebug
	}
	logger, err := logging.New(level, filepath.Join(cfg.DataDir, editLogFile))
	if err != nil {
		return userError(err)
	}
	defer logger.Sync()

	ws, err := a.attachWorkspace(logger)
	if err != nil {
		return err
	}
	defer ws.detach(&err)

	model := tui.New(ws.layout, tui.WithStager(func(s types.Slots) (string, error) {
		path, err := exchange.Stage(ws.config.CacheDir, s)
		if err == nil {
			logger.Info("map exported", zapPath(path))
		}
		return path, err
	}))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if watchMap {
		w, err := watch.New(ws.backend.MapPath(), externalEdits(ws, logger),
			watch.WithLogger(logger),
			watch.WithStrict(ws.config.StrictImport),
		)
		if err != nil {
			model.Close()
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}

	g.Go(func() error {
		// Quitting the editor stops the watcher.
		defer cancel()
		return tui.Run(gctx, model)
	})

	return g.Wait()
}

// externalEdits applies map file changes made by other programs to the
// workspace layout. The backend's own writes and files that already match
// the layout are skipped.
func externalEdits(ws *workspace, logger *zap.Logger) watch.Handler {
	return func(slots types.Slots) {
		if ws.backend.OwnWrite(slots) || ws.layout.Observe().Equal(slots) {
			return
		}
		if err := ws.layout.ReplaceAll(slots); err != nil {
			logger.Error("apply external edit failed", zap.Error(err))
			return
		}
		logger.Info("external edit loaded", zap.Int("shelves", slots.Occupied()))
	}
}
