// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/globdeck/globdeck/internal/config"
	"github.com/globdeck/globdeck/internal/issue"
	"github.com/globdeck/globdeck/internal/library"
	"github.com/globdeck/globdeck/internal/watch"

	"github.com/spf13/cobra"
)

// newWatchCommand creates the `globdeck watch` command.
func newWatchCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var items bool

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Redraw the deck hierarchy whenever files change",
		Long: `Redraw the deck hierarchy whenever files change.

Changes are debounced by watch.debounce. Ignored paths, including the
review state directory, never trigger a redraw. Editing the configuration
file in effect reloads the deck patterns, ignore rules and matcher; the
root and debounce only change after a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, app, flags, items)
		},
	}

	watchCmd.Flags().BoolVar(&items, "items", false, "list the files in each deck")
	return watchCmd
}

// errRootChanged is returned by a reload whose configuration names another root.
var errRootChanged = errors.New("root directory changed")

// runWatch draws the tree once, then rebuilds and redraws it on every
// debounced batch of changes until the context is cancelled (e.g., Ctrl+C).
func runWatch(cmd *cobra.Command, app *App, flags *rootFlagValues, items bool) error {
	s, err := app.loadSession(cmd.Context(), flags)
	if err != nil {
		return app.fail(cmd, err, flags.verbose)
	}
	debounce, err := s.cfg.Watch.DebounceDuration()
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	lib, snap, err := s.openLibrary(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}

	st := app.styles()
	writeTree(app.stdout, snap, items, st, s.verbose)
	fmt.Fprintf(app.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)...\n\n", CmdStyle.Render("→"), lib.Root())

	var w *watch.Watcher
	w, err = watch.New(watch.Config{
		Ignorer:     lib.Ignorer(),
		Files:       configFiles(flags, s.cfg),
		Debounce:    debounce,
		ClearScreen: s.cfg.Watch.ClearScreen,
		BaseDir:     lib.Root(),
		OnReload: func(ctx context.Context) error {
			next, nextLib, err := reloadLibrary(ctx, app, flags, lib.Root())
			if err != nil {
				fmt.Fprintf(app.stderr, "%s Config reload failed, keeping the previous decks: %s\n",
					WarningStyle.Render("!"), formatErrorForDisplay(err, s.verbose))
				return err
			}
			s, lib = next, nextLib
			w.SetIgnorer(lib.Ignorer())
			s.logger.Debug("configuration reloaded", "decks", len(s.cfg.Decks))
			return nil
		},
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Debug("files changed", "count", len(changed))
			next, err := lib.Rebuild(ctx)
			if err != nil {
				// Keep watching: the user may fix the problem and save again.
				fmt.Fprintf(app.stderr, "%s Rebuild failed: %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, s.verbose))
				return nil
			}
			writeTree(app.stdout, next, items, st, s.verbose)
			fmt.Fprintf(app.stdout, "\n%s Watching for changes...\n\n", CmdStyle.Render("→"))
			return nil
		},
		Stdout: app.stdout,
		Logger: s.logger,
	})
	if err != nil {
		return app.fail(cmd, fmt.Errorf("failed to start watcher: %w", err), s.verbose)
	}
	if err := w.Run(cmd.Context()); err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	return nil
}

// configFiles lists the configuration files whose edits reload the decks:
// the explicit --config file, or else the project file (which may not exist
// yet) and the user file in effect.
func configFiles(flags *rootFlagValues, cfg *config.Config) []string {
	if flags.configPath != "" {
		return []string{flags.configPath}
	}
	files := []string{filepath.Join(flags.dir, config.LocalConfigFile)}
	if cfg.SourcePath != "" {
		files = append(files, cfg.SourcePath)
	}
	return files
}

// reloadLibrary loads the configuration again and builds a library from it
// without publishing a snapshot. The root cannot change while watching.
func reloadLibrary(ctx context.Context, app *App, flags *rootFlagValues, root string) (*session, *library.Library, error) {
	next, err := app.loadSession(ctx, flags)
	if err != nil {
		return nil, nil, err
	}
	if next.cfg.Root != root {
		return nil, nil, issue.NewErrorContext().
			WithOperation("reload configuration").
			WithResource(next.cfg.Root).
			WithSuggestion("Restart 'globdeck watch' to watch the new root").
			Wrap(fmt.Errorf("%w: was %s", errRootChanged, root)).
			BuildError()
	}
	lib, err := next.newLibrary()
	if err != nil {
		return nil, nil, err
	}
	return next, lib, nil
}
