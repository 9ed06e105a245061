// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/globdeck/globdeck/internal/config"
	"github.com/globdeck/globdeck/internal/library"
	"github.com/globdeck/globdeck/internal/matcher"
	"github.com/globdeck/globdeck/internal/render"
	"github.com/globdeck/globdeck/pkg/deck"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference.
	App struct {
		Config ConfigProvider
		now    func() time.Time
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Now is the clock used for scheduling; nil means time.Now.
		Now    func() time.Time
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// session is the per-invocation state derived from flags and configuration.
	session struct {
		app     *App
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &App{
		Config: deps.Config,
		now:    deps.Now,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// loadSession loads configuration for the flags and applies its UI settings.
func (a *App) loadSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		BaseDir:        flags.dir,
	})
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	applyColorScheme(cfg.UI.ColorScheme)

	return &session{
		app:     a,
		cfg:     cfg,
		logger:  newLogger(a.stderr, verbose),
		verbose: verbose,
	}, nil
}

// newLibrary builds a Library from the session configuration.
func (s *session) newLibrary() (*library.Library, error) {
	m, err := matcher.New(s.cfg.Matcher)
	if err != nil {
		return nil, err
	}
	return library.New(library.Options{
		Root:    s.cfg.Root,
		Decks:   s.cfg.Decks,
		Ignore:  s.cfg.Ignore,
		Matcher: m,
		Logger:  s.logger,
		Now:     s.app.now,
	})
}

// openLibrary builds a Library and publishes its first snapshot.
func (s *session) openLibrary(ctx context.Context) (*library.Library, *library.Snapshot, error) {
	lib, err := s.newLibrary()
	if err != nil {
		return nil, nil, err
	}
	snap, err := lib.Rebuild(ctx)
	if err != nil {
		return nil, nil, err
	}
	return lib, snap, nil
}

// newLogger returns the CLI logger: warnings by default, debug when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// applyColorScheme forces lipgloss's background detection for explicit schemes.
func applyColorScheme(scheme config.ColorScheme) {
	switch scheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
}

// styles returns the palette styles when writing to a file such as the
// terminal and undecorated styles otherwise.
func (a *App) styles() render.Styles {
	if _, ok := a.stdout.(*os.File); ok {
		return render.DefaultStyles()
	}
	return render.PlainStyles()
}

// fail prints err with its suggestions and returns an ExitError so the
// command exits non-zero without Cobra printing usage.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1}
}

// summary describes a snapshot in one line.
func summary(snap *library.Snapshot) string {
	line := fmt.Sprintf("%d items in %d decks", len(snap.Items), snap.Forest.Len())
	if n := len(snap.Unplaced()); n > 0 {
		line += fmt.Sprintf(", %d not in any deck", n)
	}
	return line
}

// deckItems returns the sorted union of every deck's items.
func deckItems(f *deck.Forest[string]) []string {
	var items []string
	for _, root := range f.Roots() {
		items = append(items, root.Items()...)
	}
	slices.Sort(items)
	return slices.Compact(items)
}
