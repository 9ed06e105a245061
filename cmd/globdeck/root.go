// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for globdeck.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/globdeck/globdeck/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	// configPath is the explicit --config file.
	configPath string
	// verbose enables debug logging and full error chains.
	verbose bool
	// dir is the --root library directory; empty means the working directory.
	dir string
}

// NewRootCommand builds the globdeck command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "globdeck",
		Short: "Organize files into nested review decks by glob pattern",
		Long: TitleStyle.Render("globdeck") + SubtitleStyle.Render(" - Organize files into nested review decks by glob pattern") + `

globdeck matches the files under a library directory against the deck
patterns in globdeck.cue and nests more specific decks under more general
ones: 'Work/Math/**' becomes a child of 'Work/**'. Every file is a card with
its own spaced-repetition schedule.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'globdeck config init' in your notes directory
  2. List your deck patterns under 'decks' in globdeck.cue
  3. Run 'globdeck tree' to see the hierarchy

` + SubtitleStyle.Render("Examples:") + `
  globdeck tree --items           Show decks and the files in them
  globdeck review                 Show what is due today
  globdeck grade Work/plan.md 4   Record a review
  globdeck compare '*.md' '**'    Compare two patterns
  globdeck watch                  Redraw the tree when files change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is ./globdeck.cue, then the user config directory)")
	pf.StringVar(&flags.dir, "root", "", "library directory holding globdeck.cue (default is the current directory)")

	rootCmd.AddCommand(newTreeCommand(app, flags))
	rootCmd.AddCommand(newExportCommand(app, flags))
	rootCmd.AddCommand(newCompareCommand(app))
	rootCmd.AddCommand(newReviewCommand(app, flags))
	rootCmd.AddCommand(newGradeCommand(app, flags))
	rootCmd.AddCommand(newWatchCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the root command. It is called
// by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	return issue.FormatForDisplay(err, verboseMode)
}
