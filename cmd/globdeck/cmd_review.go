// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/globdeck/globdeck/internal/config"
	"github.com/globdeck/globdeck/internal/issue"
	"github.com/globdeck/globdeck/internal/render"
	"github.com/globdeck/globdeck/internal/review"
	"github.com/globdeck/globdeck/internal/schedule"

	"github.com/spf13/cobra"
)

const markdownWidth = 80

type reviewFlagValues struct {
	markdown bool
	limit    int
	prune    bool
}

// newReviewCommand creates the `globdeck review` command.
func newReviewCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rf := &reviewFlagValues{}

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Show due and new cards per deck",
		Long: `Show due and new cards per deck.

Counts include every file in the deck and its sub-decks. The queue lists
due cards first, most overdue first, then up to review.new_per_day new
cards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, app, flags, rf)
		},
	}

	reviewCmd.Flags().BoolVar(&rf.markdown, "markdown", false, "render the report as markdown")
	reviewCmd.Flags().IntVar(&rf.limit, "limit", 10, "number of queued cards to list (0 lists none)")
	reviewCmd.Flags().BoolVar(&rf.prune, "prune", false, "drop review state for files that no longer exist")
	return reviewCmd
}

func runReview(cmd *cobra.Command, app *App, flags *rootFlagValues, rf *reviewFlagValues) error {
	ctx := cmd.Context()
	s, err := app.loadSession(ctx, flags)
	if err != nil {
		return app.fail(cmd, err, flags.verbose)
	}
	_, snap, err := s.openLibrary(ctx)
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	store, err := openStore(s.cfg)
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}

	if rf.prune {
		removed := store.Prune(func(item string) bool {
			_, found := slices.BinarySearch(snap.Items, item)
			return found
		})
		if removed > 0 {
			if err := saveStore(store); err != nil {
				return app.fail(cmd, err, s.verbose)
			}
		}
		s.logger.Info("pruned review state", "removed", removed)
		fmt.Fprintf(app.stdout, "%s Removed state for %d missing file(s)\n\n", SuccessStyle.Render("✓"), removed)
	}

	now := app.now()
	report := review.Aggregate(snap.Forest, store, now)
	queue := review.Queue(deckItems(snap.Forest), store, now, s.cfg.Review.NewPerDay)
	if rf.limit >= 0 && len(queue) > rf.limit {
		queue = queue[:rf.limit]
	}

	if rf.markdown {
		out, err := render.RenderMarkdown(render.Markdown(report, queue), render.MarkdownOptions{
			Style: glamourStyle(s.cfg.UI.ColorScheme),
			Width: markdownWidth,
		})
		if err != nil {
			return app.fail(cmd, err, s.verbose)
		}
		fmt.Fprint(app.stdout, out)
		return nil
	}

	st := app.styles()
	fmt.Fprint(app.stdout, render.ReviewTree(report, st))
	if len(queue) == 0 {
		fmt.Fprintln(app.stdout, "\n"+st.Quiet.Render("Nothing to review."))
		return nil
	}
	fmt.Fprintln(app.stdout, "\n"+TitleStyle.Render("Next up:"))
	for _, item := range queue {
		fmt.Fprintf(app.stdout, "  %s\n", st.Item.Render(item))
	}
	return nil
}

// newGradeCommand creates the `globdeck grade` command.
func newGradeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "grade <file> <0-5>",
		Short: "Record a review of a file",
		Long: `Record a review of a file.

The file is given relative to the library root. Grades follow SM-2:
0-2 are failed recalls and restart the card, 3 is a hard recall, 4 good
and 5 perfect.`,
		Example: `  globdeck grade Work/Math/algebra.md 4`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrade(cmd, app, flags, args[0], args[1])
		},
	}
}

func runGrade(cmd *cobra.Command, app *App, flags *rootFlagValues, rawItem, rawGrade string) error {
	grade, err := schedule.ParseGrade(rawGrade)
	if err != nil {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("record review").
			WithResource(rawItem).
			WithSuggestion("Grades run from 0 (blackout) to 5 (perfect recall)").
			Wrap(err).
			BuildError(), flags.verbose)
	}

	ctx := cmd.Context()
	s, err := app.loadSession(ctx, flags)
	if err != nil {
		return app.fail(cmd, err, flags.verbose)
	}
	_, snap, err := s.openLibrary(ctx)
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}

	item := filepath.ToSlash(filepath.Clean(rawItem))
	if _, found := slices.BinarySearch(snap.Items, item); !found {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("record review").
			WithResource(item).
			WithSuggestion("Give the path relative to the library root "+snap.Root).
			WithSuggestion("Run 'globdeck tree --items' to list known files").
			Wrap(fmt.Errorf("file not found in library")).
			BuildError(), s.verbose)
	}

	store, err := openStore(s.cfg)
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	card, err := store.Grade(item, grade, app.now())
	if err != nil {
		return app.fail(cmd, err, s.verbose)
	}
	if err := saveStore(store); err != nil {
		return app.fail(cmd, err, s.verbose)
	}

	s.logger.Debug("review recorded", "item", item, "grade", grade, "ease", card.Ease, "reps", card.Reps)
	fmt.Fprintf(app.stdout, "%s %s: next review in %s (%s)\n",
		SuccessStyle.Render("✓"), item, days(card.Interval), card.Due.Format("Mon, 02 Jan 2006"))
	return nil
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// openStore opens the configured review state file.
func openStore(cfg *config.Config) (*schedule.Store, error) {
	store, err := schedule.Open(cfg.Review.StateFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open review state").
			WithResource(cfg.Review.StateFile).
			WithSuggestion("Check that the file is valid TOML written by globdeck").
			WithSuggestion("Move the file away to start with fresh review state").
			Wrap(err).
			BuildError()
	}
	return store, nil
}

func saveStore(store *schedule.Store) error {
	if err := store.Save(); err != nil {
		return issue.NewErrorContext().
			WithOperation("save review state").
			WithResource(store.Path()).
			WithSuggestion("Check that the directory is writable").
			Wrap(err).
			BuildError()
	}
	return nil
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
