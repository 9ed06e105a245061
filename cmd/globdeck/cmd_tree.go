// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/globdeck/globdeck/internal/library"
	"github.com/globdeck/globdeck/internal/render"

	"github.com/spf13/cobra"
)

// newTreeCommand creates the `globdeck tree` command.
func newTreeCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var items bool

	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the deck hierarchy",
		Long: `Show the deck hierarchy.

Each deck is listed with the number of files it matches. Decks whose
pattern and files are covered by a broader deck are nested under it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			_, snap, err := s.openLibrary(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}
			writeTree(app.stdout, snap, items, app.styles(), s.verbose)
			return nil
		},
	}

	treeCmd.Flags().BoolVar(&items, "items", false, "list the files in each deck")
	return treeCmd
}

// writeTree prints the forest of snap followed by a summary line. In verbose
// mode the files no deck matches are listed too.
func writeTree(w io.Writer, snap *library.Snapshot, items bool, st render.Styles, verbose bool) {
	fmt.Fprint(w, render.Tree(snap.Forest, render.TreeOptions{Items: items, Styles: st}))
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Count.Render(summary(snap)))

	if verbose {
		for _, item := range snap.Unplaced() {
			fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("!"), st.Item.Render(item))
		}
	}
}
