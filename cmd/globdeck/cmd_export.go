// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/globdeck/globdeck/internal/issue"
	"github.com/globdeck/globdeck/internal/render"

	"github.com/spf13/cobra"
)

const (
	formatJSON    = "json"
	formatMermaid = "mermaid"
)

// newExportCommand creates the `globdeck export` command.
func newExportCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the deck hierarchy as JSON or a Mermaid flowchart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatMermaid {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("export decks").
					WithResource("--format").
					WithSuggestion("Use --format json or --format mermaid").
					Wrap(fmt.Errorf("unknown format %q", format)).
					BuildError(), flags.verbose)
			}

			s, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			_, snap, err := s.openLibrary(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, s.verbose)
			}

			if format == formatMermaid {
				fmt.Fprint(app.stdout, render.Mermaid(snap.Forest))
				return nil
			}
			if err := render.JSON(app.stdout, render.NewDocument(snap.Root, len(snap.Items), snap.Forest)); err != nil {
				return app.fail(cmd, fmt.Errorf("failed to write JSON: %w", err), s.verbose)
			}
			return nil
		},
	}

	exportCmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or mermaid")
	return exportCmd
}
