// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/globdeck/globdeck/pkg/pattern"

	"github.com/spf13/cobra"
)

// newCompareCommand creates the `globdeck compare` command. It needs no
// configuration or library.
func newCompareCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <pattern> <pattern>",
		Short: "Show how two deck patterns relate",
		Long: `Show how two deck patterns relate.

The first pattern is a child of the second when every path it describes is
also described by the second and it is strictly more specific.`,
		Example: `  globdeck compare 'Work/Math/**' 'Work/**'
  globdeck compare '*.md' '*.js'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := args[0], args[1]
			if a == "" || b == "" {
				return app.fail(cmd, errors.New("patterns must not be empty"), false)
			}
			fmt.Fprintln(app.stdout, describeRelation(a, b))
			return nil
		},
	}
}

func describeRelation(a, b string) string {
	qa, qb := CmdStyle.Render(a), CmdStyle.Render(b)
	switch pattern.Classify(a, b) {
	case pattern.ChildOf:
		return fmt.Sprintf("%s is a child of %s", qa, qb)
	case pattern.ParentOf:
		return fmt.Sprintf("%s is a parent of %s", qa, qb)
	default:
		return fmt.Sprintf("%s and %s are unrelated", qa, qb)
	}
}
