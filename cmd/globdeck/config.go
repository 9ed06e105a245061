// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/globdeck/globdeck/internal/config"
	"github.com/globdeck/globdeck/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `globdeck config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage globdeck configuration",
		Long: `Manage globdeck configuration.

globdeck reads the first of:
  - the file given with --config
  - globdeck.cue in the library directory (--root, default the current directory)
  - the user configuration file:
      Linux: ~/.config/globdeck/config.cue
      macOS: ~/Library/Application Support/globdeck/config.cue
      Windows: %APPDATA%\globdeck\config.cue

GLOBDECK_* environment variables override file values, e.g.
GLOBDECK_REVIEW_NEW_PER_DAY=5.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app, flags); err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions(flags))
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	var user bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Create a default configuration file.

By default globdeck.cue is written to the library directory. With --user
the user configuration file is written instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(app, flags, user); err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			return nil
		},
	}
	initCmd.Flags().BoolVar(&user, "user", false, "write the user configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), loadOptions(flags))
			if err != nil {
				return app.fail(cmd, err, flags.verbose)
			}
			if cfg.SourcePath == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, cfg.SourcePath)
			return nil
		},
	})

	return cfgCmd
}

func loadOptions(flags *rootFlagValues) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: flags.configPath, BaseDir: flags.dir}
}

func showConfig(ctx context.Context, app *App, flags *rootFlagValues) error {
	cfg, err := app.Config.Load(ctx, loadOptions(flags))
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.SourcePath != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.SourcePath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("root"), valueStyle.Render(cfg.Root))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("matcher"), valueStyle.Render(string(cfg.Matcher)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("decks"))
	for _, d := range cfg.Decks {
		fmt.Fprintf(w, "  - %s\n", valueStyle.Render(d))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ignore"))
	if len(cfg.Ignore) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, p := range cfg.Ignore {
			fmt.Fprintf(w, "  - %s\n", valueStyle.Render(p))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce))
	fmt.Fprintf(w, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Watch.ClearScreen)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("review"))
	fmt.Fprintf(w, "  state_file: %s\n", valueStyle.Render(cfg.Review.StateFile))
	fmt.Fprintf(w, "  new_per_day: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Review.NewPerDay)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App, flags *rootFlagValues, user bool) error {
	path := filepath.Join(flags.dir, config.LocalConfigFile)
	if user {
		cfgDir, err := config.ConfigDir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	}

	if err := config.WriteDefault(path); err != nil {
		ec := issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path)
		if errors.Is(err, config.ErrConfigExists) {
			ec = ec.WithSuggestion("Edit the existing file or remove it first").
				WithSuggestion("Run 'globdeck config show' to see the effective configuration")
		}
		return ec.Wrap(err).BuildError()
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	fmt.Fprintf(app.stdout, "  Edit %s to add your deck patterns, then run %s\n",
		CmdStyle.Render("decks"), CmdStyle.Render("globdeck tree"))
	return nil
}

