// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/globdeck/globdeck/internal/matcher"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultDebounce  = "500ms"
	defaultStateFile = ".globdeck/reviews.toml"
	defaultNewPerDay = 20
)

var (
	// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
)

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// Config is the full application configuration.
	Config struct {
		// Root is the directory scanned for items.
		Root string `json:"root" mapstructure:"root"`
		// Decks are the deck patterns, doublestar globs relative to Root.
		Decks []string `json:"decks" mapstructure:"decks"`
		// Ignore are extra ignore globs applied while scanning and watching.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// Matcher selects the glob engine that resolves decks to items.
		Matcher matcher.Engine `json:"matcher" mapstructure:"matcher"`
		// Watch configures the watch command.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// Review configures spaced-repetition state.
		Review ReviewConfig `json:"review" mapstructure:"review"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// SourcePath is the file the configuration was read from, empty when
		// only defaults were used.
		SourcePath string `json:"-" mapstructure:"-"`
	}

	// WatchConfig configures file watching.
	WatchConfig struct {
		Debounce    string `json:"debounce" mapstructure:"debounce"`
		ClearScreen bool   `json:"clear_screen" mapstructure:"clear_screen"`
	}

	// ReviewConfig configures the review state store.
	ReviewConfig struct {
		StateFile string `json:"state_file" mapstructure:"state_file"`
		NewPerDay int    `json:"new_per_day" mapstructure:"new_per_day"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is found: one
// deck covering every file under the current directory.
func DefaultConfig() *Config {
	return &Config{
		Root:    ".",
		Decks:   []string{"**"},
		Ignore:  []string{},
		Matcher: matcher.EngineDoublestar,
		Watch: WatchConfig{
			Debounce: defaultDebounce,
		},
		Review: ReviewConfig{
			StateFile: defaultStateFile,
			NewPerDay: defaultNewPerDay,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate checks constraints that the CUE schema cannot express or that
// environment overrides may have broken.
func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}

	seen := make(map[string]int, len(c.Decks))
	for i, p := range c.Decks {
		if p == "" {
			errs = append(errs, fmt.Errorf("decks[%d]: pattern must not be empty", i))
			continue
		}
		if first, dup := seen[p]; dup {
			errs = append(errs, fmt.Errorf("decks[%d]: duplicate pattern %q (same as decks[%d])", i, p, first))
			continue
		}
		seen[p] = i
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("decks[%d]: invalid glob %q", i, p))
		}
	}

	for i, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("ignore[%d]: invalid glob %q", i, p))
		}
	}

	if _, err := matcher.New(c.Matcher); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}

	if c.Review.NewPerDay < 0 {
		errs = append(errs, fmt.Errorf("review.new_per_day: must be >= 0, got %d", c.Review.NewPerDay))
	}

	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// DebounceDuration parses Debounce. An empty value yields the default.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	raw := w.Debounce
	if raw == "" {
		raw = defaultDebounce
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.debounce: must be positive, got %s", raw)
	}
	return d, nil
}

// Validate returns an error wrapping ErrInvalidColorScheme for unknown values.
func (s ColorScheme) Validate() error {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return fmt.Errorf("%w: %q (valid: auto, dark, light)", ErrInvalidColorScheme, string(s))
	}
}

// String returns the string representation of the ColorScheme.
func (s ColorScheme) String() string { return string(s) }
