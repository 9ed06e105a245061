// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/globdeck/globdeck/internal/issue"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// isolated returns options whose lookups never leave t.TempDir().
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	base := t.TempDir()
	return LoadOptions{BaseDir: base, ConfigDirPath: filepath.Join(base, "user")}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Root != "." {
		t.Errorf("Root = %q, want .", cfg.Root)
	}
	if len(cfg.Decks) != 1 || cfg.Decks[0] != "**" {
		t.Errorf("Decks = %v, want [**]", cfg.Decks)
	}
	if cfg.Review.NewPerDay != 20 {
		t.Errorf("NewPerDay = %d, want 20", cfg.Review.NewPerDay)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if d, err := cfg.Watch.DebounceDuration(); err != nil || d != 500*time.Millisecond {
		t.Errorf("DebounceDuration() = %v, %v", d, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux-specific")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SourcePath != "" {
		t.Errorf("SourcePath = %q, want empty", cfg.SourcePath)
	}
	if cfg.Root != opts.BaseDir {
		t.Errorf("Root = %q, want %q", cfg.Root, opts.BaseDir)
	}
	if want := filepath.Join(opts.BaseDir, ".globdeck", "reviews.toml"); cfg.Review.StateFile != want {
		t.Errorf("StateFile = %q, want %q", cfg.Review.StateFile, want)
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	writeFile(t, filepath.Join(opts.BaseDir, LocalConfigFile), `
root: "notes"
decks: ["**", "Work/**"]
watch: debounce: "2s"
review: new_per_day: 5
ui: color_scheme: "dark"
matcher: "glob"
`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Root != filepath.Join(opts.BaseDir, "notes") {
		t.Errorf("Root = %q", cfg.Root)
	}
	if len(cfg.Decks) != 2 || cfg.Decks[1] != "Work/**" {
		t.Errorf("Decks = %v", cfg.Decks)
	}
	if cfg.Review.NewPerDay != 5 {
		t.Errorf("NewPerDay = %d, want 5", cfg.Review.NewPerDay)
	}
	if cfg.Matcher != "glob" {
		t.Errorf("Matcher = %q, want glob", cfg.Matcher)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q, want dark", cfg.UI.ColorScheme)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Review.StateFile != filepath.Join(cfg.Root, ".globdeck", "reviews.toml") {
		t.Errorf("StateFile = %q", cfg.Review.StateFile)
	}
	if d, _ := cfg.Watch.DebounceDuration(); d != 2*time.Second {
		t.Errorf("debounce = %v, want 2s", d)
	}
}

func TestLoad_UserConfigDir(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, "config.cue"), `decks: ["*.md"]`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Decks) != 1 || cfg.Decks[0] != "*.md" {
		t.Errorf("Decks = %v, want [*.md]", cfg.Decks)
	}
	if !strings.HasSuffix(cfg.SourcePath, "config.cue") {
		t.Errorf("SourcePath = %q", cfg.SourcePath)
	}
}

func TestLoad_LocalTakesPrecedence(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, "config.cue"), `decks: ["user/**"]`)
	writeFile(t, filepath.Join(opts.BaseDir, LocalConfigFile), `decks: ["local/**"]`)

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Decks[0] != "local/**" {
		t.Errorf("Decks = %v, want local/**", cfg.Decks)
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	opts.ConfigFilePath = filepath.Join(opts.BaseDir, "missing.cue")

	_, err := NewProvider().Load(context.Background(), opts)
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %T: %v", err, err)
	}
	if ae.Resource != opts.ConfigFilePath || len(ae.Suggestions) == 0 {
		t.Errorf("unexpected error context: %+v", ae)
	}
}

func TestLoad_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad color scheme", `ui: color_scheme: "neon"`, "color_scheme"},
		{"negative new_per_day", `review: new_per_day: -1`, "new_per_day"},
		{"bad debounce", `watch: debounce: "soon"`, "debounce"},
		{"unknown field", `colour: "red"`, "colour"},
		{"empty deck", `decks: [""]`, "decks"},
		{"syntax", `decks: [`, "globdeck.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolated(t)
			writeFile(t, filepath.Join(opts.BaseDir, LocalConfigFile), tt.content)

			_, err := NewProvider().Load(context.Background(), opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	writeFile(t, filepath.Join(opts.BaseDir, LocalConfigFile), `decks: ["Work/**", "Work/**"]`)

	_, err := NewProvider().Load(context.Background(), opts)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate pattern") {
		t.Errorf("error should name the duplicate: %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.BaseDir, LocalConfigFile), `ui: verbose: false`)
	t.Setenv("GLOBDECK_UI_VERBOSE", "true")
	t.Setenv("GLOBDECK_REVIEW_NEW_PER_DAY", "3")

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("GLOBDECK_UI_VERBOSE should override the file")
	}
	if cfg.Review.NewPerDay != 3 {
		t.Errorf("NewPerDay = %d, want 3", cfg.Review.NewPerDay)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, isolated(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() with canceled context = %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty root", func(c *Config) { c.Root = "" }, "root"},
		{"invalid glob", func(c *Config) { c.Decks = []string{"Work/[a"} }, "invalid glob"},
		{"invalid ignore", func(c *Config) { c.Ignore = []string{"{a"} }, "ignore[0]"},
		{"zero debounce", func(c *Config) { c.Watch.Debounce = "0s" }, "must be positive"},
		{"bad scheme", func(c *Config) { c.UI.ColorScheme = "neon" }, "invalid color scheme"},
		{"bad matcher", func(c *Config) { c.Matcher = "regex" }, "unknown matcher engine"},
		{"negative quota", func(c *Config) { c.Review.NewPerDay = -2 }, "new_per_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	path := filepath.Join(opts.BaseDir, LocalConfigFile)
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error: %v", err)
	}
	if err := WriteDefault(path); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second WriteDefault() = %v, want ErrConfigExists", err)
	}

	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", cfg.SourcePath, path)
	}
	if len(cfg.Decks) != 1 || cfg.Decks[0] != "**" {
		t.Errorf("Decks = %v", cfg.Decks)
	}
}
