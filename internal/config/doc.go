// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from, in order of precedence: the file passed with
// --config, globdeck.cue in the base directory, and config.cue in the user
// config directory (~/.config/globdeck on Linux, ~/Library/Application
// Support/globdeck on macOS, %APPDATA%\globdeck on Windows). Files are
// validated against the embedded CUE schema (config_schema.cue) before being
// merged over the defaults. GLOBDECK_* environment variables override file
// values (e.g. GLOBDECK_UI_VERBOSE=true).
package config
