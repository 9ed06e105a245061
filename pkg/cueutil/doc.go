// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Parsing follows three steps: compile the embedded schema, compile the user
// file and unify it with the schema's root definition, then validate and
// decode into a Go value. Errors are rewritten so they name the offending
// field as a JSON-style path ("review.new_per_day") next to the file name.
//
//	//go:embed config_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecodeString[map[string]any](
//	    schema, data, "#Config",
//	    cueutil.WithConcrete(false),
//	    cueutil.WithFilename("globdeck.cue"),
//	)
package cueutil
