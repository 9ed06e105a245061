// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of a globdeck rebuild:
//   - CUE configuration parsing and schema validation
//   - Pattern comparison and forest construction
//   - Matching deck patterns against a scanned library
//   - Review aggregation over a built forest
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -bench=. -cpuprofile=default.pgo
package benchmark
