// SPDX-License-Identifier: MPL-2.0

// Package render turns deck forests and review reports into output: styled
// terminal trees (lipgloss/tree), Mermaid flowcharts, JSON documents and
// markdown reports rendered through glamour.
//
// Renderers are pure functions of their input; callers decide where the
// output goes.
package render
