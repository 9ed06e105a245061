// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Errors carry the operation that failed, the file or pattern involved and
// suggestions for fixing the problem, so the CLI can print remediation steps
// instead of a bare error chain.
package issue
