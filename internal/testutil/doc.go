// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by globdeck tests: building
// library trees on disk and a manually advanced clock for scheduling.
package testutil
