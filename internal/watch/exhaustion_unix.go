// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// exhaustionErrors are the inotify resource limits after which a watcher
// cannot recover: the user watch limit (ENOSPC) and the per-process and
// system-wide descriptor limits (EMFILE, ENFILE).
var exhaustionErrors = []error{
	syscall.ENOSPC,
	syscall.EMFILE,
	syscall.ENFILE,
}
