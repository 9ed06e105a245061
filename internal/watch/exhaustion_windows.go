// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// exhaustionErrors are the ReadDirectoryChangesW failures after which a
// watcher cannot recover. Win32 codes: ERROR_TOO_MANY_OPEN_FILES (4),
// ERROR_INVALID_HANDLE (6) when the watched directory disappeared, and
// ERROR_NOT_ENOUGH_MEMORY (8) for the notification buffer.
var exhaustionErrors = []error{
	syscall.Errno(4),
	syscall.Errno(6),
	syscall.Errno(8),
}
