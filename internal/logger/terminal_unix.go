//go:build darwin || linux
// +build darwin linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

// IsTerminal reports whether file is connected to an interactive terminal,
// used by cmd/c99js to decide whether to colorize diagnostics. Grounded on
// the teacher's internal/logger GetTerminalInfo, trimmed to the one fact the
// core's diagnostic renderer actually needs (the original also measured
// window width/height for a progress UI this spec has no use for).
func IsTerminal(file *os.File) bool {
	fd := int(file.Fd())
	if _, err := unix.IoctlGetTermios(fd, termiosRequest); err == nil {
		return true
	}
	return false
}
