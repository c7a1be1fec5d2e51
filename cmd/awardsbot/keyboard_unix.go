//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/spainrp/awards/internal/logger"
)

// startKeyboard switches stdin to unbuffered, no-echo input and reads
// shortcuts in the background. Output processing stays on so log lines keep
// their line breaks. The returned func restores the terminal.
func startKeyboard(dashboardURL string, appLog logger.Logger, quit func()) func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	oldState, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return func() {}
	}
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &newState); err != nil {
		return func() {}
	}

	go readKeys(os.Stdin, newKeyHandler(os.Stdout, dashboardURL, appLog, quit))

	return func() {
		_ = unix.IoctlSetTermios(fd, ioctlSetTermios, oldState)
	}
}
