//go:build !linux && !darwin

package main

import (
	"os"

	"golang.org/x/term"

	"github.com/spainrp/awards/internal/logger"
)

// startKeyboard reads shortcuts from stdin. Without termios each key needs
// Enter.
func startKeyboard(dashboardURL string, appLog logger.Logger, quit func()) func() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return func() {}
	}
	go readKeys(os.Stdin, newKeyHandler(os.Stdout, dashboardURL, appLog, quit))
	return func() {}
}
