package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spainrp/awards/internal/browser"
	"github.com/spainrp/awards/internal/logger"
)

// nextLevel cycles debug -> info -> warn -> error -> debug
func nextLevel(current zerolog.Level) zerolog.Level {
	switch current {
	case zerolog.DebugLevel:
		return zerolog.InfoLevel
	case zerolog.InfoLevel:
		return zerolog.WarnLevel
	case zerolog.WarnLevel:
		return zerolog.ErrorLevel
	case zerolog.ErrorLevel:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp(w io.Writer) {
	fmt.Fprintf(w, "\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Fprintf(w, "    %sd%s      - Open the dashboard in browser\n", cyan, reset)
	fmt.Fprintf(w, "    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Fprintf(w, "    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Fprintf(w, "    %sq%s      - Quit\n", cyan, reset)
	fmt.Fprintf(w, "    %s?%s      - Show this help\n\n", cyan, reset)
}

// keyHandler performs the action bound to a single key press.
type keyHandler struct {
	out          io.Writer
	log          logger.Logger
	dashboardURL string
	open         func(string) error
	quit         func()
}

// handle returns true once the user asked to quit.
func (k *keyHandler) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "d":
		fmt.Fprintf(k.out, "%sOpening %s...%s\n", cyan, k.dashboardURL, reset)
		if err := k.open(k.dashboardURL); err != nil {
			fmt.Fprintf(k.out, "%sError opening browser: %v%s\n", red, err, reset)
		}
	case "h":
		if k.log.IsHTTPLoggingEnabled() {
			k.log.DisableHTTPLogging()
			fmt.Fprintf(k.out, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			k.log.EnableHTTPLogging()
			fmt.Fprintf(k.out, "%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := nextLevel(k.log.GetLevel())
		k.log.SetLevel(next)
		fmt.Fprintf(k.out, "%sLog level: %s%s%s\n", green, yellow, next, reset)
	case "?":
		printKeyboardHelp(k.out)
	case "q", "\x03":
		fmt.Fprintf(k.out, "%sShutting down...%s\n", yellow, reset)
		k.quit()
		return true
	}
	return false
}

// readKeys feeds every byte from r to h until quit or EOF.
func readKeys(r io.Reader, h *keyHandler) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if h.handle(buf[0]) {
			return
		}
	}
}

func newKeyHandler(out io.Writer, dashboardURL string, appLog logger.Logger, quit func()) *keyHandler {
	return &keyHandler{out: out, log: appLog, dashboardURL: dashboardURL, open: browser.Open, quit: quit}
}
