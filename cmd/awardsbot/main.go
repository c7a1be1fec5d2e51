package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spainrp/awards/internal/app"
	"github.com/spainrp/awards/internal/config"
	"github.com/spainrp/awards/internal/handlers"
	"github.com/spainrp/awards/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var version = "dev"

// showBanner prints the logo boxed to width columns
func showBanner(event string) {
	const width = 62
	border := strings.Repeat("═", width)

	logo := []string{
		"        _                         _                       ",
		"       / \\__      ____ _ _ __ __| |___                    ",
		"      / _ \\ \\ /\\ / / _` | '__/ _` / __|                   ",
		"     / ___ \\ V  V / (_| | | | (_| \\__ \\                   ",
		"    /_/   \\_\\_/\\_/ \\__,_|_|  \\__,_|___/                   ",
		"",
		"    " + event,
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		if n := len([]rune(line)); n < width {
			line += strings.Repeat(" ", width-n)
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

func usage() {
	fmt.Fprintf(os.Stderr, `Awards - Discord voting bot and dashboard API

Usage:
  awardsbot [options]

Options:
  -mode string      What to run: all, bot or api (default "all")
  -loglevel string  Log level: debug, info, warn, error (default from LOG_LEVEL)
  -nokeyboard       Disable keyboard shortcuts
  -version          Show version and exit
  -help             Show this help message

Configuration is read from the environment and an optional .env file
(DISCORD_TOKEN, MONGO_URI, STORE_DRIVER, SESSION_STORE, PORT, ...).

Keyboard Shortcuts (when enabled):
  d              Open the dashboard in the browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit
  ?              Show keyboard help

Examples:
  awardsbot                          # Bot and API with settings from .env
  awardsbot -mode bot                # Only the Discord bot
  awardsbot -mode api -loglevel debug
`)
}

func main() {
	os.Exit(run())
}

func run() int {
	mode := flag.String("mode", "all", "What to run: all, bot or api")
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("awardsbot %s\n", version)
		return 0
	}
	handlers.Version = version

	runMode, err := app.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s%v%s\n", red, err, reset)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%sConfiguration error: %v%s\n", red, err, reset)
		return 1
	}

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if cfg.Debug {
		level = "debug"
	}
	appLog := logger.NewWithLevel(logger.ParseLevel(level))

	showBanner(cfg.Event.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, appLog, cfg, runMode)
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer a.Close()

	appLog.Info("Starting", "version", version, "mode", string(runMode), "store", cfg.Storage.Driver, "sessions", cfg.Session.Driver)

	if !*noKeyboard {
		restore := startKeyboard(cfg.Server.FrontendURL, appLog, stop)
		defer restore()
		printKeyboardHelp(os.Stdout)
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := a.Run(ctx); err != nil {
		appLog.Error("Stopped with error", "error", err)
		return 1
	}
	appLog.Info("Shutdown complete")
	return 0
}
