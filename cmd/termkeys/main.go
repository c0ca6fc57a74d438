// Package main is the entry point for termkeys.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/termkeys/internal/app"
	"github.com/dshills/termkeys/internal/config"
	"github.com/dshills/termkeys/internal/input/keymap"
	"github.com/dshills/termkeys/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts       app.Options
	dumpKeymap bool
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	if f.dumpKeymap {
		return dumpKeymap(f.opts.ConfigPath)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: termkeys must run in a terminal")
		return 1
	}

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := application.SetScreen(screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set screen: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// dumpKeymap prints the merged shortcuts as JSON.
func dumpKeymap(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	km, errs := app.BuildKeymap(cfg)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	data, err := keymap.Export(km)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if _, err := os.Stdout.Write(append(data, '\n')); err != nil {
		return 1
	}
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&f.opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&f.opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.StringVar(&f.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.dumpKeymap, "dump-keymap", false, "Print the merged keymap as JSON and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "termkeys - terminal keystroke interpreter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termkeys [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  F1-F4       Latch Cmd, Alt, Ctrl, Shift for the next key\n")
		fmt.Fprintf(os.Stderr, "  Cmd+/       Show shortcuts\n")
		fmt.Fprintf(os.Stderr, "  Cmd+q       Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termkeys -c ./termkeys.toml\n")
		fmt.Fprintf(os.Stderr, "  termkeys -dump-keymap > keymap.json\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("termkeys %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if f.opts.LogLevel != "" {
		if _, err := logging.ParseLevel(f.opts.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (use debug, info, warn, or error)\n", err)
			os.Exit(1)
		}
	}

	f.opts.Version = version
	return f
}
