// Overworld runs a top-down adventure from a content directory of Lua scenes
// and YAML dialogue.
// Usage: overworld [--version] [--plain] [--script <file>] [--trace] [--inspect <addr>] [--env <file>] [content_dir]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nathoo/overworld/cli"
	"github.com/nathoo/overworld/config"
	"github.com/nathoo/overworld/engine"
	"github.com/nathoo/overworld/inspect"
	"github.com/nathoo/overworld/loader"
	"github.com/nathoo/overworld/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: overworld [--version] [--plain] [--script <file>] [--trace] [--inspect <addr>] [--env <file>] [content_dir]"

func main() {
	plain := false
	trace := false
	var contentDir, scriptFile, inspectAddr string
	var envFiles []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("overworld %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--inspect", "--env":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				os.Exit(1)
			}
			i++
			switch args[i-1] {
			case "--script":
				scriptFile = args[i]
			case "--inspect":
				inspectAddr = args[i]
			default:
				envFiles = append(envFiles, args[i])
			}
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}
	if contentDir != "" {
		cfg.ContentDir = contentDir
	}
	if inspectAddr != "" {
		cfg.InspectAddr = inspectAddr
	}
	if cfg.ContentDir == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	interactive := scriptFile == "" && !plain && isTerminal()
	logger := newLogger(cfg, interactive)

	defs, err := loader.Load(cfg.ContentDir, loader.WithLogger(logger))
	if err != nil {
		logger.Fatal("loading content", "dir", cfg.ContentDir, "err", err)
	}

	eng, err := engine.New(defs, engine.WithLogger(logger))
	if err != nil {
		logger.Fatal("starting engine", "err", err)
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var observe engine.Observer
	if cfg.InspectAddr != "" {
		srv := inspect.New(logger.WithPrefix("inspect"))
		go func() {
			if err := srv.Run(ctx, cfg.InspectAddr); err != nil {
				logger.Error("inspector stopped", "err", err)
			}
		}()
		observe = func(e *engine.Engine, f engine.Frame) {
			srv.Publish(e.Snapshot(), f.Events)
		}
	}

	if interactive {
		err = tui.Run(eng, tui.WithFPS(cfg.FPS), tui.WithTrace(trace), tui.WithObserver(observe))
	} else {
		c := cli.New(eng)
		c.DT = cfg.FrameSeconds()
		c.Trace = trace
		c.Observe = observe
		// Script mode: read commands from a file and echo them.
		if scriptFile != "" {
			f, ferr := os.Open(scriptFile)
			if ferr != nil {
				logger.Fatal("opening script", "file", scriptFile, "err", ferr)
			}
			defer f.Close()
			c.In = f
			c.EchoInput = true
		}
		err = c.Run()
	}
	if err != nil {
		eng.Close()
		logger.Fatal("game stopped", "err", err)
	}
}

// newLogger logs to stderr, or to a file in the temp dir while the
// full-screen UI owns the terminal.
func newLogger(cfg *config.Config, interactive bool) *log.Logger {
	out := os.Stderr
	if interactive {
		path := filepath.Join(os.TempDir(), "overworld.log")
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			out = f
		}
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	return logger
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
