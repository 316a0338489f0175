package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cratemap/internal/config"
	apperrors "cratemap/internal/core/errors"
	"cratemap/internal/shared/observability"
	"cratemap/internal/watcher"
)

var (
	configPath = flag.String("config", "./cratemap.toml", "Path to config file")
	watch      = flag.Bool("watch", false, "Re-run the analysis when the config file changes")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	trends     = flag.Int("trends", 0, "Print the N most recent recorded runs and exit")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("cratemap v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./cratemap.toml" {
			cfg, err = config.Load("./cratemap.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "code", apperrors.CodeOf(err), "error", err)
			os.Exit(1)
		}
	}
	logConfig(cfg)

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, VERSION)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	if cfg.Observability.Addr != "" {
		srv := observability.NewServer(cfg.Observability.Addr)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer srv.Stop(ctx)
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	if *trends > 0 {
		if err := app.PrintTrends(os.Stdout, *trends); err != nil {
			slog.Error("failed to print trends", "error", err)
			os.Exit(1)
		}
		return
	}

	if *ui {
		if err := runUI(ctx, app, *configPath, *watch); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
		return
	}

	runOnce := func() error {
		data, err := app.Run(ctx)
		if err != nil {
			return err
		}
		return app.WriteOutputs(os.Stdout, data)
	}

	if err := runOnce(); err != nil {
		slog.Error("analysis failed", "code", apperrors.CodeOf(err), "error", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	// Watch mode: rebuild whenever the config file changes.
	rerun := make(chan struct{}, 1)
	w, err := watcher.NewConfigWatcher(*configPath, cfg.Watch.Debounce, func() {
		select {
		case rerun <- struct{}{}:
		default:
		}
	})
	if err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	slog.Info("watching config for changes", "path", *configPath)
	for range rerun {
		fresh, err := config.Load(*configPath)
		if err != nil {
			slog.Error("config reload failed", "code", apperrors.CodeOf(err), "error", err)
			continue
		}
		replacement, err := NewApp(fresh)
		if err != nil {
			slog.Error("failed to reinitialize app", "error", err)
			continue
		}
		_ = app.Close()
		app = replacement
		logConfig(fresh)
		if err := runOnce(); err != nil {
			slog.Error("analysis failed", "code", apperrors.CodeOf(err), "error", err)
		}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cratemap", "cratemap.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "cratemap", "cratemap.log")
	}

	return "cratemap.log"
}
