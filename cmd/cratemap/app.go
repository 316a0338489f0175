package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cratemap/internal/config"
	"cratemap/internal/graph"
	"cratemap/internal/history"
	"cratemap/internal/registry"
	"cratemap/internal/report"
	"cratemap/internal/shared/observability"
	"cratemap/internal/shared/util"
)

type App struct {
	Config  *config.Config
	Builder *graph.Builder
	Fetcher graph.Fetcher
	History *history.Store
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		Config:  cfg,
		Builder: graph.NewBuilder(),
	}

	if cfg.TestMode {
		app.Fetcher = registry.NewFixtureFetcher()
	} else {
		app.Fetcher = registry.NewCratesFetcher(
			cfg.RegistryURL,
			cfg.Fetch.Timeout,
			registry.WithLimiter(util.NewLimiter(cfg.Fetch.Rate, cfg.Fetch.Burst)),
		)
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.History = store
	}

	return app, nil
}

func (a *App) Close() error {
	if a.History != nil {
		return a.History.Close()
	}
	return nil
}

// Run performs one full analysis: build the graph, detect cycles, record the
// run. Rendering is left to the caller.
func (a *App) Run(ctx context.Context) (report.Data, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Run",
		trace.WithAttributes(attribute.String("root", a.Config.PackageName)))
	defer span.End()

	excludes, err := a.Config.CompileExcludes()
	if err != nil {
		return report.Data{}, err
	}

	start := time.Now()

	g, err := a.Builder.Build(ctx, a.Fetcher, a.Config.PackageName, graph.BuildOptions{
		MaxDepth:        a.Config.MaxDepth,
		FilterSubstring: a.Config.FilterSubstring,
		ExcludeCrates:   excludes,
	})
	if err != nil {
		return report.Data{}, err
	}

	cycles := graph.DetectCycles(g)
	duration := time.Since(start)

	observability.BuildsTotal.Inc()
	observability.BuildDuration.Observe(duration.Seconds())
	observability.GraphPackages.Set(float64(g.Len()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
	observability.GraphCycles.Set(float64(len(cycles)))

	data := report.Data{
		Root:        a.Config.PackageName,
		Graph:       g,
		Cycles:      cycles,
		Duration:    duration,
		GeneratedAt: time.Now().UTC(),
		Version:     VERSION,
	}

	if a.History != nil {
		err := a.History.SaveRun(history.Run{
			Root:         data.Root,
			MaxDepth:     a.Config.MaxDepth,
			Filter:       a.Config.FilterSubstring,
			TestMode:     a.Config.TestMode,
			PackageCount: g.Len(),
			EdgeCount:    g.EdgeCount(),
			CycleCount:   len(cycles),
			Duration:     duration,
			StartedAt:    start.UTC(),
		})
		if err != nil {
			slog.Warn("failed to record run history", "error", err)
		}
	}

	return data, nil
}

// WriteOutputs prints the text report and writes any configured file targets.
func (a *App) WriteOutputs(w io.Writer, data report.Data) error {
	if err := report.WriteText(w, data); err != nil {
		return err
	}

	targets := []struct {
		path     string
		generate func(report.Data) (string, error)
	}{
		{a.Config.Output.Markdown, report.NewMarkdownGenerator().Generate},
		{a.Config.Output.TSV, report.NewTSVGenerator().Generate},
		{a.Config.Output.DOT, report.NewDOTGenerator().Generate},
	}

	for _, target := range targets {
		if target.path == "" {
			continue
		}
		content, err := target.generate(data)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target.path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", target.path, err)
		}
		slog.Info("report written", "path", target.path)
	}

	return nil
}

// PrintTrends lists the most recent recorded runs.
func (a *App) PrintTrends(w io.Writer, limit int) error {
	if a.History == nil {
		_, err := fmt.Fprintln(w, "Run history is disabled (set [history] path in the config)")
		return err
	}

	runs, err := a.History.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No recorded runs yet")
		return err
	}

	fmt.Fprintf(w, "%-20s %-16s %9s %8s %7s %10s\n", "STARTED", "ROOT", "PACKAGES", "EDGES", "CYCLES", "DURATION")
	for _, run := range runs {
		fmt.Fprintf(w, "%-20s %-16s %9d %8d %7d %10s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Root,
			run.PackageCount,
			run.EdgeCount,
			run.CycleCount,
			run.Duration.Round(time.Millisecond))
	}
	return nil
}

func logConfig(cfg *config.Config) {
	depth := fmt.Sprintf("%d", cfg.MaxDepth)
	if cfg.MaxDepth == -1 {
		depth = "unlimited"
	}
	slog.Info("configuration loaded",
		"package_name", cfg.PackageName,
		"registry_url", cfg.RegistryURL,
		"test_mode", cfg.TestMode,
		"max_depth", depth,
		"filter_substring", cfg.FilterSubstring,
		"exclude_patterns", len(cfg.Exclude.Crates))
}
