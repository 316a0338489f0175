package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratemap/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		PackageName: "serde",
		TestMode:    true,
		MaxDepth:    -1,
	}
}

func TestApp_RunSerdeFixture(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	defer app.Close()

	data, err := app.Run(context.Background())
	require.NoError(t, err)

	deps, ok := data.Graph.Dependencies("serde")
	require.True(t, ok, "serde must be expanded")
	assert.Equal(t, []string{"serde_derive", "proc-macro2", "quote", "syn"}, deps)

	// Each direct dependency is unknown to the fixture and falls back to the
	// generic three-item list.
	fallback := []string{"test_dep1", "test_dep2", "test_dep3"}
	for _, name := range deps {
		got, ok := data.Graph.Dependencies(name)
		require.True(t, ok, "%s must be expanded at depth 1", name)
		assert.Equal(t, fallback, got)
	}

	// serde + 4 directs + 3 fallback crates.
	assert.Equal(t, 8, data.Graph.Len())

	// The fallback crates depend on themselves, so cycles exist.
	assert.NotEmpty(t, data.Cycles)
}

func TestApp_RunDepthZero(t *testing.T) {
	cfg := testConfig()
	cfg.PackageName = "A"
	cfg.MaxDepth = 0

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	data, err := app.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, data.Graph.Len())
	deps, _ := data.Graph.Dependencies("A")
	assert.Equal(t, []string{"B", "C", "D"}, deps)
}

func TestApp_WriteOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.Output.Markdown = filepath.Join(dir, "report.md")
	cfg.Output.TSV = filepath.Join(dir, "edges.tsv")
	cfg.Output.DOT = filepath.Join(dir, "graph.dot")

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	data, err := app.Run(context.Background())
	require.NoError(t, err)

	var console strings.Builder
	require.NoError(t, app.WriteOutputs(&console, data))

	assert.Contains(t, console.String(), "DEPENDENCY GRAPH")

	md, err := os.ReadFile(cfg.Output.Markdown)
	require.NoError(t, err)
	assert.Contains(t, string(md), "root: serde")

	tsv, err := os.ReadFile(cfg.Output.TSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tsv), "From\tTo\n"))

	dot, err := os.ReadFile(cfg.Output.DOT)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph dependencies")
}

func TestApp_HistoryRecording(t *testing.T) {
	cfg := testConfig()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Run(context.Background())
	require.NoError(t, err)

	runs, err := app.History.RecentRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "serde", runs[0].Root)
	assert.Equal(t, 8, runs[0].PackageCount)
	assert.True(t, runs[0].TestMode)
}

func TestApp_PrintTrendsWithoutHistory(t *testing.T) {
	app, err := NewApp(testConfig())
	require.NoError(t, err)
	defer app.Close()

	var buf strings.Builder
	require.NoError(t, app.PrintTrends(&buf, 5))
	assert.Contains(t, buf.String(), "disabled")
}
