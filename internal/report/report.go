package report

import (
	"time"

	"cratemap/internal/graph"
)

// Data carries one finished analysis through the renderers.
type Data struct {
	Root        string
	Graph       *graph.DependencyGraph
	Cycles      [][]string
	Duration    time.Duration
	GeneratedAt time.Time
	Version     string
}
