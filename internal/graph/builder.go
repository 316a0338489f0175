package graph

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gobwas/glob"

	apperrors "cratemap/internal/core/errors"
)

// Fetcher supplies the ordered direct dependencies of a crate.
type Fetcher interface {
	DependenciesOf(ctx context.Context, name string) ([]string, error)
}

type BuildOptions struct {
	// MaxDepth bounds traversal depth; -1 means unlimited.
	MaxDepth int

	// FilterSubstring drops any dependency name containing it. The root
	// itself is exempt: it was requested by name.
	FilterSubstring string

	// ExcludeCrates drops dependency names matching any pattern.
	ExcludeCrates []glob.Glob
}

// Builder walks the transitive dependency tree depth-first. All traversal
// state lives in a per-call context value, so one Builder can serve
// independent builds concurrently.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// buildState is owned by a single Build call.
type buildState struct {
	fetcher Fetcher
	opts    BuildOptions
	graph   *DependencyGraph

	// visited is global across the whole build: a crate is expanded at most
	// once, no matter how many paths reach it. A crate first reached at a
	// depth cutoff is therefore not re-expanded when met again shallower.
	visited map[string]bool

	// onStack holds the ancestors of the crate currently being processed.
	onStack map[string]bool
}

// Build constructs the dependency graph reachable from root. Fetch failures
// are localized: the failing crate gets no graph entry and the walk continues
// with its siblings.
func (b *Builder) Build(ctx context.Context, fetcher Fetcher, root string, opts BuildOptions) (*DependencyGraph, error) {
	if root == "" {
		return nil, apperrors.New(apperrors.CodeConfig, "root package name must not be empty")
	}
	if fetcher == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "fetcher is required")
	}
	if opts.MaxDepth < -1 {
		return nil, apperrors.Newf(apperrors.CodeConfig, "max depth %d is invalid", opts.MaxDepth)
	}

	st := &buildState{
		fetcher: fetcher,
		opts:    opts,
		graph:   NewDependencyGraph(),
		visited: make(map[string]bool),
		onStack: make(map[string]bool),
	}

	b.visit(ctx, st, root, 0)

	slog.Info("dependency graph built",
		"root", root,
		"packages", st.graph.Len(),
		"edges", st.graph.EdgeCount())

	return st.graph, nil
}

func (b *Builder) visit(ctx context.Context, st *buildState, pkg string, depth int) {
	if st.opts.MaxDepth != -1 && depth > st.opts.MaxDepth {
		return
	}

	// Back edge on the active path. The post-hoc detector enumerates the
	// full cycle; here we only stop the descent.
	if st.onStack[pkg] {
		slog.Debug("cycle encountered during build", "package", pkg, "depth", depth)
		return
	}

	if st.visited[pkg] {
		return
	}

	st.visited[pkg] = true
	st.onStack[pkg] = true
	defer delete(st.onStack, pkg)

	deps, err := st.fetcher.DependenciesOf(ctx, pkg)
	if err != nil {
		slog.Warn("failed to fetch dependencies",
			"package", pkg,
			"code", apperrors.CodeOf(err),
			"error", err)
		return
	}

	kept := make([]string, 0, len(deps))
	for _, dep := range deps {
		if st.opts.FilterSubstring != "" && strings.Contains(dep, st.opts.FilterSubstring) {
			slog.Debug("dependency filtered", "package", pkg, "dependency", dep, "substring", st.opts.FilterSubstring)
			continue
		}
		if matchesAny(st.opts.ExcludeCrates, dep) {
			slog.Debug("dependency excluded", "package", pkg, "dependency", dep)
			continue
		}
		kept = append(kept, dep)
	}

	st.graph.Add(pkg, kept)

	for _, dep := range kept {
		b.visit(ctx, st, dep, depth+1)
	}
}

func matchesAny(patterns []glob.Glob, name string) bool {
	for _, g := range patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}
