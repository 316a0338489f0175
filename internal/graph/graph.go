package graph

// DependencyGraph maps a crate name to its direct dependencies. Keys keep
// their discovery order, and each adjacency list keeps the order the registry
// returned. A crate can appear inside an adjacency list without being a key
// when traversal into it was cut off by the depth limit.
type DependencyGraph struct {
	order []string
	adj   map[string][]string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		adj: make(map[string][]string),
	}
}

// Add records the adjacency list for a crate. A second Add for the same key
// is ignored; the build never expands a crate twice.
func (g *DependencyGraph) Add(pkg string, deps []string) {
	if _, exists := g.adj[pkg]; exists {
		return
	}
	g.order = append(g.order, pkg)
	g.adj[pkg] = append([]string(nil), deps...)
}

func (g *DependencyGraph) Has(pkg string) bool {
	_, ok := g.adj[pkg]
	return ok
}

// Dependencies returns a copy of the adjacency list for a crate.
func (g *DependencyGraph) Dependencies(pkg string) ([]string, bool) {
	deps, ok := g.adj[pkg]
	if !ok {
		return nil, false
	}
	return append([]string(nil), deps...), true
}

// Packages returns the graph keys in discovery order.
func (g *DependencyGraph) Packages() []string {
	return append([]string(nil), g.order...)
}

func (g *DependencyGraph) Len() int {
	return len(g.adj)
}

func (g *DependencyGraph) EdgeCount() int {
	n := 0
	for _, deps := range g.adj {
		n += len(deps)
	}
	return n
}

// OutDegrees returns the number of direct dependencies recorded per crate.
func (g *DependencyGraph) OutDegrees() map[string]int {
	res := make(map[string]int, len(g.adj))
	for pkg, deps := range g.adj {
		res[pkg] = len(deps)
	}
	return res
}
