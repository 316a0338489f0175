package report

import (
	"fmt"
	"strings"
)

type DOTGenerator struct{}

func NewDOTGenerator() *DOTGenerator {
	return &DOTGenerator{}
}

// Generate renders the graph as Graphviz source. Edges that sit on a
// detected cycle are drawn red. Image rendering is left to external tooling.
func (d *DOTGenerator) Generate(data Data) (string, error) {
	cycleEdges := make(map[string]bool)
	for _, cycle := range data.Cycles {
		for i, from := range cycle {
			to := cycle[(i+1)%len(cycle)]
			cycleEdges[from+"\x00"+to] = true
		}
	}

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(fmt.Sprintf("  label=%q;\n", "dependencies of "+data.Root))

	for _, pkg := range data.Graph.Packages() {
		deps, _ := data.Graph.Dependencies(pkg)
		if len(deps) == 0 {
			b.WriteString(fmt.Sprintf("  %q;\n", pkg))
			continue
		}
		for _, dep := range deps {
			if cycleEdges[pkg+"\x00"+dep] {
				b.WriteString(fmt.Sprintf("  %q -> %q [color=red];\n", pkg, dep))
			} else {
				b.WriteString(fmt.Sprintf("  %q -> %q;\n", pkg, dep))
			}
		}
	}

	b.WriteString("}\n")
	return b.String(), nil
}
