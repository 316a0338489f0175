package report

import (
	"fmt"
	"io"
	"strings"
)

const separator = "============================================================"

// WriteText renders the adjacency listing, cycle list and statistics as the
// human-readable console report.
func WriteText(w io.Writer, data Data) error {
	packages := data.Graph.Packages()

	if len(packages) == 0 {
		_, err := fmt.Fprintln(w, "Dependency graph is empty")
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "DEPENDENCY GRAPH for %q (%d packages):\n", data.Root, len(packages))
	b.WriteString(separator + "\n")

	for _, pkg := range packages {
		deps, _ := data.Graph.Dependencies(pkg)
		if len(deps) == 0 {
			fmt.Fprintf(&b, " %s (no dependencies)\n", pkg)
			continue
		}
		fmt.Fprintf(&b, " %s\n", pkg)
		fmt.Fprintf(&b, "   └── depends on: %s\n", strings.Join(deps, ", "))
	}

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Packages: %d  Edges: %d\n", data.Graph.Len(), data.Graph.EdgeCount())

	if len(data.Cycles) > 0 {
		fmt.Fprintf(&b, "Cycles detected: %d\n", len(data.Cycles))
		for i, cycle := range data.Cycles {
			fmt.Fprintf(&b, "   Cycle %d: %s -> %s\n", i+1, strings.Join(cycle, " -> "), cycle[0])
		}
	} else {
		b.WriteString("No cycles detected\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
