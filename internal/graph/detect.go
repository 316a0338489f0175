package graph

import "strings"

// DetectCycles enumerates dependency cycles in a finished graph. It runs its
// own DFS with fresh visited/stack state, independent of any build. Each
// branch works on its own copy of the path, so sibling branches never see
// each other's partial paths. Cycles are canonicalized by rotating the
// lexicographically smallest crate to the front, so rotations of the same
// loop collapse into one entry.
func DetectCycles(g *DependencyGraph) [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	seen := make(map[string]bool)

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		if onStack[node] {
			start := -1
			for i, p := range path {
				if p == node {
					start = i
					break
				}
			}
			if start != -1 {
				cycle := canonicalize(path[start:])
				key := strings.Join(cycle, "\x00")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
			return
		}

		if visited[node] {
			return
		}

		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range mustDeps(g, node) {
			branch := make([]string, len(path))
			copy(branch, path)
			dfs(next, branch)
		}

		onStack[node] = false
	}

	for _, node := range g.Packages() {
		if !visited[node] {
			dfs(node, nil)
		}
	}

	return cycles
}

func mustDeps(g *DependencyGraph, node string) []string {
	deps, ok := g.Dependencies(node)
	if !ok {
		return nil
	}
	return deps
}

func canonicalize(cycle []string) []string {
	if len(cycle) == 0 {
		return nil
	}
	min := 0
	for i, name := range cycle {
		if name < cycle[min] {
			min = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[min:]...)
	rotated = append(rotated, cycle[:min]...)
	return rotated
}
