package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(data Data) (string, error) {
	generatedAt := data.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Dependency Analysis Report\n")
	b.WriteString("root: " + nonEmpty(data.Root, "unknown") + "\n")
	b.WriteString("generated_at: " + generatedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(data.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Dependency Report\n\n")

	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Root Package | %s |\n", data.Root))
	b.WriteString(fmt.Sprintf("| Packages | %d |\n", data.Graph.Len()))
	b.WriteString(fmt.Sprintf("| Dependency Edges | %d |\n", data.Graph.EdgeCount()))
	b.WriteString(fmt.Sprintf("| Cycles | %d |\n\n", len(data.Cycles)))

	m.writeAdjacency(&b, data)
	m.writeCycles(&b, data.Cycles)
	m.writeOutDegrees(&b, data)

	return b.String(), nil
}

func (m *MarkdownGenerator) writeAdjacency(b *strings.Builder, data Data) {
	b.WriteString("## Dependencies\n")
	packages := data.Graph.Packages()
	if len(packages) == 0 {
		b.WriteString("Graph is empty.\n\n")
		return
	}
	for _, pkg := range packages {
		deps, _ := data.Graph.Dependencies(pkg)
		if len(deps) == 0 {
			b.WriteString(fmt.Sprintf("- `%s` (no dependencies)\n", pkg))
			continue
		}
		b.WriteString(fmt.Sprintf("- `%s` → %s\n", pkg, codeList(deps)))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeCycles(b *strings.Builder, cycles [][]string) {
	b.WriteString("## Cycles\n")
	if len(cycles) == 0 {
		b.WriteString("No circular dependencies detected.\n\n")
		return
	}
	for i, cycle := range cycles {
		b.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, strings.Join(cycle, " -> ")+" -> "+cycle[0]))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeOutDegrees(b *strings.Builder, data Data) {
	b.WriteString("## Out-Degrees\n")
	degrees := data.Graph.OutDegrees()
	if len(degrees) == 0 {
		b.WriteString("No packages recorded.\n")
		return
	}

	names := make([]string, 0, len(degrees))
	for name := range degrees {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if degrees[names[i]] != degrees[names[j]] {
			return degrees[names[i]] > degrees[names[j]]
		}
		return names[i] < names[j]
	})

	b.WriteString("| Package | Direct Dependencies |\n")
	b.WriteString("| --- | --- |\n")
	for _, name := range names {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", name, degrees[name]))
	}
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
