package report

import (
	"strings"
	"testing"
	"time"

	"cratemap/internal/graph"
)

func sampleData() Data {
	g := graph.NewDependencyGraph()
	g.Add("a", []string{"b", "c"})
	g.Add("b", []string{"a"})
	g.Add("c", nil)

	return Data{
		Root:        "a",
		Graph:       g,
		Cycles:      [][]string{{"a", "b"}},
		GeneratedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Version:     "1.0.0",
	}
}

func TestWriteText(t *testing.T) {
	var buf strings.Builder
	if err := WriteText(&buf, sampleData()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`DEPENDENCY GRAPH for "a" (3 packages):`,
		"depends on: b, c",
		"c (no dependencies)",
		"Packages: 3  Edges: 3",
		"Cycles detected: 1",
		"Cycle 1: a -> b -> a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteText_EmptyGraph(t *testing.T) {
	var buf strings.Builder
	data := Data{Root: "x", Graph: graph.NewDependencyGraph()}
	if err := WriteText(&buf, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "empty") {
		t.Errorf("expected empty-graph notice, got %q", buf.String())
	}
}

func TestMarkdownGenerator(t *testing.T) {
	out, err := NewMarkdownGenerator().Generate(sampleData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"root: a",
		"| Packages | 3 |",
		"| Cycles | 1 |",
		"`a` → `b`, `c`",
		"`a -> b -> a`",
		"## Out-Degrees",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func TestTSVGenerator(t *testing.T) {
	out, err := NewTSVGenerator().Generate(sampleData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "From\tTo" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 3 edge rows, got %d: %v", len(lines)-1, lines)
	}
	if lines[1] != "a\tb" || lines[2] != "a\tc" || lines[3] != "b\ta" {
		t.Errorf("rows out of order: %v", lines[1:])
	}
}

func TestDOTGenerator(t *testing.T) {
	out, err := NewDOTGenerator().Generate(sampleData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "digraph dependencies {") {
		t.Errorf("expected digraph header, got %q", out)
	}
	if !strings.Contains(out, `"a" -> "b" [color=red];`) {
		t.Errorf("cycle edge should be highlighted:\n%s", out)
	}
	if !strings.Contains(out, `"a" -> "c";`) {
		t.Errorf("plain edge missing:\n%s", out)
	}
	if !strings.Contains(out, `"c";`) {
		t.Errorf("leaf node missing:\n%s", out)
	}
}
