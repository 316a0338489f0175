package report

import (
	"fmt"
	"strings"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// Generate emits one row per dependency edge, in discovery order.
func (t *TSVGenerator) Generate(data Data) (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\n")

	for _, pkg := range data.Graph.Packages() {
		deps, _ := data.Graph.Dependencies(pkg)
		for _, dep := range deps {
			buf.WriteString(fmt.Sprintf("%s\t%s\n", pkg, dep))
		}
	}

	return buf.String(), nil
}
