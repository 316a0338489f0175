package registry

import "context"

// fixtureTable mirrors a handful of well-known crates. Unknown names get the
// generic fallback so traversal always has something to walk.
var fixtureTable = map[string][]string{
	"A":     {"B", "C", "D"},
	"B":     {"D", "E"},
	"C":     {"B", "F"},
	"serde": {"serde_derive", "proc-macro2", "quote", "syn"},
	"tokio": {"bytes", "mio", "num_cpus", "pin-project-lite"},
}

var fixtureFallback = []string{"test_dep1", "test_dep2", "test_dep3"}

// FixtureFetcher serves canned dependency lists for test mode. It never
// fails and performs no I/O.
type FixtureFetcher struct{}

func NewFixtureFetcher() *FixtureFetcher {
	return &FixtureFetcher{}
}

func (f *FixtureFetcher) DependenciesOf(_ context.Context, name string) ([]string, error) {
	if deps, ok := fixtureTable[name]; ok {
		return append([]string(nil), deps...), nil
	}
	return append([]string(nil), fixtureFallback...), nil
}
