package registry

import (
	"context"
	"reflect"
	"testing"
)

func TestFixtureFetcher_KnownCrate(t *testing.T) {
	f := NewFixtureFetcher()
	deps, err := f.DependenciesOf(context.Background(), "serde")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"serde_derive", "proc-macro2", "quote", "syn"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("expected %v, got %v", want, deps)
	}
}

func TestFixtureFetcher_UnknownCrateFallsBack(t *testing.T) {
	f := NewFixtureFetcher()
	deps, err := f.DependenciesOf(context.Background(), "no-such-crate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"test_dep1", "test_dep2", "test_dep3"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("expected fallback %v, got %v", want, deps)
	}
}

func TestFixtureFetcher_ReturnsCopies(t *testing.T) {
	f := NewFixtureFetcher()
	first, _ := f.DependenciesOf(context.Background(), "tokio")
	first[0] = "mutated"
	second, _ := f.DependenciesOf(context.Background(), "tokio")
	if second[0] != "bytes" {
		t.Error("fixture table must not be mutable through results")
	}
}
