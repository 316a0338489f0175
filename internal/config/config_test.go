package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "cratemap/internal/core/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cratemap.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `package_name = "serde"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MaxDepth != -1 {
		t.Errorf("absent max_depth should default to -1, got %d", cfg.MaxDepth)
	}
	if cfg.RegistryURL != "https://crates.io" {
		t.Errorf("unexpected registry default: %s", cfg.RegistryURL)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("unexpected timeout default: %v", cfg.Fetch.Timeout)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("unexpected debounce default: %v", cfg.Watch.Debounce)
	}
}

func TestLoad_ExplicitDepthZeroKept(t *testing.T) {
	path := writeConfig(t, "package_name = \"serde\"\nmax_depth = 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxDepth != 0 {
		t.Errorf("explicit 0 must survive, got %d", cfg.MaxDepth)
	}
}

func TestLoad_MissingPackageName(t *testing.T) {
	path := writeConfig(t, `test_mode = true`)

	_, err := Load(path)
	if !apperrors.IsCode(err, apperrors.CodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}

func TestLoad_InvalidDepth(t *testing.T) {
	path := writeConfig(t, "package_name = \"serde\"\nmax_depth = -2\n")

	_, err := Load(path)
	if !apperrors.IsCode(err, apperrors.CodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}

func TestLoad_InvalidExcludePattern(t *testing.T) {
	path := writeConfig(t, "package_name = \"serde\"\n[exclude]\ncrates = [\"[\"]\n")

	_, err := Load(path)
	if !apperrors.IsCode(err, apperrors.CodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}

func TestLoad_EmptyRegistryURLRejected(t *testing.T) {
	path := writeConfig(t, "package_name = \"serde\"\nregistry_url = \"\"\n")

	_, err := Load(path)
	if !apperrors.IsCode(err, apperrors.CodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}

func TestLoad_EmptyRegistryURLAllowedInTestMode(t *testing.T) {
	path := writeConfig(t, "package_name = \"serde\"\nregistry_url = \"\"\ntest_mode = true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RegistryURL != "" {
		t.Errorf("explicit empty registry_url must survive in test mode, got %q", cfg.RegistryURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !apperrors.IsCode(err, apperrors.CodeConfig) {
		t.Errorf("expected CONFIG error, got %v", err)
	}
}

func TestCompileExcludes(t *testing.T) {
	cfg := &Config{
		PackageName: "serde",
		Exclude:     Exclude{Crates: []string{"win*", "*-sys"}},
	}

	globs, err := cfg.CompileExcludes()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(globs) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(globs))
	}
	if !globs[0].Match("winapi") || !globs[1].Match("openssl-sys") {
		t.Error("patterns should match their intended names")
	}
	if globs[0].Match("serde") {
		t.Error("serde should not match win*")
	}
}
