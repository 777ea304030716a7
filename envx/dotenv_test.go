package envx

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDotEnvIfPresent(t *testing.T) {
	path := writeEnvFile(t, `
# comment
export EXPORTED_KEY=one
PLAIN_KEY = two
QUOTED_KEY="three three"
SINGLE_QUOTED='four'
=skipped
no-equals-line
`)
	t.Setenv("PLAIN_KEY", "preset")

	if err := LoadDotEnvIfPresent(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := os.Getenv("EXPORTED_KEY"); got != "one" {
		t.Fatalf("EXPORTED_KEY = %q", got)
	}
	if got := os.Getenv("PLAIN_KEY"); got != "preset" {
		t.Fatalf("pre-set var should win, got %q", got)
	}
	if got := os.Getenv("QUOTED_KEY"); got != "three three" {
		t.Fatalf("QUOTED_KEY = %q", got)
	}
	if got := os.Getenv("SINGLE_QUOTED"); got != "four" {
		t.Fatalf("SINGLE_QUOTED = %q", got)
	}
	t.Cleanup(func() {
		os.Unsetenv("EXPORTED_KEY")
		os.Unsetenv("QUOTED_KEY")
		os.Unsetenv("SINGLE_QUOTED")
	})
}

func TestLoadDotEnvOverrideIfPresent(t *testing.T) {
	path := writeEnvFile(t, "OVERRIDE_KEY=from-file\n")
	t.Setenv("OVERRIDE_KEY", "preset")

	if err := LoadDotEnvOverrideIfPresent(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := os.Getenv("OVERRIDE_KEY"); got != "from-file" {
		t.Fatalf("override should replace pre-set value, got %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnvIfPresent(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing file should be a no-op, got %v", err)
	}
}
