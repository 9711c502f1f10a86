package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// golden compares output against testdata/<name>.golden.
// Set GOLDEN_UPDATE to rewrite the file.
func golden(t *testing.T, name string, got string) {
	t.Helper()

	path := filepath.Join("testdata", name+".golden")
	if os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll("testdata", 0o755); err != nil {
			t.Fatalf("create testdata dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden file %s: %v\nGot:\n%s", path, err, got)
	}
	if !bytes.Equal([]byte(got), want) {
		t.Errorf("output mismatch for %s\nWant:\n%s\nGot:\n%s", name, want, got)
	}
}

func TestGolden_SeedList(t *testing.T) {
	c := newCLI(t)
	golden(t, "list_seed", c.mustRun("list"))
}

func TestGolden_DoneAfterToggle(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "Buy milk")
	c.mustRun("toggle", "11")
	c.mustRun("toggle", "7")
	golden(t, "list_done", c.mustRun("list", "--done"))
}
