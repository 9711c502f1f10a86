package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"":        log.InfoLevel,
		"debug":   log.DebugLevel,
		" WARN ":  log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q)=%v, want %v", in, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew_WriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Fatalf("missing warn line: %q", out)
	}
}

func TestNew_Prefix(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Writer: &buf, Prefix: "shell"})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	logger.Info("ready")
	if !strings.Contains(buf.String(), "shell") {
		t.Fatalf("prefix missing: %q", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todo.log")
	logger, closer, err := New(Options{File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("persist ok", "store", "list")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "store=list") {
		t.Fatalf("log file content: %q", data)
	}
}
