package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"TODO_CONFIG_PATH", "TODO_BACKEND", "TODO_DB_PATH", "TODO_LOG_LEVEL", "TODO_THEME", "TODO_LANG", "TODO_TITLE_MAX"} {
		t.Setenv(k, "")
	}
	work := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })
	return home
}

func TestDefaults(t *testing.T) {
	home := isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Key != "TodoApp" {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if want := filepath.Join(home, ".todoapp", "todo.db"); cfg.Storage.Path != want {
		t.Fatalf("path=%q, want %q", cfg.Storage.Path, want)
	}
	if cfg.UI.TitleMax != 30 || cfg.UI.Theme != "system" || cfg.Log.Level != "info" {
		t.Fatalf("ui=%+v log=%+v", cfg.UI, cfg.Log)
	}
}

func TestLoadJSONCAndPrecedence(t *testing.T) {
	home := isolate(t)

	globalDir := filepath.Join(home, ".todoapp")
	if err := os.MkdirAll(globalDir, 0o755); err != nil {
		t.Fatal(err)
	}
	globalCfg := `{
  // global
  "storage": {"backend": "file", "key": "GlobalKey"},
  "ui": {"theme": "dark", "title_max": 40}
}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalCfg), 0o644); err != nil {
		t.Fatal(err)
	}
	projectCfg := `{
  /* project wins */
  "storage": {"key": "ProjectKey"},
  "ui": {"theme": "light", "locale": "zh-CN"}
}`
	if err := os.WriteFile("todo.config.json", []byte(projectCfg), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "file" {
		t.Fatalf("backend=%q", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "ProjectKey" {
		t.Fatalf("key=%q", cfg.Storage.Key)
	}
	if cfg.UI.Theme != "light" || cfg.UI.Locale != "zh-CN" || cfg.UI.TitleMax != 40 {
		t.Fatalf("ui=%+v", cfg.UI)
	}
}

func TestEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_BACKEND", "memory")
	t.Setenv("TODO_THEME", "DARK")
	t.Setenv("TODO_LOG_LEVEL", "warning")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Backend != "memory" || cfg.UI.Theme != "dark" || cfg.Log.Level != "warn" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestEnvInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("TODO_TITLE_MAX", "-3")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid TODO_TITLE_MAX")
	}
}

func TestExplicitPathAndInvalidValues(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(path, []byte(`{"storage":{"backend":"redis"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Fatalf("err=%v", err)
	}

	if err := os.WriteFile(path, []byte(`{"storage":`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOverride(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = Override(cfg, "file", "~/tasks", "")
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	if cfg.Storage.Backend != "file" || cfg.Storage.Path != filepath.Join(home, "tasks") {
		t.Fatalf("storage=%+v", cfg.Storage)
	}
	if _, err := Override(cfg, "", "", "loud"); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestStripJSONCommentsKeepsStrings(t *testing.T) {
	in := `{"a": "http://x//y", /* c */ "b": 1} // tail`
	got := strings.TrimSpace(string(stripJSONComments([]byte(in))))
	if got != `{"a": "http://x//y",  "b": 1}` {
		t.Fatalf("got %q", got)
	}
}

func TestInitProjectConfigScaffold(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path, created, err := InitProjectConfigScaffold(dir)
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if _, created, err := InitProjectConfigScaffold(dir); err != nil || created {
		t.Fatalf("second call created=%v err=%v", created, err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Fatalf("key=%q", cfg.Storage.Key)
	}
}
