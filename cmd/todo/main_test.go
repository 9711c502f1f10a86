package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"TODO_CONFIG_PATH", "TODO_BACKEND", "TODO_DB_PATH", "TODO_LOG_LEVEL", "TODO_THEME", "TODO_TITLE_MAX"} {
		t.Setenv(k, "")
	}
	t.Setenv("TODO_LANG", "en")
	return &cli{t: t, db: filepath.Join(t.TempDir(), "todo.db")}
}

func (c *cli) run(stdin string, args ...string) (string, string, error) {
	c.t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--db", c.db, "--log-level", "warn"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, errOut, err := c.run("", args...)
	if err != nil {
		c.t.Fatalf("todo %v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func TestList_SeedsFreshStorage(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("list")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "  10  [ ] ") || !strings.HasPrefix(lines[9], "   1  [ ] ") {
		t.Fatalf("unexpected order:\n%s", out)
	}
}

func TestAddToggleRenameRemove(t *testing.T) {
	c := newCLI(t)

	out, errOut, err := c.run("", "add", "Buy", "milk")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errOut, "Added #11 Buy milk") {
		t.Fatalf("stderr=%q", errOut)
	}
	if !strings.HasPrefix(out, "  11  [ ] Buy milk\n") {
		t.Fatalf("stdout=%q", out)
	}

	out = c.mustRun("toggle", "11")
	if !strings.HasPrefix(out, "  11  [x] Buy milk\n") {
		t.Fatalf("after toggle=%q", out)
	}

	out = c.mustRun("rename", "#11", "Buy", "oat", "milk")
	if !strings.HasPrefix(out, "  11  [x] Buy oat milk\n") {
		t.Fatalf("after rename=%q", out)
	}

	out = c.mustRun("list", "--done")
	if !strings.Contains(out, "Buy oat milk") {
		t.Fatalf("done list=%q", out)
	}

	out = c.mustRun("rm", "11")
	if strings.Contains(out, "milk") || !strings.HasPrefix(out, "  10  ") {
		t.Fatalf("after rm=%q", out)
	}
}

func TestMutateErrors(t *testing.T) {
	c := newCLI(t)
	if _, _, err := c.run("", "toggle", "abc"); err == nil || !strings.Contains(err.Error(), "invalid task id") {
		t.Fatalf("err=%v", err)
	}
	if _, _, err := c.run("", "rm", "99"); err == nil || !strings.Contains(err.Error(), "no task with id 99") {
		t.Fatalf("err=%v", err)
	}
	if _, _, err := c.run("", "list", "--open", "--done"); err == nil {
		t.Fatal("expected error for exclusive flags")
	}
}

func TestDefaultCommandFallsBackToList(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun()
	if strings.Count(out, "\n") != 10 {
		t.Fatalf("expected plain list when stdout is not a terminal:\n%s", out)
	}
}

func TestMigrate(t *testing.T) {
	c := newCLI(t)
	legacy := filepath.Join(t.TempDir(), "TodoApp.json")
	if err := os.WriteFile(legacy, []byte(`[{"id":1,"title":"legacy","completed":true}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := c.mustRun("migrate", legacy)
	if !strings.Contains(out, "Imported") {
		t.Fatalf("migrate=%q", out)
	}
	if out := c.mustRun("list"); out != "   1  [x] legacy\n" {
		t.Fatalf("list=%q", out)
	}
	if out := c.mustRun("migrate", legacy); !strings.Contains(out, "nothing imported") {
		t.Fatalf("second migrate=%q", out)
	}
	if _, _, err := c.run("", "migrate", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestTheme(t *testing.T) {
	c := newCLI(t)
	if out := c.mustRun("theme", "dark"); out != "dark (override)\n" {
		t.Fatalf("theme dark=%q", out)
	}
	t.Setenv("TODO_THEME", "light")
	if out := c.mustRun("theme"); out != "light (override)\n" {
		t.Fatalf("theme from config=%q", out)
	}
	if out := c.mustRun("theme", "system"); !strings.HasSuffix(out, "(system)\n") {
		t.Fatalf("theme system=%q", out)
	}
	if _, _, err := c.run("", "theme", "sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestShell(t *testing.T) {
	c := newCLI(t)
	script := strings.Join([]string{
		"add Write report",
		"x 11",
		"mv 11 Write the report",
		"ls done",
		"rm 3",
		"rm 99",
		"bogus",
		"exit",
	}, "\n") + "\n"
	out, errOut, err := c.run(script, "shell")
	if err != nil {
		t.Fatalf("shell: %v\n%s", err, errOut)
	}
	for _, want := range []string{
		"todo shell.",
		"  11  [x] Write the report",
		"no task with id 99",
		`unknown command "bogus"`,
		"bye",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	list := c.mustRun("list")
	if strings.Contains(list, "   3  ") || !strings.HasPrefix(list, "  11  [x] Write the report\n") {
		t.Fatalf("persisted list=%q", list)
	}
}

func TestShell_EOFExits(t *testing.T) {
	c := newCLI(t)
	out, _, err := c.run("add no newline at end", "shell")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no newline at end") {
		t.Fatalf("out=%q", out)
	}
}

func TestInit(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()
	oldwd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	if out := c.mustRun("init"); !strings.Contains(out, "Wrote") {
		t.Fatalf("init=%q", out)
	}
	if out := c.mustRun("init"); !strings.Contains(out, "already exists") {
		t.Fatalf("second init=%q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, ".todoapp", "config.json")); err != nil {
		t.Fatal(err)
	}
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]int64{"1": 1, "#42": 42, " 7 ": 7} {
		got, err := parseID(in)
		if err != nil || got != want {
			t.Fatalf("parseID(%q)=%d,%v", in, got, err)
		}
	}
	for _, bad := range []string{"0", "-1", "x", ""} {
		if _, err := parseID(bad); err == nil {
			t.Fatalf("parseID(%q) should fail", bad)
		}
	}
}
