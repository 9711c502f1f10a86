package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func newTestFile(t *testing.T) *FileKV {
	t.Helper()
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "blobs"))
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

// backends 对所有后端运行同一组测试 / run the same checks against every backend
func backends(t *testing.T) map[string]KV {
	return map[string]KV{
		"memory": NewMemoryKV(),
		"sqlite": newTestSQLite(t),
		"file":   newTestFile(t),
	}
}

func TestKV_GetSet(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "TodoApp")
			if err != nil {
				t.Fatalf("Get absent: %v", err)
			}
			if ok {
				t.Fatal("absent key reported present")
			}

			if err := kv.Set(ctx, "TodoApp", []byte(`[1]`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := kv.Get(ctx, "TodoApp")
			if err != nil || !ok {
				t.Fatalf("Get: ok=%v err=%v", ok, err)
			}
			if string(got) != `[1]` {
				t.Fatalf("value=%q, want %q", got, `[1]`)
			}

			// 覆盖写入 / Overwrite
			if err := kv.Set(ctx, "TodoApp", []byte(`[2]`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, _, _ = kv.Get(ctx, "TodoApp")
			if string(got) != `[2]` {
				t.Fatalf("value after overwrite=%q", got)
			}

			// 其他键互不影响 / Other keys are independent
			if _, ok, _ := kv.Get(ctx, "Other"); ok {
				t.Fatal("unrelated key reported present")
			}
		})
	}
}

func TestKV_UpdateAtomic(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			u, ok := kv.(Updater)
			if !ok {
				t.Fatalf("%s does not implement Updater", name)
			}
			const workers = 8
			var wg sync.WaitGroup
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := u.Update(ctx, "counter", func(cur []byte, ok bool) ([]byte, error) {
						return append(cur, 'x'), nil
					})
					if err != nil {
						t.Errorf("Update: %v", err)
					}
				}()
			}
			wg.Wait()
			got, _, err := kv.Get(ctx, "counter")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != workers {
				t.Fatalf("len=%d, want %d (lost update)", len(got), workers)
			}
		})
	}
}

func TestKV_UpdateNilSkipsWriteAndErrorAborts(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			u := kv.(Updater)
			if err := u.Update(ctx, "k", func([]byte, bool) ([]byte, error) { return nil, nil }); err != nil {
				t.Fatalf("Update nil: %v", err)
			}
			if _, ok, _ := kv.Get(ctx, "k"); ok {
				t.Fatal("nil result should not write")
			}
			_ = kv.Set(ctx, "k", []byte("keep"))
			err := u.Update(ctx, "k", func([]byte, bool) ([]byte, error) { return []byte("lost"), boom })
			if !errors.Is(err, boom) {
				t.Fatalf("err=%v, want boom", err)
			}
			got, _, _ := kv.Get(ctx, "k")
			if string(got) != "keep" {
				t.Fatalf("value=%q after failed update, want keep", got)
			}
		})
	}
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "todo.db")
	kv, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	if err := kv.Set(context.Background(), DefaultKey, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	_ = kv.Close()

	kv2, err := NewSQLiteKV(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv2.Close()
	got, ok, err := kv2.Get(context.Background(), DefaultKey)
	if err != nil || !ok || string(got) != `[]` {
		t.Fatalf("after reopen: %q ok=%v err=%v", got, ok, err)
	}
}

func TestNewSQLiteKV_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteKV("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestClosedBackends(t *testing.T) {
	ctx := context.Background()
	for _, kv := range []KV{NewMemoryKV(), newTestFile(t)} {
		_ = kv.Close()
		if _, _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
			t.Fatalf("Get after close err=%v", err)
		}
		if err := kv.Set(ctx, "k", nil); !errors.Is(err, ErrClosed) {
			t.Fatalf("Set after close err=%v", err)
		}
	}
}

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"TodoApp":    "TodoApp.json",
		"a/b":        "a_b.json",
		"..":         "_.json",
		"@app:todos": "_app_todos.json",
	}
	for in, want := range cases {
		if got := fileName(in); got != want {
			t.Errorf("fileName(%q)=%q, want %q", in, got, want)
		}
	}
}
