package seed

import (
	"strings"
	"testing"

	"todoapp/internal/task"
)

func TestDefault(t *testing.T) {
	got := Default()
	if len(got) != 10 {
		t.Fatalf("len=%d, want 10", len(got))
	}
	if !task.UniqueIDs(got) {
		t.Fatal("seed ids are not unique")
	}
	if got[0].ID != 10 || got[9].ID != 1 {
		t.Fatalf("seed not ordered newest first: first=%d last=%d", got[0].ID, got[9].ID)
	}
	for _, item := range got {
		if strings.TrimSpace(item.Title) == "" {
			t.Fatalf("seed task %d has an empty title", item.ID)
		}
	}
}

func TestDefaultReturnsCopy(t *testing.T) {
	a := Default()
	a[0].Title = "mutated"
	a[0].Completed = true
	b := Default()
	if b[0].Title == "mutated" || b[0].Completed {
		t.Fatal("Default shares state between calls")
	}
}
