package taskstore

import (
	"testing"

	"todoapp/internal/task"
)

func TestApply_PatchesByID(t *testing.T) {
	base := []task.Task{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}
	ops := []*op{
		{kind: opSetCompleted, id: 1, completed: true},
		{kind: opSetTitle, id: 2, title: "bee"},
		{kind: opSetTitle, id: 9, title: "ghost"},
	}
	got := apply(base, ops, map[int64]int64{}, 0, false)
	want := []task.Task{{ID: 2, Title: "bee"}, {ID: 1, Title: "a", Completed: true}}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d]=%+v, want %+v", i, got[i], want[i])
		}
	}
	if base[0].Title != "b" || base[1].Completed {
		t.Fatal("apply modified base")
	}
}

func TestApply_RemapFollowsCreate(t *testing.T) {
	base := []task.Task{{ID: 3, Title: "theirs"}, {ID: 1, Title: "x"}}
	ops := []*op{
		{kind: opCreate, id: 3, title: "mine"},
		{kind: opSetCompleted, id: 3, completed: true},
	}
	remap := map[int64]int64{}
	got := apply(base, ops, remap, 0, true)

	if remap[3] != 4 {
		t.Fatalf("remap=%v, want 3->4", remap)
	}
	if got[0].ID != 4 || got[0].Title != "mine" || !got[0].Completed {
		t.Fatalf("head=%+v", got[0])
	}
	if got[1].Completed {
		t.Fatal("patch leaked to the foreign task")
	}
	if ops[0].id != 4 || ops[1].id != 4 {
		t.Fatalf("rewrite: ids=%d,%d", ops[0].id, ops[1].id)
	}
}

func TestApply_CreateRebindsRemappedID(t *testing.T) {
	// 3 was renumbered to 4 earlier; a later create of 3 owns id 3 again.
	base := []task.Task{{ID: 1, Title: "x"}}
	remap := map[int64]int64{3: 4}
	ops := []*op{
		{kind: opCreate, id: 3, title: "new three"},
		{kind: opSetTitle, id: 3, title: "renamed three"},
	}
	got := apply(base, ops, remap, 0, false)
	if got[0].ID != 3 || got[0].Title != "renamed three" {
		t.Fatalf("head=%+v", got[0])
	}
	if _, ok := remap[3]; ok {
		t.Fatal("stale remap entry kept")
	}
}

func TestApply_RenumberSkipsIDsAtOrBelowFloor(t *testing.T) {
	base := []task.Task{{ID: 2, Title: "theirs"}, {ID: 1, Title: "x"}}
	ops := []*op{{kind: opCreate, id: 2, title: "mine"}}
	remap := map[int64]int64{}
	got := apply(base, ops, remap, 5, false)
	if remap[2] != 6 || got[0].ID != 6 {
		t.Fatalf("remap=%v head=%+v, want id 6", remap, got[0])
	}
}

func TestApply_RemoveThenPatch(t *testing.T) {
	base := []task.Task{{ID: 1, Title: "a"}}
	ops := []*op{
		{kind: opRemove, id: 1},
		{kind: opSetCompleted, id: 1, completed: true},
	}
	if got := apply(base, ops, map[int64]int64{}, 0, false); len(got) != 0 {
		t.Fatalf("got %+v, want empty", got)
	}
}

func TestApply_EmptyBase(t *testing.T) {
	got := apply(nil, nil, map[int64]int64{}, 0, false)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil", got)
	}
}

func TestOpKindString(t *testing.T) {
	if opCreate.String() != "create" || opRemove.String() != "remove" || opKind(42).String() != "unknown" {
		t.Fatal("unexpected op kind names")
	}
}
