package taskstore

import "todoapp/internal/task"

type opKind int

const (
	opCreate opKind = iota
	opSetCompleted
	opSetTitle
	opRemove
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opSetCompleted:
		return "set-completed"
	case opSetTitle:
		return "set-title"
	case opRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// op is one pending mutation, applied by id against whatever collection is
// current when it is persisted.
type op struct {
	seq       uint64
	kind      opKind
	id        int64
	title     string
	completed bool

	ack   chan error
	acked bool
}

// apply replays ops on top of base and returns the resulting collection,
// newest first. base is not modified.
//
// remap carries id renumbering: a create whose id is already taken in the
// collection gets NextID(collection, floor) and remap[old] = new, and later ops naming the old id
// follow it. A create rebinds its id, so an earlier remap entry for the same id
// stops applying from that point. When rewrite is set, op ids are updated in
// place to the resolved values.
func apply(base []task.Task, ops []*op, remap map[int64]int64, floor int64, rewrite bool) []task.Task {
	out := task.Clone(base)
	if out == nil {
		out = []task.Task{}
	}
	for _, o := range ops {
		id := o.id
		if o.kind == opCreate {
			delete(remap, o.id)
			if task.IndexOf(out, id) >= 0 {
				id = task.NextID(out, floor)
				remap[o.id] = id
			}
		} else if r, ok := remap[id]; ok {
			id = r
		}
		if rewrite {
			o.id = id
		}

		switch o.kind {
		case opCreate:
			out = append(out, task.Task{ID: id, Title: o.title, Completed: o.completed})
		case opSetCompleted:
			// 记录已被其他实例删除时丢弃补丁，不复活
			// A record deleted elsewhere is not resurrected
			if i := task.IndexOf(out, id); i >= 0 {
				out[i].Completed = o.completed
			}
		case opSetTitle:
			if i := task.IndexOf(out, id); i >= 0 {
				out[i].Title = o.title
			}
		case opRemove:
			out = task.Remove(out, id)
		}
	}
	task.SortForDisplay(out)
	return out
}
