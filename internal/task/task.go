package task

import "sort"

// Task 待办条目
// Task is a single to-do record
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Clone 返回集合的独立副本
// Clone returns an independent copy of the collection
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}

// SortForDisplay 按 id 降序排列（最新在前），原地排序
// SortForDisplay orders tasks by descending id (newest first), in place
func SortForDisplay(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ID > tasks[j].ID
	})
}

// MaxID returns the largest id in the collection, or 0 when it is empty.
func MaxID(tasks []Task) int64 {
	var max int64
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// NextID returns the id a newly created task receives: one past the larger of
// floor and the highest id in tasks. floor is the highest id the caller has
// ever seen, so an id freed by a delete is not handed out again.
func NextID(tasks []Task, floor int64) int64 {
	if max := MaxID(tasks); max > floor {
		floor = max
	}
	return floor + 1
}

// IndexOf returns the position of id, or -1.
func IndexOf(tasks []Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the task with the given id.
func Find(tasks []Task, id int64) (Task, bool) {
	if i := IndexOf(tasks, id); i >= 0 {
		return tasks[i], true
	}
	return Task{}, false
}

// Remove returns tasks without id. The input slice is not modified.
func Remove(tasks []Task, id int64) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// UniqueIDs reports whether no two tasks share an id.
func UniqueIDs(tasks []Task) bool {
	seen := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			return false
		}
		seen[t.ID] = struct{}{}
	}
	return true
}

// Counts returns the number of open and completed tasks.
func Counts(tasks []Task) (open, done int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}
