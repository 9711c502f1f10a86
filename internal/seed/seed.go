// Package seed holds the default task collection shown before anything has
// been persisted.
package seed

import "todoapp/internal/task"

var defaults = [...]task.Task{
	{ID: 1, Title: "Learn the basics", Completed: false},
	{ID: 2, Title: "Build a task list", Completed: false},
	{ID: 3, Title: "Persist tasks locally", Completed: false},
	{ID: 4, Title: "Add a dark theme", Completed: true},
	{ID: 5, Title: "Edit a task title", Completed: false},
	{ID: 6, Title: "Delete a finished task", Completed: false},
	{ID: 7, Title: "Mark a task as done", Completed: true},
	{ID: 8, Title: "Try the shell mode", Completed: false},
	{ID: 9, Title: "Review the help screen", Completed: false},
	{ID: 10, Title: "Start your own list", Completed: false},
}

// Default returns a fresh copy of the seed collection, newest first.
func Default() []task.Task {
	out := make([]task.Task, 0, len(defaults))
	for i := len(defaults) - 1; i >= 0; i-- {
		out = append(out, defaults[i])
	}
	return out
}
