// Package output renders tasks as plain text lines for the CLI and the shell.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"todoapp/internal/task"
)

const (
	untitled = "(untitled)"
	ellipsis = "…"
	// "%4d  [x] " 前缀宽度 / prefix width of "%4d  [x] "
	prefixWidth = 10
)

// Filter 选择列出的任务
// Filter selects which tasks are listed
type Filter int

const (
	All Filter = iota
	Open
	Done
)

// ParseFilter accepts all, open or done; blank is all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "open":
		return Open, nil
	case "done":
		return Done, nil
	default:
		return All, fmt.Errorf("invalid filter %q (want all, open or done)", s)
	}
}

// Keep reports whether t passes f.
func (f Filter) Keep(t task.Task) bool {
	switch f {
	case Open:
		return !t.Completed
	case Done:
		return t.Completed
	default:
		return true
	}
}

// Title normalizes a title for single-line display.
func Title(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return untitled
	}
	return title
}

// Line formats one task. width <= 0 disables truncation.
func Line(t task.Task, width int) string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	title := Title(t.Title)
	if width > 0 {
		avail := width - prefixWidth
		if avail < 1 {
			avail = 1
		}
		title = runewidth.Truncate(title, avail, ellipsis)
	}
	return fmt.Sprintf("%4d  [%s] %s", t.ID, mark, title)
}

// FormatTask writes one task line to w.
func FormatTask(w io.Writer, t task.Task, width int) error {
	_, err := fmt.Fprintln(w, Line(t, width))
	return err
}

// FormatList writes the tasks passing f, one per line, followed by nothing
// else. It returns how many lines were written.
func FormatList(w io.Writer, tasks []task.Task, f Filter, width int) (int, error) {
	n := 0
	for _, t := range tasks {
		if !f.Keep(t) {
			continue
		}
		if err := FormatTask(w, t, width); err != nil {
			return n, fmt.Errorf("write task %d: %w", t.ID, err)
		}
		n++
	}
	return n, nil
}
