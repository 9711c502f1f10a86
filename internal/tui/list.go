package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"todoapp/internal/i18n"
	"todoapp/internal/output"
	"todoapp/internal/task"
	"todoapp/internal/taskstore"
	"todoapp/internal/theme"
)

type focus int

const (
	focusInput focus = iota
	focusList
)

// listModel 列表界面
// listModel is the list screen
type listModel struct {
	store  *taskstore.Store
	locale *i18n.I18n

	tasks   []task.Task
	loaded  bool
	cursor  int
	focus   focus
	input   textinput.Model
	confirm *task.Task

	// 状态 / State
	inflight  int
	status    string
	statusErr bool
}

func newListModel(store *taskstore.Store, locale *i18n.I18n, titleMax int) listModel {
	ti := textinput.New()
	ti.Placeholder = locale.T("list.placeholder")
	ti.CharLimit = titleMax
	ti.Width = 40
	ti.Focus()

	return listModel{
		store:  store,
		locale: locale,
		focus:  focusInput,
		input:  ti,
	}
}

func (l *listModel) setTasks(tasks []task.Task) {
	l.tasks = tasks
	if l.cursor >= len(l.tasks) {
		l.cursor = len(l.tasks) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *listModel) setStatus(s string, isErr bool) {
	l.status = s
	l.statusErr = isErr
}

func (l *listModel) selected() (task.Task, bool) {
	if l.cursor < 0 || l.cursor >= len(l.tasks) {
		return task.Task{}, false
	}
	return l.tasks[l.cursor], true
}

func (l *listModel) move(delta int) {
	l.cursor += delta
	if l.cursor >= len(l.tasks) {
		l.cursor = len(l.tasks) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *listModel) switchFocus() tea.Cmd {
	if l.focus == focusInput {
		l.focus = focusList
		l.input.Blur()
		return nil
	}
	l.focus = focusInput
	return l.input.Focus()
}

func (l *listModel) create() tea.Cmd {
	title := l.input.Value()
	if strings.TrimSpace(title) == "" {
		return nil
	}
	tasks, ack := l.store.Create(title)
	l.input.Reset()
	l.setTasks(tasks)
	l.cursor = 0
	return l.track(ack)
}

func (l *listModel) toggle() tea.Cmd {
	t, ok := l.selected()
	if !ok {
		return nil
	}
	tasks, ack := l.store.Toggle(t.ID)
	l.setTasks(tasks)
	return l.track(ack)
}

func (l *listModel) remove(id int64) tea.Cmd {
	tasks, ack := l.store.Delete(id)
	l.setTasks(tasks)
	return l.track(ack)
}

func (l *listModel) track(ack taskstore.Ack) tea.Cmd {
	l.inflight++
	// 含上次失败后待重试的修改 / Includes changes left over from a failed save
	l.setStatus(l.locale.T("status.saving", max(l.inflight, l.store.Pending())), false)
	return waitAck(l.store, ack)
}

func (l *listModel) acked(err error) {
	if l.inflight > 0 {
		l.inflight--
	}
	if err != nil {
		l.setStatus(l.locale.T("status.save_error", err), true)
		return
	}
	// 持久化可能重新编号了新任务 / A persist may have renumbered new tasks
	l.setTasks(l.store.Snapshot())
	if l.inflight == 0 {
		l.setStatus(l.locale.T("status.saved"), false)
	}
}

func (l *listModel) refreshed(tasks []task.Task, err error) {
	if err != nil {
		l.setStatus(l.locale.T("status.save_error", err), true)
		return
	}
	l.setTasks(tasks)
}

// --- 渲染方法 / Render methods ---

func (l listModel) view(p theme.Palette, width, height int) string {
	open, done := task.Counts(l.tasks)
	header := p.TitleStyle.Render(l.locale.T("app.title")) + "  " +
		p.MutedStyle.Render(l.locale.T("list.counts", open, done))

	inputBox := p.InputStyle.Width(width - 2).Render(l.input.View())

	// header + input (3) + status + hint
	rows := height - 6
	if rows < 1 {
		rows = 1
	}

	var body string
	switch {
	case !l.loaded:
		body = p.MutedStyle.Render("  ...")
	case len(l.tasks) == 0:
		body = p.MutedStyle.Render("  " + l.locale.T("list.empty"))
	default:
		body = l.renderRows(p, width, rows)
	}

	footer := p.StatusBarStyle.Render(l.status)
	if l.statusErr {
		footer = p.ErrorStyle.Render(l.status)
	}
	if l.confirm != nil {
		footer = p.DangerStyle.Render(l.locale.T("confirm.delete", output.Title(l.confirm.Title)))
	}

	hint := l.locale.T("list.hint")
	if l.focus == focusInput {
		hint = l.locale.T("list.hint_input")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		inputBox,
		lipgloss.NewStyle().Height(rows).Render(body),
		footer,
		p.MutedStyle.Render(hint),
	)
}

func (l listModel) renderRows(p theme.Palette, width, rows int) string {
	offset := 0
	if l.cursor >= rows {
		offset = l.cursor - rows + 1
	}
	end := offset + rows
	if end > len(l.tasks) {
		end = len(l.tasks)
	}

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, renderTask(p, l.tasks[i], width, l.focus == focusList && i == l.cursor))
	}
	return strings.Join(lines, "\n")
}

func renderTask(p theme.Palette, t task.Task, width int, selected bool) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	avail := width - 8
	if avail < 1 {
		avail = 1
	}
	title := runewidth.Truncate(output.Title(t.Title), avail, "…")
	if t.Completed {
		title = p.DoneStyle.Render(title)
	}
	line := p.CheckStyle.Render(check) + " " + title
	if selected {
		return p.SelectedStyle.Render(line)
	}
	return p.ItemStyle.Render(line)
}
