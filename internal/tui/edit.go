package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todoapp/internal/i18n"
	"todoapp/internal/task"
	"todoapp/internal/taskstore"
	"todoapp/internal/theme"
)

// editModel 编辑界面，持有独立的存储实例
// editModel is the edit screen; it owns a separate store instance
type editModel struct {
	store *taskstore.Store
	id    int64
	input textinput.Model

	ready   bool
	missing bool
	saving  bool
	err     string
}

func newEditModel(store *taskstore.Store, id int64, titleMax, width int) *editModel {
	ti := textinput.New()
	ti.CharLimit = titleMax
	ti.Width = inputWidth(width)
	return &editModel{store: store, id: id, input: ti}
}

func (e *editModel) loaded(tasks []task.Task) tea.Cmd {
	e.ready = true
	t, ok := task.Find(tasks, e.id)
	if !ok {
		e.missing = true
		return nil
	}
	e.input.SetValue(t.Title)
	e.input.CursorEnd()
	return e.input.Focus()
}

// save 空标题不提交，留在编辑界面提示
// save refuses a blank title and keeps the screen open with a notice
func (e *editModel) save(locale *i18n.I18n) tea.Cmd {
	if strings.TrimSpace(e.input.Value()) == "" {
		e.err = locale.T("edit.blank")
		return nil
	}
	_, ack := e.store.Rename(e.id, e.input.Value())
	e.saving = true
	e.err = ""
	return waitAck(e.store, ack)
}

func (e *editModel) failed(err error, locale *i18n.I18n) {
	e.saving = false
	e.err = locale.T("status.save_error", err)
}

func (e *editModel) view(p theme.Palette, locale *i18n.I18n, width int) string {
	header := p.TitleStyle.Render(locale.T("edit.title", e.id))
	if !e.ready {
		return lipgloss.JoinVertical(lipgloss.Left, header, p.MutedStyle.Render("  ..."))
	}
	if e.missing {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			p.ErrorStyle.Render(locale.T("edit.missing")),
			"",
			p.MutedStyle.Render(locale.T("edit.hint")),
		)
	}

	status := ""
	switch {
	case e.saving:
		status = p.StatusBarStyle.Render(locale.T("status.saving", max(1, e.store.Pending())))
	case e.err != "":
		status = p.ErrorStyle.Render(e.err)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		p.InputStyle.Width(width-2).Render(e.input.View()),
		status,
		p.MutedStyle.Render(locale.T("edit.hint")),
	)
}
