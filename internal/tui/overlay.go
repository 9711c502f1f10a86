package tui

import (
	"strings"

	"todoapp/internal/theme"
)

func (a App) renderThemeSelector(p theme.Palette) string {
	labels := []string{
		a.locale.T("theme.system", a.opts.Theme.System()),
		a.locale.T("theme.light"),
		a.locale.T("theme.dark"),
	}

	lines := []string{p.TitleStyle.Render(a.locale.T("theme.title")), ""}
	for i, label := range labels {
		if i == a.themeCursor {
			lines = append(lines, p.SelectedStyle.Render(label))
			continue
		}
		lines = append(lines, p.ItemStyle.Render(label))
	}
	lines = append(lines, "", p.MutedStyle.Render(a.locale.T("theme.hint")))
	return strings.Join(lines, "\n")
}
