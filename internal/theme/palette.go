package theme

import "github.com/charmbracelet/lipgloss"

// Palette 界面色彩和预构建样式
// Palette defines the screen colors and pre-built styles
type Palette struct {
	Mode Mode

	// 基础色 / Base colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Danger    lipgloss.Color
	Success   lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	TextDim   lipgloss.Color
	Border    lipgloss.Color

	// 预构建样式 / Pre-built styles
	TitleStyle     lipgloss.Style
	ItemStyle      lipgloss.Style
	SelectedStyle  lipgloss.Style
	DoneStyle      lipgloss.Style
	CheckStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	InputStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	MutedStyle     lipgloss.Style
	DangerStyle    lipgloss.Style
}

// Palette returns the palette for mode.
func (c *Context) Palette() Palette {
	return PaletteFor(c.Current())
}

// PaletteFor builds the palette of mode.
func PaletteFor(mode Mode) Palette {
	if mode == Dark {
		return build(Palette{
			Mode:      Dark,
			Primary:   lipgloss.Color("#7C3AED"),
			Secondary: lipgloss.Color("#06B6D4"),
			Danger:    lipgloss.Color("#EF4444"),
			Success:   lipgloss.Color("#10B981"),
			Muted:     lipgloss.Color("#6B7280"),
			Text:      lipgloss.Color("#E5E7EB"),
			TextDim:   lipgloss.Color("#9CA3AF"),
			Border:    lipgloss.Color("#374151"),
		})
	}
	return build(Palette{
		Mode:      Light,
		Primary:   lipgloss.Color("#6A5ACD"),
		Secondary: lipgloss.Color("#FF9800"),
		Danger:    lipgloss.Color("#DC2626"),
		Success:   lipgloss.Color("#059669"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Text:      lipgloss.Color("#1F2937"),
		TextDim:   lipgloss.Color("#6B7280"),
		Border:    lipgloss.Color("#D1D5DB"),
	})
}

func build(p Palette) Palette {
	p.TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)

	p.ItemStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		PaddingLeft(2)

	p.SelectedStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		BorderLeft(true).
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(p.Secondary).
		PaddingLeft(1)

	p.DoneStyle = lipgloss.NewStyle().
		Foreground(p.TextDim).
		Strikethrough(true)

	p.CheckStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true)

	p.StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.TextDim)

	p.InputStyle = lipgloss.NewStyle().
		Foreground(p.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)

	p.ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true)

	p.SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success)

	p.MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	p.DangerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(p.Danger).
		Bold(true).
		Padding(0, 1)

	return p
}
