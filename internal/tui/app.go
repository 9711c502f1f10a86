package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"todoapp/internal/i18n"
	"todoapp/internal/logging"
	"todoapp/internal/storage"
	"todoapp/internal/task"
	"todoapp/internal/taskstore"
	"todoapp/internal/theme"
)

const (
	ioTimeout       = 10 * time.Second
	defaultTitleMax = 30
)

// Options 界面依赖
// Options holds what the screens need
type Options struct {
	Adapter  *storage.Adapter
	Logger   *log.Logger
	Theme    *theme.Context
	Locale   *i18n.I18n
	TitleMax int
	Seed     func() []task.Task
	// Detect re-reads the system appearance when the terminal regains focus;
	// nil means theme.Detect.
	Detect func() theme.Mode
}

// --- Tea Messages ---

// loadedMsg 存储实例初始化完成
// loadedMsg reports a finished Initialize
type loadedMsg struct {
	store *taskstore.Store
	tasks []task.Task
}

// ackMsg 一次修改的持久化结果
// ackMsg carries the persist result of one mutation
type ackMsg struct {
	store *taskstore.Store
	err   error
}

type refreshedMsg struct {
	store *taskstore.Store
	tasks []task.Task
	err   error
}

type closedMsg struct {
	name string
	err  error
}

type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayTheme
)

var themeChoices = []string{"system", "light", "dark"}

// App Bubble Tea 主 Model：列表界面，可压入编辑界面
// App is the main Bubble Tea model: the list screen with an optional edit screen on top
type App struct {
	// 布局 / Layout
	width  int
	height int

	opts   Options
	keys   KeyMap
	locale *i18n.I18n
	logger *log.Logger

	list listModel
	edit *editModel

	overlay     overlay
	help        viewport.Model
	themeCursor int
	quitting    bool
}

// NewApp 创建 TUI 应用；列表界面持有自己的存储实例
// NewApp creates the TUI application; the list screen owns its own store instance
func NewApp(opts Options) App {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Locale == nil {
		opts.Locale = i18n.Global()
	}
	if opts.Theme == nil {
		opts.Theme = theme.New(theme.Detect())
	}
	if opts.TitleMax <= 0 {
		opts.TitleMax = defaultTitleMax
	}
	if opts.Detect == nil {
		opts.Detect = theme.Detect
	}

	store := taskstore.New(opts.Adapter, taskstore.Options{
		Name:   "list",
		Logger: opts.Logger,
		Seed:   opts.Seed,
	})

	return App{
		opts:   opts,
		keys:   DefaultKeyMap(),
		locale: opts.Locale,
		logger: opts.Logger,
		list:   newListModel(store, opts.Locale, opts.TitleMax),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(initCmd(a.list.store), textinput.Blink)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.input.Width = inputWidth(a.width)
		if a.edit != nil {
			a.edit.input.Width = inputWidth(a.width)
		}
		if a.overlay == overlayHelp {
			a.openHelp()
		}
		return a, nil

	case tea.FocusMsg:
		a.checkSystemTheme()
		return a, nil

	case loadedMsg:
		switch {
		case msg.store == a.list.store:
			a.list.setTasks(msg.tasks)
			a.list.loaded = true
		case a.edit != nil && msg.store == a.edit.store:
			return a, a.edit.loaded(msg.tasks)
		}
		return a, nil

	case ackMsg:
		switch {
		case msg.store == a.list.store:
			a.list.acked(msg.err)
		case a.edit != nil && msg.store == a.edit.store:
			return a.finishEdit(msg.err)
		}
		return a, nil

	case refreshedMsg:
		if msg.store == a.list.store {
			a.list.refreshed(msg.tasks, msg.err)
		}
		return a, nil

	case closedMsg:
		if msg.err != nil {
			a.logger.Error("close store", "store", msg.name, "err", msg.err)
		}
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a.quit()
		}
		switch {
		case a.overlay == overlayHelp:
			return a.updateHelp(msg)
		case a.overlay == overlayTheme:
			return a.updateThemeSelector(msg)
		case a.edit != nil:
			return a.updateEdit(msg)
		default:
			return a.updateList(msg)
		}
	}

	// 其余消息交给当前输入框（光标闪烁等）/ Other messages go to the active input (cursor blink)
	var cmd tea.Cmd
	if a.edit != nil {
		a.edit.input, cmd = a.edit.input.Update(msg)
	} else if a.list.focus == focusInput {
		a.list.input, cmd = a.list.input.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.quitting {
		return ""
	}
	if a.width == 0 || a.height == 0 {
		return "Initializing..."
	}

	p := a.opts.Theme.Palette()
	var body string
	switch {
	case a.overlay == overlayHelp:
		body = a.help.View()
	case a.overlay == overlayTheme:
		body = a.renderThemeSelector(p)
	case a.edit != nil:
		body = a.edit.view(p, a.locale, a.width)
	default:
		body = a.list.view(p, a.width, a.height)
	}
	return lipgloss.NewStyle().MaxWidth(a.width).MaxHeight(a.height).Render(body)
}

// --- 内部方法 / Internal methods ---

func (a App) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &a.list

	if l.confirm != nil {
		switch {
		case key.Matches(msg, a.keys.Confirm):
			id := l.confirm.ID
			l.confirm = nil
			return a, l.remove(id)
		case key.Matches(msg, a.keys.Deny, a.keys.Back):
			l.confirm = nil
		}
		return a, nil
	}

	if key.Matches(msg, a.keys.Focus) {
		return a, l.switchFocus()
	}

	if l.focus == focusInput {
		switch {
		case key.Matches(msg, a.keys.Submit):
			return a, l.create()
		case key.Matches(msg, a.keys.Back):
			l.input.Reset()
			return a, nil
		}
		var cmd tea.Cmd
		l.input, cmd = l.input.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		l.move(-1)
	case key.Matches(msg, a.keys.Down):
		l.move(1)
	case key.Matches(msg, a.keys.Submit):
		if t, ok := l.selected(); ok {
			return a.openEdit(t.ID)
		}
	case key.Matches(msg, a.keys.Toggle):
		return a, l.toggle()
	case key.Matches(msg, a.keys.Delete):
		if t, ok := l.selected(); ok {
			l.confirm = &t
		}
	case key.Matches(msg, a.keys.Theme):
		a.overlay = overlayTheme
		a.themeCursor = 0
		if a.opts.Theme.Overridden() {
			a.themeCursor = 1 + int(a.opts.Theme.Current())
		}
	case key.Matches(msg, a.keys.Help):
		a.openHelp()
	case key.Matches(msg, a.keys.Back):
		return a, l.switchFocus()
	}
	return a, nil
}

// openHelp 渲染帮助到可滚动视口 / openHelp renders the help into a scrollable viewport
func (a *App) openHelp() {
	p := a.opts.Theme.Palette()
	a.help = viewport.New(a.width, a.height)
	a.help.SetContent(RenderMarkdown(a.locale.T("help.body"), a.width-2, p.Mode))
	a.overlay = overlayHelp
}

// updateHelp scrolls on up/down; any other key closes the overlay.
func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.help.ScrollUp(1)
	case key.Matches(msg, a.keys.Down):
		a.help.ScrollDown(1)
	default:
		a.overlay = overlayNone
	}
	return a, nil
}

func (a App) openEdit(id int64) (tea.Model, tea.Cmd) {
	store := taskstore.New(a.opts.Adapter, taskstore.Options{
		Name:   "edit",
		Logger: a.logger,
		Seed:   a.opts.Seed,
	})
	a.edit = newEditModel(store, id, a.opts.TitleMax, a.width)
	return a, initCmd(store)
}

func (a App) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := a.edit
	switch {
	case key.Matches(msg, a.keys.Back):
		return a.closeEdit("")
	case !e.ready || e.saving:
		return a, nil
	case e.missing:
		if key.Matches(msg, a.keys.Save) {
			return a.closeEdit("")
		}
		return a, nil
	case key.Matches(msg, a.keys.Save):
		return a, e.save(a.locale)
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	return a, cmd
}

func (a App) finishEdit(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		a.edit.failed(err, a.locale)
		return a, nil
	}
	return a.closeEdit(a.locale.T("edit.saved", a.edit.id))
}

// closeEdit 弹出编辑界面并刷新列表
// closeEdit pops the edit screen and refreshes the list
func (a App) closeEdit(status string) (tea.Model, tea.Cmd) {
	store := a.edit.store
	a.edit = nil
	if status != "" {
		a.list.setStatus(status, false)
	}
	return a, tea.Batch(closeCmd(store), refreshCmd(a.list.store))
}

func (a App) updateThemeSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		if a.themeCursor > 0 {
			a.themeCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.themeCursor < len(themeChoices)-1 {
			a.themeCursor++
		}
	case key.Matches(msg, a.keys.Submit):
		a.applyTheme(themeChoices[a.themeCursor])
		a.overlay = overlayNone
	case key.Matches(msg, a.keys.Back), key.Matches(msg, a.keys.Theme):
		a.overlay = overlayNone
	}
	return a, nil
}

func (a App) applyTheme(choice string) {
	if choice == "system" {
		a.opts.Theme.ClearOverride()
		return
	}
	mode, err := theme.ParseMode(choice)
	if err != nil {
		return
	}
	a.opts.Theme.SetOverride(mode)
	a.logger.Debug("theme override", "mode", mode)
}

func (a App) checkSystemTheme() {
	mode := a.opts.Detect()
	if mode != a.opts.Theme.System() {
		a.opts.Theme.SystemChanged(mode)
	}
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.quitting = true
	cmds := []tea.Cmd{closeCmd(a.list.store)}
	if a.edit != nil {
		cmds = append(cmds, closeCmd(a.edit.store))
	}
	cmds = append(cmds, tea.Quit)
	return a, tea.Sequence(cmds...)
}

func inputWidth(width int) int {
	if width <= 8 {
		return 1
	}
	return width - 8
}

// --- 命令 / Commands ---

func initCmd(s *taskstore.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return loadedMsg{store: s, tasks: s.Initialize(ctx)}
	}
}

func waitAck(s *taskstore.Store, ack taskstore.Ack) tea.Cmd {
	return func() tea.Msg {
		return ackMsg{store: s, err: <-ack}
	}
}

func refreshCmd(s *taskstore.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		tasks, err := s.Refresh(ctx)
		return refreshedMsg{store: s, tasks: tasks, err: err}
	}
}

func closeCmd(s *taskstore.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return closedMsg{name: s.Name(), err: s.Close(ctx)}
	}
}

// Run 启动 Bubble Tea TUI
// Run starts the Bubble Tea TUI application
func Run(opts Options) error {
	app := NewApp(opts)
	unsubscribe := app.opts.Theme.OnSystemChange(func(mode theme.Mode) {
		app.logger.Info("system theme changed", "mode", mode)
	})
	defer unsubscribe()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
