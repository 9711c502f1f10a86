// Package theme holds the light/dark preference of one process.
package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Mode 主题模式
// Mode is the appearance mode
type Mode int

const (
	Light Mode = iota
	Dark
)

func (m Mode) String() string {
	if m == Dark {
		return "dark"
	}
	return "light"
}

// ParseMode accepts light or dark, case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return Light, fmt.Errorf("invalid theme %q (want light or dark)", s)
	}
}

// Detect reads the terminal background once. Light is the fallback.
func Detect() Mode {
	if lipgloss.HasDarkBackground() {
		return Dark
	}
	return Light
}

// Context 进程级主题状态，显式传递给使用者
// Context is the process-wide theme state, passed to its consumers explicitly
type Context struct {
	mu        sync.Mutex
	system    Mode
	override  *Mode
	listeners map[int]func(Mode)
	nextID    int
}

// New creates a Context initialized from the system appearance.
func New(system Mode) *Context {
	return &Context{system: system, listeners: map[int]func(Mode){}}
}

// Current returns the override when one is set, otherwise the system mode.
func (c *Context) Current() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.override != nil {
		return *c.override
	}
	return c.system
}

// System returns the last reported system mode.
func (c *Context) System() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.system
}

// Overridden reports whether a user selection is in effect.
func (c *Context) Overridden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.override != nil
}

// SetOverride pins the mode for this session. Nothing is persisted.
func (c *Context) SetOverride(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override = &mode
}

// ClearOverride goes back to following the system mode.
func (c *Context) ClearOverride() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.override = nil
}

// SystemChanged records a new system appearance. It replaces any override and
// notifies subscribers with the new mode.
func (c *Context) SystemChanged(mode Mode) {
	c.mu.Lock()
	c.system = mode
	c.override = nil
	fns := make([]func(Mode), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(mode)
	}
}

// OnSystemChange registers fn for system changes and returns its unsubscribe.
func (c *Context) OnSystemChange(fn func(Mode)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}
