package config

const (
	DirName = ".todoapp"

	DefaultBackend     = "sqlite"
	DefaultDBFile      = "todo.db"
	DefaultHistoryFile = "history"
	DefaultStorageKey  = "TodoApp"

	DefaultLogLevel = "info"

	DefaultTheme    = "system"
	DefaultLocale   = ""
	DefaultTitleMax = 30
)
