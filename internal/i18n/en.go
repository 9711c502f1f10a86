package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// TUI - List screen
	"app.title":         "Todo",
	"list.empty":        "No tasks yet",
	"list.placeholder":  "What needs to be done?",
	"list.counts":       "%d open, %d done",
	"list.hint":         "enter edit · space toggle · d delete · t theme · ? help · tab focus · ctrl+c quit",
	"list.hint_input":   "enter add · tab list · esc clear · ctrl+c quit",
	"confirm.delete":    "Delete %q? (y/n)",
	"status.saving":     "Saving %d change(s)...",
	"status.saved":      "Saved",
	"status.save_error": "Save failed, will retry: %s",

	// TUI - Edit screen
	"edit.title":   "Edit task #%d",
	"edit.missing": "This task no longer exists.",
	"edit.hint":    "ctrl+s/enter save · esc cancel",
	"edit.saved":   "Saved #%d",
	"edit.blank":   "Title cannot be empty",

	// TUI - Theme selector
	"theme.title":  "Theme",
	"theme.system": "Follow system (%s)",
	"theme.light":  "Light",
	"theme.dark":   "Dark",
	"theme.hint":   "up/down select · enter apply · esc close",

	// TUI - Help
	"help.body": `# Todo

| Key | Action |
|---|---|
| enter | add (input) / edit (list) |
| space | toggle done |
| d | delete, confirm with y |
| t | theme |
| tab | switch focus |
| esc | back |
| ctrl+c | quit |

Scroll with up/down, any other key closes.`,

	// CLI
	"cli.added":           "Added #%d %s",
	"cli.no_task":         "no task with id %d",
	"cli.invalid_id":      "invalid task id %q",
	"cli.migrated":        "Imported %s into key %s",
	"cli.migrate_skipped": "Key %s already holds tasks, nothing imported",
	"cli.config_created":  "Wrote %s",
	"cli.config_exists":   "%s already exists",

	// Shell
	"shell.welcome": "todo shell. Type help for commands, exit to quit.",
	"shell.help": `commands:
  ls [all|open|done]   list tasks
  add <title>          add a task
  x <id>               toggle a task
  rm <id>              delete a task
  mv <id> <title>      rename a task
  reload               re-read storage
  exit                 quit`,
	"shell.unknown": "unknown command %q, type help",
	"shell.usage":   "usage: %s",
	"shell.bye":     "bye",
}
