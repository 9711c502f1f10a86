package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"todoapp/internal/config"
	"todoapp/internal/i18n"
	"todoapp/internal/output"
	"todoapp/internal/storage"
	"todoapp/internal/task"
	"todoapp/internal/taskstore"
	"todoapp/internal/theme"
	"todoapp/internal/tui"
)

func tuiCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list and edit screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rt)
		},
	}
}

func runTUI(cmd *cobra.Command, rt *cliEnv) error {
	// 非终端时退化为 list / Fall back to list when stdout is not a terminal
	if !isTerminal(cmd.OutOrStdout()) {
		return printList(cmd, rt, output.All)
	}
	ctx, err := themeContext(rt.cfg.UI.Theme, "")
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Adapter:  rt.adapter,
		Logger:   rt.logger,
		Theme:    ctx,
		Locale:   rt.locale,
		TitleMax: rt.cfg.UI.TitleMax,
	})
}

func listCmd(rt *cliEnv) *cobra.Command {
	var all, open, done bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print tasks, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := output.All
			switch {
			case open:
				filter = output.Open
			case done:
				filter = output.Done
			}
			return printList(cmd, rt, filter)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "show all tasks (default)")
	cmd.Flags().BoolVar(&open, "open", false, "show open tasks only")
	cmd.Flags().BoolVar(&done, "done", false, "show completed tasks only")
	cmd.MarkFlagsMutuallyExclusive("all", "open", "done")
	return cmd
}

func printList(cmd *cobra.Command, rt *cliEnv, filter output.Filter) error {
	return rt.withStore(cmd, "cli", func(ctx context.Context, s *taskstore.Store) error {
		return writeTasks(cmd, s.Snapshot(), filter)
	})
}

func writeTasks(cmd *cobra.Command, tasks []task.Task, filter output.Filter) error {
	out := cmd.OutOrStdout()
	_, err := output.FormatList(out, tasks, filter, terminalWidth(out))
	return err
}

func addCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return errors.New("title is empty")
			}
			return rt.withStore(cmd, "cli", func(ctx context.Context, s *taskstore.Store) error {
				_, ack := s.Create(title)
				if err := <-ack; err != nil {
					return fmt.Errorf("save tasks: %w", err)
				}
				// 持久化时可能被重新编号 / The id may have been renumbered while persisting
				tasks := s.Snapshot()
				if created, ok := findCreated(tasks, title); ok {
					fmt.Fprintln(cmd.ErrOrStderr(), rt.locale.T("cli.added", created.ID, output.Title(created.Title)))
				}
				return writeTasks(cmd, tasks, output.All)
			})
		},
	}
}

func findCreated(tasks []task.Task, title string) (task.Task, bool) {
	for _, t := range tasks {
		if t.Title == title {
			return t, true
		}
	}
	return task.Task{}, false
}

func toggleCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, rt, args[0], func(s *taskstore.Store, id int64) taskstore.Ack {
				_, ack := s.Toggle(id)
				return ack
			})
		},
	}
}

func rmCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, rt, args[0], func(s *taskstore.Store, id int64) taskstore.Ack {
				_, ack := s.Delete(id)
				return ack
			})
		},
	}
}

func renameCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title...>",
		Short: "Change the title of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			if strings.TrimSpace(title) == "" {
				return errors.New("title is empty")
			}
			return mutate(cmd, rt, args[0], func(s *taskstore.Store, id int64) taskstore.Ack {
				_, ack := s.Rename(id, title)
				return ack
			})
		},
	}
}

// mutate 解析 id、确认任务存在、执行修改并等待持久化
// mutate parses the id, checks the task exists, applies fn and waits for the write
func mutate(cmd *cobra.Command, rt *cliEnv, rawID string, fn func(*taskstore.Store, int64) taskstore.Ack) error {
	id, err := parseID(rawID)
	if err != nil {
		return errors.New(rt.locale.T("cli.invalid_id", rawID))
	}
	return rt.withStore(cmd, "cli", func(ctx context.Context, s *taskstore.Store) error {
		if _, ok := s.Get(id); !ok {
			return errors.New(rt.locale.T("cli.no_task", id))
		}
		if err := <-fn(s, id); err != nil {
			return fmt.Errorf("save tasks: %w", err)
		}
		return writeTasks(cmd, s.Snapshot(), output.All)
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func migrateCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate <file>",
		Short: "Import an exported task blob when storage holds no tasks yet",
		Long: `Import a task blob file (a JSON array of {id, title, completed}) into the
configured storage key. Nothing is written when the key already holds tasks.

Examples:
  todo migrate ./TodoApp.json
  todo migrate export.json --db ~/.todoapp/todo.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("read legacy blob: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			migrated, err := storage.MigrateFile(ctx, path, rt.kv, rt.adapter.Key())
			if err != nil {
				return err
			}
			if !migrated {
				fmt.Fprintln(cmd.OutOrStdout(), rt.locale.T("cli.migrate_skipped", rt.adapter.Key()))
				return nil
			}
			rt.logger.Info("migrated legacy blob", "file", path, "key", rt.adapter.Key())
			fmt.Fprintln(cmd.OutOrStdout(), rt.locale.T("cli.migrated", path, rt.adapter.Key()))
			return nil
		},
	}
}

func themeCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Print the theme mode the screens would use",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			choice := ""
			if len(args) == 1 {
				choice = args[0]
			}
			ctx, err := themeContext(rt.cfg.UI.Theme, choice)
			if err != nil {
				return err
			}
			source := "system"
			if ctx.Overridden() {
				source = "override"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", ctx.Current(), source)
			return nil
		},
	}
}

// themeContext 从系统外观创建主题上下文，再依次应用配置与参数覆盖
// themeContext creates the theme context from the system appearance, then applies the
// configured and the explicit choice as in-memory overrides
func themeContext(configured, choice string) (*theme.Context, error) {
	ctx := theme.New(theme.Detect())
	for _, c := range []string{configured, choice} {
		c = strings.ToLower(strings.TrimSpace(c))
		switch c {
		case "":
		case "system":
			ctx.ClearOverride()
		default:
			mode, err := theme.ParseMode(c)
			if err != nil {
				return nil, err
			}
			ctx.SetOverride(mode)
		}
	}
	return ctx, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a project config scaffold to .todoapp/config.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.InitProjectConfigScaffold("")
			if err != nil {
				return err
			}
			locale := i18n.Global()
			if created {
				fmt.Fprintln(cmd.OutOrStdout(), locale.T("cli.config_created", path))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), locale.T("cli.config_exists", path))
			return nil
		},
	}
}
