package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"todoapp/internal/i18n"
	"todoapp/internal/output"
	"todoapp/internal/taskstore"
)

const shellPrompt = "todo> "

var shellCompleter = readline.NewPrefixCompleter(
	readline.PcItem("ls",
		readline.PcItem("all"),
		readline.PcItem("open"),
		readline.PcItem("done"),
	),
	readline.PcItem("add"),
	readline.PcItem("x"),
	readline.PcItem("rm"),
	readline.PcItem("mv"),
	readline.PcItem("reload"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

func shellCmd(rt *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive line shell over one store instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := newLineInput(cmd.InOrStdin(), cmd.OutOrStdout(), rt.cfg.Storage.HistoryFile)
			if err != nil {
				rt.logger.Warn("line editor unavailable, fallback to basic input", "err", err)
			}
			defer in.Close()

			s := taskstore.New(rt.adapter, taskstore.Options{Name: "shell", Logger: rt.logger})
			sh := &shell{
				store:  s,
				in:     in,
				out:    cmd.OutOrStdout(),
				locale: rt.locale,
				width:  terminalWidth(cmd.OutOrStdout()),
			}
			runErr := sh.run(cmd.Context())

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			if err := s.Close(ctx); err != nil {
				return errors.Join(runErr, fmt.Errorf("save tasks: %w", err))
			}
			return runErr
		},
	}
}

type shell struct {
	store  *taskstore.Store
	in     lineInput
	out    io.Writer
	locale *i18n.I18n
	width  int
}

func (sh *shell) run(ctx context.Context) error {
	sh.store.Initialize(ctx)
	fmt.Fprintln(sh.out, sh.locale.T("shell.welcome"))
	sh.list(output.All)

	for {
		line, err := sh.in.ReadLine(shellPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				fmt.Fprintln(sh.out, sh.locale.T("shell.bye"))
				return nil
			}
			return err
		}
		if done := sh.exec(ctx, line); done {
			fmt.Fprintln(sh.out, sh.locale.T("shell.bye"))
			return nil
		}
	}
}

// exec 执行一行命令；返回 true 表示退出
// exec runs one command line and reports whether the shell should exit
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, rest := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, sh.locale.T("shell.help"))
	case "ls", "list":
		filter := output.All
		if len(rest) > 0 {
			f, err := output.ParseFilter(rest[0])
			if err != nil {
				sh.fail(err)
				return false
			}
			filter = f
		}
		sh.list(filter)
	case "reload":
		if _, err := sh.store.Refresh(ctx); err != nil {
			sh.fail(err)
			return false
		}
		sh.list(output.All)
	case "add":
		title := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if title == "" {
			sh.usage("add <title>")
			return false
		}
		_, ack := sh.store.Create(title)
		sh.wait(ack)
	case "x", "toggle":
		id, ok := sh.id(rest, "x <id>")
		if !ok {
			return false
		}
		_, ack := sh.store.Toggle(id)
		sh.wait(ack)
	case "rm", "del":
		id, ok := sh.id(rest, "rm <id>")
		if !ok {
			return false
		}
		_, ack := sh.store.Delete(id)
		sh.wait(ack)
	case "mv", "rename":
		id, ok := sh.id(rest, "mv <id> <title>")
		if !ok || len(rest) < 2 {
			if ok {
				sh.usage("mv <id> <title>")
			}
			return false
		}
		_, ack := sh.store.Rename(id, strings.Join(rest[1:], " "))
		sh.wait(ack)
	default:
		fmt.Fprintln(sh.out, sh.locale.T("shell.unknown", name))
	}
	return false
}

func (sh *shell) id(args []string, usage string) (int64, bool) {
	if len(args) == 0 {
		sh.usage(usage)
		return 0, false
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintln(sh.out, sh.locale.T("cli.invalid_id", args[0]))
		return 0, false
	}
	if _, ok := sh.store.Get(id); !ok {
		fmt.Fprintln(sh.out, sh.locale.T("cli.no_task", id))
		return 0, false
	}
	return id, true
}

func (sh *shell) wait(ack taskstore.Ack) {
	if err := <-ack; err != nil {
		fmt.Fprintln(sh.out, sh.locale.T("status.save_error", err))
	}
	sh.list(output.All)
}

func (sh *shell) list(filter output.Filter) {
	n, err := output.FormatList(sh.out, sh.store.Snapshot(), filter, sh.width)
	if err != nil {
		sh.fail(err)
		return
	}
	if n == 0 {
		fmt.Fprintln(sh.out, sh.locale.T("list.empty"))
	}
}

func (sh *shell) usage(u string) {
	fmt.Fprintln(sh.out, sh.locale.T("shell.usage", u))
}

func (sh *shell) fail(err error) {
	fmt.Fprintf(sh.out, "error: %v\n", err)
}
