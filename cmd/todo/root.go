package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"todoapp/internal/config"
	"todoapp/internal/i18n"
	"todoapp/internal/logging"
	"todoapp/internal/storage"
	"todoapp/internal/taskstore"
)

const commandTimeout = 30 * time.Second

type globalFlags struct {
	config   string
	backend  string
	db       string
	logLevel string
}

// cliEnv 单次命令共享的配置、日志与存储
// cliEnv holds the config, logger and storage shared by one command run
type cliEnv struct {
	cfg       config.Config
	logger    *log.Logger
	logCloser io.Closer
	kv        storage.KV
	adapter   *storage.Adapter
	locale    *i18n.I18n
}

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		rt    = &cliEnv{}
	)

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Todo list kept in one shared task blob",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// init 只写配置模板，不打开存储 / init only writes the scaffold
			if cmd.Name() == "init" {
				return nil
			}
			return rt.open(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rt)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "path to config JSON/JSONC")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: sqlite, file or memory")
	pf.StringVar(&flags.db, "db", "", "sqlite database file or file backend directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		tuiCmd(rt),
		listCmd(rt),
		addCmd(rt),
		toggleCmd(rt),
		rmCmd(rt),
		renameCmd(rt),
		shellCmd(rt),
		migrateCmd(rt),
		themeCmd(rt),
		initCmd(),
	)
	return root
}

func (rt *cliEnv) open(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := config.Load(flags.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg, err = config.Override(cfg, flags.backend, flags.db, flags.logLevel)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	rt.locale = i18n.New(cfg.UI.Locale)

	logOpts := logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Writer: cmd.ErrOrStderr(),
		Prefix: cmd.Name(),
	}
	if isTUI(cmd) && cfg.Log.File == "" {
		// 界面运行时不写 stderr / The TUI never logs to stderr
		logOpts.Writer = io.Discard
	}
	rt.logger, rt.logCloser, err = logging.New(logOpts)
	if err != nil {
		return err
	}

	rt.kv, err = storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	rt.adapter = storage.NewAdapter(rt.kv, cfg.Storage.Key)
	rt.logger.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "key", rt.adapter.Key())
	return nil
}

func (rt *cliEnv) close() error {
	var errs []error
	if rt.kv != nil {
		errs = append(errs, rt.kv.Close())
		rt.kv = nil
	}
	if rt.logCloser != nil {
		errs = append(errs, rt.logCloser.Close())
		rt.logCloser = nil
	}
	return errors.Join(errs...)
}

// withStore 运行一个存储实例：初始化、执行 fn、关闭并落盘
// withStore runs one store instance: initialize, run fn, then close and flush
func (rt *cliEnv) withStore(cmd *cobra.Command, name string, fn func(ctx context.Context, s *taskstore.Store) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	s := taskstore.New(rt.adapter, taskstore.Options{Name: name, Logger: rt.logger})
	s.Initialize(ctx)
	err := fn(ctx, s)
	if cerr := s.Close(ctx); cerr != nil {
		return errors.Join(err, fmt.Errorf("save tasks: %w", cerr))
	}
	return err
}

func isTUI(cmd *cobra.Command) bool {
	return cmd.Name() == "tui" || !cmd.HasParent()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth 返回输出终端宽度；非终端返回 0（不截断）
// terminalWidth returns the output terminal width, or 0 (no truncation) when not a terminal
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
