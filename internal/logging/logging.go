// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options 日志配置
// Options configures the logger
type Options struct {
	// Level is one of debug, info, warn, error. Blank means info.
	Level string
	// File, when set, receives log lines in logfmt instead of Writer.
	File string
	// Writer is used when File is blank; nil means stderr.
	Writer io.Writer
	// Prefix tags every line, typically with the command name.
	Prefix string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New 创建 logger；返回的 Closer 关闭日志文件
// New creates a logger; the returned Closer closes the log file if one was opened
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      = opts.Writer
		closer io.Closer = nopCloser{}
		format           = log.TextFormatter
	)
	if file := strings.TrimSpace(opts.File); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer, format = f, f, log.LogfmtFormatter
	}
	if w == nil {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       format,
	})
	return logger, closer, nil
}

// ParseLevel accepts debug, info, warn, error (case-insensitive); blank is info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return log.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
