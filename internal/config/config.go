package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type StorageConfig struct {
	// Backend 为 sqlite、file 或 memory
	// Backend is one of sqlite, file or memory
	Backend string `json:"backend"`
	// Path 为 sqlite 数据库文件或 file 后端目录
	// Path is the sqlite database file or the file backend directory
	Path        string `json:"path"`
	Key         string `json:"key"`
	HistoryFile string `json:"history_file"`
}

type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type UIConfig struct {
	// Theme 为 system、light 或 dark；仅作为会话内覆盖，不持久化
	// Theme is system, light or dark; applied as an in-session override only
	Theme    string `json:"theme"`
	Locale   string `json:"locale"`
	TitleMax int    `json:"title_max"`
}

type Config struct {
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
	UI      UIConfig      `json:"ui"`
}

type fileUIConfig struct {
	Theme    *string `json:"theme"`
	Locale   *string `json:"locale"`
	TitleMax *int    `json:"title_max"`
}

type fileConfig struct {
	Storage *StorageConfig `json:"storage"`
	Log     *LogConfig     `json:"log"`
	UI      *fileUIConfig  `json:"ui"`
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend:     DefaultBackend,
			Path:        filepath.Join("~", DirName, DefaultDBFile),
			Key:         DefaultStorageKey,
			HistoryFile: filepath.Join("~", DirName, DefaultHistoryFile),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		UI: UIConfig{
			Theme:    DefaultTheme,
			Locale:   DefaultLocale,
			TitleMax: DefaultTitleMax,
		},
	}
}

// Load 依次合并默认值、全局配置、项目配置和环境变量
// Load merges defaults, the global file, the project file and the environment
func Load(path string) (Config, error) {
	cfg := Default()

	for _, globalPath := range globalConfigPaths() {
		if err := mergeFromFile(&cfg, globalPath); err != nil {
			return Config{}, err
		}
	}

	resolvedPath := strings.TrimSpace(path)
	if envPath := strings.TrimSpace(os.Getenv("TODO_CONFIG_PATH")); envPath != "" {
		resolvedPath = envPath
	}
	if resolvedPath == "" {
		resolvedPath = findProjectConfigPath()
	}
	if err := mergeFromFile(&cfg, resolvedPath); err != nil {
		return Config{}, err
	}

	if err := normalize(&cfg); err != nil {
		return Config{}, err
	}
	return applyEnv(cfg)
}

func globalConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(home, DirName, "config.json")}
}

func findProjectConfigPath() string {
	candidates := []string{
		"todo.config.json",
		filepath.Join(DirName, "config.json"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func mergeFromFile(cfg *Config, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}

	resolved, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expand config path %q: %w", path, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %q: %w", resolved, err)
	}

	cleaned := stripJSONComments(data)
	var fileCfg fileConfig
	if err := json.Unmarshal(cleaned, &fileCfg); err != nil {
		return fmt.Errorf("parse config %q: %w", resolved, err)
	}
	applyFileConfig(cfg, fileCfg)
	return nil
}

func applyFileConfig(cfg *Config, fc fileConfig) {
	if fc.Storage != nil {
		cfg.Storage = mergeStorage(cfg.Storage, *fc.Storage)
	}
	if fc.Log != nil {
		if strings.TrimSpace(fc.Log.Level) != "" {
			cfg.Log.Level = fc.Log.Level
		}
		if strings.TrimSpace(fc.Log.File) != "" {
			cfg.Log.File = fc.Log.File
		}
	}
	if fc.UI != nil {
		if fc.UI.Theme != nil {
			cfg.UI.Theme = *fc.UI.Theme
		}
		if fc.UI.Locale != nil {
			cfg.UI.Locale = *fc.UI.Locale
		}
		if fc.UI.TitleMax != nil {
			cfg.UI.TitleMax = *fc.UI.TitleMax
		}
	}
}

func mergeStorage(base StorageConfig, override StorageConfig) StorageConfig {
	if strings.TrimSpace(override.Backend) != "" {
		base.Backend = override.Backend
	}
	if strings.TrimSpace(override.Path) != "" {
		base.Path = override.Path
	}
	if strings.TrimSpace(override.Key) != "" {
		base.Key = override.Key
	}
	if strings.TrimSpace(override.HistoryFile) != "" {
		base.HistoryFile = override.HistoryFile
	}
	return base
}

func normalize(cfg *Config) error {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case "":
		cfg.Storage.Backend = DefaultBackend
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("invalid storage.backend %q (want sqlite, file or memory)", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend != "memory" {
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			cfg.Storage.Path = Default().Storage.Path
		}
		expanded, err := expandPath(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("expand storage.path: %w", err)
		}
		cfg.Storage.Path = expanded
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		cfg.Storage.Key = DefaultStorageKey
	}
	if strings.TrimSpace(cfg.Storage.HistoryFile) != "" {
		expanded, err := expandPath(cfg.Storage.HistoryFile)
		if err != nil {
			return fmt.Errorf("expand storage.history_file: %w", err)
		}
		cfg.Storage.HistoryFile = expanded
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	switch cfg.Log.Level {
	case "":
		cfg.Log.Level = DefaultLogLevel
	case "warning":
		cfg.Log.Level = "warn"
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", cfg.Log.Level)
	}
	if strings.TrimSpace(cfg.Log.File) != "" {
		expanded, err := expandPath(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("expand log.file: %w", err)
		}
		cfg.Log.File = expanded
	}

	cfg.UI.Theme = strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	switch cfg.UI.Theme {
	case "":
		cfg.UI.Theme = DefaultTheme
	case "system", "light", "dark":
	default:
		return fmt.Errorf("invalid ui.theme %q (want system, light or dark)", cfg.UI.Theme)
	}
	cfg.UI.Locale = strings.TrimSpace(cfg.UI.Locale)
	if cfg.UI.TitleMax <= 0 {
		cfg.UI.TitleMax = DefaultTitleMax
	}
	return nil
}

func applyEnv(cfg Config) (Config, error) {
	if v := strings.TrimSpace(os.Getenv("TODO_BACKEND")); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_DB_PATH")); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_THEME")); v != "" {
		cfg.UI.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_LANG")); v != "" {
		cfg.UI.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv("TODO_TITLE_MAX")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid TODO_TITLE_MAX: %q", v)
		}
		cfg.UI.TitleMax = n
	}

	return cfg, normalize(&cfg)
}

// Override 应用命令行覆盖值；空值保持不变
// Override applies command-line values on top of cfg; blank values are ignored
func Override(cfg Config, backend, path, logLevel string) (Config, error) {
	if v := strings.TrimSpace(backend); v != "" {
		cfg.Storage.Backend = v
	}
	if v := strings.TrimSpace(path); v != "" {
		cfg.Storage.Path = v
	}
	if v := strings.TrimSpace(logLevel); v != "" {
		cfg.Log.Level = v
	}
	return cfg, normalize(&cfg)
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return filepath.Abs(path)
}

func stripJSONComments(data []byte) []byte {
	const (
		stateNormal = iota
		stateString
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	escaped := false
	out := bytes.Buffer{}

	for i := 0; i < len(data); i++ {
		c := data[i]
		next := byte(0)
		if i+1 < len(data) {
			next = data[i+1]
		}

		switch state {
		case stateNormal:
			if c == '"' {
				state = stateString
				out.WriteByte(c)
				continue
			}
			if c == '/' && next == '/' {
				state = stateLineComment
				i++
				continue
			}
			if c == '/' && next == '*' {
				state = stateBlockComment
				i++
				continue
			}
			out.WriteByte(c)
		case stateString:
			out.WriteByte(c)
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteByte(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.Bytes()
}
