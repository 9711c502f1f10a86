package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InitProjectConfigScaffold 在 dir 下初始化项目级配置模板（.todoapp/config.json）
// InitProjectConfigScaffold writes a project-level config scaffold (.todoapp/config.json)
// under dir and returns its path. An existing file is left untouched.
func InitProjectConfigScaffold(dir string) (string, bool, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", false, fmt.Errorf("get current working directory: %w", err)
		}
		dir = cwd
	}

	cfgDir := filepath.Join(dir, DirName)
	path := filepath.Join(cfgDir, "config.json")

	// 已存在则尊重用户现有配置
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return "", false, fmt.Errorf("project config path is a directory: %s", path)
		}
		return path, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("stat project config: %w", err)
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return "", false, fmt.Errorf("mkdir %s: %w", DirName, err)
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", false, fmt.Errorf("write project config: %w", err)
	}
	return path, true, nil
}
