package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"todoapp/internal/codec"
	"todoapp/internal/task"
)

// MigrateFile 将旧版导出的任务 blob 文件导入到 KV 中（仅当键尚未写入）
// MigrateFile imports a legacy task blob file into kv when key is still unset
//
// It reports whether anything was written. A missing file is not an error.
// The file must decode as a task list; records failing the schema are dropped
// and the rest is re-encoded newest first.
func MigrateFile(ctx context.Context, path string, kv KV, key string) (bool, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read legacy blob: %w", err)
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		return false, fmt.Errorf("legacy blob %s: %w", path, err)
	}
	tasks := task.Clone(decoded.Tasks)
	task.SortForDisplay(tasks)
	encoded, err := codec.Encode(tasks)
	if err != nil {
		return false, err
	}

	migrated := false
	adapter := NewAdapter(kv, key)
	err = adapter.Update(ctx, func(_ []byte, ok bool) ([]byte, error) {
		// 已存在则跳过 / Already present, skip
		if ok {
			return nil, nil
		}
		migrated = true
		return encoded, nil
	})
	if err != nil {
		return false, fmt.Errorf("migrate %s: %w", path, err)
	}
	return migrated, nil
}
