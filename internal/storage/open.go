package storage

import (
	"fmt"
	"strings"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open 根据后端名称创建 KV；path 对 sqlite 为数据库文件，对 file 为目录
// Open creates a KV by backend name; path is the database file for sqlite and a directory for file
func Open(backend, path string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return NewSQLiteKV(path)
	case BackendFile:
		return NewFileKV(path)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
