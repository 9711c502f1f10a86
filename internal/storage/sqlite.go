package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV 基于 SQLite (WAL 模式) 的键值实现
// SQLiteKV implements KV using SQLite with WAL mode
type SQLiteKV struct {
	db   *sql.DB
	path string
}

// NewSQLiteKV 创建并初始化 SQLite 数据库
// NewSQLiteKV creates and initializes a SQLite database
func NewSQLiteKV(dbPath string) (*SQLiteKV, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// 写事务以 IMMEDIATE 开始，读-改-写期间持有写锁
	// Write transactions start IMMEDIATE so read-modify-write holds the write lock
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// 单连接：PRAGMA 对所有语句生效，进程内写入串行化
	// One connection: PRAGMAs apply to every statement and in-process writes serialize
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	kv := &SQLiteKV{db: db, path: dbPath}
	if err := kv.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return kv, nil
}

func (s *SQLiteKV) ensureSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Path returns the database file path.
func (s *SQLiteKV) Path() string { return s.path }

// Close 关闭数据库连接 / Close the database connection
func (s *SQLiteKV) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertSQL, key, value, nowUTC()); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Update 在单个事务中执行读-改-写
// Update runs read-modify-write inside one transaction
func (s *SQLiteKV) Update(ctx context.Context, key string, fn UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current []byte
	ok := true
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&current)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get %q: %w", key, err)
		}
		ok = false
	}

	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if next != nil {
		if _, err := tx.ExecContext(ctx, upsertSQL, key, next, nowUTC()); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
	}
	return tx.Commit()
}

const upsertSQL = `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`

// --- Helpers ---

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
