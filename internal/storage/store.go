package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultKey 任务集合在键值存储中的逻辑键名
// DefaultKey is the logical key the task collection lives under
const DefaultKey = "TodoApp"

// ErrClosed is returned by a backend used after Close.
var ErrClosed = errors.New("storage: closed")

// KV 宿主提供的键值原语，支持多后端 (SQLite / 文件 / 内存)
// KV is the host key-value primitive, with SQLite, file and memory backends
type KV interface {
	// Get 返回键值；从未写入时 ok=false 且 err=nil
	// Get returns the value; a never-written key yields ok=false and a nil error
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// UpdateFunc receives the current value of a key and returns the value to
// store. Returning a nil slice leaves the key untouched.
type UpdateFunc func(current []byte, ok bool) ([]byte, error)

// Updater 由能原子执行读-改-写的后端实现
// Updater is implemented by backends that can run read-modify-write atomically
type Updater interface {
	// Update must not be re-entered from fn.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Adapter 将 KV 绑定到单个键，是任务存储唯一的持久化入口
// Adapter binds a KV to a single key; it is the task store's only way to persistence
type Adapter struct {
	kv  KV
	key string
}

// NewAdapter binds kv to key, or to DefaultKey when key is blank.
func NewAdapter(kv KV, key string) *Adapter {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: kv, key: key}
}

// Key returns the bound key.
func (a *Adapter) Key() string { return a.key }

// Atomic reports whether Update runs as a single critical section in the backend.
func (a *Adapter) Atomic() bool {
	_, ok := a.kv.(Updater)
	return ok
}

// Load reads the blob. Absent is ok=false with a nil error; it is not a failure.
func (a *Adapter) Load(ctx context.Context) ([]byte, bool, error) {
	data, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", a.key, err)
	}
	return data, ok, nil
}

// Save writes the blob. Failures are returned as-is; there is no retry here.
func (a *Adapter) Save(ctx context.Context, data []byte) error {
	if err := a.kv.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("save %s: %w", a.key, err)
	}
	return nil
}

// Update runs fn against the current blob and stores its result. Backends
// implementing Updater do this atomically; others fall back to Load then Save.
func (a *Adapter) Update(ctx context.Context, fn UpdateFunc) error {
	if u, ok := a.kv.(Updater); ok {
		if err := u.Update(ctx, a.key, fn); err != nil {
			return fmt.Errorf("update %s: %w", a.key, err)
		}
		return nil
	}
	current, ok, err := a.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	return a.Save(ctx, next)
}
