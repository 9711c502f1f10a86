// Package taskstore owns the task collection of one screen session.
//
// Every Store keeps its own in-memory copy and a journal of pending
// mutations. Mutations update the copy immediately and return it; a
// background worker persists them by re-reading the blob, replaying the
// journal on top of it by task id and writing the result back. Edits made by
// other Store instances over the same blob are therefore kept instead of being
// overwritten by a stale snapshot. A failed write leaves the journal in place
// so the next cycle writes it again.
package taskstore

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todoapp/internal/codec"
	"todoapp/internal/logging"
	"todoapp/internal/seed"
	"todoapp/internal/storage"
	"todoapp/internal/task"
)

var (
	// ErrNotLoaded is reported for mutations before Initialize.
	ErrNotLoaded = errors.New("taskstore: not initialized")
	// ErrClosed is reported for mutations after Close.
	ErrClosed = errors.New("taskstore: closed")
)

// Ack yields exactly one value once the persist cycle covering a mutation
// has run: nil when it was written, the adapter error otherwise. A failed
// mutation stays pending and is written again by a later cycle.
type Ack <-chan error

// Options 存储实例配置
// Options configures a Store
type Options struct {
	// Name labels the instance in logs. Blank picks a random one.
	Name   string
	Logger *log.Logger
	// Seed supplies the fallback collection; nil means seed.Default.
	Seed func() []task.Task
	// OnChange is called from the persist worker when a completed cycle
	// changed the in-memory collection. It must not call back into the Store.
	OnChange func([]task.Task)
}

// Store 单个界面会话持有的任务存储实例
// Store is the task store instance held by one screen session
type Store struct {
	adapter  *storage.Adapter
	name     string
	logger   *log.Logger
	seed     func() []task.Task
	onChange func([]task.Task)

	// ioMu serializes persist cycles and refreshes of this instance.
	ioMu sync.Mutex

	mu            sync.Mutex
	loaded        bool
	closed        bool
	tasks         []task.Task
	highest       int64
	pending       []*op
	seq           uint64
	lastErr       error
	cycleStarted  uint64
	cycleFinished uint64
	cycled        chan struct{}

	kick      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a Store and starts its persist worker. Call Close to stop it.
func New(adapter *storage.Adapter, opts Options) *Store {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "store-" + uuid.NewString()[:8]
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	seedFn := opts.Seed
	if seedFn == nil {
		seedFn = seed.Default
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		adapter:  adapter,
		name:     name,
		logger:   logger.With("store", name),
		seed:     seedFn,
		onChange: opts.OnChange,
		cycled:   make(chan struct{}),
		kick:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	if !adapter.Atomic() {
		s.logger.Warn("backend has no atomic update, concurrent writers may lose edits", "key", adapter.Key())
	}
	go s.run()
	return s
}

// Name returns the instance label.
func (s *Store) Name() string { return s.name }

// Initialize 加载持久化集合；缺失、损坏或读取失败时回退到种子集合
// Initialize loads the persisted collection, falling back to the seed when the
// blob is absent, corrupt or unreadable. It always reaches the loaded state.
func (s *Store) Initialize(ctx context.Context) []task.Task {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	s.mu.Lock()
	if s.loaded {
		defer s.mu.Unlock()
		return task.Clone(s.tasks)
	}
	s.mu.Unlock()

	base, err := s.read(ctx)
	if err != nil {
		s.logger.Error("load failed, using seed", "err", err)
		base = s.seed()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeLocked(base)
	s.tasks = apply(base, s.pending, map[int64]int64{}, s.highest, true)
	s.loaded = true
	s.logger.Debug("initialized", "tasks", len(s.tasks))
	return task.Clone(s.tasks)
}

// Refresh 重新读取 blob，并在其上重放尚未持久化的修改
// Refresh re-reads the blob and replays not-yet-persisted mutations on top of
// it. On a read failure the in-memory collection is left as it was.
func (s *Store) Refresh(ctx context.Context) ([]task.Task, error) {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	s.mu.Unlock()

	base, err := s.read(ctx)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return task.Clone(s.tasks), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeLocked(base)
	s.tasks = apply(base, s.pending, map[int64]int64{}, s.highest, true)
	return task.Clone(s.tasks), nil
}

// Snapshot returns a copy of the collection, newest first.
func (s *Store) Snapshot() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.Clone(s.tasks)
}

// Get returns the task with id from this instance's copy.
func (s *Store) Get(id int64) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return task.Find(s.tasks, id)
}

// Pending returns the number of mutations not yet persisted.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Create 新建任务：id 为本实例见过的最大 id + 1，已删除的 id 不复用
// Create adds a task at the front. Its id is one past the highest id this
// instance has seen, so ids freed by a delete are not reused. A title that is
// blank after trimming is ignored.
func (s *Store) Create(title string) ([]task.Task, Ack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usableLocked(); err != nil {
		return task.Clone(s.tasks), resolved(err)
	}
	if strings.TrimSpace(title) == "" {
		return task.Clone(s.tasks), resolved(nil)
	}

	id := task.NextID(s.tasks, s.highest)
	s.highest = id
	s.tasks = append([]task.Task{{ID: id, Title: title}}, s.tasks...)
	ack := s.enqueueLocked(&op{kind: opCreate, id: id, title: title})
	return task.Clone(s.tasks), ack
}

// Toggle flips completed on id. An unknown id is a no-op.
func (s *Store) Toggle(id int64) ([]task.Task, Ack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usableLocked(); err != nil {
		return task.Clone(s.tasks), resolved(err)
	}
	i := task.IndexOf(s.tasks, id)
	if i < 0 {
		return task.Clone(s.tasks), resolved(nil)
	}

	s.tasks[i].Completed = !s.tasks[i].Completed
	ack := s.enqueueLocked(&op{kind: opSetCompleted, id: id, completed: s.tasks[i].Completed})
	return task.Clone(s.tasks), ack
}

// Delete removes id. Deleting an unknown id is a no-op.
func (s *Store) Delete(id int64) ([]task.Task, Ack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usableLocked(); err != nil {
		return task.Clone(s.tasks), resolved(err)
	}
	if task.IndexOf(s.tasks, id) < 0 {
		return task.Clone(s.tasks), resolved(nil)
	}

	s.tasks = task.Remove(s.tasks, id)
	ack := s.enqueueLocked(&op{kind: opRemove, id: id})
	return task.Clone(s.tasks), ack
}

// Rename sets the title of a task this instance holds. Unknown ids and blank
// titles are ignored; no record is ever created here.
func (s *Store) Rename(id int64, title string) ([]task.Task, Ack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.usableLocked(); err != nil {
		return task.Clone(s.tasks), resolved(err)
	}
	i := task.IndexOf(s.tasks, id)
	if i < 0 || strings.TrimSpace(title) == "" || s.tasks[i].Title == title {
		return task.Clone(s.tasks), resolved(nil)
	}

	s.tasks[i].Title = title
	ack := s.enqueueLocked(&op{kind: opSetTitle, id: id, title: title})
	return task.Clone(s.tasks), ack
}

// Flush runs a persist cycle over everything pending and waits for it. It
// returns the cycle's error if mutations made before the call are still
// pending afterwards.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	target := s.seq
	want := s.cycleStarted + 1
	for s.cycleFinished < want {
		ch := s.cycled
		s.mu.Unlock()
		s.signal()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrClosed
		}
		s.mu.Lock()
	}
	defer s.mu.Unlock()
	for _, o := range s.pending {
		if o.seq <= target {
			return s.lastErr
		}
	}
	return nil
}

// Close flushes pending mutations and stops the worker. Mutations after Close
// report ErrClosed. The adapter's backend is left open.
func (s *Store) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.quit)
		<-s.done
		s.cancel()
	})
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}

// --- 内部方法 / Internal methods ---

func (s *Store) usableLocked() error {
	if s.closed {
		return ErrClosed
	}
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

// seeLocked raises the id high-water mark to cover tasks.
func (s *Store) seeLocked(tasks []task.Task) {
	if max := task.MaxID(tasks); max > s.highest {
		s.highest = max
	}
}

func (s *Store) enqueueLocked(o *op) Ack {
	s.seq++
	o.seq = s.seq
	o.ack = make(chan error, 1)
	s.pending = append(s.pending, o)
	s.signal()
	return o.ack
}

func (s *Store) signal() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// read loads and decodes the blob; absent or undecodable data yields the seed.
func (s *Store) read(ctx context.Context) ([]task.Task, error) {
	data, ok, err := s.adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.decodeOrSeed(data, ok), nil
}

func (s *Store) decodeOrSeed(data []byte, ok bool) []task.Task {
	if !ok {
		return s.seed()
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		s.logger.Warn("stored tasks unreadable, using seed", "err", err, "bytes", len(data))
		return s.seed()
	}
	if decoded.Dropped > 0 {
		s.logger.Warn("dropped malformed task records", "dropped", decoded.Dropped)
	}
	return decoded.Tasks
}

func (s *Store) run() {
	defer close(s.done)
	for {
		select {
		case <-s.kick:
		case <-s.quit:
			return
		}
		for s.cycle() {
		}
	}
}

// cycle persists the current journal once. It reports whether mutations were
// enqueued while it ran.
func (s *Store) cycle() bool {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	s.mu.Lock()
	s.cycleStarted++
	batch := append([]*op(nil), s.pending...)
	floor := s.highest
	s.mu.Unlock()

	var (
		base   []task.Task
		merged []task.Task
		remap  = map[int64]int64{}
		err    error
	)
	if len(batch) > 0 {
		err = s.adapter.Update(s.ctx, func(current []byte, ok bool) ([]byte, error) {
			base = s.decodeOrSeed(current, ok)
			merged = apply(base, batch, remap, floor, false)
			if !task.UniqueIDs(merged) {
				return nil, errors.New("merged collection has duplicate ids")
			}
			return codec.Encode(merged)
		})
	}

	s.mu.Lock()
	var (
		lastSeq  uint64
		changed  bool
		snapshot []task.Task
		acks     []chan error
	)
	for _, o := range batch {
		lastSeq = o.seq
		if !o.acked {
			o.acked = true
			acks = append(acks, o.ack)
		}
	}
	if len(batch) > 0 {
		if err != nil {
			s.lastErr = err
			s.logger.Error("persist failed, will retry on next write", "err", err, "pending", len(s.pending))
		} else {
			for old, id := range remap {
				s.logger.Info("renumbered new task", "from", old, "to", id)
			}
			s.seeLocked(base)
			s.seeLocked(merged)
			s.pending = s.pending[len(batch):]
			s.tasks = apply(merged, s.pending, remap, s.highest, true)
			s.lastErr = nil
			changed = true
			snapshot = task.Clone(s.tasks)
			s.logger.Debug("persisted", "ops", len(batch), "tasks", len(merged))
		}
	}
	more := len(s.pending) > 0 && s.pending[len(s.pending)-1].seq > lastSeq
	s.cycleFinished++
	close(s.cycled)
	s.cycled = make(chan struct{})
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(snapshot)
	}
	for _, ack := range acks {
		ack <- err
	}
	return more
}

func resolved(err error) Ack {
	ch := make(chan error, 1)
	ch <- err
	return ch
}
