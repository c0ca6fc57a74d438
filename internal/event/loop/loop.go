package loop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// PanicHandler is called when a posted function panics.
type PanicHandler func(recovered any, stack []byte)

// Loop is a serial run queue.
type Loop struct {
	queueSize    int
	panicHandler PanicHandler
	logger       *slog.Logger

	queue   chan func()
	done    chan struct{}
	stop    sync.Once
	running atomic.Bool
	stopped atomic.Bool

	posted   atomic.Uint64
	executed atomic.Uint64
	panicked atomic.Uint64
	dropped  atomic.Uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the queue capacity.
func WithQueueSize(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.queueSize = size
		}
	}
}

// WithPanicHandler sets the handler for panics in posted functions.
func WithPanicHandler(h PanicHandler) Option {
	return func(l *Loop) {
		l.panicHandler = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loop. It does nothing until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		queueSize: 1024,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.panicHandler == nil {
		l.panicHandler = l.logPanic
	}
	l.queue = make(chan func(), l.queueSize)
	l.done = make(chan struct{})
	return l
}

// Post queues fn to run on the loop goroutine. It never blocks.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	if l.stopped.Load() {
		return ErrStopped
	}

	select {
	case l.queue <- fn:
		l.posted.Add(1)
		return nil
	default:
		l.dropped.Add(1)
		return ErrQueueFull
	}
}

// Run executes posted functions until ctx is cancelled or Stop is called.
// Work still queued at that point is discarded.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.queue:
			l.execute(fn)
		}
	}
}

// Stop ends Run and rejects further posts. It is safe to call repeatedly.
func (l *Loop) Stop() {
	l.stop.Do(func() {
		l.stopped.Store(true)
		close(l.done)
	})
}

// Drain runs queued functions on the calling goroutine until the queue is
// empty. It must not be called while Run is active on another goroutine.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			l.execute(fn)
			n++
		default:
			return n
		}
	}
}

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.panicked.Add(1)
			stack := debug.Stack()
			func() {
				defer func() { _ = recover() }()
				l.panicHandler(r, stack)
			}()
		}
	}()

	fn()
	l.executed.Add(1)
}

func (l *Loop) logPanic(recovered any, stack []byte) {
	l.logger.Error("loop: posted function panicked",
		slog.Any("panic", recovered),
		slog.String("stack", string(stack)))
}

// IsRunning reports whether Run is active.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// Stats contains loop counters.
type Stats struct {
	// Posted is the number of functions accepted by Post.
	Posted uint64

	// Executed is the number of functions that returned normally.
	Executed uint64

	// Panicked is the number of functions that panicked.
	Panicked uint64

	// Dropped is the number of posts rejected because the queue was full.
	Dropped uint64

	// QueueDepth is the number of functions waiting to run.
	QueueDepth int
}

// Stats returns loop counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Posted:     l.posted.Load(),
		Executed:   l.executed.Load(),
		Panicked:   l.panicked.Load(),
		Dropped:    l.dropped.Load(),
		QueueDepth: len(l.queue),
	}
}
