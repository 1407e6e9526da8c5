package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// DefaultLoopQueueSize is used when a non-positive queue size is given.
const DefaultLoopQueueSize = 100

// Loop serializes work onto the goroutine that owns the native objects
// and the scripting runtime. Other goroutines (file watchers, signal
// handlers) hand work to it with Post.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
	log       zerolog.Logger
}

// NewLoop creates a loop with the given queue size.
func NewLoop(queueSize int, log zerolog.Logger) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultLoopQueueSize
	}
	return &Loop{
		queue: make(chan func(), queueSize),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Post queues fn. It blocks while the queue is full.
func (l *Loop) Post(fn func()) error {
	if l.closed.Load() {
		return ErrLoopClosed
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Run executes posted work until ctx is cancelled or Close is called.
// MUST be called from the owning goroutine.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Drain()
			return ctx.Err()
		case <-l.done:
			l.Drain()
			return nil
		case fn := <-l.queue:
			l.execute(fn)
		}
	}
}

// Drain runs whatever is queued without blocking and returns the count.
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
	if err := recoverAsError(fn); err != nil {
		l.log.Error().Err(err).Msg("posted work failed")
	}
}

// Close stops Run. Work still queued is drained by Run before it returns.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}
