package timeunit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop is the update loop: it advances a Clock on a ticker and runs posted
// work, all on one goroutine, so engine state needs no locks.
type Loop struct {
	clock    *Clock
	interval time.Duration
	logger   *slog.Logger

	posts   chan func()
	onFrame func(now time.Duration)

	// mu guards closed. Post holds it for reading while queueing, so once
	// the loop has set closed no new work can enter posts.
	mu       sync.RWMutex
	closed   bool
	stopping chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewLoop creates a loop ticking clock every interval.
func NewLoop(clock *Clock, interval time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Loop{
		clock:    clock,
		interval: interval,
		logger:   logger,
		posts:    make(chan func(), 64),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// OnFrame installs a hook run after every clock advance. Set it before Run.
func (l *Loop) OnFrame(fn func(now time.Duration)) {
	l.onFrame = fn
}

// Post queues fn to run on the loop goroutine.
// Returns false once the loop is stopping; work accepted before that runs
// even if the loop is cancelled first.
func (l *Loop) Post(fn func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	select {
	case l.posts <- fn:
		return true
	case <-l.stopping:
		return false
	}
}

// Done is closed once the loop has stopped and run all accepted work.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run blocks, driving the loop until ctx is cancelled. Returns nil on
// cancellation.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	l.logger.Debug("update loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("update loop stopped", "clock", l.clock.Now())
			return nil
		case fn := <-l.posts:
			fn()
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			l.clock.Advance(delta)
			if l.onFrame != nil {
				l.onFrame(l.clock.Now())
			}
		}
	}
}

// shutdown rejects new work, runs what was already accepted and closes done.
func (l *Loop) shutdown() {
	l.stopOnce.Do(func() {
		// Unblock posters waiting on a full queue before taking the lock.
		close(l.stopping)
		l.mu.Lock()
		l.closed = true
		l.mu.Unlock()

		if drained := l.drain(); drained > 0 {
			l.logger.Debug("update loop drained posted work", "count", drained)
		}
		close(l.done)
	})
}

func (l *Loop) drain() int {
	n := 0
	for {
		select {
		case fn := <-l.posts:
			fn()
			n++
		default:
			return n
		}
	}
}

// Start runs the loop on its own goroutine. Pair with Stop.
func (l *Loop) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		_ = l.Run(ctx)
	}()
}

// Stop terminates a loop started with Start and waits for it to exit.
func (l *Loop) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.wg.Wait()
}
