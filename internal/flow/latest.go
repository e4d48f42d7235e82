package flow

import (
	"context"
	"sync"
	"time"
)

// Latest runs fn for the newest submitted value once submissions have been
// quiet for the debounce delay. A value equal to the last one run is ignored.
// Starting a run cancels the context of the previous one.
type Latest[T comparable] struct {
	delay time.Duration
	fn    func(ctx context.Context, v T)

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	value  T
	last   T
	ran    bool
	cancel context.CancelFunc
	closed bool
}

// NewLatest binds fn to ctx; every run's context derives from it.
func NewLatest[T comparable](ctx context.Context, delay time.Duration, fn func(ctx context.Context, v T)) *Latest[T] {
	ctx, stop := context.WithCancel(ctx)
	return &Latest[T]{delay: delay, fn: fn, ctx: ctx, stop: stop}
}

// Submit records v and restarts the debounce window.
func (l *Latest[T]) Submit(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.value = v
	l.gen++
	gen := l.gen
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.delay, func() { l.fire(gen) })
}

func (l *Latest[T]) fire(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen || l.ctx.Err() != nil {
		return
	}
	if l.ran && l.value == l.last {
		return
	}

	l.last, l.ran = l.value, true
	if l.cancel != nil {
		l.cancel()
	}
	runCtx, cancel := context.WithCancel(l.ctx)
	l.cancel = cancel

	v := l.value
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		l.fn(runCtx, v)
	}()
}

// Close drops any pending value, cancels the running one and waits for it.
func (l *Latest[T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()

	l.stop()
	l.wg.Wait()
}
