// Package flow has the small push-based primitives screen models publish
// their state through.
package flow

import (
	"context"
	"sync"
)

// Holder is a single-slot, latest-value-wins state cell. Reads and writes are
// safe from any goroutine. Subscribers always observe the newest value but may
// skip intermediate ones.
type Holder[T any] struct {
	mu    sync.RWMutex
	value T
	subs  map[chan T]struct{}
}

func NewHolder[T any](initial T) *Holder[T] {
	return &Holder[T]{value: initial, subs: make(map[chan T]struct{})}
}

func (h *Holder[T]) Value() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.value
}

func (h *Holder[T]) Set(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.value = v
	h.notifyLocked()
}

// Update applies fn to the current value atomically and returns the result.
func (h *Holder[T]) Update(fn func(T) T) T {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.value = fn(h.value)
	h.notifyLocked()
	return h.value
}

func (h *Holder[T]) notifyLocked() {
	for ch := range h.subs {
		// drop a stale pending value, then offer the new one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- h.value:
		default:
		}
	}
}

// Subscribe delivers the current value, then every later value the
// subscriber is fast enough to see. The channel closes when ctx is done.
func (h *Holder[T]) Subscribe(ctx context.Context) <-chan T {
	in := make(chan T, 1)

	h.mu.Lock()
	in <- h.value
	h.subs[in] = struct{}{}
	h.mu.Unlock()

	out := make(chan T)
	go func() {
		defer close(out)
		defer func() {
			h.mu.Lock()
			delete(h.subs, in)
			h.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case v := <-in:
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
