// Package navigation carries one-shot navigation requests from screen models
// to whatever renders screens.
package navigation

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/flow"
)

// Event is a navigation request. The set is closed.
type Event interface {
	isEvent()
}

type ToNews struct {
	Params domain.NewsParams
}

type ToSources struct{}

type ToCountries struct{}

type ToLanguages struct{}

type ToSearch struct{}

type Back struct{}

func (ToNews) isEvent()      {}
func (ToSources) isEvent()   {}
func (ToCountries) isEvent() {}
func (ToLanguages) isEvent() {}
func (ToSearch) isEvent()    {}
func (Back) isEvent()        {}

// Channel holds the most recent unconsumed event. It is created by the
// composition root and handed to every screen model that navigates.
type Channel struct {
	h *flow.Holder[Event]
}

func NewChannel() *Channel {
	return &Channel{h: flow.NewHolder[Event](nil)}
}

// Post replaces any pending event with e.
func (c *Channel) Post(e Event) {
	c.h.Set(e)
}

// Clear marks the pending event consumed.
func (c *Channel) Clear() {
	c.h.Set(nil)
}

// Consume clears the pending event if it is still e.
func (c *Channel) Consume(e Event) {
	c.h.Update(func(cur Event) Event {
		if cur == e {
			return nil
		}
		return cur
	})
}

// Pending returns the unconsumed event, or nil.
func (c *Channel) Pending() Event {
	return c.h.Value()
}

// Events streams pending events until ctx is done. Cleared slots are skipped.
func (c *Channel) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	in := c.h.Subscribe(ctx)
	go func() {
		defer close(out)
		for e := range in {
			if e == nil {
				continue
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
