package paging

import (
	"context"
	"errors"
	"iter"
	"sync"
)

// Status is the phase of one load type.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// LoadState is the state of the refresh or append side of a Pager.
type LoadState struct {
	Status     Status
	Key        int
	EndReached bool
	Err        error
}

// LoadStates holds the refresh, append and prepend states.
type LoadStates struct {
	Refresh LoadState
	Append  LoadState
	Prepend LoadState
}

// Pager is a single paging session over a Source. Loads are serialized; at
// most one fetch is in flight at a time. Reads never block on a load.
type Pager[T any] struct {
	source Source[T]
	cfg    Config

	loadMu sync.Mutex

	mu      sync.RWMutex
	pages   []Page[T]
	dropped int
	states  LoadStates
	failed  *LoadParams
}

// New creates an idle Pager. Nothing is fetched until Next is called.
func New[T any](source Source[T], cfg Config) *Pager[T] {
	return &Pager[T]{source: source, cfg: cfg.normalize()}
}

// Config returns the normalized configuration.
func (p *Pager[T]) Config() Config { return p.cfg }

// Next loads the page after the last one held, or the initial page when
// nothing is loaded yet, and returns its items.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()
	return p.nextLocked(ctx)
}

func (p *Pager[T]) nextLocked(ctx context.Context) ([]T, error) {
	p.mu.RLock()
	params := LoadParams{Key: p.cfg.InitialKey, PageSize: p.cfg.PageSize, Type: LoadRefresh}
	if n := len(p.pages); n > 0 {
		next := p.pages[n-1].NextKey
		if next == 0 {
			p.mu.RUnlock()
			return nil, ErrEndOfPagination
		}
		params = LoadParams{Key: next, PageSize: p.cfg.PageSize, Type: LoadAppend}
	}
	p.mu.RUnlock()

	return p.load(ctx, params)
}

// Prev loads the page before the first one held and puts it in front of the
// window, dropping pages from the end if the window overflows. It returns
// ErrStartOfPagination when the first held page has no previous key, and
// behaves as Next when nothing is loaded yet.
func (p *Pager[T]) Prev(ctx context.Context) ([]T, error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.RLock()
	if len(p.pages) == 0 {
		p.mu.RUnlock()
		return p.nextLocked(ctx)
	}
	prev := p.pages[0].PrevKey
	p.mu.RUnlock()
	if prev == 0 {
		return nil, ErrStartOfPagination
	}
	return p.load(ctx, LoadParams{Key: prev, PageSize: p.cfg.PageSize, Type: LoadPrepend})
}

// Retry re-issues the most recent failed load with the same key. When the
// last load succeeded it behaves as Next.
func (p *Pager[T]) Retry(ctx context.Context) ([]T, error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.RLock()
	failed := p.failed
	p.mu.RUnlock()
	if failed == nil {
		return p.nextLocked(ctx)
	}
	return p.load(ctx, *failed)
}

// Refresh replaces every held page with a reload starting at the key the
// Source picks for the item at anchor. Like ShouldPrefetch, anchor indexes
// Items.
func (p *Pager[T]) Refresh(ctx context.Context, anchor int) ([]T, error) {
	p.loadMu.Lock()
	defer p.loadMu.Unlock()

	p.mu.RLock()
	state := State[T]{Pages: append([]Page[T](nil), p.pages...), Anchor: anchor, Config: p.cfg}
	p.mu.RUnlock()

	key := p.source.RefreshKey(state)
	return p.load(ctx, LoadParams{Key: key, PageSize: p.cfg.PageSize, Type: LoadRefresh})
}

func (p *Pager[T]) load(ctx context.Context, params LoadParams) ([]T, error) {
	p.setState(params.Type, LoadState{Status: StatusLoading, Key: params.Key})

	page, err := p.source.Load(ctx, params)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.mu.Lock()
		p.failed = &params
		p.setStateLocked(params.Type, LoadState{Status: StatusFailed, Key: params.Key, Err: err})
		p.mu.Unlock()
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed = nil
	end := page.NextKey == 0
	switch params.Type {
	case LoadRefresh:
		p.pages = []Page[T]{page}
		p.dropped = 0
		p.states.Append = LoadState{}
		p.states.Prepend = LoadState{}
		p.trimLocked()
	case LoadPrepend:
		p.pages = append([]Page[T]{page}, p.pages...)
		p.dropped = max(p.dropped-len(page.Data), 0)
		p.trimBackLocked()
		end = page.PrevKey == 0
	default:
		p.pages = append(p.pages, page)
		p.trimLocked()
	}
	p.setStateLocked(params.Type, LoadState{Status: StatusLoaded, Key: params.Key, EndReached: end})

	return append([]T(nil), page.Data...), nil
}

// trimLocked drops pages from the front until the window fits MaxSize. The
// newest page is always kept.
func (p *Pager[T]) trimLocked() {
	total := 0
	for _, pg := range p.pages {
		total += len(pg.Data)
	}
	for len(p.pages) > 1 && total > p.cfg.MaxSize {
		total -= len(p.pages[0].Data)
		p.dropped += len(p.pages[0].Data)
		p.pages = p.pages[1:]
	}
}

// trimBackLocked drops pages from the end after a prepend. The prepended page
// is always kept.
func (p *Pager[T]) trimBackLocked() {
	total := 0
	for _, pg := range p.pages {
		total += len(pg.Data)
	}
	for len(p.pages) > 1 && total > p.cfg.MaxSize {
		last := len(p.pages) - 1
		total -= len(p.pages[last].Data)
		p.pages = p.pages[:last]
	}
}

func (p *Pager[T]) setState(t LoadType, s LoadState) {
	p.mu.Lock()
	p.setStateLocked(t, s)
	p.mu.Unlock()
}

func (p *Pager[T]) setStateLocked(t LoadType, s LoadState) {
	switch t {
	case LoadAppend:
		p.states.Append = s
	case LoadPrepend:
		p.states.Prepend = s
	default:
		p.states.Refresh = s
	}
}

// States returns the current refresh and append states.
func (p *Pager[T]) States() LoadStates {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.states
}

// Items returns a copy of the retained window.
func (p *Pager[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.itemsLocked()
}

func (p *Pager[T]) itemsLocked() []T {
	var out []T
	for _, pg := range p.pages {
		out = append(out, pg.Data...)
	}
	return out
}

// Dropped reports how many leading items were trimmed from the window.
func (p *Pager[T]) Dropped() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dropped
}

// HasPrev reports whether a page can be put in front of the window.
func (p *Pager[T]) HasPrev() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pages) > 0 && p.pages[0].PrevKey != 0
}

// HasMore reports whether another page can be appended.
func (p *Pager[T]) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hasMoreLocked()
}

func (p *Pager[T]) hasMoreLocked() bool {
	if len(p.pages) == 0 {
		return p.states.Refresh.Status != StatusLoaded
	}
	return p.pages[len(p.pages)-1].NextKey != 0
}

// ShouldPrefetch reports whether a consumer looking at the item at index
// (within Items) is close enough to the end to load the next page. Failed
// appends are not retried implicitly.
func (p *Pager[T]) ShouldPrefetch(index int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.pages) == 0 || !p.hasMoreLocked() {
		return false
	}
	if p.states.Append.Status == StatusLoading || p.states.Append.Status == StatusFailed {
		return false
	}
	total := 0
	for _, pg := range p.pages {
		total += len(pg.Data)
	}
	return index >= total-1-p.cfg.PrefetchDistance
}

// All returns a lazy sequence over every item of the session, loading pages
// on demand. It ends after the terminal page, or after yielding the first
// load error. Items already trimmed from the window are skipped.
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cursor := 0
		for {
			p.mu.RLock()
			items := p.itemsLocked()
			dropped := p.dropped
			p.mu.RUnlock()

			if cursor < dropped {
				cursor = dropped
			}
			for i := cursor - dropped; i < len(items); i++ {
				cursor++
				if !yield(items[i], nil) {
					return
				}
			}

			if _, err := p.Next(ctx); err != nil {
				if errors.Is(err, ErrEndOfPagination) {
					return
				}
				var zero T
				yield(zero, err)
				return
			}
		}
	}
}
