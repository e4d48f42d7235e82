// Package paging holds per-session paged result containers.
//
// A Pager drives a Source one page at a time, keeps a bounded window of
// loaded pages and tracks refresh, append and prepend load states separately. Page keys
// are 1-based; the zero key means "absent".
package paging

import (
	"context"
	"errors"
)

var (
	// ErrEndOfPagination is returned by Next once the terminal page was loaded.
	ErrEndOfPagination = errors.New("paging: end of pagination")
	// ErrStartOfPagination is returned by Prev once the first page is held.
	ErrStartOfPagination = errors.New("paging: start of pagination")
)

// LoadType distinguishes the initial/refresh load from appends and prepends.
type LoadType int

const (
	LoadRefresh LoadType = iota
	LoadAppend
	LoadPrepend
)

func (t LoadType) String() string {
	switch t {
	case LoadAppend:
		return "append"
	case LoadPrepend:
		return "prepend"
	default:
		return "refresh"
	}
}

// LoadParams describes one page request. Key 0 asks for the starting page.
type LoadParams struct {
	Key      int
	PageSize int
	Type     LoadType
}

// Page is one loaded page. PrevKey/NextKey are 0 when absent.
type Page[T any] struct {
	Data    []T
	PrevKey int
	NextKey int
}

// State is a snapshot of the pages a Pager holds, used to pick a refresh key.
type State[T any] struct {
	Pages  []Page[T]
	Anchor int
	Config Config
}

// ClosestPage returns the page containing the item at Anchor.
func (s State[T]) ClosestPage() (Page[T], bool) {
	if len(s.Pages) == 0 || s.Anchor < 0 {
		return Page[T]{}, false
	}
	offset := 0
	for _, p := range s.Pages {
		if s.Anchor < offset+len(p.Data) {
			return p, true
		}
		offset += len(p.Data)
	}
	return s.Pages[len(s.Pages)-1], true
}

// Source loads pages for one paging session.
type Source[T any] interface {
	Load(ctx context.Context, params LoadParams) (Page[T], error)
	RefreshKey(state State[T]) int
}

// Config tunes a Pager.
type Config struct {
	PageSize         int
	PrefetchDistance int
	MaxSize          int
	InitialKey       int
}

// DefaultConfig matches the NewsAPI paging contract.
func DefaultConfig() Config {
	return Config{PageSize: 20, PrefetchDistance: 5, MaxSize: 200}
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.PrefetchDistance < 0 {
		c.PrefetchDistance = 0
	}
	if c.MaxSize <= 0 {
		c.MaxSize = def.MaxSize
	}
	if c.MaxSize < c.PageSize {
		c.MaxSize = c.PageSize
	}
	return c
}
