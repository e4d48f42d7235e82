package screens

import (
	"context"
	"sync"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/flow"
	"github.com/Adda-Baaj/khobor-reader/internal/navigation"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
	"github.com/Adda-Baaj/khobor-reader/internal/usecase"
)

// FeedState is the render state of a paged article list.
type FeedState struct {
	Items      []domain.Article
	Refresh    Status
	Append     Status
	Message    string
	EndReached bool
}

// feed tracks the current paging session of a screen. Replacing the session
// discards results still arriving for the old one.
type feed struct {
	mu    sync.Mutex
	pager *paging.Pager[domain.Article]
	state *flow.Holder[FeedState]
}

func newFeed() *feed {
	return &feed{state: flow.NewHolder(FeedState{Refresh: StatusLoading, Append: StatusSuccess})}
}

func (f *feed) current() *paging.Pager[domain.Article] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pager
}

func (f *feed) reset(p *paging.Pager[domain.Article]) {
	f.mu.Lock()
	f.pager = p
	f.mu.Unlock()
	if p == nil {
		f.state.Set(FeedState{Refresh: StatusSuccess, Append: StatusSuccess, EndReached: true})
		return
	}
	f.state.Set(FeedState{Refresh: StatusLoading, Append: StatusSuccess})
}

func (f *feed) run(ctx context.Context, p *paging.Pager[domain.Article], op func(context.Context) ([]domain.Article, error)) {
	if p == nil {
		return
	}
	f.markLoading(p)
	_, _ = op(ctx)
	f.publish(p)
}

func (f *feed) loadMore(ctx context.Context) {
	p := f.current()
	if p == nil {
		return
	}
	f.run(ctx, p, p.Next)
}

func (f *feed) retry(ctx context.Context) {
	p := f.current()
	if p == nil {
		return
	}
	f.run(ctx, p, p.Retry)
}

func (f *feed) refresh(ctx context.Context, anchor int) {
	p := f.current()
	if p == nil {
		return
	}
	f.run(ctx, p, func(ctx context.Context) ([]domain.Article, error) { return p.Refresh(ctx, anchor) })
}

func (f *feed) itemVisible(ctx context.Context, index int) {
	p := f.current()
	if p == nil || !p.ShouldPrefetch(index) {
		return
	}
	f.run(ctx, p, p.Next)
}

func (f *feed) markLoading(p *paging.Pager[domain.Article]) {
	if f.current() != p {
		return
	}
	f.state.Update(func(s FeedState) FeedState {
		if len(s.Items) == 0 {
			s.Refresh = StatusLoading
		} else {
			s.Append = StatusLoading
		}
		s.Message = ""
		return s
	})
}

func (f *feed) publish(p *paging.Pager[domain.Article]) {
	if f.current() != p {
		return
	}
	states := p.States()
	st := FeedState{
		Items:      p.Items(),
		Refresh:    toStatus(states.Refresh, true),
		Append:     toStatus(states.Append, false),
		EndReached: !p.HasMore(),
	}
	switch {
	case states.Refresh.Status == paging.StatusFailed:
		st.Message = usecase.ErrorMessage(states.Refresh.Err)
	case states.Append.Status == paging.StatusFailed:
		st.Message = usecase.ErrorMessage(states.Append.Err)
	}
	f.state.Set(st)
}

func toStatus(s paging.LoadState, idleIsLoading bool) Status {
	switch s.Status {
	case paging.StatusLoading:
		return StatusLoading
	case paging.StatusFailed:
		return StatusError
	case paging.StatusIdle:
		if idleIsLoading {
			return StatusLoading
		}
	}
	return StatusSuccess
}

// NewsModel shows headlines for one filter at a time.
type NewsModel struct {
	uc     NewsUseCases
	nav    *navigation.Channel
	params *flow.Holder[domain.NewsParams]
	feed   *feed
}

func NewNewsModel(uc NewsUseCases, nav *navigation.Channel) *NewsModel {
	return &NewsModel{
		uc:     uc,
		nav:    nav,
		params: flow.NewHolder(domain.NewsParams{}),
		feed:   newFeed(),
	}
}

// UpdateParams starts a new session for the filter and loads its first page.
func (m *NewsModel) UpdateParams(ctx context.Context, source, country, language string) {
	p := domain.NewsParams{Source: source, Country: country, Language: language}
	m.params.Set(p)
	m.feed.reset(m.uc.GetNews(p))
	m.feed.loadMore(ctx)
}

func (m *NewsModel) Params() *flow.Holder[domain.NewsParams] { return m.params }
func (m *NewsModel) State() *flow.Holder[FeedState]          { return m.feed.state }

// Pager is the current session, nil before UpdateParams.
func (m *NewsModel) Pager() *paging.Pager[domain.Article] { return m.feed.current() }

func (m *NewsModel) LoadMore(ctx context.Context)               { m.feed.loadMore(ctx) }
func (m *NewsModel) Retry(ctx context.Context)                  { m.feed.retry(ctx) }
func (m *NewsModel) Refresh(ctx context.Context, anchor int)    { m.feed.refresh(ctx, anchor) }
func (m *NewsModel) ItemVisible(ctx context.Context, index int) { m.feed.itemVisible(ctx, index) }
func (m *NewsModel) Back()                                      { m.nav.Post(navigation.Back{}) }

// SearchModel runs a debounced search as the query changes.
type SearchModel struct {
	uc     NewsUseCases
	nav    *navigation.Channel
	query  *flow.Holder[string]
	feed   *feed
	latest *flow.Latest[string]
}

// NewSearchModel binds the model to ctx; Close releases it.
func NewSearchModel(ctx context.Context, uc NewsUseCases, nav *navigation.Channel, debounce time.Duration) *SearchModel {
	m := &SearchModel{
		uc:    uc,
		nav:   nav,
		query: flow.NewHolder(""),
		feed:  newFeed(),
	}
	m.feed.reset(nil)
	m.latest = flow.NewLatest(ctx, debounce, m.search)
	return m
}

// search treats a blank query as an empty result. A superseded run leaves
// the current session alone.
func (m *SearchModel) search(ctx context.Context, query string) {
	if ctx.Err() != nil {
		return
	}
	m.feed.reset(m.uc.SearchNews(query))
	m.feed.loadMore(ctx)
}

// QueryChanged records the typed query and schedules a search for it.
func (m *SearchModel) QueryChanged(q string) {
	m.query.Set(q)
	m.latest.Submit(q)
}

// Submit searches for q right away, skipping the debounce.
func (m *SearchModel) Submit(ctx context.Context, q string) {
	m.query.Set(q)
	m.search(ctx, q)
}

func (m *SearchModel) Query() *flow.Holder[string]    { return m.query }
func (m *SearchModel) State() *flow.Holder[FeedState] { return m.feed.state }

func (m *SearchModel) Pager() *paging.Pager[domain.Article] { return m.feed.current() }

func (m *SearchModel) LoadMore(ctx context.Context)               { m.feed.loadMore(ctx) }
func (m *SearchModel) Retry(ctx context.Context)                  { m.feed.retry(ctx) }
func (m *SearchModel) ItemVisible(ctx context.Context, index int) { m.feed.itemVisible(ctx, index) }
func (m *SearchModel) Back()                                      { m.nav.Post(navigation.Back{}) }

// Close cancels any search in flight.
func (m *SearchModel) Close() { m.latest.Close() }
