package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/newsapi"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }
func ip(i int) *int       { return &i }

func article(title, url string) newsapi.ArticleDTO {
	return newsapi.ArticleDTO{Title: sp(title), URL: sp(url)}
}

type fetchCall struct {
	params   domain.NewsParams
	query    string
	pageSize int
	page     int
}

// fakeGateway serves scripted payloads keyed by page number.
type fakeGateway struct {
	mu      sync.Mutex
	pages   map[int]domain.Result[newsapi.HeadlinesPayload]
	sources domain.Result[newsapi.SourcesPayload]
	calls   []fetchCall
}

func (g *fakeGateway) result(page int) domain.Result[newsapi.HeadlinesPayload] {
	if res, ok := g.pages[page]; ok {
		return res
	}
	return domain.Success(newsapi.HeadlinesPayload{TotalResults: ip(0)})
}

func (g *fakeGateway) FetchHeadlines(_ context.Context, params domain.NewsParams, pageSize, page int) domain.Result[newsapi.HeadlinesPayload] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fetchCall{params: params, pageSize: pageSize, page: page})
	return g.result(page)
}

func (g *fakeGateway) SearchHeadlines(_ context.Context, query string, pageSize, page int) domain.Result[newsapi.HeadlinesPayload] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fetchCall{query: query, pageSize: pageSize, page: page})
	return g.result(page)
}

func (g *fakeGateway) FetchSources(context.Context) domain.Result[newsapi.SourcesPayload] {
	return g.sources
}

type fakeCatalog struct {
	err error
}

func (c fakeCatalog) Countries(context.Context) ([]domain.Country, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []domain.Country{{Code: "us", Name: "United States"}}, nil
}

func (c fakeCatalog) Languages(context.Context) ([]domain.Language, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []domain.Language{{Code: "en", Name: "English"}}, nil
}

func loadPage(t *testing.T, key int, payload newsapi.HeadlinesPayload) paging.Page[domain.Article] {
	t.Helper()
	src := &articleSource{pageSize: 20, fetch: func(_ context.Context, pageSize, page int) domain.Result[newsapi.HeadlinesPayload] {
		require.Equal(t, 20, pageSize)
		if key == 0 {
			require.Equal(t, StartingPage, page)
		} else {
			require.Equal(t, key, page)
		}
		return domain.Success(payload)
	}}
	page, err := src.Load(context.Background(), paging.LoadParams{Key: key, PageSize: 20})
	require.NoError(t, err)
	return page
}

func TestArticleSource_EdgeCaseTable(t *testing.T) {
	tcs := []struct {
		name     string
		key      int
		records  []newsapi.ArticleDTO
		total    *int
		wantNext int
		wantPrev int
	}{
		{"first_empty_zero_total", 1, nil, ip(0), 0, 0},
		{"first_empty_positive_total", 1, []newsapi.ArticleDTO{}, ip(100), 0, 0},
		{"first_normal", 1, []newsapi.ArticleDTO{article("a", "ua"), article("b", "ub")}, ip(100), 2, 0},
		{"append_terminal", 5, nil, ip(0), 0, 4},
		{"append_normal", 5, []newsapi.ArticleDTO{article("c", "uc")}, ip(100), 6, 4},
		{"records_but_zero_total", 3, []newsapi.ArticleDTO{article("c", "uc")}, ip(0), 0, 2},
		{"records_missing_total", 2, []newsapi.ArticleDTO{article("c", "uc")}, nil, 0, 1},
		{"initial_key_absent", 0, []newsapi.ArticleDTO{article("a", "ua")}, ip(1), 2, 0},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			page := loadPage(t, tc.key, newsapi.HeadlinesPayload{TotalResults: tc.total, Articles: tc.records})
			require.Equal(t, tc.wantNext, page.NextKey)
			require.Equal(t, tc.wantPrev, page.PrevKey)
		})
	}
}

func TestArticleSource_FiltersInvalidButCountsRawForHasNext(t *testing.T) {
	page := loadPage(t, 1, newsapi.HeadlinesPayload{
		TotalResults: ip(40),
		Articles: []newsapi.ArticleDTO{
			{Title: nil, URL: sp("u1")},
			{Title: sp("ok"), URL: sp("u2")},
		},
	})
	require.Len(t, page.Data, 1)
	require.Equal(t, "ok", page.Data[0].Title)
	require.Equal(t, 2, page.NextKey)

	page = loadPage(t, 1, newsapi.HeadlinesPayload{
		TotalResults: ip(40),
		Articles:     []newsapi.ArticleDTO{{Title: nil, URL: sp("u1")}},
	})
	require.Empty(t, page.Data)
	require.Equal(t, 2, page.NextKey, "an all-invalid page still has a next page")
}

func TestArticleSource_DedupesWithinPage(t *testing.T) {
	page := loadPage(t, 1, newsapi.HeadlinesPayload{
		TotalResults: ip(3),
		Articles: []newsapi.ArticleDTO{
			article("first", "x"),
			article("other", "y"),
			article("again", "x"),
		},
	})
	require.Len(t, page.Data, 2)
	require.Equal(t, "first", page.Data[0].Title)
	require.Equal(t, "other", page.Data[1].Title)
}

func TestArticleSource_ErrorBecomesPageLoadError(t *testing.T) {
	wire := domain.NewWireError(429, "rateLimited", "too many")
	src := &articleSource{pageSize: 20, fetch: func(context.Context, int, int) domain.Result[newsapi.HeadlinesPayload] {
		return domain.Failure[newsapi.HeadlinesPayload](wire)
	}}

	_, err := src.Load(context.Background(), paging.LoadParams{Key: 2})
	require.Error(t, err)
	require.Equal(t, "HttpCode: 429, ErrorCode: rateLimited, ErrorMessage: too many", err.Error())

	var pageErr *PageLoadError
	require.True(t, errors.As(err, &pageErr))
	var got *domain.WireError
	require.True(t, errors.As(err, &got))
	require.Same(t, wire, got)
}

func TestArticleSource_RefreshKey(t *testing.T) {
	src := &articleSource{}
	pages := []paging.Page[domain.Article]{
		{Data: make([]domain.Article, 2), NextKey: 2},
		{Data: make([]domain.Article, 2), PrevKey: 1, NextKey: 3},
		{Data: make([]domain.Article, 1), PrevKey: 2},
	}

	require.Equal(t, 1, src.RefreshKey(paging.State[domain.Article]{Pages: pages, Anchor: 0}))
	require.Equal(t, 2, src.RefreshKey(paging.State[domain.Article]{Pages: pages, Anchor: 3}))
	require.Equal(t, 3, src.RefreshKey(paging.State[domain.Article]{Pages: pages, Anchor: 4}))
	require.Equal(t, 0, src.RefreshKey(paging.State[domain.Article]{}))
	require.Equal(t, 0, src.RefreshKey(paging.State[domain.Article]{Pages: []paging.Page[domain.Article]{{}}, Anchor: 0}))
}

func TestRepository_HeadlinesFirstPage(t *testing.T) {
	gw := &fakeGateway{pages: map[int]domain.Result[newsapi.HeadlinesPayload]{
		1: domain.Success(newsapi.HeadlinesPayload{TotalResults: ip(100), Articles: []newsapi.ArticleDTO{article("A", "u1"), article("B", "u2")}}),
	}}
	repo := New(gw, fakeCatalog{}, paging.DefaultConfig(), nil)

	pager := repo.Headlines(domain.NewsParams{Country: "us"})
	items, err := pager.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "A", items[0].Title)
	require.True(t, pager.HasMore())

	require.Len(t, gw.calls, 1)
	require.Equal(t, fetchCall{params: domain.NewsParams{Country: "us"}, pageSize: 20, page: 1}, gw.calls[0])
}

func TestRepository_SearchWalksUntilTerminal(t *testing.T) {
	gw := &fakeGateway{pages: map[int]domain.Result[newsapi.HeadlinesPayload]{}}
	for p := 1; p <= 3; p++ {
		gw.pages[p] = domain.Success(newsapi.HeadlinesPayload{
			TotalResults: ip(60),
			Articles:     []newsapi.ArticleDTO{article(fmt.Sprintf("t%d", p), fmt.Sprintf("u%d", p))},
		})
	}
	repo := New(gw, fakeCatalog{}, paging.DefaultConfig(), nil)

	var titles []string
	for a, err := range repo.Search("golang").All(context.Background()) {
		require.NoError(t, err)
		titles = append(titles, a.Title)
	}
	require.Equal(t, []string{"t1", "t2", "t3"}, titles)
	// page 4 is empty with total 0, which terminates the walk
	require.Len(t, gw.calls, 4)
	for i, c := range gw.calls {
		require.Equal(t, "golang", c.query)
		require.Equal(t, i+1, c.page)
	}
}

func TestRepository_CrossPageDuplicatesPreserved(t *testing.T) {
	gw := &fakeGateway{pages: map[int]domain.Result[newsapi.HeadlinesPayload]{
		1: domain.Success(newsapi.HeadlinesPayload{TotalResults: ip(2), Articles: []newsapi.ArticleDTO{article("A", "same")}}),
		2: domain.Success(newsapi.HeadlinesPayload{TotalResults: ip(2), Articles: []newsapi.ArticleDTO{article("A again", "same")}}),
	}}
	repo := New(gw, fakeCatalog{}, paging.DefaultConfig(), nil)

	pager := repo.Headlines(domain.NewsParams{})
	for range pager.All(context.Background()) {
	}
	require.Len(t, pager.Items(), 2)
}

func TestRepository_PageFailureSurfacesWireError(t *testing.T) {
	gw := &fakeGateway{pages: map[int]domain.Result[newsapi.HeadlinesPayload]{
		1: domain.Failure[newsapi.HeadlinesPayload](domain.NewWireError(401, "apiKeyMissing", "no key")),
	}}
	repo := New(gw, fakeCatalog{}, paging.DefaultConfig(), nil)

	_, err := repo.Headlines(domain.NewsParams{}).Next(context.Background())
	var wire *domain.WireError
	require.True(t, errors.As(err, &wire))
	require.Equal(t, domain.KindAPIKeyMissing, domain.MapWireError(wire).Kind)
}

func TestRepository_Sources(t *testing.T) {
	gw := &fakeGateway{sources: domain.Success(newsapi.SourcesPayload{Sources: []newsapi.SourceDTO{
		{ID: sp("bbc-news"), Name: sp("BBC News")},
		{ID: nil, Name: sp("anonymous")},
	}})}
	repo := New(gw, fakeCatalog{}, paging.DefaultConfig(), nil)

	res := repo.Sources(context.Background())
	require.True(t, res.IsSuccess())
	require.Equal(t, []domain.Source{{ID: "bbc-news", Name: "BBC News"}}, res.Data)

	gw.sources = domain.Failure[newsapi.SourcesPayload](domain.NewWireError(500, "unexpectedError", "boom"))
	res = repo.Sources(context.Background())
	require.False(t, res.IsSuccess())
	require.Equal(t, 500, res.Err.HTTPCode)
}

func TestRepository_CatalogLists(t *testing.T) {
	repo := New(&fakeGateway{}, fakeCatalog{}, paging.DefaultConfig(), nil)
	require.True(t, repo.Countries(context.Background()).IsSuccess())
	require.True(t, repo.Languages(context.Background()).IsSuccess())

	repo = New(&fakeGateway{}, fakeCatalog{err: errors.New("disk gone")}, paging.DefaultConfig(), nil)
	countries := repo.Countries(context.Background())
	require.False(t, countries.IsSuccess())
	require.Equal(t, domain.CodeTransport, countries.Err.HTTPCode)
	require.Equal(t, domain.TagLocalData, countries.Err.CodeValue())
	require.Equal(t, "Failed to load countries: disk gone", countries.Err.MessageValue())

	languages := repo.Languages(context.Background())
	require.Equal(t, "Failed to load languages: disk gone", languages.Err.MessageValue())
	require.Equal(t, domain.KindUnexpected, domain.MapWireError(languages.Err).Kind)
}
