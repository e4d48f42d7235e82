package repository

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/newsapi"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
)

// StartingPage is the first NewsAPI page.
const StartingPage = 1

// PageLoadError is the failure a page walk surfaces for a wire error. Its
// message is the formatted wire triple.
type PageLoadError struct {
	Wire *domain.WireError
}

func (e *PageLoadError) Error() string { return e.Wire.Error() }

func (e *PageLoadError) Unwrap() error { return e.Wire }

type fetchFunc func(ctx context.Context, pageSize, page int) domain.Result[newsapi.HeadlinesPayload]

// articleSource walks one headlines or search session. The filter is bound
// into fetch at construction; the source itself keeps no state between loads.
type articleSource struct {
	fetch    fetchFunc
	pageSize int
}

var _ paging.Source[domain.Article] = (*articleSource)(nil)

func (s *articleSource) Load(ctx context.Context, params paging.LoadParams) (paging.Page[domain.Article], error) {
	key := params.Key
	if key <= 0 {
		key = StartingPage
	}
	size := params.PageSize
	if size <= 0 {
		size = s.pageSize
	}

	res := s.fetch(ctx, size, key)
	if !res.IsSuccess() {
		return paging.Page[domain.Article]{}, &PageLoadError{Wire: res.Err}
	}

	raw := res.Data.Articles
	articles := newsapi.DistinctByURL(newsapi.ToArticles(raw))
	hasNext := len(raw) > 0 && res.Data.Total() > 0

	page := paging.Page[domain.Article]{Data: articles}
	if key != StartingPage {
		page.PrevKey = key - 1
	}
	if hasNext {
		page.NextKey = key + 1
	}
	return page, nil
}

// RefreshKey picks the page holding the anchor item. Zero restarts the walk.
func (s *articleSource) RefreshKey(state paging.State[domain.Article]) int {
	page, ok := state.ClosestPage()
	if !ok {
		return 0
	}
	if page.PrevKey != 0 {
		return page.PrevKey + 1
	}
	if page.NextKey != 0 {
		return page.NextKey - 1
	}
	return 0
}
