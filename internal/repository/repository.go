package repository

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/newsapi"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
)

// Gateway is the NewsAPI surface the repository needs.
type Gateway interface {
	FetchHeadlines(ctx context.Context, params domain.NewsParams, pageSize, page int) domain.Result[newsapi.HeadlinesPayload]
	FetchSources(ctx context.Context) domain.Result[newsapi.SourcesPayload]
	SearchHeadlines(ctx context.Context, query string, pageSize, page int) domain.Result[newsapi.HeadlinesPayload]
}

// Catalog serves the static country and language tables.
type Catalog interface {
	Countries(ctx context.Context) ([]domain.Country, error)
	Languages(ctx context.Context) ([]domain.Language, error)
}

// Repository composes paged headline/search sessions and the one-shot lists.
type Repository struct {
	gw      Gateway
	catalog Catalog
	cfg     paging.Config
	log     logger.Logger
}

func New(gw Gateway, catalog Catalog, cfg paging.Config, log logger.Logger) *Repository {
	return &Repository{gw: gw, catalog: catalog, cfg: cfg, log: logger.Ensure(log)}
}

// Headlines starts a new top-headlines session for params.
func (r *Repository) Headlines(params domain.NewsParams) *paging.Pager[domain.Article] {
	r.log.DebugObj("headlines session", "params", params)
	return r.pager(func(ctx context.Context, pageSize, page int) domain.Result[newsapi.HeadlinesPayload] {
		return r.gw.FetchHeadlines(ctx, params, pageSize, page)
	})
}

// Search starts a new everything-search session for query.
func (r *Repository) Search(query string) *paging.Pager[domain.Article] {
	r.log.DebugObj("search session", "query", query)
	return r.pager(func(ctx context.Context, pageSize, page int) domain.Result[newsapi.HeadlinesPayload] {
		return r.gw.SearchHeadlines(ctx, query, pageSize, page)
	})
}

func (r *Repository) pager(fetch fetchFunc) *paging.Pager[domain.Article] {
	src := &articleSource{fetch: fetch, pageSize: r.cfg.PageSize}
	return paging.New[domain.Article](src, r.cfg)
}

// Sources fetches every source once, dropping invalid records.
func (r *Repository) Sources(ctx context.Context) domain.Result[[]domain.Source] {
	res := r.gw.FetchSources(ctx)
	if !res.IsSuccess() {
		return domain.Failure[[]domain.Source](res.Err)
	}
	return domain.Success(newsapi.ToSources(res.Data.Sources))
}

func (r *Repository) Countries(ctx context.Context) domain.Result[[]domain.Country] {
	countries, err := r.catalog.Countries(ctx)
	if err != nil {
		r.log.ErrorObj("country table unavailable", "catalog_error", map[string]any{"error": err.Error()})
		return domain.Failure[[]domain.Country](localDataError("countries", err))
	}
	return domain.Success(countries)
}

func (r *Repository) Languages(ctx context.Context) domain.Result[[]domain.Language] {
	languages, err := r.catalog.Languages(ctx)
	if err != nil {
		r.log.ErrorObj("language table unavailable", "catalog_error", map[string]any{"error": err.Error()})
		return domain.Failure[[]domain.Language](localDataError("languages", err))
	}
	return domain.Success(languages)
}

func localDataError(what string, err error) *domain.WireError {
	return domain.NewWireError(domain.CodeTransport, domain.TagLocalData, "Failed to load "+what+": "+err.Error())
}
