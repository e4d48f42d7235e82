// Package usecase exposes the reader operations with display-ready errors.
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
)

// Repository is the data surface the use cases run against.
type Repository interface {
	Headlines(params domain.NewsParams) *paging.Pager[domain.Article]
	Search(query string) *paging.Pager[domain.Article]
	Sources(ctx context.Context) domain.Result[[]domain.Source]
	Countries(ctx context.Context) domain.Result[[]domain.Country]
	Languages(ctx context.Context) domain.Result[[]domain.Language]
}

type UseCases struct {
	repo Repository
}

func New(repo Repository) *UseCases {
	return &UseCases{repo: repo}
}

// GetNews starts a headlines session. Params are passed through as given.
func (u *UseCases) GetNews(params domain.NewsParams) *paging.Pager[domain.Article] {
	return u.repo.Headlines(params)
}

// SearchNews starts a search session, or returns nil for a blank query.
func (u *UseCases) SearchNews(query string) *paging.Pager[domain.Article] {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return u.repo.Search(query)
}

func (u *UseCases) GetSources(ctx context.Context) domain.Outcome[[]domain.Source] {
	return domain.ToOutcome(u.repo.Sources(ctx))
}

func (u *UseCases) GetCountries(ctx context.Context) domain.Outcome[[]domain.Country] {
	return domain.ToOutcome(u.repo.Countries(ctx))
}

func (u *UseCases) GetLanguages(ctx context.Context) domain.Outcome[[]domain.Language] {
	return domain.ToOutcome(u.repo.Languages(ctx))
}

// ErrorMessage renders a page-load error for display: the classified message
// when err wraps a wire error, otherwise err's own text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var wire *domain.WireError
	if errors.As(err, &wire) {
		return domain.MapWireError(wire).Message
	}
	return err.Error()
}

// ClassifyError is ErrorMessage returning the full domain error. Errors that
// carry no wire error classify as Unexpected with their own text.
func ClassifyError(err error) *domain.Error {
	if err == nil {
		return nil
	}
	var wire *domain.WireError
	if errors.As(err, &wire) {
		return domain.MapWireError(wire)
	}
	return &domain.Error{Kind: domain.KindUnexpected, Message: err.Error()}
}
