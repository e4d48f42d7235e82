package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
	"github.com/stretchr/testify/require"
)

type emptySource struct{}

func (emptySource) Load(context.Context, paging.LoadParams) (paging.Page[domain.Article], error) {
	return paging.Page[domain.Article]{}, nil
}

func (emptySource) RefreshKey(paging.State[domain.Article]) int { return 0 }

type fakeRepo struct {
	headlines []domain.NewsParams
	searches  []string
	sources   domain.Result[[]domain.Source]
	countries domain.Result[[]domain.Country]
	languages domain.Result[[]domain.Language]
}

func (r *fakeRepo) Headlines(params domain.NewsParams) *paging.Pager[domain.Article] {
	r.headlines = append(r.headlines, params)
	return paging.New[domain.Article](emptySource{}, paging.DefaultConfig())
}

func (r *fakeRepo) Search(query string) *paging.Pager[domain.Article] {
	r.searches = append(r.searches, query)
	return paging.New[domain.Article](emptySource{}, paging.DefaultConfig())
}

func (r *fakeRepo) Sources(context.Context) domain.Result[[]domain.Source]     { return r.sources }
func (r *fakeRepo) Countries(context.Context) domain.Result[[]domain.Country]  { return r.countries }
func (r *fakeRepo) Languages(context.Context) domain.Result[[]domain.Language] { return r.languages }

func TestGetNewsPassesParamsThrough(t *testing.T) {
	repo := &fakeRepo{}
	uc := New(repo)

	params := domain.NewsParams{Source: "bbc-news", Country: "us"}
	require.NotNil(t, uc.GetNews(params))
	require.Equal(t, []domain.NewsParams{params}, repo.headlines)
}

func TestSearchNewsBlankQuery(t *testing.T) {
	repo := &fakeRepo{}
	uc := New(repo)

	require.Nil(t, uc.SearchNews("   "))
	require.Empty(t, repo.searches)

	require.NotNil(t, uc.SearchNews(" golang "))
	require.Equal(t, []string{"golang"}, repo.searches)
}

func TestOutcomesMapErrors(t *testing.T) {
	repo := &fakeRepo{
		sources:   domain.Failure[[]domain.Source](domain.NewWireError(401, "apiKeyInvalid", "Your API key is invalid")),
		countries: domain.Success([]domain.Country{{Code: "us", Name: "United States"}}),
		languages: domain.Failure[[]domain.Language](domain.NewWireError(domain.CodeTransport, domain.TagLocalData, "Failed to load languages: x")),
	}
	uc := New(repo)
	ctx := context.Background()

	sources := uc.GetSources(ctx)
	require.False(t, sources.IsSuccess())
	require.Equal(t, domain.KindAPIKeyInvalid, sources.Err.Kind)
	require.Equal(t, "Your API key is invalid", sources.Err.Message)

	countries := uc.GetCountries(ctx)
	require.True(t, countries.IsSuccess())
	require.Len(t, countries.Data, 1)

	languages := uc.GetLanguages(ctx)
	require.Equal(t, domain.KindUnexpected, languages.Err.Kind)
	require.Equal(t, "Failed to load languages: x", languages.Err.Message)
}

func TestErrorMessage(t *testing.T) {
	require.Empty(t, ErrorMessage(nil))

	wrapped := fmt.Errorf("page 2: %w", domain.NewWireError(domain.CodeTransport, domain.TagTimeout, "i/o timeout"))
	require.Equal(t, domain.MsgNetworkError, ErrorMessage(wrapped))

	require.Equal(t, "plain failure", ErrorMessage(errors.New("plain failure")))

	classified := ClassifyError(errors.New("plain failure"))
	require.Equal(t, domain.KindUnexpected, classified.Kind)
	require.Nil(t, ClassifyError(nil))
}
