package screens

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/flow"
	"github.com/Adda-Baaj/khobor-reader/internal/navigation"
)

// listModel loads a one-shot list into a holder.
type listModel[T any] struct {
	load  func(ctx context.Context) domain.Outcome[[]T]
	state *flow.Holder[UIState[[]T]]
	nav   *navigation.Channel
}

func newListModel[T any](ctx context.Context, nav *navigation.Channel, load func(context.Context) domain.Outcome[[]T]) listModel[T] {
	m := listModel[T]{load: load, state: flow.NewHolder(Loading[[]T]()), nav: nav}
	m.fetch(ctx)
	return m
}

func (m listModel[T]) fetch(ctx context.Context) {
	m.state.Set(Loading[[]T]())
	m.state.Set(fromOutcome(m.load(ctx)))
}

// State is the list's current UI state.
func (m listModel[T]) State() *flow.Holder[UIState[[]T]] { return m.state }

// TryAgain reloads the list.
func (m listModel[T]) TryAgain(ctx context.Context) { m.fetch(ctx) }

// Back posts a back event.
func (m listModel[T]) Back() { m.nav.Post(navigation.Back{}) }

type SourcesModel struct {
	listModel[domain.Source]
}

// NewSourcesModel loads the sources list before returning.
func NewSourcesModel(ctx context.Context, uc NewsUseCases, nav *navigation.Channel) *SourcesModel {
	return &SourcesModel{newListModel(ctx, nav, uc.GetSources)}
}

// Select opens the headlines of source id.
func (m *SourcesModel) Select(id string) {
	m.nav.Post(navigation.ToNews{Params: domain.NewsParams{Source: id}})
}

type CountriesModel struct {
	listModel[domain.Country]
}

func NewCountriesModel(ctx context.Context, uc NewsUseCases, nav *navigation.Channel) *CountriesModel {
	return &CountriesModel{newListModel(ctx, nav, uc.GetCountries)}
}

func (m *CountriesModel) Select(code string) {
	m.nav.Post(navigation.ToNews{Params: domain.NewsParams{Country: code}})
}

type LanguagesModel struct {
	listModel[domain.Language]
}

func NewLanguagesModel(ctx context.Context, uc NewsUseCases, nav *navigation.Channel) *LanguagesModel {
	return &LanguagesModel{newListModel(ctx, nav, uc.GetLanguages)}
}

func (m *LanguagesModel) Select(code string) {
	m.nav.Post(navigation.ToNews{Params: domain.NewsParams{Language: code}})
}

// HomeModel only navigates.
type HomeModel struct {
	nav *navigation.Channel
}

func NewHomeModel(nav *navigation.Channel) *HomeModel {
	return &HomeModel{nav: nav}
}

func (m *HomeModel) TopHeadlines() {
	m.nav.Post(navigation.ToNews{Params: domain.NewsParams{Country: navigation.TopHeadlinesCountry}})
}

func (m *HomeModel) Sources()   { m.nav.Post(navigation.ToSources{}) }
func (m *HomeModel) Countries() { m.nav.Post(navigation.ToCountries{}) }
func (m *HomeModel) Languages() { m.nav.Post(navigation.ToLanguages{}) }
func (m *HomeModel) Search()    { m.nav.Post(navigation.ToSearch{}) }
