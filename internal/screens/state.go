// Package screens holds the per-screen state models. Each model publishes its
// state through flow holders and posts navigation events; rendering is left
// to the caller.
package screens

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
)

type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// UIState is what a screen renders: a spinner, data, or an error message.
type UIState[T any] struct {
	Status  Status
	Data    T
	Message string
}

func Loading[T any]() UIState[T] {
	return UIState[T]{Status: StatusLoading}
}

func Success[T any](data T) UIState[T] {
	return UIState[T]{Status: StatusSuccess, Data: data}
}

func Failed[T any](message string) UIState[T] {
	return UIState[T]{Status: StatusError, Message: message}
}

func fromOutcome[T any](o domain.Outcome[T]) UIState[T] {
	if o.IsSuccess() {
		return Success(o.Data)
	}
	return Failed[T](o.Err.Message)
}

// NewsUseCases is what the screens call into.
type NewsUseCases interface {
	GetNews(params domain.NewsParams) *paging.Pager[domain.Article]
	SearchNews(query string) *paging.Pager[domain.Article]
	GetSources(ctx context.Context) domain.Outcome[[]domain.Source]
	GetCountries(ctx context.Context) domain.Outcome[[]domain.Country]
	GetLanguages(ctx context.Context) domain.Outcome[[]domain.Language]
}
