package relay

import (
	"context"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
	"github.com/Adda-Baaj/khobor-reader/pkg/publishers"
)

// Pagers opens paging sessions over the news API.
type Pagers interface {
	Headlines(params domain.NewsParams) *paging.Pager[domain.Article]
	Search(query string) *paging.Pager[domain.Article]
}

// ArticleScraper enriches articles with page metadata.
type ArticleScraper interface {
	Enrich(ctx context.Context, feed Feed, articles []domain.Article) []domain.Article
}

// EventPublisher hands events to downstream sinks and reports how many took it.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// SeenStore remembers relayed article ids.
type SeenStore interface {
	Unseen(ids []string) ([]string, error)
	Mark(ids ...string) error
}
