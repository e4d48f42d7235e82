package newsapi

import (
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

// HeadlinesPayload is the body of /v2/top-headlines and /v2/everything.
type HeadlinesPayload struct {
	TotalResults *int         `json:"totalResults"`
	Articles     []ArticleDTO `json:"articles"`
}

// Total returns the reported result count, 0 when absent.
func (p HeadlinesPayload) Total() int {
	if p.TotalResults == nil {
		return 0
	}
	return *p.TotalResults
}

// SourcesPayload is the body of /v2/top-headlines/sources.
type SourcesPayload struct {
	Sources []SourceDTO `json:"sources"`
}

type ArticleSourceDTO struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type ArticleDTO struct {
	Source      *ArticleSourceDTO `json:"source"`
	Author      *string           `json:"author"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	URL         *string           `json:"url"`
	URLToImage  *string           `json:"urlToImage"`
	PublishedAt *string           `json:"publishedAt"`
	Content     *string           `json:"content"`
}

type SourceDTO struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Category    *string `json:"category"`
	Language    *string `json:"language"`
	Country     *string `json:"country"`
}

// errorEnvelope is the body NewsAPI sends with non-2xx responses.
type errorEnvelope struct {
	Status  *string `json:"status"`
	Code    *string `json:"code"`
	Message *string `json:"message"`
}

// ToArticles converts raw articles, dropping any without a title or url.
// The input is not modified.
func ToArticles(raw []ArticleDTO) []domain.Article {
	articles := make([]domain.Article, 0, len(raw))
	for _, dto := range raw {
		if isBlank(dto.Title) || isBlank(dto.URL) {
			continue
		}
		a := domain.Article{
			Author:      deref(dto.Author),
			Title:       *dto.Title,
			Description: deref(dto.Description),
			URL:         *dto.URL,
			ImageURL:    deref(dto.URLToImage),
			PublishedAt: deref(dto.PublishedAt),
			Content:     deref(dto.Content),
		}
		if dto.Source != nil {
			a.SourceID = deref(dto.Source.ID)
			a.SourceName = deref(dto.Source.Name)
		}
		articles = append(articles, a)
	}
	return articles
}

// ToSources converts raw sources, dropping any without an id or name.
func ToSources(raw []SourceDTO) []domain.Source {
	sources := make([]domain.Source, 0, len(raw))
	for _, dto := range raw {
		if isBlank(dto.ID) || isBlank(dto.Name) {
			continue
		}
		sources = append(sources, domain.Source{
			ID:          *dto.ID,
			Name:        *dto.Name,
			Description: deref(dto.Description),
			URL:         deref(dto.URL),
			Category:    deref(dto.Category),
			Language:    deref(dto.Language),
			Country:     deref(dto.Country),
		})
	}
	return sources
}

// DistinctByURL keeps the first article for every url, preserving order.
func DistinctByURL(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.URL]; dup {
			continue
		}
		seen[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
