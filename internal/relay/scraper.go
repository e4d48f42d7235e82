package relay

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	scraperUserAgent = "khobor-reader/1.0 (+https://github.com/Adda-Baaj/khobor-reader)"
)

// Scraper fills a missing description or image from the article page's
// OpenGraph tags. Fields the API already returned are left alone.
type Scraper struct {
	client httpclient.Client
	log    logger.Logger
}

func NewScraper(client httpclient.Client, log logger.Logger) *Scraper {
	return &Scraper{client: client, log: logger.Ensure(log)}
}

// Enrich returns a copy of articles. On cancellation the rest are returned
// unchanged.
func (s *Scraper) Enrich(ctx context.Context, feed Feed, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)
	delay := feed.RequestDelay()
	fetched := 0

	for i, art := range articles {
		if !needsEnrichment(art) {
			continue
		}
		if fetched > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return out
		}
		fetched++

		meta, err := s.fetchMeta(ctx, art.URL)
		if err != nil {
			s.log.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"feed_id": feed.ID,
				"url":     art.URL,
				"error":   err.Error(),
			})
			continue
		}
		out[i] = merge(art, meta)
	}
	return out
}

func needsEnrichment(a domain.Article) bool {
	return a.URL != "" && (a.Description == "" || a.ImageURL == "")
}

func merge(a domain.Article, meta pageMeta) domain.Article {
	if a.Description == "" {
		a.Description = meta.Description
	}
	if a.ImageURL == "" {
		a.ImageURL = resolveURL(meta.ImageURL, a.URL)
	}
	return a
}

func (s *Scraper) fetchMeta(ctx context.Context, pageURL string) (pageMeta, error) {
	resp, err := s.client.Get(ctx, httpclient.Request{
		URL:     pageURL,
		Headers: map[string]string{"User-Agent": scraperUserAgent, "Accept": "text/html"},
	})
	if err != nil {
		return pageMeta{}, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return pageMeta{}, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return parseMeta(body)
}

type pageMeta struct {
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	content := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return pageMeta{
		Description: firstNonEmpty(
			content(`meta[property="og:description"]`),
			content(`meta[name="twitter:description"]`),
			content(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			content(`meta[property="og:image"]`),
			content(`meta[property="og:image:url"]`),
			content(`meta[name="twitter:image"]`),
		),
	}, nil
}

// resolveURL makes ref absolute against the page it was found on.
func resolveURL(ref, base string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if r.IsAbs() {
		return r.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
