// Package relay polls configured feeds and publishes articles not relayed
// before.
package relay

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
	"github.com/Adda-Baaj/khobor-reader/internal/usecase"
	"github.com/Adda-Baaj/khobor-reader/pkg/publishers"
)

const defaultConcurrency = 4

// Result summarizes one feed pass.
type Result struct {
	FeedID    string
	Pages     int
	Fetched   int
	New       int
	Published int
	Err       error
}

// Service runs relay passes over feeds.
type Service struct {
	pagers      Pagers
	scraper     ArticleScraper
	store       SeenStore
	publisher   EventPublisher
	log         logger.Logger
	concurrency int
}

// NewService wires a relay. A nil scraper disables enrichment for every feed.
func NewService(pagers Pagers, scraper ArticleScraper, store SeenStore, pub EventPublisher, concurrency int, log logger.Logger) *Service {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Service{
		pagers:      pagers,
		scraper:     scraper,
		store:       store,
		publisher:   pub,
		log:         logger.Ensure(log),
		concurrency: concurrency,
	}
}

// Run processes all feeds with bounded concurrency. A failing feed does not
// stop the others; their errors are joined.
func (s *Service) Run(ctx context.Context, feeds []Feed) ([]Result, error) {
	if s == nil || s.pagers == nil || s.store == nil || s.publisher == nil {
		return nil, errors.New("relay service is not initialized")
	}
	if len(feeds) == 0 {
		return nil, errors.New("no feeds configured for relay")
	}

	results := make([]Result, len(feeds))
	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, feed := range feeds {
		g.Go(func() error {
			results[i] = s.runFeed(ctx, feed)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", r.FeedID, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (s *Service) runFeed(ctx context.Context, feed Feed) Result {
	res := Result{FeedID: feed.ID}

	articles, pages, err := s.collect(ctx, feed)
	res.Pages = pages
	res.Fetched = len(articles)
	if err != nil && pages == 0 {
		res.Err = err
		s.logFailure(feed, "feed fetch failed", err)
		return res
	}
	if err != nil {
		s.logFailure(feed, "feed fetch stopped early", err)
	}

	fresh, err := s.unseen(articles)
	if err != nil {
		res.Err = fmt.Errorf("check relayed articles: %w", err)
		s.logFailure(feed, "seen-store lookup failed", res.Err)
		return res
	}
	res.New = len(fresh)
	if len(fresh) == 0 {
		s.logDone(feed, res)
		return res
	}

	if feed.Enrich && s.scraper != nil {
		fresh = s.scraper.Enrich(ctx, feed, fresh)
	}

	published, err := s.publish(ctx, feed, fresh)
	res.Published = len(published)
	if markErr := s.store.Mark(published...); markErr != nil {
		err = errors.Join(err, fmt.Errorf("mark relayed articles: %w", markErr))
	}
	if err != nil {
		res.Err = err
		s.logFailure(feed, "feed publish incomplete", err)
	}
	s.logDone(feed, res)
	return res
}

// collect walks up to MaxPages pages. Articles repeated across pages are kept
// once. An error after the first page returns what was loaded so far, even
// when that is nothing.
func (s *Service) collect(ctx context.Context, feed Feed) ([]domain.Article, int, error) {
	p := s.pagerFor(feed)
	if p == nil {
		return nil, 0, fmt.Errorf("feed %s has no query", feed.ID)
	}

	var (
		out   []domain.Article
		seen  = make(map[string]struct{})
		pages int
	)
	for pages < feed.MaxPages {
		items, err := p.Next(ctx)
		if errors.Is(err, paging.ErrEndOfPagination) {
			break
		}
		if err != nil {
			return out, pages, err
		}
		pages++
		for _, a := range items {
			id := a.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, a)
		}
	}
	return out, pages, nil
}

func (s *Service) pagerFor(feed Feed) *paging.Pager[domain.Article] {
	if feed.Kind == KindSearch {
		return s.pagers.Search(feed.Query)
	}
	return s.pagers.Headlines(feed.Params())
}

func (s *Service) unseen(articles []domain.Article) ([]domain.Article, error) {
	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ID()
	}
	fresh, err := s.store.Unseen(ids)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]struct{}, len(fresh))
	for _, id := range fresh {
		keep[id] = struct{}{}
	}
	out := make([]domain.Article, 0, len(fresh))
	for _, a := range articles {
		if _, ok := keep[a.ID()]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// publish sends one event per article and returns the ids at least one sink
// accepted. Those are marked even when other sinks failed.
func (s *Service) publish(ctx context.Context, feed Feed, articles []domain.Article) ([]string, error) {
	var (
		published []string
		errs      []error
	)
	for _, a := range articles {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		evt := publishers.NewEvent(feed.ID, feed.Name, a)
		n, err := s.publisher.Publish(ctx, evt)
		if n > 0 {
			published = append(published, evt.ArticleID)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", evt.ID, err))
		}
	}
	return published, errors.Join(errs...)
}

func (s *Service) logFailure(feed Feed, msg string, err error) {
	de := usecase.ClassifyError(err)
	s.log.ErrorObj(msg, "relay_feed_error", map[string]any{
		"feed_id": feed.ID,
		"kind":    de.Kind.String(),
		"message": de.Message,
		"error":   err.Error(),
	})
}

func (s *Service) logDone(feed Feed, res Result) {
	s.log.InfoObj("feed relay completed", "relay_feed_result", map[string]any{
		"feed_id":   feed.ID,
		"pages":     res.Pages,
		"fetched":   res.Fetched,
		"new":       res.New,
		"published": res.Published,
	})
}
