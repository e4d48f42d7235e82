package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/relay"
	"github.com/Adda-Baaj/khobor-reader/internal/storage"
	"github.com/Adda-Baaj/khobor-reader/pkg/publishers"
)

// Relay is the long-running relay runtime: it runs a relay pass over all
// feeds on a fixed interval until cancelled.
type Relay struct {
	feeds    []relay.Feed
	service  *relay.Service
	fanout   *publishers.Fanout
	store    storage.Store
	interval time.Duration
	log      logger.Logger
}

// NewRelay loads feeds and publishers from the configured files and opens
// the seen-store.
func NewRelay(ctx context.Context, cfg *config.Config, reader *Reader, log logger.Logger) (*Relay, error) {
	if cfg == nil || reader == nil {
		return nil, fmt.Errorf("config and reader must not be nil")
	}
	log = logger.Ensure(log)

	feeds, err := relay.LoadFeeds(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load feeds: %w", err)
	}
	feedIDs := make([]string, 0, len(feeds))
	for _, f := range feeds {
		feedIDs = append(feedIDs, f.ID)
	}
	log.InfoObj("feeds loaded", "feeds_meta", map[string]any{
		"count": len(feeds),
		"ids":   feedIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled")
	}
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ArticleTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"article_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	scraper := relay.NewScraper(reader.Client, log)
	return newRelay(feeds, relay.NewService(reader.Repo, scraper, store, fanout, cfg.RelayConcurrency, log), fanout, store, cfg.RelayInterval, log), nil
}

func newRelay(feeds []relay.Feed, svc *relay.Service, fanout *publishers.Fanout, store storage.Store, interval time.Duration, log logger.Logger) *Relay {
	return &Relay{
		feeds:    feeds,
		service:  svc,
		fanout:   fanout,
		store:    store,
		interval: interval,
		log:      logger.Ensure(log),
	}
}

// Run relays immediately, then on every interval tick until ctx ends.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.close()

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"feeds_count":      len(r.feeds),
		"publishers_count": r.fanout.Size(),
		"interval":         r.interval.String(),
	})

	r.runOnce(ctx)
	if r.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// RunOnce performs a single pass and closes the relay.
func (r *Relay) RunOnce(ctx context.Context) ([]relay.Result, error) {
	if r == nil || r.service == nil {
		return nil, fmt.Errorf("relay is not initialized")
	}
	defer r.close()
	return r.pass(ctx)
}

func (r *Relay) runOnce(ctx context.Context) {
	if _, err := r.pass(ctx); err != nil {
		r.log.ErrorObj("relay pass failed", "error", err.Error())
	}
}

func (r *Relay) pass(ctx context.Context) ([]relay.Result, error) {
	start := time.Now()
	results, err := r.service.Run(ctx, r.feeds)

	published := 0
	for _, res := range results {
		published += res.Published
	}
	r.log.InfoObj("relay pass completed", "relay_meta", map[string]any{
		"feeds_count": len(r.feeds),
		"published":   published,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return results, err
}

func (r *Relay) close() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
}
