// Package app assembles the reader's components from configuration.
package app

import (
	"fmt"

	"github.com/Adda-Baaj/khobor-reader/internal/catalog"
	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/newsapi"
	"github.com/Adda-Baaj/khobor-reader/internal/paging"
	"github.com/Adda-Baaj/khobor-reader/internal/repository"
	"github.com/Adda-Baaj/khobor-reader/internal/usecase"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

// Reader is the composition root shared by the browser and the relay. It
// owns the HTTP client and everything built on top of it.
type Reader struct {
	Client   httpclient.Client
	Repo     *repository.Repository
	UseCases *usecase.UseCases
}

// NewReader wires client, gateway, catalog, repository and use cases.
func NewReader(cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	client := httpclient.NewRestyClient(cfg.HTTPTimeout,
		httpclient.WithBaseURL(cfg.NewsAPIBaseURL),
		httpclient.WithDebug(cfg.HTTPDebug),
	)
	return newReader(cfg, client, connectivity(cfg), log)
}

func newReader(cfg *config.Config, client httpclient.Client, online newsapi.Connectivity, log logger.Logger) (*Reader, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	gw := newsapi.NewGateway(client, online, cfg.NewsAPIKey, log)
	repo := repository.New(gw, cat, paging.Config{
		PageSize:         cfg.PageSize,
		PrefetchDistance: cfg.PrefetchDistance,
		MaxSize:          cfg.MaxWindowSize,
	}, log)

	log.InfoObj("reader initialized", "reader_config", map[string]any{
		"base_url":     cfg.NewsAPIBaseURL,
		"page_size":    cfg.PageSize,
		"probe":        cfg.ConnectivityProbe,
		"catalog_file": cfg.CatalogFile,
		"api_key_set":  cfg.NewsAPIKey != "",
	})

	return &Reader{Client: client, Repo: repo, UseCases: usecase.New(repo)}, nil
}

func connectivity(cfg *config.Config) newsapi.Connectivity {
	if cfg.ConnectivityProbe == "dial" {
		return newsapi.NewDialProbe(cfg.ConnectivityAddr, cfg.NewsAPIBaseURL, cfg.ConnectivityTimeout)
	}
	return newsapi.AlwaysOnline{}
}
