package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

const (
	KindHeadlines = "headlines"
	KindSearch    = "search"

	defaultMaxPages       = 1
	defaultRequestDelayMs = 500
)

// Feed is one stream the relay polls: a headlines filter or a search query.
type Feed struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Kind           string `json:"kind" yaml:"kind"`
	Source         string `json:"source" yaml:"source"`
	Country        string `json:"country" yaml:"country"`
	Language       string `json:"language" yaml:"language"`
	Query          string `json:"query" yaml:"query"`
	MaxPages       int    `json:"max_pages" yaml:"max_pages"`
	Enrich         bool   `json:"enrich" yaml:"enrich"`
	// RequestDelayMs below zero disables the pause between enrichment fetches.
	RequestDelayMs int    `json:"request_delay_ms" yaml:"request_delay_ms"`
}

// Params is the headlines filter of a headlines feed.
func (f Feed) Params() domain.NewsParams {
	return domain.NewsParams{Source: f.Source, Country: f.Country, Language: f.Language}
}

// RequestDelay is the pause between article fetches while enriching.
func (f Feed) RequestDelay() time.Duration {
	return time.Duration(f.RequestDelayMs) * time.Millisecond
}

type feedsFile struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

// LoadFeeds reads and validates a YAML or JSON feeds file.
func LoadFeeds(path string) ([]Feed, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("feeds file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	parsed, err := parseFeeds(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}

	seen := make(map[string]struct{}, len(parsed.Feeds))
	out := make([]Feed, 0, len(parsed.Feeds))
	for i := range parsed.Feeds {
		f := sanitizeFeed(parsed.Feeds[i])
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feeds[%d]: %w", i, err)
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

func parseFeeds(data []byte, ext string) (feedsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f feedsFile
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}
	return feedsFile{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Kind = strings.ToLower(strings.TrimSpace(f.Kind))
	f.Source = strings.TrimSpace(f.Source)
	f.Country = strings.ToLower(strings.TrimSpace(f.Country))
	f.Language = strings.ToLower(strings.TrimSpace(f.Language))
	f.Query = strings.TrimSpace(f.Query)

	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Kind == "" {
		f.Kind = KindHeadlines
		if f.Query != "" {
			f.Kind = KindSearch
		}
	}
	if f.MaxPages <= 0 {
		f.MaxPages = defaultMaxPages
	}
	if f.RequestDelayMs < 0 {
		f.RequestDelayMs = 0
	} else if f.RequestDelayMs == 0 {
		f.RequestDelayMs = defaultRequestDelayMs
	}
	return f
}

func validateFeed(f Feed) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	switch f.Kind {
	case KindHeadlines:
		if f.Query != "" {
			return fmt.Errorf("feed %q: query is only valid for search feeds", f.ID)
		}
	case KindSearch:
		if f.Query == "" {
			return fmt.Errorf("feed %q: query is required for search feeds", f.ID)
		}
		if !f.Params().IsZero() {
			return fmt.Errorf("feed %q: source, country and language are only valid for headlines feeds", f.ID)
		}
	default:
		return fmt.Errorf("feed %q: unknown kind %q", f.ID, f.Kind)
	}
	return nil
}
