package relay

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadFeedsAppliesDefaults(t *testing.T) {
	path := writeFile(t, "feeds.yaml", `
feeds:
  - id: us-top
    country: US
    max_pages: 3
    enrich: true
  - id: climate
    name: Climate
    query: " climate change "
    request_delay_ms: -1
`)
	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds: %v", err)
	}
	if len(feeds) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(feeds))
	}

	top := feeds[0]
	if top.Kind != KindHeadlines || top.Country != "us" || top.Name != "us-top" || top.MaxPages != 3 || !top.Enrich {
		t.Fatalf("unexpected headlines feed %#v", top)
	}
	if top.RequestDelay() != 500*time.Millisecond {
		t.Fatalf("expected default delay, got %v", top.RequestDelay())
	}

	search := feeds[1]
	if search.Kind != KindSearch || search.Query != "climate change" || search.MaxPages != 1 {
		t.Fatalf("unexpected search feed %#v", search)
	}
	if search.RequestDelay() != 0 {
		t.Fatalf("expected delay disabled, got %v", search.RequestDelay())
	}
}

func TestLoadFeedsJSON(t *testing.T) {
	path := writeFile(t, "feeds.json", `{"feeds":[{"id":"bbc","kind":"headlines","source":"bbc-news"}]}`)
	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatalf("LoadFeeds: %v", err)
	}
	if feeds[0].Params().Source != "bbc-news" {
		t.Fatalf("unexpected params %#v", feeds[0].Params())
	}
}

func TestLoadFeedsRejectsInvalid(t *testing.T) {
	tcs := map[string]string{
		"empty":          "feeds: []\n",
		"missing id":     "feeds:\n  - country: us\n",
		"duplicate":      "feeds:\n  - id: a\n  - id: a\n",
		"unknown kind":   "feeds:\n  - id: a\n    kind: rss\n",
		"search filters": "feeds:\n  - id: a\n    kind: search\n    query: go\n    country: us\n",
		"search no q":    "feeds:\n  - id: a\n    kind: search\n",
		"headlines q":    "feeds:\n  - id: a\n    kind: headlines\n    query: go\n",
		"not yaml":       "feeds: [",
	}
	for name, body := range tcs {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFeeds(writeFile(t, "feeds.yaml", body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := LoadFeeds(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
