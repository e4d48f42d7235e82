package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: queue
    type: SQS
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/123/news
      region: us-east-1
  - id: topic
    type: pubsub
    pubsub:
      project_id: khobor
      topic: headlines
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := len(reg.All()); got != 3 {
		t.Fatalf("expected 3 publishers, got %d", got)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "queue" || enabled[1].ID != "topic" {
		t.Fatalf("expected queue and topic enabled, got %#v", enabled)
	}
	if enabled[0].Type != TypeSQS {
		t.Fatalf("expected type to be lowercased, got %q", enabled[0].Type)
	}
	if _, ok := reg.ByID(" topic "); !ok {
		t.Fatalf("expected ByID to trim the id")
	}
}

func TestLoadRegistryJSONDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[{"id":"hook","type":"http","http":{"url":" https://example.com/hook ","headers":{"X-Token":"t"," ":"x"}}}]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, _ := reg.ByID("hook")
	if cfg.HTTP.URL != "https://example.com/hook" {
		t.Fatalf("url not trimmed: %q", cfg.HTTP.URL)
	}
	if cfg.HTTP.Method != httpDefaultMethod || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("defaults not applied: %#v", cfg.HTTP)
	}
	if len(cfg.HTTP.Headers) != 1 {
		t.Fatalf("expected blank header dropped, got %#v", cfg.HTTP.Headers)
	}
}

func TestNewConfigRegistryRejectsDuplicates(t *testing.T) {
	cfg := PublisherConfig{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}}
	if _, err := NewConfigRegistry([]PublisherConfig{cfg, cfg}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := NewConfigRegistry(nil); err == nil {
		t.Fatalf("expected error for empty registry")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	tcs := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing id", PublisherConfig{Type: TypeHTTP}},
		{"missing type", PublisherConfig{ID: "x"}},
		{"unknown type", PublisherConfig{ID: "x", Type: "kafka"}},
		{"http without block", PublisherConfig{ID: "x", Type: TypeHTTP}},
		{"sqs without region", PublisherConfig{ID: "x", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "q"}}},
		{"sqs key without secret", PublisherConfig{ID: "x", Type: TypeSQS, SQS: &SQSPublisherConfig{
			QueueURL: "q", Region: "us-east-1", AWSAccess: AWSAccess{AccessKeyID: "id"},
		}}},
		{"sns without arn", PublisherConfig{ID: "x", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "us-east-1"}}},
		{"pubsub without topic", PublisherConfig{ID: "x", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "p"}}},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if err := validatePublisherConfig(tc.cfg); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
