package publishers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  atomic.Int32
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls.Add(1)
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeSQS, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers skipped, got %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), NewEvent("tech", "Tech", domain.Article{Title: "t", URL: "u"}))
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls.Load() != 1 || bad.calls.Load() != 1 {
		t.Fatalf("expected every publisher called once")
	}

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ok.closed || !bad.closed {
		t.Fatalf("expected closers to be closed")
	}
}

func TestFanoutEmpty(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op, got %d %v", n, err)
	}
	if n, err := NewFanout(nil).Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("empty fanout should be a no-op, got %d %v", n, err)
	}
}

func TestNewEvent(t *testing.T) {
	a := domain.Article{Title: "t", URL: "https://example.com/a"}
	e1 := NewEvent("tech", "Tech", a)
	e2 := NewEvent("tech", "Tech", a)
	if e1.ID == "" || e1.ID == e2.ID {
		t.Fatalf("expected unique event ids, got %q and %q", e1.ID, e2.ID)
	}
	if e1.ArticleID != a.ID() {
		t.Fatalf("article id mismatch")
	}
	if e1.CollectedAt.IsZero() {
		t.Fatalf("expected collection time")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("expected 1 http publisher, got %#v", pubs)
	}

	_, err = BuildAll(context.Background(), reg, []PublisherConfig{{ID: "k", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
