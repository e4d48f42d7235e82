package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientSendsQueryAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "go" || q.Get("page") != "2" {
			t.Fatalf("unexpected query %v", q)
		}
		if _, ok := q["language"]; ok {
			t.Fatalf("empty query values must be dropped, got %v", q)
		}
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Fatalf("missing api key header, got %q", got)
		}
		if got := r.Header.Get("X-Trace"); got != "1" {
			t.Fatalf("missing per-request header, got %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	client := NewRestyClient(2*time.Second, WithBaseURL(srv.URL), WithHeader("X-Api-Key", "secret"))
	resp, err := client.Get(context.Background(), Request{
		URL:     "/v2/everything",
		Query:   map[string]string{"q": "go", "page": "2", "language": ""},
		Headers: map[string]string{"X-Trace": "1"},
	})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode())
	}
	if resp.IsSuccess() {
		t.Fatalf("418 must not be reported as success")
	}
	if string(resp.Body()) != "short and stout" {
		t.Fatalf("body = %q", resp.Body())
	}
}

func TestRestyClientReturnsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewRestyClient(time.Second)
	if _, err := client.Get(context.Background(), Request{URL: url}); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestCompactQuery(t *testing.T) {
	if got := compactQuery(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	got := compactQuery(map[string]string{"a": "1", "b": "", "": "x"})
	if len(got) != 1 || got["a"] != "1" {
		t.Fatalf("compactQuery = %v", got)
	}
}
