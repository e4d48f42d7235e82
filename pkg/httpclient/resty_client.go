package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// Option customizes the underlying resty client.
type Option func(*resty.Client)

// WithBaseURL resolves relative request URLs against base.
func WithBaseURL(base string) Option {
	return func(c *resty.Client) {
		if base != "" {
			c.SetBaseURL(base)
		}
	}
}

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *resty.Client) {
		if key != "" && value != "" {
			c.SetHeader(key, value)
		}
	}
}

// WithDebug enables resty request/response dumps.
func WithDebug(enabled bool) Option {
	return func(c *resty.Client) { c.SetDebug(enabled) }
}

// NewRestyClient creates a new RestyClient with the specified timeout.
func NewRestyClient(timeout time.Duration, opts ...Option) *RestyClient {
	c := newRestyBaseClient(timeout)
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return &RestyClient{client: c}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Get performs an HTTP GET. Transport failures are returned as-is so callers
// can classify them.
func (r *RestyClient) Get(ctx context.Context, in Request) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if q := compactQuery(in.Query); len(q) > 0 {
		req.SetQueryParams(q)
	}
	resp, err := req.Get(in.URL)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

func compactQuery(query map[string]string) map[string]string {
	if len(query) == 0 {
		return nil
	}
	out := make(map[string]string, len(query))
	for k, v := range query {
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponseAdapter) IsSuccess() bool { return r.resp.IsSuccess() }
