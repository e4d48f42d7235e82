package newsapi

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/pkg/httpclient"
)

const (
	headlinesPath  = "v2/top-headlines"
	sourcesPath    = "v2/top-headlines/sources"
	everythingPath = "v2/everything"

	// APIKeyHeader carries the static NewsAPI key.
	APIKeyHeader = "X-Api-Key"
)

// Gateway performs the NewsAPI calls. It never returns a Go error; every
// failure is folded into the returned Result.
type Gateway struct {
	client httpclient.Client
	online Connectivity
	apiKey string
	log    logger.Logger
}

// NewGateway wires a gateway. A nil Connectivity means always online.
func NewGateway(client httpclient.Client, online Connectivity, apiKey string, log logger.Logger) *Gateway {
	if online == nil {
		online = AlwaysOnline{}
	}
	return &Gateway{
		client: client,
		online: online,
		apiKey: apiKey,
		log:    logger.Ensure(log),
	}
}

// FetchHeadlines calls /v2/top-headlines. Empty params and zero paging values
// are omitted from the query.
func (g *Gateway) FetchHeadlines(ctx context.Context, params domain.NewsParams, pageSize, page int) domain.Result[HeadlinesPayload] {
	query := map[string]string{
		"sources":  params.Source,
		"country":  params.Country,
		"language": params.Language,
	}
	addPaging(query, pageSize, page)
	return call[HeadlinesPayload](ctx, g, headlinesPath, query)
}

// FetchSources calls /v2/top-headlines/sources.
func (g *Gateway) FetchSources(ctx context.Context) domain.Result[SourcesPayload] {
	return call[SourcesPayload](ctx, g, sourcesPath, nil)
}

// SearchHeadlines calls /v2/everything with q=query.
func (g *Gateway) SearchHeadlines(ctx context.Context, query string, pageSize, page int) domain.Result[HeadlinesPayload] {
	q := map[string]string{"q": query}
	addPaging(q, pageSize, page)
	return call[HeadlinesPayload](ctx, g, everythingPath, q)
}

func addPaging(query map[string]string, pageSize, page int) {
	if pageSize > 0 {
		query["pageSize"] = strconv.Itoa(pageSize)
	}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}
}

func call[T any](ctx context.Context, g *Gateway, path string, query map[string]string) domain.Result[T] {
	if !g.online.Online(ctx) {
		g.log.WarnObj("newsapi request skipped", "request", map[string]any{
			"path":   path,
			"reason": msgNoConnectivity,
		})
		return domain.Failure[T](domain.NewWireError(domain.CodeTransport, domain.TagNetworkUnavailable, msgNoConnectivity))
	}

	g.log.DebugObj("newsapi request", "request", map[string]any{
		"path":  path,
		"query": query,
	})

	resp, err := g.client.Get(ctx, httpclient.Request{
		URL:     path,
		Query:   query,
		Headers: map[string]string{APIKeyHeader: g.apiKey},
	})
	if err != nil {
		wireErr := transportError(err)
		g.log.WarnObj("newsapi transport failed", "transport_error", map[string]any{
			"path":  path,
			"tag":   wireErr.CodeValue(),
			"error": err.Error(),
		})
		return domain.Failure[T](wireErr)
	}

	if !resp.IsSuccess() {
		wireErr := NormalizeError(resp.StatusCode(), resp.Body())
		g.log.WarnObj("newsapi request failed", "api_error", map[string]any{
			"path":   path,
			"status": resp.StatusCode(),
			"code":   wireErr.CodeValue(),
		})
		return domain.Failure[T](wireErr)
	}

	payload, ok := decode[T](resp.Body())
	if !ok {
		return domain.Failure[T](domain.NewWireError(domain.CodeParsing, domain.TagParsing, msgEmptyBody))
	}

	g.log.DebugObj("newsapi response", "response", map[string]any{
		"path":   path,
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})
	return domain.Success(payload)
}

// decode reports false for an empty, null or malformed body.
func decode[T any](body []byte) (T, bool) {
	var out T
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return out, false
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, false
	}
	return out, true
}
