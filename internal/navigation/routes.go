package navigation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
)

const (
	RouteHome      = "home"
	RouteNews      = "news"
	RouteSources   = "sources"
	RouteCountries = "countries"
	RouteLanguages = "languages"
	RouteSearch    = "search"
)

// TopHeadlinesCountry is the country the home screen's top headlines use.
const TopHeadlinesCountry = "us"

// Route is a parsed route string.
type Route struct {
	Name   string
	Params domain.NewsParams
	Query  string
}

func (r Route) String() string {
	switch r.Name {
	case RouteNews:
		return NewsRoute(r.Params)
	case RouteSearch:
		if r.Query == "" {
			return RouteSearch
		}
		return RouteSearch + "?" + url.Values{"q": {r.Query}}.Encode()
	default:
		return r.Name
	}
}

// NewsRoute builds "news?source=..&country=..&language=.." omitting empty
// filters.
func NewsRoute(p domain.NewsParams) string {
	v := url.Values{}
	if p.Source != "" {
		v.Set("source", p.Source)
	}
	if p.Country != "" {
		v.Set("country", p.Country)
	}
	if p.Language != "" {
		v.Set("language", p.Language)
	}
	if len(v) == 0 {
		return RouteNews
	}
	return RouteNews + "?" + v.Encode()
}

// ParseRoute is the inverse of Route.String.
func ParseRoute(raw string) (Route, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Route{Name: RouteHome}, nil
	}

	name, rawQuery, _ := strings.Cut(raw, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: %w", raw, err)
	}

	switch name {
	case RouteHome, RouteSources, RouteCountries, RouteLanguages:
		return Route{Name: name}, nil
	case RouteNews:
		return Route{Name: name, Params: domain.NewsParams{
			Source:   q.Get("source"),
			Country:  q.Get("country"),
			Language: q.Get("language"),
		}}, nil
	case RouteSearch:
		return Route{Name: name, Query: q.Get("q")}, nil
	default:
		return Route{}, fmt.Errorf("unknown route %q", name)
	}
}

// RouteFor maps an event to its destination. Back has no route.
func RouteFor(e Event) (Route, bool) {
	switch ev := e.(type) {
	case ToNews:
		return Route{Name: RouteNews, Params: ev.Params}, true
	case ToSources:
		return Route{Name: RouteSources}, true
	case ToCountries:
		return Route{Name: RouteCountries}, true
	case ToLanguages:
		return Route{Name: RouteLanguages}, true
	case ToSearch:
		return Route{Name: RouteSearch}, true
	default:
		return Route{}, false
	}
}

// Navigator shows screens.
type Navigator interface {
	Navigate(ctx context.Context, route Route) error
	Back(ctx context.Context) error
}

// Coordinator consumes events from a Channel and drives a Navigator.
type Coordinator struct {
	ch  *Channel
	nav Navigator
	log logger.Logger
}

func NewCoordinator(ch *Channel, nav Navigator, log logger.Logger) *Coordinator {
	return &Coordinator{ch: ch, nav: nav, log: logger.Ensure(log)}
}

// Run handles events until ctx is done. Navigator errors are logged and the
// event is still consumed.
func (c *Coordinator) Run(ctx context.Context) error {
	for e := range c.ch.Events(ctx) {
		if err := c.Handle(ctx, e); err != nil {
			c.log.WarnObj("navigation failed", "navigation_error", map[string]any{
				"event": fmt.Sprintf("%T", e),
				"error": err.Error(),
			})
		}
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Handle performs one event and consumes it from the channel.
func (c *Coordinator) Handle(ctx context.Context, e Event) error {
	defer c.ch.Consume(e)

	if _, ok := e.(Back); ok {
		return c.nav.Back(ctx)
	}
	route, ok := RouteFor(e)
	if !ok {
		return fmt.Errorf("no route for event %T", e)
	}
	c.log.DebugObj("navigate", "route", route.String())
	return c.nav.Navigate(ctx, route)
}
