package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestNewsRouteRoundTrip(t *testing.T) {
	tcs := []struct {
		params domain.NewsParams
		want   string
	}{
		{domain.NewsParams{}, "news"},
		{domain.NewsParams{Country: "us"}, "news?country=us"},
		{domain.NewsParams{Source: "bbc-news", Language: "en"}, "news?language=en&source=bbc-news"},
	}
	for _, tc := range tcs {
		route := NewsRoute(tc.params)
		require.Equal(t, tc.want, route)

		parsed, err := ParseRoute(route)
		require.NoError(t, err)
		require.Equal(t, RouteNews, parsed.Name)
		require.Equal(t, tc.params, parsed.Params)
	}
}

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute("")
	require.NoError(t, err)
	require.Equal(t, RouteHome, r.Name)

	r, err = ParseRoute("search?q=climate+change")
	require.NoError(t, err)
	require.Equal(t, "climate change", r.Query)
	require.Equal(t, "search?q=climate+change", r.String())

	for _, name := range []string{RouteSources, RouteCountries, RouteLanguages} {
		r, err := ParseRoute(name)
		require.NoError(t, err)
		require.Equal(t, name, r.String())
	}

	_, err = ParseRoute("settings")
	require.Error(t, err)
	_, err = ParseRoute("news?country=%zz")
	require.Error(t, err)
}

func TestChannelKeepsLatestEvent(t *testing.T) {
	ch := NewChannel()
	require.Nil(t, ch.Pending())

	ch.Post(ToSources{})
	ch.Post(ToCountries{})
	require.Equal(t, ToCountries{}, ch.Pending())

	ch.Consume(ToSources{})
	require.Equal(t, ToCountries{}, ch.Pending(), "consuming a stale event keeps the newer one")

	ch.Consume(ToCountries{})
	require.Nil(t, ch.Pending())
}

type recordingNavigator struct {
	mu     sync.Mutex
	routes []Route
	backs  int
	err    error
}

func (n *recordingNavigator) Navigate(_ context.Context, r Route) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, r)
	return n.err
}

func (n *recordingNavigator) Back(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.backs++
	return nil
}

func (n *recordingNavigator) seen() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.routes...)
}

func TestCoordinatorHandle(t *testing.T) {
	ch := NewChannel()
	nav := &recordingNavigator{}
	c := NewCoordinator(ch, nav, nil)
	ctx := context.Background()

	ev := ToNews{Params: domain.NewsParams{Country: TopHeadlinesCountry}}
	ch.Post(ev)
	require.NoError(t, c.Handle(ctx, ev))
	require.Nil(t, ch.Pending())
	require.Equal(t, []Route{{Name: RouteNews, Params: domain.NewsParams{Country: "us"}}}, nav.seen())

	require.NoError(t, c.Handle(ctx, Back{}))
	require.Equal(t, 1, nav.backs)

	nav.err = errors.New("no screen")
	require.Error(t, c.Handle(ctx, ToSearch{}))
}

func TestCoordinatorRun(t *testing.T) {
	ch := NewChannel()
	nav := &recordingNavigator{}
	c := NewCoordinator(ch, nav, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	ch.Post(ToLanguages{})
	require.Eventually(t, func() bool { return len(nav.seen()) == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return ch.Pending() == nil }, time.Second, 5*time.Millisecond)

	ch.Post(ToSources{})
	require.Eventually(t, func() bool { return len(nav.seen()) == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, RouteSources, nav.seen()[1].Name)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("coordinator did not stop")
	}
}
