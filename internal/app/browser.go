package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/khobor-reader/internal/domain"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/navigation"
	"github.com/Adda-Baaj/khobor-reader/internal/screens"
)

// ErrQuit is returned by Input when the user asks to leave.
var ErrQuit = errors.New("quit")

// BrowserOptions tunes how screens load.
type BrowserOptions struct {
	// Pages is how many article pages a feed screen loads on open.
	Pages    int
	Debounce time.Duration
}

// Browser renders screens as plain text and implements navigation.Navigator.
// Screen models post events; Input hands them to the coordinator.
type Browser struct {
	uc    screens.NewsUseCases
	nav   *navigation.Channel
	coord *navigation.Coordinator
	out   io.Writer
	opts  BrowserOptions
	log   logger.Logger

	mu      sync.Mutex
	history []navigation.Route
	current view
}

type view interface {
	render(w io.Writer)
	input(ctx context.Context, cmd string) error
	close()
}

func NewBrowser(uc screens.NewsUseCases, nav *navigation.Channel, out io.Writer, opts BrowserOptions, log logger.Logger) *Browser {
	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	b := &Browser{uc: uc, nav: nav, out: out, opts: opts, log: logger.Ensure(log)}
	b.coord = navigation.NewCoordinator(nav, b, b.log)
	return b
}

// Navigate opens r on top of the history and renders it.
func (b *Browser) Navigate(ctx context.Context, r navigation.Route) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, err := b.open(ctx, r)
	if err != nil {
		return err
	}
	b.replace(v)
	b.history = append(b.history, r)
	b.current.render(b.out)
	return nil
}

// Back reopens the previous screen. At the root it does nothing.
func (b *Browser) Back(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.history) < 2 {
		return nil
	}
	prev := b.history[len(b.history)-2]
	v, err := b.open(ctx, prev)
	if err != nil {
		return err
	}
	b.replace(v)
	b.history = b.history[:len(b.history)-1]
	b.current.render(b.out)
	return nil
}

// Current is the route on screen.
func (b *Browser) Current() (navigation.Route, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.history) == 0 {
		return navigation.Route{}, false
	}
	return b.history[len(b.history)-1], true
}

// Input applies one command line to the current screen and follows any
// navigation it triggers.
func (b *Browser) Input(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	switch line {
	case "q", "quit", "exit":
		return ErrQuit
	case "b", "back":
		b.nav.Post(navigation.Back{})
	case "":
	default:
		b.mu.Lock()
		v := b.current
		b.mu.Unlock()
		if v == nil {
			return b.Navigate(ctx, navigation.Route{Name: navigation.RouteHome})
		}
		if err := v.input(ctx, line); err != nil {
			fmt.Fprintf(b.out, "! %v\n", err)
			return nil
		}
	}

	if e := b.nav.Pending(); e != nil {
		return b.coord.Handle(ctx, e)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		b.current.render(b.out)
	}
	return nil
}

// Close releases the screen on display.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replace(nil)
}

func (b *Browser) replace(v view) {
	if b.current != nil {
		b.current.close()
	}
	b.current = v
}

func (b *Browser) open(ctx context.Context, r navigation.Route) (view, error) {
	switch r.Name {
	case navigation.RouteHome:
		return homeView{m: screens.NewHomeModel(b.nav)}, nil
	case navigation.RouteSources:
		m := screens.NewSourcesModel(ctx, b.uc, b.nav)
		return &listView[domain.Source]{
			title: "Sources",
			state: m.State().Value,
			label: func(s domain.Source) string { return fmt.Sprintf("%s (%s)", s.Name, s.ID) },
			key:   func(s domain.Source) string { return s.ID },
			pick:  m.Select,
			retry: m.TryAgain,
		}, nil
	case navigation.RouteCountries:
		m := screens.NewCountriesModel(ctx, b.uc, b.nav)
		return &listView[domain.Country]{
			title: "Countries",
			state: m.State().Value,
			label: func(c domain.Country) string { return fmt.Sprintf("%s (%s)", c.Name, c.Code) },
			key:   func(c domain.Country) string { return c.Code },
			pick:  m.Select,
			retry: m.TryAgain,
		}, nil
	case navigation.RouteLanguages:
		m := screens.NewLanguagesModel(ctx, b.uc, b.nav)
		return &listView[domain.Language]{
			title: "Languages",
			state: m.State().Value,
			label: func(l domain.Language) string { return fmt.Sprintf("%s (%s)", l.Name, l.Code) },
			key:   func(l domain.Language) string { return l.Code },
			pick:  m.Select,
			retry: m.TryAgain,
		}, nil
	case navigation.RouteNews:
		m := screens.NewNewsModel(b.uc, b.nav)
		m.UpdateParams(ctx, r.Params.Source, r.Params.Country, r.Params.Language)
		v := &feedView{title: "Headlines " + r.String(), state: m.State().Value, more: m.LoadMore, retry: m.Retry}
		v.fill(ctx, b.opts.Pages)
		return v, nil
	case navigation.RouteSearch:
		m := screens.NewSearchModel(ctx, b.uc, b.nav, b.opts.Debounce)
		v := &feedView{title: "Search", state: m.State().Value, more: m.LoadMore, retry: m.Retry, done: m.Close}
		v.search = func(ctx context.Context, q string) {
			m.Submit(ctx, q)
			v.title = fmt.Sprintf("Search %q", q)
			v.fill(ctx, b.opts.Pages)
		}
		if r.Query != "" {
			v.search(ctx, r.Query)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unknown route %q", r.Name)
	}
}

type homeView struct {
	m *screens.HomeModel
}

func (homeView) render(w io.Writer) {
	fmt.Fprintln(w, "khobor reader")
	fmt.Fprintln(w, "  1) Top headlines")
	fmt.Fprintln(w, "  2) Sources")
	fmt.Fprintln(w, "  3) Countries")
	fmt.Fprintln(w, "  4) Languages")
	fmt.Fprintln(w, "  5) Search")
	fmt.Fprintln(w, "[1-5] open  [q] quit")
}

func (v homeView) input(_ context.Context, cmd string) error {
	actions := map[string]func(){
		"1": v.m.TopHeadlines,
		"2": v.m.Sources,
		"3": v.m.Countries,
		"4": v.m.Languages,
		"5": v.m.Search,
	}
	act, ok := actions[cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	act()
	return nil
}

func (homeView) close() {}

type listView[T any] struct {
	title string
	state func() screens.UIState[[]T]
	label func(T) string
	key   func(T) string
	pick  func(string)
	retry func(context.Context)
}

func (v *listView[T]) render(w io.Writer) {
	fmt.Fprintln(w, v.title)
	st := v.state()
	switch st.Status {
	case screens.StatusLoading:
		fmt.Fprintln(w, "  loading...")
	case screens.StatusError:
		fmt.Fprintf(w, "  error: %s\n", st.Message)
		fmt.Fprintln(w, "[r] try again  [b] back  [q] quit")
	default:
		for i, item := range st.Data {
			fmt.Fprintf(w, "  %d) %s\n", i+1, v.label(item))
		}
		fmt.Fprintln(w, "[number] open  [b] back  [q] quit")
	}
}

func (v *listView[T]) input(ctx context.Context, cmd string) error {
	if cmd == "r" {
		v.retry(ctx)
		return nil
	}
	st := v.state()
	n, err := strconv.Atoi(cmd)
	if err != nil || st.Status != screens.StatusSuccess || n < 1 || n > len(st.Data) {
		return fmt.Errorf("unknown command %q", cmd)
	}
	v.pick(v.key(st.Data[n-1]))
	return nil
}

func (v *listView[T]) close() {}

type feedView struct {
	title  string
	state  func() screens.FeedState
	more   func(context.Context)
	retry  func(context.Context)
	search func(context.Context, string)
	done   func()
}

// fill loads pages until n are on screen, the feed ends or a load fails.
func (v *feedView) fill(ctx context.Context, n int) {
	for i := 1; i < n; i++ {
		st := v.state()
		if st.EndReached || st.Message != "" {
			return
		}
		v.more(ctx)
	}
}

func (v *feedView) render(w io.Writer) {
	fmt.Fprintln(w, v.title)
	st := v.state()
	for i, a := range st.Items {
		fmt.Fprintf(w, "  %d. %s\n", i+1, a.Title)
		if meta := byline(a); meta != "" {
			fmt.Fprintf(w, "     %s\n", meta)
		}
		fmt.Fprintf(w, "     %s\n", a.URL)
	}
	switch {
	case st.Refresh == screens.StatusLoading || st.Append == screens.StatusLoading:
		fmt.Fprintln(w, "  loading...")
	case st.Message != "":
		fmt.Fprintf(w, "  error: %s\n", st.Message)
	case len(st.Items) == 0:
		fmt.Fprintln(w, "  no articles")
	}

	var keys []string
	if st.Message != "" {
		keys = append(keys, "[r] retry")
	} else if !st.EndReached {
		keys = append(keys, "[n] more")
	}
	if v.search != nil {
		keys = append(keys, "[text] search")
	}
	keys = append(keys, "[b] back", "[q] quit")
	fmt.Fprintln(w, strings.Join(keys, "  "))
}

func byline(a domain.Article) string {
	var parts []string
	for _, p := range []string{a.SourceName, a.Author, a.PublishedAt} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}

func (v *feedView) input(ctx context.Context, cmd string) error {
	switch {
	case cmd == "n":
		v.more(ctx)
	case cmd == "r":
		v.retry(ctx)
	case v.search != nil:
		v.search(ctx, cmd)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (v *feedView) close() {
	if v.done != nil {
		v.done()
	}
}
