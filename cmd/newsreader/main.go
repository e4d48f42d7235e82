package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/khobor-reader/internal/app"
	"github.com/Adda-Baaj/khobor-reader/internal/config"
	"github.com/Adda-Baaj/khobor-reader/internal/logger"
	"github.com/Adda-Baaj/khobor-reader/internal/navigation"
)

const relayCommand = "relay"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "newsreader: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("newsreader", flag.ContinueOnError)
	pages := fs.Int("pages", 1, "article pages to load when a headlines or search screen opens")
	interactive := fs.Bool("i", false, "keep reading commands from stdin after the first screen")
	once := fs.Bool("once", false, "with relay: run a single pass and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: newsreader [flags] [home | news?country=us | sources | countries | languages | search?q=... | relay]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	target := fs.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reader, err := app.NewReader(cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize reader", "error", err.Error())
		return err
	}

	if target == relayCommand {
		return runRelay(ctx, cfg, reader, log, *once, out)
	}

	route, err := navigation.ParseRoute(target)
	if err != nil {
		return err
	}

	browser := app.NewBrowser(reader.UseCases, navigation.NewChannel(), out, app.BrowserOptions{
		Pages:    *pages,
		Debounce: cfg.SearchDebounce,
	}, log)
	defer browser.Close()

	if err := browser.Navigate(ctx, route); err != nil {
		return err
	}
	if !*interactive {
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		err := browser.Input(ctx, scanner.Text())
		if errors.Is(err, app.ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "! %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

func runRelay(ctx context.Context, cfg *config.Config, reader *app.Reader, log logger.Logger, once bool, out io.Writer) error {
	r, err := app.NewRelay(ctx, cfg, reader, log)
	if err != nil {
		logger.ErrorObj("failed to initialize relay", "error", err.Error())
		return err
	}
	if !once {
		return r.Run(ctx)
	}

	results, err := r.RunOnce(ctx)
	for _, res := range results {
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		fmt.Fprintf(out, "%s: pages=%d fetched=%d new=%d published=%d %s\n",
			res.FeedID, res.Pages, res.Fetched, res.New, res.Published, status)
	}
	return err
}
