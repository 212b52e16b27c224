package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/vitrine"
	"github.com/eringen/vitrine/logging"
	"github.com/eringen/vitrine/reviews"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "serve":
		if err := serve(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case "setup-keys":
		return setupKeys(args[1:], os.Getenv, stdout, stderr)
	case "reviews":
		if err := previewReviews(stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	case "version":
		fmt.Fprintf(stdout, "vitrine %s\n", version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `vitrine - site server with a Google reviews proxy

Usage:
  vitrine <command> [arguments]

Commands:
  serve                               Start the HTTP server
  setup-keys [API_KEY PLACE_ID TOKEN] Send Places credentials to a running server
  reviews                             Fetch reviews with the current config and print them
  version                             Print the vitrine version
  help                                Show this help message

Configuration is read from the environment, or from the file in CONFIG_PATH.`)
}

func loadConfig() (vitrine.SiteConfig, error) {
	cfg, err := vitrine.LoadConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, nil
}

func serve() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := vitrine.New(cfg)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

// previewReviews runs the same fetch the endpoint does and prints the cards
// as text.
func previewReviews(w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := vitrine.New(cfg)
	defer app.Close()
	if err := app.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Places.Timeout+time.Second)
	defer cancel()
	sum, err := app.Reviews.Fetch(ctx)
	if errors.Is(err, reviews.ErrNotConfigured) {
		return errors.New("GOOGLE_API_KEY and GOOGLE_PLACE_ID (or stored credentials) are required")
	}
	if err != nil {
		return err
	}
	printSummary(w, sum, time.Now())
	return nil
}

func printSummary(w io.Writer, sum reviews.Summary, now time.Time) {
	fmt.Fprintf(w, "%.1f de 5 estrelas (%d avaliações)\n\n", sum.Rating, sum.UserRatingCount)
	for _, r := range reviews.Top(sum.Reviews) {
		fmt.Fprintf(w, "%s  %s", reviews.Stars(reviews.DisplayRating(r)), reviews.Author(r))
		if d := reviews.Date(r, now); d != "" {
			fmt.Fprintf(w, "  (%s)", d)
		}
		fmt.Fprintf(w, "\n%s\n\n", reviews.Body(r))
	}
}
