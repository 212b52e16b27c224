package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/eringen/vitrine"
)

type keyArgs struct {
	APIKey  string
	PlaceID string
	Token   string
	BaseURL string
}

// resolveKeyArgs takes each value from the environment first, then from the
// positional arguments. The token defaults to empty, which the server
// rejects.
func resolveKeyArgs(args []string, getenv func(string) string) keyArgs {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	or := func(env string, i int) string {
		if v := getenv(env); v != "" {
			return v
		}
		return arg(i)
	}
	k := keyArgs{
		APIKey:  or("GOOGLE_API_KEY", 0),
		PlaceID: or("GOOGLE_PLACE_ID", 1),
		Token:   or("AUTH_TOKEN", 2),
		BaseURL: getenv("VITRINE_URL"),
	}
	if k.BaseURL == "" {
		port := getenv("PORT")
		if port == "" {
			port = "3000"
		}
		k.BaseURL = "http://localhost:" + port
	}
	return k
}

func printSetupUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage:
  vitrine setup-keys API_KEY PLACE_ID AUTH_TOKEN

Or with environment variables:
  GOOGLE_API_KEY=... GOOGLE_PLACE_ID=... AUTH_TOKEN=... vitrine setup-keys

The server is reached at http://localhost:$PORT (default 3000), or VITRINE_URL.`)
}

func setupKeys(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	k := resolveKeyArgs(args, getenv)
	if k.APIKey == "" || k.PlaceID == "" {
		fmt.Fprintln(stderr, "Error: API key and place id are required.")
		fmt.Fprintln(stderr)
		printSetupUsage(stderr)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	c := &vitrine.AdminClient{BaseURL: k.BaseURL, Token: k.Token}
	resp, err := c.PushCredentials(ctx, k.APIKey, k.PlaceID)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintf(stderr, "Check that the server is running at %s and AUTH_TOKEN matches.\n", k.BaseURL)
		return 1
	}
	fmt.Fprintln(stdout, resp.Message)
	return 0
}
