//go:build js && wasm

// Command vitrine-wasm binds the page widgets to the DOM. Build it with
//
//	GOOS=js GOARCH=wasm go build -o public/vitrine.wasm ./cmd/vitrine-wasm
//
// and load it with Go's wasm_exec.js. Every widget is optional: a page
// without the matching markup simply skips it.
package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eringen/vitrine/logging"
)

var log zerolog.Logger

func main() {
	logging.Init(logging.Config{Level: "warn", Format: "console"})
	log = logging.With("page")

	onReady(func() {
		carousels := bindCarousels()
		lb := bindLightbox()
		bindKeyboard(carousels, lb)
		bindFloatButton()
		bindReveal()
		bindAnchors()
		bindEmbeds(context.Background())
		go loadReviews(context.Background())
	})

	select {}
}
