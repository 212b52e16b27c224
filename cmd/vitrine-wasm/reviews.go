//go:build js && wasm

package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"syscall/js"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/vitrine/reviews"
	"github.com/eringen/vitrine/views"
)

// loadReviews fills .cards-avaliacoes from the proxy and adds the rating
// badge after .subtitulo-avaliacoes. Failures replace only the cards.
func loadReviews(ctx context.Context) {
	cards := query(document, ".cards-avaliacoes")
	if !present(cards) {
		return
	}
	c := &reviews.ProxyClient{BaseURL: window.Get("location").Get("origin").String()}
	sum, err := c.Fetch(ctx)

	var pe *reviews.ProxyError
	switch {
	case errors.As(err, &pe) && pe.Status == http.StatusInternalServerError:
		log.Warn().Err(err).Msg("reviews not configured")
		setHTML(cards, views.ReviewsError(views.MsgNotConfigured))
		return
	case err != nil:
		log.Warn().Err(err).Msg("reviews unavailable")
		setHTML(cards, views.ReviewsError(views.MsgUnavailable))
		return
	case len(sum.Reviews) == 0:
		setHTML(cards, views.ReviewsError(views.MsgNoReviews))
		return
	}

	setHTML(cards, views.ReviewCards(sum.Reviews, time.Now()))
	showBadge(views.ReviewsBadge(views.Badge{Rating: sum.Rating, Count: sum.UserRatingCount}))
}

func showBadge(badge templ.Component) {
	if !present(query(document, ".avaliacoes")) {
		return
	}
	markup, err := renderString(badge)
	if err != nil {
		return
	}
	if existing := query(document, ".google-reviews-badge"); present(existing) {
		existing.Set("outerHTML", markup)
		return
	}
	if subtitle := query(document, ".subtitulo-avaliacoes"); present(subtitle) {
		subtitle.Call("insertAdjacentHTML", "afterend", markup)
	}
}

func setHTML(el js.Value, c templ.Component) {
	markup, err := renderString(c)
	if err != nil {
		log.Warn().Err(err).Msg("render reviews")
		return
	}
	el.Set("innerHTML", markup)
}

func renderString(c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(context.Background(), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
