package views

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/vitrine/reviews"
)

// ReviewCard renders one .card-avaliacoes entry. Author and text are escaped;
// the photo falls back to a generated avatar.
func ReviewCard(r reviews.Record, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		writeCard(h, r, now)
		return h.err
	})
}

func writeCard(h *html, r reviews.Record, now time.Time) {
	author := reviews.Author(r)
	h.raw(`<div class="card-avaliacao"><div class="perfil-paciente"><img src="`)
	h.url(reviews.Photo(r))
	h.raw(`" alt="Foto de `)
	h.text(author)
	h.raw(`" data-fallback="`)
	h.url(reviews.AvatarURL(author))
	h.raw(`" loading="lazy"><div><h4>`)
	h.text(author)
	h.raw(`</h4><div class="estrelas">`)
	h.text(reviews.Stars(reviews.DisplayRating(r)))
	h.raw(`</div>`)
	if date := reviews.Date(r, now); date != "" {
		h.raw(`<span class="review-date">`)
		h.text(date)
		h.raw(`</span>`)
	}
	h.raw(`</div></div><p>`)
	h.text(reviews.Body(r))
	h.raw(`</p></div>`)
}

// ReviewCards renders at most reviews.MaxCards cards.
func ReviewCards(rs []reviews.Record, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		for _, r := range reviews.Top(rs) {
			writeCard(h, r, now)
		}
		return h.err
	})
}

// ReviewsBadge renders the aggregate rating line.
func ReviewsBadge(b Badge) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="google-reviews-badge"><div class="reviews-badge-content">`,
			`<span class="google-logo">⭐</span><span class="rating-text"><strong>`)
		h.text(FormatRating(b.Rating))
		h.raw(`</strong> de 5 estrelas <span class="review-count">(`)
		h.text(Count(b.Count))
		h.raw(`)</span></span></div></div>`)
		return h.err
	})
}

// ReviewsError renders the inline error block that replaces the dynamic
// cards.
func ReviewsError(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<div class="`, classList("reviews-error", "col-span-full"), `" role="status"><p>`)
		h.text(msg)
		h.raw(`</p><p class="reviews-error-note">`, msgStaticKept, `</p></div>`)
		return h.err
	})
}

// ReviewsFragment is the server-rendered reviews block: badge and cards, or
// the no-reviews message when the place has none.
func ReviewsFragment(s reviews.Summary, now time.Time) templ.Component {
	if len(s.Reviews) == 0 {
		return ReviewsError(MsgNoReviews)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ReviewsBadge(Badge{Rating: s.Rating, Count: s.UserRatingCount}).Render(ctx, w); err != nil {
			return err
		}
		h := &html{w: w}
		h.raw(`<div class="cards-avaliacoes">`)
		if h.err != nil {
			return h.err
		}
		if err := ReviewCards(s.Reviews, now).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</div>`)
		return h.err
	})
}
