package reviews

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

const (
	// MaxCards is how many reviews the page shows.
	MaxCards = 6

	DefaultAuthor = "Avaliador do Google"
	DefaultText   = "Avaliação sem texto."

	starFull  = "★"
	starHalf  = "½"
	starEmpty = "☆"
)

// Stars renders a rating as exactly five glyphs: floor(rating) full stars,
// a half star when the fraction is at least .5, empty stars for the rest.
// Ratings are clamped to [0, 5].
func Stars(rating float64) string {
	if math.IsNaN(rating) {
		rating = 0
	}
	rating = math.Max(0, math.Min(5, rating))
	full := int(math.Floor(rating))
	half := 0
	if full < 5 && rating-float64(full) >= 0.5 {
		half = 1
	}
	return strings.Repeat(starFull, full) +
		strings.Repeat(starHalf, half) +
		strings.Repeat(starEmpty, 5-full-half)
}

// DisplayRating is the rating a card shows: missing or zero ratings count
// as five stars.
func DisplayRating(r Record) float64 {
	if r.Rating <= 0 {
		return 5
	}
	return r.Rating
}

// Author returns the author name or the generic reviewer label.
func Author(r Record) string {
	return firstNonEmpty(r.AuthorName, DefaultAuthor)
}

// Body returns the review text or the placeholder for text-less reviews.
func Body(r Record) string {
	return firstNonEmpty(r.Text, DefaultText)
}

// AvatarURL is the generated initials avatar in the site colours.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", name)
	q.Set("background", "722F37")
	q.Set("color", "fff")
	q.Set("size", "128")
	return "https://ui-avatars.com/api/?" + q.Encode()
}

// Photo returns the author photo or a generated avatar.
func Photo(r Record) string {
	return firstNonEmpty(r.AuthorPhotoURL, AvatarURL(Author(r)))
}

var months = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatRelative describes t relative to now in Portuguese. Elapsed time is
// counted in whole days, rounding down; future times count as zero.
func FormatRelative(t, now time.Time) string {
	days := int(now.Sub(t) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	switch {
	case days == 0:
		return "Hoje"
	case days == 1:
		return "Ontem"
	case days < 30:
		return fmt.Sprintf("Há %d dias", days)
	case days < 365:
		m := days / 30
		if m == 1 {
			return "Há 1 mês"
		}
		return fmt.Sprintf("Há %d meses", m)
	}
	return fmt.Sprintf("%s de %d", months[t.Month()-1], t.Year())
}

// Date formats the record timestamp, or returns "" when there is none.
func Date(r Record, now time.Time) string {
	if r.Timestamp == nil {
		return ""
	}
	return FormatRelative(*r.Timestamp, now)
}

// Top returns at most MaxCards reviews.
func Top(rs []Record) []Record {
	if len(rs) > MaxCards {
		return rs[:MaxCards]
	}
	return rs
}
