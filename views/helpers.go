package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// html accumulates markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

// text writes s escaped for element content or a quoted attribute value.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// url writes a sanitized, escaped URL. Unsafe schemes are replaced by templ's
// failure marker.
func (h *html) url(s string) {
	h.text(string(templ.URL(s)))
}

// FormatRating renders a rating with one decimal, as in "4.8".
func FormatRating(r float64) string {
	return fmt.Sprintf("%.1f", r)
}

// Count pluralizes the review count label.
func Count(n int) string {
	if n == 1 {
		return "1 avaliação"
	}
	return fmt.Sprintf("%d avaliações", n)
}

func classList(names ...string) string {
	return strings.Join(names, " ")
}
