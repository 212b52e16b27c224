package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/vitrine/embed"
)

// EmbedFrame renders the iframe for one embed placeholder.
func EmbedFrame(f embed.Frame) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<iframe`)
		for _, a := range f.Attrs() {
			h.raw(` `, a.Name, `="`)
			if a.Name == "src" {
				h.url(a.Value)
			} else {
				h.text(a.Value)
			}
			h.raw(`"`)
		}
		h.raw(`></iframe>`)
		return h.err
	})
}
