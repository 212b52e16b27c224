package embed

// Attr is one HTML attribute.
type Attr struct {
	Name  string
	Value string
}

const (
	// FrameHeight fits a portrait post with its caption header.
	FrameHeight = "600"

	frameAllow = "autoplay; clipboard-write; encrypted-media; picture-in-picture; web-share; fullscreen"
	frameStyle = "width:100%;min-height:480px;border:0;visibility:visible;opacity:1;pointer-events:auto;"
)

// Frame is the iframe built for one placeholder.
type Frame struct {
	Src   string
	Title string
}

// Attrs returns the iframe attributes in render order. In-app browsers need
// the explicit allow list, eager loading and forced visibility to play and
// receive taps.
func (f Frame) Attrs() []Attr {
	title := f.Title
	if title == "" {
		title = "Publicação do Instagram"
	}
	return []Attr{
		{"src", f.Src},
		{"title", title},
		{"width", "100%"},
		{"height", FrameHeight},
		{"frameborder", "0"},
		{"scrolling", "no"},
		{"allowtransparency", "true"},
		{"allowfullscreen", "true"},
		{"allow", frameAllow},
		{"loading", "eager"},
		{"style", frameStyle},
	}
}

// PatchAttrs are applied to iframes created by the provider script.
func PatchAttrs() []Attr {
	return []Attr{
		{"allowtransparency", "true"},
		{"allowfullscreen", "true"},
		{"allow", frameAllow},
		{"loading", "eager"},
		{"style", frameStyle},
	}
}
