package widgets

import "strings"

// Scroller is an element that can be scrolled into view.
type Scroller interface {
	ScrollIntoView(smooth bool, block string)
}

// Finder resolves an element id to a Scroller, or nil.
type Finder interface {
	Lookup(id string) Scroller
}

// AnchorID extracts the id from an in-page "#id" href.
func AnchorID(href string) (string, bool) {
	id, ok := strings.CutPrefix(strings.TrimSpace(href), "#")
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ScrollToAnchor smooth-scrolls to the href's target, aligned to the top.
// The caller prevents default navigation for every "#" link; a missing target
// is a no-op and reported as false.
func ScrollToAnchor(href string, doc Finder) bool {
	id, ok := AnchorID(href)
	if !ok {
		return false
	}
	target := doc.Lookup(id)
	if target == nil {
		return false
	}
	target.ScrollIntoView(true, "start")
	return true
}
