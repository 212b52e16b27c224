// Package embed turns static social-post placeholders into live iframes,
// either by building the iframe directly or by delegating to the provider's
// own embed script and patching what it produces.
package embed

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrEmptyPermalink   = errors.New("embed: empty permalink")
	ErrInvalidPermalink = errors.New("embed: invalid permalink")
	// ErrNoContentPath is returned for domain-only permalinks, which have no
	// post to embed.
	ErrNoContentPath = errors.New("embed: permalink has no content path")
)

// contentKinds are path segments followed by a shortcode.
var contentKinds = map[string]bool{
	"p":     true,
	"reel":  true,
	"reels": true,
	"tv":    true,
	"embed": true,
}

// EmbedURL normalizes a permalink into the provider's embed form:
// an absolute https URL, /p/CODE/ (and reel, tv) rewritten to /embed/CODE/,
// query and fragment dropped, trailing slash guaranteed.
// A path without a known content segment followed by a shortcode returns
// ErrNoContentPath.
func EmbedURL(permalink string) (string, error) {
	raw := strings.TrimSpace(permalink)
	if raw == "" {
		return "", ErrEmptyPermalink
	}
	switch {
	case strings.HasPrefix(raw, "//"):
		raw = "https:" + raw
	case !strings.Contains(raw, "://"):
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPermalink, permalink, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidPermalink, permalink)
	}

	code := shortcode(splitPath(u.Path))
	if code == "" {
		return "", fmt.Errorf("%w: %q", ErrNoContentPath, permalink)
	}

	u.Scheme = "https"
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	u.RawPath = ""
	u.Path = "/embed/" + code + "/"
	return u.String(), nil
}

// shortcode returns the segment after the first content kind, or "".
func shortcode(segs []string) string {
	for i, seg := range segs {
		if contentKinds[strings.ToLower(seg)] && i+1 < len(segs) {
			return segs[i+1]
		}
	}
	return ""
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// providerHosts are hosts whose plain links would navigate away from the page.
var providerHosts = map[string]bool{
	"instagram.com":     true,
	"www.instagram.com": true,
	"instagr.am":        true,
}

// InterceptLink reports whether a click or touch on href inside an embed
// container must be prevented: raw provider links are blocked, embed URLs
// and other hosts are not.
func InterceptLink(href string) bool {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.Host == "" {
		return false
	}
	if !providerHosts[strings.ToLower(u.Hostname())] {
		return false
	}
	segs := splitPath(u.Path)
	return len(segs) == 0 || segs[0] != "embed"
}
