package embed

import (
	"context"
	"regexp"
	"sync"

	"github.com/eringen/vitrine/logging"
)

// Container is one embed placeholder in the page.
type Container interface {
	Permalink() string
	HasFrame() bool
	InsertFrame(Frame)
	PatchFrame(attrs []Attr)
	Processed() bool
	MarkProcessed()
}

// Strategy performs one rehydration pass and returns how many containers
// still lack a working iframe.
type Strategy interface {
	Name() string
	Pass(ctx context.Context, containers []Container) int
}

// Provider is the third-party embed script.
type Provider interface {
	// Load injects the script. It is retried on later passes until it succeeds.
	Load(ctx context.Context) error
	// Process asks the loaded script to transform placeholder markup.
	Process()
}

// Capabilities are the client traits probed once at start-up.
type Capabilities struct {
	ViewportWidth int
	Touch         bool
	UserAgent     string
}

// ConstrainedViewport is the widest viewport treated as a phone.
const ConstrainedViewport = 768

var inAppBrowser = regexp.MustCompile(`(?i)(instagram|fban|fbav|fb_iab|line/|twitter|micromessenger|; wv\))`)

// Constrained reports whether the client is one where the provider script is
// unreliable: small viewports, touch devices and in-app browsers.
func (c Capabilities) Constrained() bool {
	if c.ViewportWidth > 0 && c.ViewportWidth <= ConstrainedViewport {
		return true
	}
	return c.Touch || inAppBrowser.MatchString(c.UserAgent)
}

// SelectStrategy picks direct construction for constrained clients or when no
// provider is available, and provider delegation otherwise.
func SelectStrategy(caps Capabilities, p Provider) Strategy {
	if p == nil || caps.Constrained() {
		return Direct{}
	}
	return NewProviderScript(p)
}

// Direct builds iframes from the permalink without the provider script.
type Direct struct{}

func (Direct) Name() string { return "direct" }

func (Direct) Pass(_ context.Context, containers []Container) int {
	for _, c := range containers {
		if c.Processed() || c.HasFrame() {
			continue
		}
		src, err := EmbedURL(c.Permalink())
		if err != nil {
			logging.Warn().Err(err).Str("permalink", c.Permalink()).Msg("embed: skipping placeholder")
			c.MarkProcessed()
			continue
		}
		c.InsertFrame(Frame{Src: src})
		c.MarkProcessed()
	}
	return 0
}

// ProviderScript loads the provider script once, lets it process the page,
// then patches the iframes it created.
type ProviderScript struct {
	provider Provider

	mu     sync.Mutex
	loaded bool
}

// NewProviderScript wraps p.
func NewProviderScript(p Provider) *ProviderScript {
	return &ProviderScript{provider: p}
}

func (s *ProviderScript) Name() string { return "provider" }

func (s *ProviderScript) Pass(ctx context.Context, containers []Container) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := 0
	for _, c := range containers {
		if !c.Processed() {
			pending++
		}
	}
	if pending == 0 {
		return 0
	}

	if !s.loaded {
		if err := s.provider.Load(ctx); err != nil {
			logging.Warn().Err(err).Msg("embed: provider script failed to load")
			return pending
		}
		s.loaded = true
	}
	s.provider.Process()

	pending = 0
	for _, c := range containers {
		if c.Processed() {
			continue
		}
		if !c.HasFrame() {
			pending++
			continue
		}
		c.PatchFrame(PatchAttrs())
		c.MarkProcessed()
	}
	return pending
}
