//go:build js && wasm

package main

import (
	"context"
	"errors"
	"sync"
	"syscall/js"

	"github.com/eringen/vitrine/embed"
	"github.com/eringen/vitrine/observe"
)

const (
	embedSelector      = ".instagram-embed"
	instagramScriptURL = "https://www.instagram.com/embed.js"
	processedAttr      = "data-embed-processed"
)

// slot is one embed placeholder: <div class="instagram-embed" data-permalink="...">.
type slot struct{ el js.Value }

func (s slot) Permalink() string { return attr(s.el, "data-permalink") }
func (s slot) HasFrame() bool    { return present(query(s.el, "iframe")) }
func (s slot) Processed() bool   { return attr(s.el, processedAttr) == "true" }
func (s slot) MarkProcessed()    { s.el.Call("setAttribute", processedAttr, "true") }

func (s slot) InsertFrame(f embed.Frame) {
	iframe := document.Call("createElement", "iframe")
	for _, a := range f.Attrs() {
		iframe.Call("setAttribute", a.Name, a.Value)
	}
	s.el.Set("innerHTML", "")
	s.el.Call("appendChild", iframe)
}

func (s slot) PatchFrame(attrs []embed.Attr) {
	for _, iframe := range queryAll(s.el, "iframe") {
		for _, a := range attrs {
			iframe.Call("setAttribute", a.Name, a.Value)
		}
	}
}

func slots() []embed.Container {
	var out []embed.Container
	for _, el := range queryAll(document, embedSelector) {
		out = append(out, slot{el: el})
	}
	return out
}

// instagramScript loads embed.js once. A failed load is retried on the next
// pass.
type instagramScript struct {
	mu   sync.Mutex
	done chan struct{}
	err  error
}

func (p *instagramScript) Load(ctx context.Context) error {
	if present(window.Get("instgrm")) {
		return nil
	}
	p.mu.Lock()
	if p.done == nil {
		p.done = make(chan struct{})
		p.inject(p.done)
	}
	done := p.done
	p.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	if err != nil && p.done == done {
		p.done = nil
		p.err = nil
	}
	return err
}

func (p *instagramScript) inject(done chan struct{}) {
	script := document.Call("createElement", "script")
	script.Set("async", true)
	script.Set("src", instagramScriptURL)

	var onload, onerror js.Func
	finish := func(err error) {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(done)
		onload.Release()
		onerror.Release()
	}
	onload = js.FuncOf(func(js.Value, []js.Value) any {
		finish(nil)
		return nil
	})
	onerror = js.FuncOf(func(js.Value, []js.Value) any {
		script.Call("remove")
		finish(errors.New("embed: instagram script failed to load"))
		return nil
	})
	script.Set("onload", onload)
	script.Set("onerror", onerror)
	document.Get("body").Call("appendChild", script)
}

func (p *instagramScript) Process() {
	embeds := window.Get("instgrm")
	if present(embeds) {
		embeds.Get("Embeds").Call("process")
	}
}

func probeCapabilities() embed.Capabilities {
	nav := window.Get("navigator")
	touch := !window.Get("ontouchstart").IsUndefined()
	if mtp := nav.Get("maxTouchPoints"); present(mtp) && mtp.Int() > 0 {
		touch = true
	}
	return embed.Capabilities{
		ViewportWidth: window.Get("innerWidth").Int(),
		Touch:         touch,
		UserAgent:     nav.Get("userAgent").String(),
	}
}

// bindEmbeds starts rehydration. Triggers coming from JS callbacks run on
// their own goroutine, since a pass may wait for the provider script.
func bindEmbeds(ctx context.Context) {
	strategy := embed.SelectStrategy(probeCapabilities(), &instagramScript{})
	r := embed.NewRehydrator(embed.DocumentFunc(slots), strategy)
	log.Debug().Str("strategy", strategy.Name()).Msg("embed rehydration")

	var added observe.Watcher[embed.Container]
	r.Watch(&added)
	observeAdditions(&added)

	observeVisibility(func() { go r.Visible() })
	on(document, "visibilitychange", func(js.Value) {
		if document.Get("visibilityState").String() == "visible" {
			go r.VisibilityChange()
		}
	})
	guardLinks()

	go r.Start(ctx)
}

// observeAdditions feeds placeholders added after load into w.
func observeAdditions(w *observe.Watcher[embed.Container]) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var found []embed.Container
		records := args[0]
		for i := 0; i < records.Length(); i++ {
			nodes := records.Index(i).Get("addedNodes")
			for j := 0; j < nodes.Length(); j++ {
				n := nodes.Index(j)
				if n.Get("nodeType").Int() != 1 {
					continue
				}
				if n.Call("matches", embedSelector).Bool() {
					found = append(found, slot{el: n})
				}
				for _, el := range queryAll(n, embedSelector) {
					found = append(found, slot{el: el})
				}
			}
		}
		if len(found) > 0 {
			go w.Added(found...)
		}
		return nil
	})
	funcs = append(funcs, cb)
	mo := window.Get("MutationObserver").New(cb)
	mo.Call("observe", document.Get("body"), map[string]any{"childList": true, "subtree": true})
}

// observeVisibility calls fn whenever a placeholder scrolls into view.
func observeVisibility(fn func()) {
	ctor := window.Get("IntersectionObserver")
	if !present(ctor) {
		return
	}
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		entries := args[0]
		for i := 0; i < entries.Length(); i++ {
			if entries.Index(i).Get("isIntersecting").Bool() {
				fn()
				return nil
			}
		}
		return nil
	})
	funcs = append(funcs, cb)
	io := ctor.New(cb, map[string]any{"rootMargin": "200px 0px"})
	for _, el := range queryAll(document, embedSelector) {
		io.Call("observe", el)
	}
}

// guardLinks keeps taps on raw provider links inside embeds from leaving
// the page.
func guardLinks() {
	block := func(ev js.Value) {
		a := ev.Get("target").Call("closest", "a")
		if !present(a) || !present(a.Call("closest", embedSelector)) {
			return
		}
		if embed.InterceptLink(a.Get("href").String()) {
			ev.Call("preventDefault")
		}
	}
	on(document, "click", block)
	on(document, "touchend", block)
}
