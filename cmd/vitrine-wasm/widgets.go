//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/eringen/vitrine/widgets"
)

type floatView struct{ el js.Value }

func (v floatView) ClearAnimation()         { setStyle(v.el, "animation", "none") }
func (v floatView) Pulse()                  { setStyle(v.el, "animation", "pulse 2s ease-in-out") }
func (v floatView) SetVisible(visible bool) { toggleClass(v.el, "visible", visible) }

func bindFloatButton() {
	el := byID("whatsappFloat")
	if !present(el) {
		return
	}
	b := widgets.NewFloatButton(floatView{el: el}, nil)
	b.Start()
	on(window, "scroll", func(js.Value) { b.OnScroll(window.Get("scrollY").Float()) })
}

type revealTarget struct{ el js.Value }

func (t revealTarget) Bounds() widgets.Rect {
	r := t.el.Call("getBoundingClientRect")
	return widgets.Rect{Top: r.Get("top").Float(), Bottom: r.Get("bottom").Float()}
}

func (t revealTarget) AddClass(name string) { t.el.Get("classList").Call("add", name) }

func bindReveal() {
	rv := &widgets.Reveal{}
	for _, el := range queryAll(document, "section, .card, .card-mais, .dif-item") {
		rv.Observe(revealTarget{el: el})
	}
	check := func(js.Value) {
		if rv.Pending() > 0 {
			rv.Check(window.Get("innerHeight").Float())
		}
	}
	on(window, "scroll", check)
	on(window, "resize", check)
	check(js.Undefined())
}

type scroller struct{ el js.Value }

func (s scroller) ScrollIntoView(smooth bool, block string) {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	s.el.Call("scrollIntoView", map[string]any{"behavior": behavior, "block": block})
}

type pageFinder struct{}

func (pageFinder) Lookup(id string) widgets.Scroller {
	el := byID(id)
	if !present(el) {
		return nil
	}
	return scroller{el: el}
}

func bindAnchors() {
	for _, a := range queryAll(document, `a[href^="#"]`) {
		on(a, "click", func(ev js.Value) {
			ev.Call("preventDefault")
			widgets.ScrollToAnchor(attr(a, "href"), pageFinder{})
		})
	}
}
