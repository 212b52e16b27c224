//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/eringen/vitrine/carousel"
)

// carouselView drives one .carousel-container.
type carouselView struct {
	wrapper js.Value
	dotsBox js.Value
	prev    js.Value
	next    js.Value
	dots    []js.Value
	c       *carousel.Carousel
}

func (v *carouselView) CreateDots(labels []string) {
	if !present(v.dotsBox) {
		return
	}
	v.dotsBox.Set("innerHTML", "")
	v.dots = v.dots[:0]
	for i, label := range labels {
		dot := document.Call("createElement", "button")
		dot.Set("type", "button")
		dot.Get("classList").Call("add", "carousel-dot")
		dot.Call("setAttribute", "aria-label", label)
		on(dot, "click", func(js.Value) { v.c.GoTo(i) })
		v.dotsBox.Call("appendChild", dot)
		v.dots = append(v.dots, dot)
	}
}

func (v *carouselView) SetOffset(percent int) {
	setStyle(v.wrapper, "transform", fmt.Sprintf("translateX(%d%%)", percent))
}

func (v *carouselView) SetActiveDot(index int) {
	for i, dot := range v.dots {
		toggleClass(dot, "active", i == index)
	}
}

func (v *carouselView) SetEdgeState(prevDisabled, nextDisabled bool) {
	toggleClass(v.prev, "disabled", prevDisabled)
	toggleClass(v.next, "disabled", nextDisabled)
}

type boundCarousel struct {
	el js.Value
	c  *carousel.Carousel
}

func bindCarousels() []boundCarousel {
	var bound []boundCarousel
	for _, el := range queryAll(document, ".carousel-container") {
		v := &carouselView{
			wrapper: query(el, ".carousel-wrapper"),
			dotsBox: query(el, ".carousel-dots"),
			prev:    query(el, ".carousel-prev"),
			next:    query(el, ".carousel-next"),
		}
		if !present(v.wrapper) {
			continue
		}
		c, err := carousel.New(len(queryAll(el, ".carousel-slide")), v)
		if err != nil {
			log.Debug().Err(err).Msg("carousel skipped")
			continue
		}
		v.c = c

		if present(v.prev) {
			on(v.prev, "click", func(js.Value) { c.Prev() })
		}
		if present(v.next) {
			on(v.next, "click", func(js.Value) { c.Next() })
		}
		on(el, "mouseenter", func(js.Value) { c.PointerEnter() })
		on(el, "mouseleave", func(js.Value) { c.PointerLeave() })
		on(v.wrapper, "touchstart", func(ev js.Value) { c.TouchStart(touchX(ev)) })
		on(v.wrapper, "touchmove", func(ev js.Value) { c.TouchMove(touchX(ev)) })
		on(v.wrapper, "touchend", func(js.Value) { c.TouchEnd() })

		c.Start()
		bound = append(bound, boundCarousel{el: el, c: c})
	}
	return bound
}

// bindKeyboard routes arrows to the open lightbox first, then to the
// carousel under the pointer. Consumed keys do not scroll the page.
func bindKeyboard(carousels []boundCarousel, lb *lightboxBinding) {
	on(document, "keydown", func(ev js.Value) {
		key := ev.Get("key").String()
		if lb != nil && lb.l.Key(key) {
			ev.Call("preventDefault")
			return
		}
		for _, b := range carousels {
			if b.el.Call("matches", ":hover").Bool() && b.c.Key(key) {
				ev.Call("preventDefault")
				return
			}
		}
	})
}
