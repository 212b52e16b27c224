//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/eringen/vitrine/lightbox"
)

// lightboxView drives the #lightbox overlay.
type lightboxView struct {
	root    js.Value
	img     js.Value
	prev    js.Value
	next    js.Value
	counter js.Value
}

func (v *lightboxView) ShowImage(src, alt string) {
	v.img.Set("src", src)
	v.img.Set("alt", alt)
}

func (v *lightboxView) SetActive(active bool) { toggleClass(v.root, "active", active) }
func (v *lightboxView) SetLoaded(loaded bool) { toggleClass(v.img, "loaded", loaded) }

func (v *lightboxView) SetCounter(text string, visible bool) {
	if !present(v.counter) {
		return
	}
	v.counter.Set("textContent", text)
	if visible {
		setStyle(v.counter, "display", "block")
	} else {
		setStyle(v.counter, "display", "none")
	}
}

func (v *lightboxView) SetNavVisible(visible bool) {
	display := "none"
	if visible {
		display = "flex"
	}
	setStyle(v.prev, "display", display)
	setStyle(v.next, "display", display)
}

func (v *lightboxView) LockScroll(locked bool) {
	overflow := ""
	if locked {
		overflow = "hidden"
	}
	setStyle(document.Get("body"), "overflow", overflow)
}

type lightboxBinding struct {
	l *lightbox.Lightbox
}

// slideImages is the gallery of one carousel container.
func slideImages(container js.Value) lightbox.Gallery {
	return lightbox.GalleryFunc(func() []lightbox.Image {
		var imgs []lightbox.Image
		for _, img := range queryAll(container, ".carousel-slide img") {
			imgs = append(imgs, lightbox.Image{
				Src:     img.Get("src").String(),
				DataSrc: attr(img, "data-src"),
			})
		}
		return imgs
	})
}

func bindLightbox() *lightboxBinding {
	v := &lightboxView{
		root:    byID("lightbox"),
		img:     byID("lightboxImg"),
		prev:    byID("lightboxPrev"),
		next:    byID("lightboxNext"),
		counter: byID("lightboxCounter"),
	}
	if !present(v.root) || !present(v.img) {
		return nil
	}

	var galleries []lightbox.Gallery
	for _, el := range queryAll(document, ".carousel-container") {
		galleries = append(galleries, slideImages(el))
	}
	l := lightbox.New(v, galleries)

	if closeBtn := byID("closeBtn"); present(closeBtn) {
		on(closeBtn, "click", func(js.Value) { l.Close() })
	}
	if present(v.prev) {
		on(v.prev, "click", func(js.Value) { l.Prev() })
	}
	if present(v.next) {
		on(v.next, "click", func(js.Value) { l.Next() })
	}
	on(v.root, "click", func(ev js.Value) {
		if ev.Get("target").Equal(v.root) {
			l.Click(lightbox.TargetBackdrop)
		}
	})
	on(document, "click", func(ev js.Value) {
		target := ev.Get("target")
		if target.Get("tagName").String() != "IMG" || !present(target.Call("closest", ".carousel-slide")) {
			return
		}
		l.OpenSrc(target.Get("src").String())
	})
	on(v.img, "touchstart", func(ev js.Value) { l.TouchStart(touchX(ev)) })
	on(v.img, "touchmove", func(ev js.Value) { l.TouchMove(touchX(ev)) })
	on(v.img, "touchend", func(js.Value) { l.TouchEnd() })

	l.Start()
	return &lightboxBinding{l: l}
}
