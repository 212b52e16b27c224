package lightbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vitrine/timers"
)

type fakeView struct {
	src, alt       string
	active         bool
	loaded         bool
	counter        string
	counterVisible bool
	navVisible     bool
	scrollLocked   bool
}

func (v *fakeView) ShowImage(src, alt string) { v.src, v.alt = src, alt }
func (v *fakeView) SetActive(active bool)     { v.active = active }
func (v *fakeView) SetLoaded(loaded bool)     { v.loaded = loaded }
func (v *fakeView) SetCounter(text string, visible bool) {
	v.counter, v.counterVisible = text, visible
}
func (v *fakeView) SetNavVisible(visible bool) { v.navVisible = visible }
func (v *fakeView) LockScroll(locked bool)     { v.scrollLocked = locked }

func staticGallery(urls ...string) Gallery {
	return GalleryFunc(func() []Image {
		imgs := make([]Image, len(urls))
		for i, u := range urls {
			imgs[i] = Image{Src: u}
		}
		return imgs
	})
}

func newTestLightbox(t *testing.T, galleries ...Gallery) (*Lightbox, *fakeView, *timers.Manual) {
	t.Helper()
	clock := timers.NewManual(time.Unix(0, 0))
	view := &fakeView{}
	l := New(view, galleries, WithScheduler(clock))
	l.Start()
	t.Cleanup(l.Stop)
	return l, view, clock
}

func TestCollectDedupesInOrder(t *testing.T) {
	lazy := GalleryFunc(func() []Image {
		return []Image{{DataSrc: "/img/c.jpg"}, {Src: "/img/a.jpg"}, {}}
	})
	l, _, _ := newTestLightbox(t, staticGallery("/img/a.jpg", "/img/b.jpg"), lazy)
	assert.Equal(t, []string{"/img/a.jpg", "/img/b.jpg", "/img/c.jpg"}, l.Images())
}

func TestCollectRetriesUntilImagesAppear(t *testing.T) {
	calls := 0
	g := GalleryFunc(func() []Image {
		calls++
		if calls < 3 {
			return nil
		}
		return []Image{{Src: "/img/late.jpg"}}
	})
	l, _, clock := newTestLightbox(t, g)
	assert.Empty(t, l.Images())

	clock.Advance(CollectRetryDelay)
	assert.Empty(t, l.Images())
	clock.Advance(CollectRetryDelay)
	assert.Equal(t, []string{"/img/late.jpg"}, l.Images())
	assert.Equal(t, 0, clock.Pending())
}

func TestCollectGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	g := GalleryFunc(func() []Image { calls++; return nil })
	clock := timers.NewManual(time.Unix(0, 0))
	l := New(&fakeView{}, []Gallery{g}, WithScheduler(clock), WithMaxCollectAttempts(4))
	l.Start()

	clock.Advance(time.Minute)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 0, clock.Pending())
}

func TestOpenOutOfRangeIsIgnored(t *testing.T) {
	l, view, _ := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg"))

	l.Open(-1)
	l.Open(2)
	assert.False(t, l.IsOpen())
	assert.False(t, view.active)
	assert.Equal(t, 0, l.Index())
	assert.Empty(t, view.src)
}

func TestOpenShowsImageAndLocksScroll(t *testing.T) {
	l, view, clock := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg", "/c.jpg"))

	l.Open(1)
	assert.True(t, l.IsOpen())
	assert.Equal(t, "/b.jpg", view.src)
	assert.Equal(t, "Imagem 2 de 3", view.alt)
	assert.Equal(t, "2 / 3", view.counter)
	assert.True(t, view.counterVisible)
	assert.True(t, view.navVisible)
	assert.True(t, view.scrollLocked)
	assert.False(t, view.loaded)

	clock.Advance(FadeInDelay)
	assert.True(t, view.loaded)
}

func TestSingleImageHidesCounterAndNav(t *testing.T) {
	l, view, _ := newTestLightbox(t, staticGallery("/only.jpg"))
	l.Open(0)
	assert.False(t, view.counterVisible)
	assert.False(t, view.navVisible)
}

func TestNextUsesStagedFade(t *testing.T) {
	l, view, clock := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg", "/c.jpg"))
	l.Open(2)
	clock.Advance(FadeInDelay)

	l.Next()
	assert.Equal(t, 0, l.Index())
	assert.False(t, view.loaded)
	assert.Equal(t, "/c.jpg", view.src)

	clock.Advance(FadeOutDelay)
	assert.Equal(t, "/a.jpg", view.src)
	assert.Equal(t, "1 / 3", view.counter)
	assert.False(t, view.loaded)

	clock.Advance(FadeInDelay)
	assert.True(t, view.loaded)
}

func TestPrevWraps(t *testing.T) {
	l, view, clock := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg", "/c.jpg"))
	l.Open(0)
	l.Prev()
	clock.Advance(FadeOutDelay + FadeInDelay)
	assert.Equal(t, 2, l.Index())
	assert.Equal(t, "/c.jpg", view.src)
}

func TestCloseCancelsPendingFade(t *testing.T) {
	l, view, clock := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg"))
	l.Open(0)
	l.Next()
	l.Close()
	clock.Advance(time.Second)

	assert.False(t, view.active)
	assert.False(t, view.loaded)
	assert.False(t, view.scrollLocked)
	assert.Equal(t, "/a.jpg", view.src)
}

func TestKeyboardOnlyWhenOpen(t *testing.T) {
	l, _, clock := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg"))

	assert.False(t, l.Key("ArrowRight"))
	assert.Equal(t, 0, l.Index())

	l.Open(0)
	assert.True(t, l.Key("ArrowRight"))
	assert.Equal(t, 1, l.Index())
	clock.Advance(FadeOutDelay + FadeInDelay)
	assert.True(t, l.Key("ArrowLeft"))
	assert.Equal(t, 0, l.Index())
	assert.False(t, l.Key("Tab"))
	assert.True(t, l.Key("Escape"))
	assert.False(t, l.IsOpen())
}

func TestClickClosesOnlyOnBackdrop(t *testing.T) {
	l, _, _ := newTestLightbox(t, staticGallery("/a.jpg"))
	l.Open(0)

	l.Click(TargetImage)
	assert.True(t, l.IsOpen())
	l.Click(TargetBackdrop)
	assert.False(t, l.IsOpen())
}

func TestOpenSrc(t *testing.T) {
	l, _, _ := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg"))
	require.True(t, l.OpenSrc("/b.jpg"))
	assert.Equal(t, 1, l.Index())
	assert.False(t, l.OpenSrc("/missing.jpg"))
}

func TestSwipeNavigates(t *testing.T) {
	l, _, _ := newTestLightbox(t, staticGallery("/a.jpg", "/b.jpg", "/c.jpg"))
	l.Open(0)

	l.TouchStart(300)
	l.TouchMove(100)
	l.TouchEnd()
	assert.Equal(t, 1, l.Index())

	l.TouchStart(100)
	l.TouchMove(300)
	l.TouchEnd()
	assert.Equal(t, 0, l.Index())
}

func TestNavigationWithoutImagesIsNoOp(t *testing.T) {
	l, _, _ := newTestLightbox(t)
	l.Next()
	l.Prev()
	assert.Equal(t, 0, l.Index())
}
