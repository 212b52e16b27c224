package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/vitrine/timers"
)

type fakeView struct {
	dots         []string
	offset       int
	activeDot    int
	prevDisabled bool
	nextDisabled bool
	renders      int
}

func (v *fakeView) CreateDots(labels []string) { v.dots = labels }
func (v *fakeView) SetOffset(percent int)      { v.offset = percent; v.renders++ }
func (v *fakeView) SetActiveDot(index int)     { v.activeDot = index }
func (v *fakeView) SetEdgeState(prev, next bool) {
	v.prevDisabled = prev
	v.nextDisabled = next
}

func newTestCarousel(t *testing.T, total int) (*Carousel, *fakeView, *timers.Manual) {
	t.Helper()
	clock := timers.NewManual(time.Unix(0, 0))
	view := &fakeView{}
	c, err := New(total, view, WithScheduler(clock))
	require.NoError(t, err)
	c.Start()
	t.Cleanup(c.Close)
	return c, view, clock
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(0, &fakeView{})
	assert.ErrorIs(t, err, ErrNoSlides)
}

func TestStartRendersDotsAndFirstSlide(t *testing.T) {
	c, view, _ := newTestCarousel(t, 3)

	assert.Equal(t, []string{"Ir para slide 1", "Ir para slide 2", "Ir para slide 3"}, view.dots)
	assert.Equal(t, 0, view.offset)
	assert.True(t, view.prevDisabled)
	assert.False(t, view.nextDisabled)
	assert.False(t, c.Transitioning())
	assert.True(t, c.AutoplayActive())
}

func TestNextWrapsAroundAfterNSteps(t *testing.T) {
	for n := 2; n <= 6; n++ {
		c, _, clock := newTestCarousel(t, n)
		c.PointerEnter()
		for i := 0; i < n; i++ {
			c.Next()
			clock.Advance(TransitionDuration)
		}
		assert.Equal(t, 0, c.Index(), "slides=%d", n)
	}
}

func TestPrevWrapsToLast(t *testing.T) {
	c, view, _ := newTestCarousel(t, 4)
	c.Prev()
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, -300, view.offset)
	assert.Equal(t, 3, view.activeDot)
	assert.True(t, view.nextDisabled)
}

func TestGoToNoOps(t *testing.T) {
	c, view, _ := newTestCarousel(t, 3)
	renders := view.renders

	c.GoTo(0)
	c.GoTo(-1)
	c.GoTo(3)
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.Transitioning())
	assert.Equal(t, renders, view.renders)

	c.GoTo(2)
	assert.Equal(t, 2, c.Index())
	assert.Equal(t, -200, view.offset)
}

func TestTransitionGuardBlocksAllNavigation(t *testing.T) {
	c, _, clock := newTestCarousel(t, 5)

	c.Next()
	require.True(t, c.Transitioning())
	c.Next()
	c.Prev()
	c.GoTo(4)
	assert.Equal(t, 1, c.Index())

	clock.Advance(TransitionDuration - time.Millisecond)
	c.Next()
	assert.Equal(t, 1, c.Index())

	clock.Advance(time.Millisecond)
	assert.False(t, c.Transitioning())
	c.GoTo(4)
	assert.Equal(t, 4, c.Index())
}

func TestAutoplayAdvancesEveryInterval(t *testing.T) {
	c, _, clock := newTestCarousel(t, 3)

	clock.Advance(AutoplayInterval)
	assert.Equal(t, 1, c.Index())
	clock.Advance(AutoplayInterval)
	assert.Equal(t, 2, c.Index())
	clock.Advance(AutoplayInterval)
	assert.Equal(t, 0, c.Index())
}

func TestHoverPausesAutoplay(t *testing.T) {
	c, _, clock := newTestCarousel(t, 3)

	c.PointerEnter()
	assert.False(t, c.AutoplayActive())
	clock.Advance(4 * AutoplayInterval)
	assert.Equal(t, 0, c.Index())

	c.PointerLeave()
	assert.True(t, c.AutoplayActive())
	clock.Advance(AutoplayInterval)
	assert.Equal(t, 1, c.Index())
}

func TestSingleSlideNeverAutoplays(t *testing.T) {
	c, _, clock := newTestCarousel(t, 1)
	assert.False(t, c.AutoplayActive())
	c.PointerLeave()
	assert.False(t, c.AutoplayActive())
	clock.Advance(time.Minute)
	assert.Equal(t, 0, c.Index())
}

func TestSwipeNavigatesAndPausesAutoplay(t *testing.T) {
	c, _, clock := newTestCarousel(t, 3)

	c.TouchStart(300)
	assert.False(t, c.AutoplayActive())
	c.TouchMove(200)
	c.TouchEnd()
	assert.Equal(t, 1, c.Index())
	assert.True(t, c.AutoplayActive())

	clock.Advance(TransitionDuration)
	c.TouchStart(100)
	c.TouchMove(200)
	c.TouchEnd()
	assert.Equal(t, 0, c.Index())

	clock.Advance(TransitionDuration)
	c.TouchStart(100)
	c.TouchMove(130)
	c.TouchEnd()
	assert.Equal(t, 0, c.Index())
}

func TestKeyConsumesArrowsOnly(t *testing.T) {
	c, _, clock := newTestCarousel(t, 3)

	assert.True(t, c.Key("ArrowRight"))
	assert.Equal(t, 1, c.Index())
	clock.Advance(TransitionDuration)
	assert.True(t, c.Key("ArrowLeft"))
	assert.Equal(t, 0, c.Index())
	assert.False(t, c.Key("Enter"))
}

func TestCloseStopsTimers(t *testing.T) {
	c, _, clock := newTestCarousel(t, 3)
	c.Next()
	c.Close()
	assert.False(t, c.AutoplayActive())
	assert.False(t, c.Transitioning())
	assert.Equal(t, 0, clock.Pending())
}
