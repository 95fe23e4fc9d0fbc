package parallax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/landing-motion/internal/scene"
)

var defaults = Options{BaseUnit: 6, MobileMultiplier: 0.3, MobileBreakpoint: 768}

func pills(n int) []*scene.Element {
	out := make([]*scene.Element, n)
	for i := range out {
		out[i] = scene.NewElement("pill", "")
	}
	return out
}

func TestMultiplierByWidth(t *testing.T) {
	for _, w := range []float64{320, 480, 767, 768} {
		d := New(pills(3), defaults, scene.Viewport{W: w, H: 800}, scene.Capability{Hover: true})
		assert.Equal(t, 0.3, d.Multiplier(), "width %v", w)
		for i := 1; i <= 3; i++ {
			assert.InDelta(t, float64(i)*6*0.3, d.Depth(i), 1e-9)
		}
	}
	for _, w := range []float64{769, 1024, 1920} {
		d := New(pills(3), defaults, scene.Viewport{W: w, H: 800}, scene.Capability{Hover: true})
		assert.Equal(t, 1.0, d.Multiplier(), "width %v", w)
	}
}

func TestPointerMoveOffsetsByDepth(t *testing.T) {
	items := pills(3)
	d := New(items, defaults, scene.Viewport{W: 1000, H: 500}, scene.Capability{Hover: true})
	assert.Equal(t, scene.Point{X: 500, Y: 250}, d.Pointer())
	d.Start()

	d.PointerMove(scene.Point{X: 1000, Y: 0})
	for i, el := range items {
		depth := float64(i+1) * 6
		assert.InDelta(t, depth, el.Offset.X, 1e-9)
		assert.InDelta(t, -depth, el.Offset.Y, 1e-9)
	}

	d.PointerMove(scene.Point{X: 500, Y: 250})
	for _, el := range items {
		assert.Equal(t, scene.Point{}, el.Offset)
	}
}

func TestResizeDefersUntilNextMove(t *testing.T) {
	items := pills(1)
	d := New(items, defaults, scene.Viewport{W: 1000, H: 500}, scene.Capability{Hover: true})
	d.Start()
	d.PointerMove(scene.Point{X: 1000, Y: 250})
	require.InDelta(t, 6, items[0].Offset.X, 1e-9)

	d.Resize(scene.Viewport{W: 600, H: 500})
	assert.InDelta(t, 6, items[0].Offset.X, 1e-9)

	d.PointerMove(scene.Point{X: 600, Y: 250})
	assert.InDelta(t, 6*0.3, items[0].Offset.X, 1e-9)
}

func TestTouchDevicesIgnorePointer(t *testing.T) {
	items := pills(2)
	d := New(items, defaults, scene.Viewport{W: 1000, H: 500}, scene.Capability{Touch: true})
	d.Start()
	assert.False(t, d.Listening())

	d.PointerMove(scene.Point{X: 0, Y: 0})
	for _, el := range items {
		assert.Equal(t, scene.Point{}, el.Offset)
	}
}

func TestZeroViewportIsHarmless(t *testing.T) {
	items := pills(1)
	d := New(items, defaults, scene.Viewport{}, scene.Capability{Hover: true})
	d.Start()
	d.PointerMove(scene.Point{X: 10, Y: 10})
	assert.Equal(t, scene.Point{}, items[0].Offset)
}
