// Package parallax offsets decorative elements proportionally to the
// pointer position to fake depth.
package parallax

import "github.com/iburimskiy/landing-motion/internal/scene"

// Options tunes the depth curve.
type Options struct {
	BaseUnit         float64 // pixels of travel per ordinal step
	MobileMultiplier float64 // applied at or below MobileBreakpoint
	MobileBreakpoint float64
}

// Driver translates a fixed set of elements from pointer moves.
type Driver struct {
	items     []*scene.Element
	opts      Options
	touch     bool
	vp        scene.Viewport
	pointer   scene.Point
	listening bool
}

func New(items []*scene.Element, opts Options, vp scene.Viewport, capb scene.Capability) *Driver {
	return &Driver{
		items:   items,
		opts:    opts,
		touch:   capb.Touch,
		vp:      vp,
		pointer: vp.Center(),
	}
}

// Start subscribes to pointer moves. Touch-capable devices never subscribe.
func (d *Driver) Start() {
	d.listening = !d.touch
}

func (d *Driver) Stop() {
	d.listening = false
}

// Listening reports whether pointer moves are being applied.
func (d *Driver) Listening() bool { return d.listening }

// Resize only updates the cached viewport; offsets refresh on the next move.
func (d *Driver) Resize(vp scene.Viewport) {
	d.vp = vp
}

// Multiplier is the movement scale for the current viewport width.
func (d *Driver) Multiplier() float64 {
	if d.vp.W <= d.opts.MobileBreakpoint {
		return d.opts.MobileMultiplier
	}
	return 1
}

// Depth returns the travel for the element at 1-based ordinal i.
func (d *Driver) Depth(i int) float64 {
	return float64(i) * d.opts.BaseUnit * d.Multiplier()
}

// Normalized maps p to [-1, 1] on both axes around the viewport center.
func (d *Driver) Normalized(p scene.Point) (float64, float64) {
	var cx, cy float64
	if d.vp.W > 0 {
		cx = (p.X/d.vp.W - 0.5) * 2
	}
	if d.vp.H > 0 {
		cy = (p.Y/d.vp.H - 0.5) * 2
	}
	return cx, cy
}

// PointerMove recomputes every element's offset.
func (d *Driver) PointerMove(p scene.Point) {
	if !d.listening {
		return
	}
	d.pointer = p
	cx, cy := d.Normalized(p)
	for i, el := range d.items {
		depth := d.Depth(i + 1)
		el.Translate(cx*depth, cy*depth)
	}
}

// Pointer returns the last applied pointer position.
func (d *Driver) Pointer() scene.Point { return d.pointer }
