// Package particles runs the ambient sparkle layer: a bounded set of points
// drifting and bouncing inside the viewport.
package particles

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/scene"
)

// Blend selects how drawn circles combine with what is already there.
type Blend int

const (
	BlendSourceOver Blend = iota
	BlendLighter
)

// Surface is the drawing target owned exclusively by a Field.
type Surface interface {
	Resize(w, h int)
	Clear()
	SetBlend(b Blend)
	FillCircle(x, y, r float64, c color.Color)
}

type Particle struct {
	X, Y   float64
	VX, VY float64
	R      float64
	O      float64
}

// Options are the capacity tiers and the random ranges for new particles.
type Options struct {
	SmallMobile      int
	Mobile           int
	Desktop          int
	SmallBreakpoint  float64
	MobileBreakpoint float64
	Speed            float64
	RadiusMin        float64
	RadiusMax        float64
	OpacityMin       float64
	OpacityMax       float64
}

// Capacity picks the particle count for a viewport width.
func Capacity(width float64, o Options) int {
	switch {
	case width <= o.SmallBreakpoint:
		return o.SmallMobile
	case width <= o.MobileBreakpoint:
		return o.Mobile
	default:
		return o.Desktop
	}
}

type Field struct {
	surface   Surface
	sched     *clock.Scheduler
	rng       *rand.Rand
	opts      Options
	max       int
	w, h      float64
	particles []Particle
	task      *clock.Task
}

// New sizes the field for vp. Capacity is fixed here and not re-evaluated
// on resize.
func New(surface Surface, sched *clock.Scheduler, rng *rand.Rand, opts Options, vp scene.Viewport) *Field {
	return &Field{
		surface: surface,
		sched:   sched,
		rng:     rng,
		opts:    opts,
		max:     Capacity(vp.W, opts),
		w:       vp.W,
		h:       vp.H,
	}
}

// Start sizes the surface, repopulates the particles and (re)starts the
// frame loop, cancelling any loop already running.
func (f *Field) Start() {
	f.surface.Resize(int(f.w), int(f.h))
	f.populate()
	f.task.Stop()
	f.task = f.sched.OnFrame(func(time.Duration) { f.Step() })
}

// Resize restarts the field for the new viewport.
func (f *Field) Resize(vp scene.Viewport) {
	f.w, f.h = vp.W, vp.H
	f.Start()
}

// Stop cancels the frame loop.
func (f *Field) Stop() {
	f.task.Stop()
	f.task = nil
}

// Running reports whether the frame loop is scheduled.
func (f *Field) Running() bool { return f.task.Running() }

func (f *Field) populate() {
	f.particles = f.particles[:0]
	for i := 0; i < f.max; i++ {
		f.particles = append(f.particles, Particle{
			X:  f.rand(0, f.w),
			Y:  f.rand(0, f.h),
			VX: f.rand(-f.opts.Speed, f.opts.Speed),
			VY: f.rand(-f.opts.Speed, f.opts.Speed),
			R:  f.rand(f.opts.RadiusMin, f.opts.RadiusMax),
			O:  f.rand(f.opts.OpacityMin, f.opts.OpacityMax),
		})
	}
}

func (f *Field) rand(a, b float64) float64 {
	return f.rng.Float64()*(b-a) + a
}

// Step advances every particle by one frame and redraws the surface.
func (f *Field) Step() {
	f.surface.Clear()
	f.surface.SetBlend(BlendLighter)
	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX
		p.Y += p.VY
		if p.X < 0 || p.X > f.w {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > f.h {
			p.VY = -p.VY
		}
		f.surface.FillCircle(p.X, p.Y, p.R, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(p.O * 255)})
	}
}

// Particles exposes the live particle slice for drawing and tests.
func (f *Field) Particles() []Particle { return f.particles }

// Capacity returns the fixed particle count.
func (f *Field) Capacity() int { return f.max }

// Size returns the current surface dimensions.
func (f *Field) Size() (float64, float64) { return f.w, f.h }
