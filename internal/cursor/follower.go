// Package cursor drives the custom cursor dot: a smoothed follower of the
// raw pointer with active/hover styling over the ticker.
package cursor

import (
	"time"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/scene"
)

const (
	ClassActive = "active"
	ClassHover  = "hover"
)

type Follower struct {
	dot       *scene.Element
	sched     *clock.Scheduler
	smoothing float64
	touch     bool

	raw  scene.Point
	pos  scene.Point
	task *clock.Task
}

func New(dot *scene.Element, sched *clock.Scheduler, smoothing float64, capb scene.Capability) *Follower {
	return &Follower{dot: dot, sched: sched, smoothing: smoothing, touch: capb.Touch}
}

// Start begins following. On touch devices the dot is hidden and nothing
// runs.
func (f *Follower) Start() {
	if f.touch {
		f.dot.Hidden = true
		return
	}
	f.task.Stop()
	f.task = f.sched.OnFrame(func(time.Duration) { f.Step() })
}

func (f *Follower) Stop() {
	f.task.Stop()
	f.task = nil
}

func (f *Follower) Enabled() bool { return !f.touch }

// Running reports whether the follow loop is scheduled.
func (f *Follower) Running() bool { return f.task.Running() }

// PointerMove records the raw pointer; the dot catches up in Step.
func (f *Follower) PointerMove(p scene.Point) {
	if f.touch {
		return
	}
	f.raw = p
}

// Step eases the dot one frame towards the raw pointer.
func (f *Follower) Step() {
	f.pos.X += (f.raw.X - f.pos.X) * f.smoothing
	f.pos.Y += (f.raw.Y - f.pos.Y) * f.smoothing
	f.dot.Bounds.X = f.pos.X - f.dot.Bounds.W/2
	f.dot.Bounds.Y = f.pos.Y - f.dot.Bounds.H/2
}

// Position is the dot's smoothed center.
func (f *Follower) Position() scene.Point { return f.pos }

func (f *Follower) EnterTicker() {
	if !f.touch {
		f.dot.AddClass(ClassActive)
	}
}

// LeaveTicker clears both states together.
func (f *Follower) LeaveTicker() {
	f.dot.RemoveClass(ClassActive)
	f.dot.RemoveClass(ClassHover)
}

func (f *Follower) EnterInteractive() {
	if !f.touch {
		f.dot.AddClass(ClassHover)
	}
}

func (f *Follower) LeaveInteractive() {
	f.dot.RemoveClass(ClassHover)
}

func (f *Follower) Active() bool { return f.dot.HasClass(ClassActive) }

func (f *Follower) Hover() bool { return f.dot.HasClass(ClassHover) }
