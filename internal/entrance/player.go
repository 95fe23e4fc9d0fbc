// Package entrance plays the one-shot load timeline and the fallback that
// reveals the hero when the timeline never runs.
package entrance

import (
	"math"
	"time"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/motion"
	"github.com/iburimskiy/landing-motion/internal/scene"
)

// Prop selects which properties an instruction animates.
type Prop uint8

const (
	PropAlpha Prop = 1 << iota
	PropLift
	PropScale

	PropAll = PropAlpha | PropLift | PropScale
)

type Props struct {
	Alpha float64
	Lift  float64
	Scale float64
}

// Identity is the resting state of every element.
var Identity = Props{Alpha: 1, Lift: 0, Scale: 1}

type Instruction struct {
	Targets  []*scene.Element
	Animate  Prop
	From     Props
	To       Props
	Duration time.Duration
	Stagger  time.Duration
	Offset   time.Duration
}

type track struct {
	el                 *scene.Element
	mask               Prop
	alpha, lift, scale motion.Tween
}

func (t *track) apply(now time.Duration) {
	if t.mask&PropAlpha != 0 {
		t.el.Alpha = t.alpha.At(now)
	}
	if t.mask&PropLift != 0 {
		t.el.Lift = t.lift.At(now)
	}
	if t.mask&PropScale != 0 {
		t.el.Scale = t.scale.At(now)
	}
}

func (t *track) done(now time.Duration) bool {
	return t.alpha.Done(now) && t.lift.Done(now) && t.scale.Done(now)
}

type Player struct {
	sched *clock.Scheduler
	ease  motion.Easing
}

func NewPlayer(sched *clock.Scheduler) *Player {
	return &Player{sched: sched, ease: motion.Power3Out}
}

// Play applies every From state now, then runs the timeline on a frame task.
// The signal resolves when the last tween ends.
func (p *Player) Play(timeline []Instruction) *clock.Signal {
	start := p.sched.Now()
	var tracks []*track
	for _, in := range timeline {
		for j, el := range in.Targets {
			if el == nil {
				continue
			}
			set(el, in.Animate, in.From)
			at := start + in.Offset + time.Duration(j)*in.Stagger
			tracks = append(tracks, &track{
				el:    el,
				mask:  in.Animate,
				alpha: motion.Tween{From: in.From.Alpha, To: in.To.Alpha, Start: at, Duration: in.Duration, Ease: p.ease},
				lift:  motion.Tween{From: in.From.Lift, To: in.To.Lift, Start: at, Duration: in.Duration, Ease: p.ease},
				scale: motion.Tween{From: in.From.Scale, To: in.To.Scale, Start: at, Duration: in.Duration, Ease: p.ease},
			})
		}
	}

	done := clock.NewSignal()
	if len(tracks) == 0 {
		done.Resolve()
		return done
	}
	var task *clock.Task
	task = p.sched.OnFrame(func(time.Duration) {
		now := p.sched.Now()
		finished := true
		for _, t := range tracks {
			if now < t.alpha.Start {
				finished = false
				continue
			}
			t.apply(now)
			if !t.done(now) {
				finished = false
			}
		}
		if finished {
			task.Stop()
			done.Resolve()
		}
	})
	return done
}

func set(el *scene.Element, mask Prop, v Props) {
	if mask&PropAlpha != 0 {
		el.Alpha = v.Alpha
	}
	if mask&PropLift != 0 {
		el.Lift = v.Lift
	}
	if mask&PropScale != 0 {
		el.Scale = v.Scale
	}
}

// Bob moves el's lift between 0 and -amplitude and back, forever, with a
// sine in-out ease over each half period.
func Bob(sched *clock.Scheduler, el *scene.Element, amplitude float64, half time.Duration) *clock.Task {
	start := sched.Now()
	return sched.OnFrame(func(time.Duration) {
		if half <= 0 {
			return
		}
		elapsed := float64(sched.Now()-start) / float64(half)
		leg := math.Floor(elapsed)
		t := elapsed - leg
		if int(leg)%2 == 1 {
			t = 1 - t
		}
		el.Lift = -amplitude * motion.SineInOut(t)
	})
}

// Fallback makes targets fully visible after timeout whether or not the
// timeline ran.
func Fallback(sched *clock.Scheduler, targets []*scene.Element, timeout time.Duration) *clock.Timer {
	return sched.After(timeout, func() {
		for _, el := range targets {
			if el == nil {
				continue
			}
			el.Hidden = false
			el.Alpha = 1
		}
	})
}
