// Package interlude plays the end-of-cycle sequence of the looping ticker: a
// centered message, then the logo (or its text fallback), then a restart of
// the carousel.
//
// Phases return completion signals and are chained on the scheduler, so the
// whole run can be stepped with a virtual clock.
package interlude

import (
	"errors"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/motion"
	"github.com/iburimskiy/landing-motion/internal/scene"
)

var errNoLogo = errors.New("no logo configured")

// Carousel is the part of the ticker the interlude drives.
type Carousel interface {
	Lock()
	Hide()
	Reset()
	Show()
	Resume()
}

// Prober loads the logo image.
type Prober interface {
	Probe(path string) (image.Image, error)
}

// Cue is played when the logo appears.
type Cue interface {
	Play()
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePause
	PhaseMessage
	PhaseLogo
	PhaseRestart
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePause:
		return "pause"
	case PhaseMessage:
		return "message"
	case PhaseLogo:
		return "logo"
	case PhaseRestart:
		return "restart"
	default:
		return "unknown"
	}
}

type Options struct {
	Message      string
	LogoPath     string
	FallbackText string

	EnterDelay  time.Duration
	Fade        time.Duration
	MessageHold time.Duration
	Exit        time.Duration
	LogoHold    time.Duration
	ResumeDelay time.Duration

	SmallBreakpoint  float64
	MobileBreakpoint float64
	SmallLogo        float64
	MediumLogo       float64
	LargeLogo        float64
}

func DefaultOptions() Options {
	return Options{
		Message:          "Let's build.",
		FallbackText:     "LANDING",
		EnterDelay:       50 * time.Millisecond,
		Fade:             600 * time.Millisecond,
		MessageHold:      3200 * time.Millisecond,
		Exit:             600 * time.Millisecond,
		LogoHold:         2800 * time.Millisecond,
		ResumeDelay:      400 * time.Millisecond,
		SmallBreakpoint:  480,
		MobileBreakpoint: 768,
		SmallLogo:        140,
		MediumLogo:       180,
		LargeLogo:        240,
	}
}

type Sequencer struct {
	sched    *clock.Scheduler
	carousel Carousel
	prober   Prober
	cue      Cue
	opts     Options
	log      *zap.Logger

	slot    Slot
	vp      scene.Viewport
	phase   Phase
	running *clock.Signal
	sizing  bool
	timers  []*clock.Timer
	runs    int
}

func New(sched *clock.Scheduler, carousel Carousel, prober Prober, cue Cue,
	opts Options, vp scene.Viewport, log *zap.Logger) *Sequencer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sequencer{
		sched:    sched,
		carousel: carousel,
		prober:   prober,
		cue:      cue,
		opts:     opts,
		vp:       vp,
		log:      log,
	}
}

// Run starts the interlude. While a run is in flight it returns that run's
// signal instead of starting another.
func (s *Sequencer) Run() *clock.Signal {
	if s.running != nil && !s.running.Done() {
		return s.running
	}
	s.runs++
	s.log.Debug("interlude started", zap.Int("run", s.runs))
	s.running = clock.Sequence(s.pause, s.showMessage, s.revealLogo, s.restart)
	return s.running
}

// Stop cancels pending phase timers and drops any overlay. The carousel is
// left as it is.
func (s *Sequencer) Stop() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	if cur := s.slot.Current(); cur != nil {
		s.slot.Unmount(cur)
	}
	s.sizing = false
	s.running = nil
	s.phase = PhaseIdle
}

// wait is Delay with the timer kept for Stop.
func (s *Sequencer) wait(d time.Duration) *clock.Signal {
	sig := clock.NewSignal()
	live := s.timers[:0]
	for _, t := range s.timers {
		if t.Active() {
			live = append(live, t)
		}
	}
	s.timers = append(live, s.sched.After(d, sig.Resolve))
	return sig
}

func (s *Sequencer) pause() *clock.Signal {
	s.phase = PhasePause
	s.carousel.Lock()
	s.carousel.Hide()
	return nil
}

func (s *Sequencer) showMessage() *clock.Signal {
	s.phase = PhaseMessage
	o := newOverlay(KindMessage, s.opts.Message, 0.96)
	if err := s.slot.Mount(o); err != nil {
		s.log.Warn("message overlay skipped", zap.Error(err))
		return nil
	}
	return clock.Sequence(
		func() *clock.Signal { return s.wait(s.opts.EnterDelay) },
		func() *clock.Signal {
			o.animate(s.sched.Now(), s.opts.Fade, 1, 1, 0, motion.Power3Out)
			return s.wait(s.opts.Fade + s.opts.MessageHold)
		},
		func() *clock.Signal {
			o.animate(s.sched.Now(), s.opts.Exit, 0, 1.04, -12, motion.SineInOut)
			return s.wait(s.opts.Exit)
		},
		func() *clock.Signal {
			s.slot.Unmount(o)
			return nil
		},
	)
}

func (s *Sequencer) revealLogo() *clock.Signal {
	s.phase = PhaseLogo
	img, err := s.probe()
	var o *Overlay
	if err != nil {
		s.log.Info("logo unavailable, showing text", zap.String("path", s.opts.LogoPath), zap.Error(err))
		o = newOverlay(KindLogoText, s.opts.FallbackText, 1)
	} else {
		o = newOverlay(KindLogo, "", 1)
		o.Logo = img
		o.Size = s.logoSize(s.vp.W)
		s.sizing = true
	}
	if err := s.slot.Mount(o); err != nil {
		s.sizing = false
		s.log.Warn("logo overlay skipped", zap.Error(err))
		return nil
	}
	return clock.Sequence(
		func() *clock.Signal {
			o.animate(s.sched.Now(), s.opts.Fade, 1, 1, 0, motion.Power3Out)
			if s.cue != nil {
				s.cue.Play()
			}
			return s.wait(s.opts.Fade + s.opts.LogoHold)
		},
		func() *clock.Signal {
			o.animate(s.sched.Now(), s.opts.Exit, 0, 1, 0, motion.SineInOut)
			return s.wait(s.opts.Exit)
		},
		func() *clock.Signal {
			s.slot.Unmount(o)
			s.sizing = false
			return nil
		},
	)
}

func (s *Sequencer) probe() (image.Image, error) {
	if s.prober == nil || s.opts.LogoPath == "" {
		return nil, errNoLogo
	}
	return s.prober.Probe(s.opts.LogoPath)
}

func (s *Sequencer) restart() *clock.Signal {
	s.phase = PhaseRestart
	s.carousel.Reset()
	s.carousel.Show()
	return clock.Sequence(
		func() *clock.Signal { return s.wait(s.opts.ResumeDelay) },
		func() *clock.Signal {
			s.carousel.Resume()
			s.phase = PhaseIdle
			s.log.Debug("interlude finished", zap.Int("run", s.runs))
			return nil
		},
	)
}

// Resize updates the cached viewport and resizes a showing logo.
func (s *Sequencer) Resize(vp scene.Viewport) {
	s.vp = vp
	if !s.sizing {
		return
	}
	if cur := s.slot.Current(); cur != nil && cur.Kind == KindLogo {
		cur.Size = s.logoSize(vp.W)
	}
}

func (s *Sequencer) logoSize(width float64) float64 {
	switch {
	case width <= s.opts.SmallBreakpoint:
		return s.opts.SmallLogo
	case width <= s.opts.MobileBreakpoint:
		return s.opts.MediumLogo
	default:
		return s.opts.LargeLogo
	}
}

// Overlay returns the mounted overlay or nil.
func (s *Sequencer) Overlay() *Overlay { return s.slot.Current() }

func (s *Sequencer) Slot() *Slot { return &s.slot }

func (s *Sequencer) Phase() Phase { return s.phase }

// Running reports whether a run is in flight.
func (s *Sequencer) Running() bool { return s.running != nil && !s.running.Done() }

// Sizing reports whether the logo's resize listener is attached.
func (s *Sequencer) Sizing() bool { return s.sizing }

// Runs counts started runs.
func (s *Sequencer) Runs() int { return s.runs }
