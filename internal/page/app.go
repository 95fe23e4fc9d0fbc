// Package page wires the motion components to one hero scene and routes
// frontend events to them.
package page

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/config"
	"github.com/iburimskiy/landing-motion/internal/cursor"
	"github.com/iburimskiy/landing-motion/internal/entrance"
	"github.com/iburimskiy/landing-motion/internal/interlude"
	"github.com/iburimskiy/landing-motion/internal/parallax"
	"github.com/iburimskiy/landing-motion/internal/particles"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/style"
	"github.com/iburimskiy/landing-motion/internal/ticker"
)

// Deps is everything a frontend hands to the page.
type Deps struct {
	Config     *config.Config
	Timing     *style.Reader
	Sched      *clock.Scheduler
	Surface    particles.Surface
	Hero       scene.Measurer // ticker row text
	Small      scene.Measurer // pills and tagline
	Prober     interlude.Prober
	Cue        interlude.Cue
	Capability scene.Capability
	Viewport   scene.Viewport
	Rand       *rand.Rand
	Log        *zap.Logger
}

type App struct {
	cfg   *config.Config
	sched *clock.Scheduler
	hero  scene.Measurer
	small scene.Measurer
	log   *zap.Logger
	capb  scene.Capability
	vp    scene.Viewport

	Page      *scene.Page
	Ticker    *ticker.Carousel
	Interlude *interlude.Sequencer // nil in bounded mode
	Parallax  *parallax.Driver
	Particles *particles.Field
	Cursor    *cursor.Follower

	player   *entrance.Player
	fallback *clock.Timer
	revealed *clock.Timer
	bob      *clock.Task
	shown    *clock.Signal

	started       bool
	inTicker      bool
	inInteractive bool
}

// ResolveCapability turns the configured pointer kind into a capability.
// "auto" trusts what the frontend detected.
func ResolveCapability(pointer string, touchDetected bool) scene.Capability {
	switch pointer {
	case "mouse":
		return scene.Capability{Hover: true}
	case "touch":
		return scene.Capability{Touch: true}
	default:
		if touchDetected {
			return scene.Capability{Touch: true}
		}
		return scene.Capability{Hover: true}
	}
}

func New(d Deps) (*App, error) {
	if d.Config == nil {
		return nil, fmt.Errorf("page: missing config")
	}
	mode, err := ticker.ParseMode(d.Config.Ticker.Mode)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	rng := d.Rand
	if rng == nil {
		seed := d.Config.Particles.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	cfg := d.Config

	a := &App{
		cfg:   cfg,
		sched: d.Sched,
		hero:  d.Hero,
		small: d.Small,
		log:   log,
		capb:  d.Capability,
		vp:    d.Viewport,
		Page:  scene.NewPage(cfg.Page.BuildLabel, cfg.Page.Tagline, cfg.Page.Pills, cfg.Page.Decor),
	}

	a.Ticker = ticker.New(a.Page.Ticker, cfg.Ticker.Items, d.Sched, d.Timing, d.Hero,
		TickerOptions(cfg.Ticker, mode), log.Named("ticker"))
	if mode == ticker.ModeLoop {
		a.Interlude = interlude.New(d.Sched, a.Ticker, d.Prober, d.Cue,
			InterludeOptions(cfg.Interlude), d.Viewport, log.Named("interlude"))
		a.Ticker.OnCycleComplete(func() { a.Interlude.Run() })
	}
	a.Parallax = parallax.New(a.Page.Pills, ParallaxOptions(cfg.Parallax), d.Viewport, d.Capability)
	a.Particles = particles.New(d.Surface, d.Sched, rng, ParticleOptions(cfg.Particles), d.Viewport)
	a.Cursor = cursor.New(a.Page.Cursor, d.Sched, cfg.Cursor.Smoothing, d.Capability)
	if cfg.Entrance.Enabled {
		a.player = entrance.NewPlayer(d.Sched)
	}

	a.layout()
	return a, nil
}

func TickerOptions(c config.TickerConfig, mode ticker.Mode) ticker.Options {
	opts := ticker.DefaultOptions(mode)
	opts.SwipeThreshold = c.SwipeThreshold
	opts.LockRatio = c.LockRatio
	if c.SnapBuffer > 0 {
		opts.SnapBuffer = c.SnapBuffer
	}
	return opts
}

func InterludeOptions(c config.InterludeConfig) interlude.Options {
	return interlude.Options{
		Message:          c.Message,
		LogoPath:         c.LogoPath,
		FallbackText:     c.LogoText,
		EnterDelay:       c.EnterDelay,
		Fade:             c.Fade,
		MessageHold:      c.MessageHold,
		Exit:             c.Exit,
		LogoHold:         c.LogoHold,
		ResumeDelay:      c.ResumeDelay,
		SmallBreakpoint:  c.SmallBreakpoint,
		MobileBreakpoint: c.MobileBreakpoint,
		SmallLogo:        c.SmallLogo,
		MediumLogo:       c.MediumLogo,
		LargeLogo:        c.LargeLogo,
	}
}

func ParallaxOptions(c config.ParallaxConfig) parallax.Options {
	return parallax.Options{
		BaseUnit:         c.BaseUnit,
		MobileMultiplier: c.MobileMultiplier,
		MobileBreakpoint: c.MobileBreakpoint,
	}
}

func ParticleOptions(c config.ParticlesConfig) particles.Options {
	return particles.Options{
		SmallMobile:      c.SmallMobile,
		Mobile:           c.Mobile,
		Desktop:          c.Desktop,
		SmallBreakpoint:  c.SmallBreakpoint,
		MobileBreakpoint: c.MobileBreakpoint,
		Speed:            c.Speed,
		RadiusMin:        c.RadiusMin,
		RadiusMax:        c.RadiusMax,
		OpacityMin:       c.OpacityMin,
		OpacityMax:       c.OpacityMax,
	}
}

// Start launches every effect. The carousel starts once ready resolves (at
// once when nil) and auto-advances after the hero has been shown, by the
// entrance timeline or by the fallback.
func (a *App) Start(ready *clock.Signal) {
	if a.started {
		return
	}
	a.started = true

	a.Parallax.Start()
	a.Particles.Start()
	a.Cursor.Start()

	timeout := a.cfg.Entrance.FallbackTimeout
	if timeout <= 0 {
		timeout = entrance.FallbackTimeout
	}
	a.fallback = entrance.Fallback(a.sched, entrance.Reveal(a.Page), timeout)
	revealed := clock.NewSignal()
	a.revealed = a.sched.After(timeout, revealed.Resolve)
	signals := []*clock.Signal{revealed}
	if a.player != nil {
		played := a.player.Play(entrance.PageTimeline(a.Page, a.Ticker.Items()))
		played.Then(func() {
			if a.started {
				a.bob = entrance.Bob(a.sched, a.Page.Mouse, entrance.BobAmplitude, entrance.BobHalfPeriod)
			}
		})
		signals = append(signals, played)
	} else {
		entrance.Conceal(a.Page)
		a.log.Info("entrance disabled, waiting for fallback", zap.Duration("timeout", timeout))
	}
	a.shown = clock.Any(signals...)

	if ready == nil {
		ready = clock.Resolved()
	}
	ready.Then(func() {
		if !a.started {
			return
		}
		a.layout()
		a.Ticker.Start(a.shown)
		a.log.Debug("page started",
			zap.Stringer("mode", a.Ticker.Mode()),
			zap.Float64("width", a.vp.W),
			zap.Float64("height", a.vp.H),
			zap.Bool("touch", a.capb.Touch))
	})
}

// Stop halts every loop and pending timer.
func (a *App) Stop() {
	if !a.started {
		return
	}
	a.started = false
	a.Parallax.Stop()
	a.Particles.Stop()
	a.Cursor.Stop()
	a.Ticker.Stop()
	if a.Interlude != nil {
		a.Interlude.Stop()
	}
	a.fallback.Stop()
	a.revealed.Stop()
	a.bob.Stop()
}

// Tick advances the page clock by one frame.
func (a *App) Tick(dt time.Duration) {
	a.sched.Frame(dt)
}

func (a *App) layout() {
	a.Page.Layout(a.vp, a.hero, a.small, a.Ticker.Items())
}

// PointerMove feeds the parallax and cursor and tracks hover over the
// ticker and its text.
func (a *App) PointerMove(p scene.Point) {
	a.Parallax.PointerMove(p)
	a.Cursor.PointerMove(p)
	if a.capb.Touch {
		return
	}

	over := a.Page.Ticker.Bounds.Contains(p)
	if over != a.inTicker {
		a.inTicker = over
		if over {
			a.Cursor.EnterTicker()
			a.Ticker.PointerEnter()
		} else {
			a.Cursor.LeaveTicker()
			a.Ticker.PointerLeave()
			a.inInteractive = false
		}
	}
	if !a.inTicker {
		return
	}
	interactive := a.overText(p)
	if interactive != a.inInteractive {
		a.inInteractive = interactive
		if interactive {
			a.Cursor.EnterInteractive()
		} else {
			a.Cursor.LeaveInteractive()
		}
	}
}

// overText reports whether p is over the build label or the item in view.
func (a *App) overText(p scene.Point) bool {
	if a.Page.Build.Bounds.Contains(p) {
		return true
	}
	i := a.Ticker.Index()
	items := a.Ticker.Items()
	if i < 0 || i >= len(items) || a.Page.Ticker.Hidden {
		return false
	}
	return items[i].Bounds.Translate(0, a.Ticker.Offset()).Contains(p)
}

// Wheel reports whether the event was consumed.
func (a *App) Wheel(deltaY float64) bool { return a.Ticker.Wheel(deltaY) }

func (a *App) Key(k ticker.Key) bool { return a.Ticker.Key(k) }

func (a *App) TouchStart(y float64) { a.Ticker.TouchStart(y) }

func (a *App) TouchEnd(y float64) { a.Ticker.TouchEnd(y) }

// Resize relayouts and lets each component react to the new viewport.
func (a *App) Resize(vp scene.Viewport) {
	if vp == a.vp {
		return
	}
	a.vp = vp
	a.layout()
	a.Parallax.Resize(vp)
	if a.started {
		a.Particles.Resize(vp)
	}
	a.Ticker.Resize()
	if a.Interlude != nil {
		a.Interlude.Resize(vp)
	}
}

func (a *App) Viewport() scene.Viewport { return a.vp }

func (a *App) Now() time.Duration { return a.sched.Now() }

// Overlay returns the interlude overlay showing, if any.
func (a *App) Overlay() *interlude.Overlay {
	if a.Interlude == nil {
		return nil
	}
	return a.Interlude.Overlay()
}

// Shown reports whether the hero has been revealed.
func (a *App) Shown() bool { return a.shown != nil && a.shown.Done() }

func (a *App) Capability() scene.Capability { return a.capb }
