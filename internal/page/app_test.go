package page

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/config"
	"github.com/iburimskiy/landing-motion/internal/particles"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/style"
	"github.com/iburimskiy/landing-motion/internal/ticker"
)

const frame = 10 * time.Millisecond

type nopSurface struct{ w, h int }

func (s *nopSurface) Resize(w, h int)                        { s.w, s.h = w, h }
func (s *nopSurface) Clear()                                 {}
func (s *nopSurface) SetBlend(particles.Blend)               {}
func (s *nopSurface) FillCircle(_, _, _ float64, _ color.Color) {}

type missingLogo struct{}

func (missingLogo) Probe(string) (image.Image, error) { return nil, errors.New("not found") }

type fixture struct {
	app     *App
	sched   *clock.Scheduler
	surface *nopSurface
}

func newFixture(t *testing.T, mutate func(*config.Config), capb scene.Capability) fixture {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Ticker.Items = []string{"fast APIs", "calm tooling", "clear interfaces"}
	cfg.Entrance.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	sched := clock.New()
	surf := &nopSurface{}
	app, err := New(Deps{
		Config:     cfg,
		Timing:     style.NewReader(style.MapSource(cfg.Style)),
		Sched:      sched,
		Surface:    surf,
		Hero:       scene.FixedMeasurer{Advance: 20, Line: 48},
		Small:      scene.FixedMeasurer{Advance: 8, Line: 16},
		Prober:     missingLogo{},
		Capability: capb,
		Viewport:   scene.Viewport{W: 1280, H: 720},
		Rand:       rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	return fixture{app: app, sched: sched, surface: surf}
}

func (f fixture) run(d time.Duration) {
	for end := f.sched.Now() + d; f.sched.Now() < end; {
		f.app.Tick(frame)
	}
}

var mouse = scene.Capability{Hover: true}

func TestResolveCapability(t *testing.T) {
	tests := []struct {
		pointer string
		touch   bool
		want    scene.Capability
	}{
		{"mouse", true, scene.Capability{Hover: true}},
		{"touch", false, scene.Capability{Touch: true}},
		{"auto", true, scene.Capability{Touch: true}},
		{"auto", false, scene.Capability{Hover: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveCapability(tt.pointer, tt.touch), "%s/%v", tt.pointer, tt.touch)
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Ticker.Mode = "spiral"
	_, err := New(Deps{Config: cfg, Sched: clock.New(), Surface: &nopSurface{}})
	assert.ErrorIs(t, err, ticker.ErrUnknownMode)
}

func TestFallbackRevealsHeroAndStartsAutoAdvance(t *testing.T) {
	f := newFixture(t, nil, mouse)
	f.app.Start(nil)

	assert.False(t, f.app.Page.Wrap.Visible())
	assert.False(t, f.app.Ticker.AutoAdvancing())

	f.run(2 * time.Second)
	assert.True(t, f.app.Page.Wrap.Visible())
	assert.True(t, f.app.Page.Ticker.Visible())
	assert.True(t, f.app.Shown())
	assert.True(t, f.app.Ticker.AutoAdvancing())
}

func TestEntranceTimelineShowsHeroBeforeFallback(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Entrance.Enabled = true }, mouse)
	f.app.Start(nil)
	assert.Zero(t, f.app.Page.Wrap.Alpha)

	f.run(1300 * time.Millisecond)
	assert.True(t, f.app.Shown())
	assert.Equal(t, 1.0, f.app.Page.Wrap.Alpha)
	assert.True(t, f.app.Ticker.AutoAdvancing())

	// The mouse indicator bobs after the timeline.
	f.run(600 * time.Millisecond)
	assert.Less(t, f.app.Page.Mouse.Lift, 0.0)
}

func TestCarouselWaitsForReadiness(t *testing.T) {
	f := newFixture(t, nil, mouse)
	ready := clock.NewSignal()
	f.app.Start(ready)

	f.run(3 * time.Second)
	assert.Equal(t, ticker.StateIdle, f.app.Ticker.State())

	ready.Resolve()
	assert.Equal(t, ticker.StateDisplaying, f.app.Ticker.State())
	assert.True(t, f.app.Ticker.AutoAdvancing(), "hero was already shown")
}

// One loop: steps at 3.2 s, 4.4 s and 5.6 s (clone), wrap at 6.08 s, then
// the interlude with the text fallback.
func TestLoopCycleThroughInterlude(t *testing.T) {
	f := newFixture(t, nil, mouse)
	f.app.Start(nil)
	f.run(2 * time.Second)
	startIndex, startActive := f.app.Ticker.Index(), f.app.Ticker.ActiveIndex()

	var sawLogoText bool
	unlocked := false
	for f.sched.Now() < 16*time.Second && !unlocked {
		f.app.Tick(frame)
		if o := f.app.Overlay(); o != nil {
			require.True(t, f.app.Ticker.Locked())
			sawLogoText = sawLogoText || o.Text == "LANDING"
		}
		if f.app.Interlude.Runs() == 1 && !f.app.Ticker.Locked() {
			unlocked = true
		}
	}

	require.True(t, unlocked)
	assert.True(t, sawLogoText)
	assert.Nil(t, f.app.Overlay())
	assert.Equal(t, startIndex, f.app.Ticker.Index())
	assert.Equal(t, startActive, f.app.Ticker.ActiveIndex())
	assert.True(t, f.app.Page.Ticker.Visible())
}

func TestHoverOverTicker(t *testing.T) {
	f := newFixture(t, nil, mouse)
	f.app.Start(nil)
	f.run(2 * time.Second)
	require.True(t, f.app.Ticker.AutoAdvancing())

	row := f.app.Page.Ticker.Bounds
	build := f.app.Page.Build.Bounds
	gap := scene.Point{X: build.X + build.W + 2, Y: row.Y + 2}
	require.True(t, row.Contains(gap))

	f.app.PointerMove(gap)
	assert.True(t, f.app.Cursor.Active())
	assert.False(t, f.app.Cursor.Hover())
	assert.False(t, f.app.Ticker.AutoAdvancing())

	f.app.PointerMove(build.Center())
	assert.True(t, f.app.Cursor.Hover())

	f.app.PointerMove(scene.Point{X: 5, Y: 5})
	assert.False(t, f.app.Cursor.Active())
	assert.False(t, f.app.Cursor.Hover())
	assert.True(t, f.app.Ticker.AutoAdvancing())
}

func TestHoverOverItemInView(t *testing.T) {
	f := newFixture(t, nil, mouse)
	f.app.Start(nil)
	f.run(2 * time.Second)

	item := f.app.Ticker.Items()[0].Bounds
	f.app.PointerMove(item.Center())
	assert.True(t, f.app.Cursor.Hover())
}

func TestTouchDisablesPointerEffects(t *testing.T) {
	f := newFixture(t, nil, scene.Capability{Touch: true})
	f.app.Start(nil)

	assert.True(t, f.app.Page.Cursor.Hidden)
	assert.False(t, f.app.Parallax.Listening())

	f.app.PointerMove(f.app.Page.Build.Bounds.Center())
	assert.False(t, f.app.Cursor.Active())
	for _, pill := range f.app.Page.Pills {
		assert.Zero(t, pill.Offset)
	}
}

func TestBoundedModeInput(t *testing.T) {
	f := newFixture(t, func(c *config.Config) { c.Ticker.Mode = "bounded" }, mouse)
	f.app.Start(nil)
	assert.Nil(t, f.app.Interlude)
	assert.Nil(t, f.app.Overlay())

	assert.True(t, f.app.Wheel(100))
	assert.Equal(t, 1, f.app.Ticker.Index())
	f.run(time.Second)

	assert.True(t, f.app.Key(ticker.KeyDown))
	assert.Equal(t, 2, f.app.Ticker.Index())
	f.run(time.Second)

	f.app.TouchStart(400)
	f.app.TouchEnd(500)
	assert.Equal(t, 1, f.app.Ticker.Index())

	f.run(10 * time.Second)
	assert.Equal(t, 1, f.app.Ticker.Index(), "no auto-advance in bounded mode")
}

func TestResizeRelayoutsEverything(t *testing.T) {
	f := newFixture(t, nil, mouse)
	f.app.Start(nil)
	f.run(100 * time.Millisecond)
	assert.Equal(t, 1280, f.surface.w)

	before := f.app.Page.Ticker.Bounds
	f.app.Resize(scene.Viewport{W: 600, H: 800})
	assert.Equal(t, 600, f.surface.w)
	assert.Equal(t, 800, f.surface.h)
	assert.NotEqual(t, before, f.app.Page.Ticker.Bounds)
	assert.Equal(t, 0.3, f.app.Parallax.Multiplier())
	assert.Equal(t, scene.Viewport{W: 600, H: 800}, f.app.Viewport())
}

func TestStopHaltsLoops(t *testing.T) {
	f := newFixture(t, nil, mouse)
	f.app.Start(nil)
	f.run(3 * time.Second)

	f.app.Stop()
	assert.Zero(t, f.sched.Tasks())
	assert.False(t, f.app.Ticker.AutoAdvancing())
	assert.False(t, f.app.Particles.Running())
}
