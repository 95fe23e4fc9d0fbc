package interlude

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/style"
	"github.com/iburimskiy/landing-motion/internal/ticker"
)

type fakeCarousel struct {
	calls  []string
	locked bool
}

func (f *fakeCarousel) Lock()   { f.calls = append(f.calls, "lock"); f.locked = true }
func (f *fakeCarousel) Hide()   { f.calls = append(f.calls, "hide") }
func (f *fakeCarousel) Reset()  { f.calls = append(f.calls, "reset") }
func (f *fakeCarousel) Show()   { f.calls = append(f.calls, "show") }
func (f *fakeCarousel) Resume() { f.calls = append(f.calls, "resume"); f.locked = false }

type fakeProber struct {
	img image.Image
	err error
}

func (p fakeProber) Probe(string) (image.Image, error) { return p.img, p.err }

type countingCue struct{ plays int }

func (c *countingCue) Play() { c.plays++ }

func testOptions() Options {
	opts := DefaultOptions()
	opts.LogoPath = "logo.png"
	return opts
}

// Phase boundaries with the default options.
const (
	fadeIn      = 50 * time.Millisecond
	messageExit = 3850 * time.Millisecond
	messageGone = 4450 * time.Millisecond
	logoExit    = 7850 * time.Millisecond
	logoGone    = 8450 * time.Millisecond
	resumed     = 8850 * time.Millisecond
)

func TestSequenceOrder(t *testing.T) {
	sched := clock.New()
	car := &fakeCarousel{}
	cue := &countingCue{}
	seq := New(sched, car, fakeProber{img: image.NewRGBA(image.Rect(0, 0, 8, 8))}, cue,
		testOptions(), scene.Viewport{W: 1280, H: 720}, nil)

	done := seq.Run()
	assert.Equal(t, []string{"lock", "hide"}, car.calls)
	assert.Equal(t, PhaseMessage, seq.Phase())
	require.NotNil(t, seq.Overlay())
	assert.Equal(t, KindMessage, seq.Overlay().Kind)
	assert.Equal(t, "Let's build.", seq.Overlay().Text)

	sched.Advance(messageGone - time.Millisecond)
	assert.Equal(t, KindMessage, seq.Overlay().Kind)

	sched.Advance(time.Millisecond)
	require.NotNil(t, seq.Overlay())
	assert.Equal(t, KindLogo, seq.Overlay().Kind)
	assert.Equal(t, 240.0, seq.Overlay().Size)
	assert.Equal(t, 1, cue.plays)
	assert.True(t, seq.Sizing())

	sched.Advance(logoGone - messageGone)
	assert.Nil(t, seq.Overlay())
	assert.False(t, seq.Sizing())
	assert.Equal(t, PhaseRestart, seq.Phase())
	assert.Equal(t, []string{"lock", "hide", "reset", "show"}, car.calls)
	assert.False(t, done.Done())

	sched.Advance(resumed - logoGone)
	assert.Equal(t, []string{"lock", "hide", "reset", "show", "resume"}, car.calls)
	assert.True(t, done.Done())
	assert.Equal(t, PhaseIdle, seq.Phase())
	assert.Equal(t, 2, seq.Slot().Mounts())
}

func TestMessageAnimation(t *testing.T) {
	sched := clock.New()
	seq := New(sched, &fakeCarousel{}, nil, nil, testOptions(), scene.Viewport{W: 1280, H: 720}, nil)
	seq.Run()

	o := seq.Overlay()
	require.NotNil(t, o)
	assert.Zero(t, o.Alpha(sched.Now()))
	assert.Equal(t, 0.96, o.Scale(sched.Now()))

	sched.Advance(fadeIn + 600*time.Millisecond)
	assert.InDelta(t, 1, o.Alpha(sched.Now()), 1e-9)
	assert.InDelta(t, 1, o.Scale(sched.Now()), 1e-9)

	sched.Advance(messageExit - sched.Now() + 600*time.Millisecond - time.Millisecond)
	assert.Less(t, o.Alpha(sched.Now()), 0.01)
	assert.InDelta(t, 1.04, o.Scale(sched.Now()), 1e-3)
	assert.InDelta(t, -12, o.Shift(sched.Now()), 0.1)
}

func TestLogoFallsBackToText(t *testing.T) {
	sched := clock.New()
	cue := &countingCue{}
	seq := New(sched, &fakeCarousel{}, fakeProber{err: errors.New("404")}, cue,
		testOptions(), scene.Viewport{W: 1280, H: 720}, nil)
	seq.Run()
	sched.Advance(messageGone)

	o := seq.Overlay()
	require.NotNil(t, o)
	assert.Equal(t, KindLogoText, o.Kind)
	assert.Equal(t, "LANDING", o.Text)
	assert.Nil(t, o.Logo)
	assert.False(t, seq.Sizing())
	assert.Equal(t, 1, cue.plays, "the cue plays for either branch")
}

func TestMissingLogoPathUsesText(t *testing.T) {
	sched := clock.New()
	opts := testOptions()
	opts.LogoPath = ""
	seq := New(sched, &fakeCarousel{}, fakeProber{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}, nil,
		opts, scene.Viewport{W: 1280}, nil)
	seq.Run()
	sched.Advance(messageGone)
	require.NotNil(t, seq.Overlay())
	assert.Equal(t, KindLogoText, seq.Overlay().Kind)
}

func TestLogoSizeFollowsViewport(t *testing.T) {
	sched := clock.New()
	seq := New(sched, &fakeCarousel{}, fakeProber{img: image.NewRGBA(image.Rect(0, 0, 8, 8))}, nil,
		testOptions(), scene.Viewport{W: 400, H: 700}, nil)
	seq.Run()
	sched.Advance(messageGone)
	require.NotNil(t, seq.Overlay())
	assert.Equal(t, 140.0, seq.Overlay().Size)

	seq.Resize(scene.Viewport{W: 700, H: 700})
	assert.Equal(t, 180.0, seq.Overlay().Size)
	seq.Resize(scene.Viewport{W: 1024, H: 700})
	assert.Equal(t, 240.0, seq.Overlay().Size)

	// Listener is detached once the logo is gone.
	sched.Advance(logoGone - messageGone)
	seq.Resize(scene.Viewport{W: 300, H: 700})
	assert.False(t, seq.Sizing())
}

func TestRunWhileRunningReturnsSameSignal(t *testing.T) {
	sched := clock.New()
	car := &fakeCarousel{}
	seq := New(sched, car, nil, nil, testOptions(), scene.Viewport{W: 1280}, nil)

	first := seq.Run()
	sched.Advance(time.Second)
	second := seq.Run()
	assert.Same(t, first, second)
	assert.Equal(t, 1, seq.Runs())
	assert.Equal(t, 1, seq.Slot().Mounts())

	sched.Advance(resumed)
	assert.True(t, first.Done())
	third := seq.Run()
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, seq.Runs())
}

func TestSlotRefusesSecondOverlay(t *testing.T) {
	var s Slot
	a := newOverlay(KindMessage, "a", 1)
	b := newOverlay(KindMessage, "b", 1)

	require.NoError(t, s.Mount(a))
	assert.ErrorIs(t, s.Mount(b), ErrSlotOccupied)
	assert.Same(t, a, s.Current())

	assert.False(t, s.Unmount(b))
	assert.True(t, s.Unmount(a))
	assert.Nil(t, s.Current())
	require.NoError(t, s.Mount(b))
}

func TestStopDropsOverlayAndTimers(t *testing.T) {
	sched := clock.New()
	car := &fakeCarousel{}
	seq := New(sched, car, nil, nil, testOptions(), scene.Viewport{W: 1280}, nil)
	seq.Run()
	sched.Advance(time.Second)

	seq.Stop()
	assert.Nil(t, seq.Overlay())
	assert.False(t, seq.Running())
	assert.Zero(t, sched.Pending())

	sched.Advance(20 * time.Second)
	assert.NotContains(t, car.calls, "resume")
}

type lineMeasurer struct{ h float64 }

func (m lineMeasurer) Measure(s string) (float64, float64) { return float64(len(s)) * 8, m.h }

// A full loop cycle ends where startup left the carousel, and the overlay
// never outlives the lock.
func TestLoopCycleRoundTrip(t *testing.T) {
	sched := clock.New()
	timing := style.NewReader(style.MapSource{
		ticker.TokenTransition: "400ms",
		ticker.TokenPeriod:     "1.2s",
	})
	root := scene.NewElement("ticker", "")
	car := ticker.New(root, []string{"fast", "calm", "clear"}, sched, timing,
		lineMeasurer{h: 40}, ticker.DefaultOptions(ticker.ModeLoop), nil)
	seq := New(sched, car, fakeProber{img: image.NewRGBA(image.Rect(0, 0, 4, 4))}, nil,
		testOptions(), scene.Viewport{W: 1280, H: 720}, nil)
	car.OnCycleComplete(func() { seq.Run() })

	car.Start(nil)
	startIndex, startActive := car.Index(), car.ActiveIndex()
	require.Equal(t, 0, startIndex)

	const step = 10 * time.Millisecond
	var (
		sawOverlay  bool
		lastOverlay time.Duration
		unlockedAt  time.Duration = -1
	)
	for sched.Now() < 15*time.Second {
		sched.Advance(step)
		if seq.Overlay() != nil {
			sawOverlay = true
			lastOverlay = sched.Now()
			require.True(t, car.Locked(), "overlay showing at %v while unlocked", sched.Now())
			require.True(t, root.Hidden || seq.Phase() == PhaseRestart)
		}
		if sawOverlay && !car.Locked() && unlockedAt < 0 {
			unlockedAt = sched.Now()
			assert.Equal(t, startIndex, car.Index())
			assert.Equal(t, startActive, car.ActiveIndex())
			assert.Equal(t, 1, car.ActiveCount())
			assert.Zero(t, car.Offset())
			assert.False(t, root.Hidden)
			assert.True(t, car.AutoAdvancing())
		}
	}

	require.True(t, sawOverlay)
	require.Positive(t, unlockedAt)
	assert.Greater(t, unlockedAt, lastOverlay)
	assert.Equal(t, 2, seq.Slot().Mounts())
	assert.Equal(t, 1, seq.Runs())
}
