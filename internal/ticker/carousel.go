// Package ticker implements the vertically scrolling carousel of text lines.
//
// One state machine serves both operating modes. In bounded mode the user
// steps through the items with wheel, keys or swipes and the index is
// clamped. In loop mode a timer advances the track, a clone of the first
// item makes the wrap seamless, and reaching the clone fires the
// cycle-complete hook (the interlude).
package ticker

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/motion"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/style"
)

// ClassActive marks the item currently in view.
const ClassActive = "active"

// Style tokens read on every use.
const (
	TokenTransition = "--transition-speed"
	TokenPeriod     = "--ticker-speed"
)

var ErrUnknownMode = errors.New("unknown ticker mode")

// minLock keeps the input limiter finite and floors the auto-advance
// period, so a zero or negative token cannot re-arm a timer at the same
// instant forever.
const minLock = time.Millisecond

type Mode int

const (
	ModeLoop Mode = iota
	ModeBounded
)

func (m Mode) String() string {
	switch m {
	case ModeLoop:
		return "loop"
	case ModeBounded:
		return "bounded"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "loop":
		return ModeLoop, nil
	case "bounded":
		return ModeBounded, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

type State int

const (
	StateIdle State = iota
	StateDisplaying
	StateTransitioning
	StateLocked
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDisplaying:
		return "displaying"
	case StateTransitioning:
		return "transitioning"
	case StateLocked:
		return "locked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Key is a navigation key as seen by the carousel.
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyUp
	KeyPageDown
	KeyPageUp
)

type Options struct {
	Mode           Mode
	SwipeThreshold float64       // minimum vertical swipe, pixels
	LockRatio      float64       // input lock as a fraction of the transition
	SnapBuffer     time.Duration // wait after the clone transition before wrapping
}

// DefaultOptions is the stock tuning for mode.
func DefaultOptions(mode Mode) Options {
	return Options{
		Mode:           mode,
		SwipeThreshold: 50,
		LockRatio:      0.65,
		SnapBuffer:     80 * time.Millisecond,
	}
}

// Carousel owns the ticker track. It must only be used from the scheduler's
// goroutine.
type Carousel struct {
	sched    *clock.Scheduler
	timing   *style.Reader
	measurer scene.Measurer
	log      *zap.Logger
	opts     Options

	root  *scene.Element
	items []*scene.Element
	count int

	index     int
	lineH     float64
	offset    motion.Tween
	state     State
	started   bool
	animating bool
	wrapping  bool
	locked    bool
	paused    bool
	autoOn    bool

	settle *clock.Timer
	auto   *clock.Timer
	snap   *clock.Timer
	gate   *rate.Limiter
	touchY float64

	onCycle func()
}

// New builds the track from labels. In loop mode a clone of the first label
// is appended.
func New(root *scene.Element, labels []string, sched *clock.Scheduler, timing *style.Reader,
	measurer scene.Measurer, opts Options, log *zap.Logger) *Carousel {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Carousel{
		sched:    sched,
		timing:   timing,
		measurer: measurer,
		log:      log,
		opts:     opts,
		root:     root,
		count:    len(labels),
		gate:     rate.NewLimiter(rate.Every(minLock), 1),
	}
	for _, l := range labels {
		c.items = append(c.items, scene.NewElement("item", l))
	}
	if opts.Mode == ModeLoop && len(labels) > 0 {
		clone := scene.NewElement("item", labels[0])
		clone.AddClass("clone")
		c.items = append(c.items, clone)
	}
	return c
}

// OnCycleComplete registers the hook fired after the loop wraps to 0.
func (c *Carousel) OnCycleComplete(fn func()) { c.onCycle = fn }

// Start measures, snaps to the first item and, in loop mode, enables
// auto-advance once entrance resolves (immediately when nil).
func (c *Carousel) Start(entrance *clock.Signal) {
	if c.started {
		return
	}
	c.measure()
	c.started = true
	c.state = StateDisplaying
	c.snapTo(0)
	c.log.Debug("carousel started",
		zap.Stringer("mode", c.opts.Mode),
		zap.Int("items", c.count),
		zap.Float64("line_height", c.lineH))

	if c.opts.Mode != ModeLoop {
		return
	}
	if entrance == nil {
		entrance = clock.Resolved()
	}
	entrance.Then(func() {
		c.autoOn = true
		c.scheduleAuto()
	})
}

// Stop cancels every pending timer the carousel owns.
func (c *Carousel) Stop() {
	c.stopAuto()
	c.autoOn = false
	c.settle.Stop()
	c.snap.Stop()
	c.wrapping = false
	c.started = false
	c.state = StateIdle
}

func (c *Carousel) transition() time.Duration {
	fallback := 400 * time.Millisecond
	if c.opts.Mode == ModeBounded {
		fallback = 600 * time.Millisecond
	}
	return c.timing.Duration(TokenTransition, fallback)
}

func (c *Carousel) period() time.Duration {
	return c.timing.Duration(TokenPeriod, 1200*time.Millisecond)
}

// measure takes the line height from the first item's rendered height. A
// zero height keeps the previous value.
func (c *Carousel) measure() {
	if len(c.items) == 0 || c.measurer == nil {
		return
	}
	if _, h := c.measurer.Measure(c.items[0].Label); h > 0 {
		c.lineH = h
	}
}

// Step advances by one item. It reports whether a transition started.
func (c *Carousel) Step() bool {
	if !c.started || c.locked || c.animating || c.wrapping || len(c.items) == 0 {
		return false
	}
	last := len(c.items) - 1
	if c.opts.Mode == ModeBounded && c.index >= last {
		return false
	}
	to := (c.index + 1) % len(c.items)
	d := c.scrollTo(to)
	if c.opts.Mode == ModeLoop && to == last {
		c.wrapping = true
		c.snap = c.sched.After(d+c.opts.SnapBuffer, c.wrap)
	}
	return true
}

// Prev steps back one item in bounded mode.
func (c *Carousel) Prev() bool {
	if !c.started || c.locked || c.animating || c.opts.Mode != ModeBounded || c.index == 0 {
		return false
	}
	c.scrollTo(c.index - 1)
	return true
}

// wrap jumps from the clone back to the real first item and hands over to
// the cycle-complete hook.
func (c *Carousel) wrap() {
	c.wrapping = false
	c.snap = nil
	if !c.started {
		return
	}
	c.snapTo(0)
	c.log.Debug("carousel cycle complete")
	if c.onCycle != nil {
		c.onCycle()
	}
}

// scrollTo animates the track to index and returns the transition length.
func (c *Carousel) scrollTo(index int) time.Duration {
	index = clampIndex(index, len(c.items))
	now := c.sched.Now()
	d := c.transition()
	c.index = index
	c.offset = c.offset.Retarget(now, -float64(index)*c.lineH, d, motion.Standard)
	c.setActive(index)

	c.animating = true
	c.state = StateTransitioning
	c.settle.Stop()
	c.settle = c.sched.After(d, func() {
		c.animating = false
		if c.state == StateTransitioning {
			c.state = StateDisplaying
		}
	})
	return d
}

// snapTo places the track at index with no animation, cancelling any
// transition in flight.
func (c *Carousel) snapTo(index int) {
	index = clampIndex(index, len(c.items))
	c.index = index
	c.offset = motion.Hold(-float64(index) * c.lineH)
	c.setActive(index)
	if c.settle.Stop() {
		c.animating = false
	}
	// Re-applying the clone keeps the pending wrap; anything else drops it.
	if !c.onClone(index) && c.snap.Stop() {
		c.wrapping = false
	}
	if c.state == StateTransitioning {
		c.state = StateDisplaying
	}
}

func (c *Carousel) onClone(i int) bool {
	return c.opts.Mode == ModeLoop && len(c.items) > 0 && i == len(c.items)-1
}

func (c *Carousel) setActive(i int) {
	for _, it := range c.items {
		it.RemoveClass(ClassActive)
	}
	if i >= 0 && i < len(c.items) {
		c.items[i].AddClass(ClassActive)
	}
}

func clampIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Max(0, math.Min(float64(n-1), float64(i))))
}

func (c *Carousel) scheduleAuto() {
	c.stopAuto()
	if !c.autoOn || c.paused || c.locked || !c.started {
		return
	}
	c.auto = c.sched.After(max(c.period(), minLock), func() {
		c.Step()
		c.scheduleAuto()
	})
}

func (c *Carousel) stopAuto() {
	c.auto.Stop()
	c.auto = nil
}

// AutoAdvancing reports whether the auto-advance timer is armed.
func (c *Carousel) AutoAdvancing() bool { return c.auto.Active() }

// request runs a bounded-mode navigation through the re-entrancy lock.
func (c *Carousel) request(forward bool) {
	if c.animating || c.locked {
		return
	}
	lock := time.Duration(float64(c.transition()) * c.opts.LockRatio)
	if lock < minLock {
		lock = minLock
	}
	now := c.wallTime()
	c.gate.SetLimitAt(now, rate.Every(lock))
	if !c.gate.AllowN(now, 1) {
		return
	}
	if forward {
		c.Step()
	} else {
		c.Prev()
	}
}

// wallTime maps scheduler time onto the limiter's clock.
func (c *Carousel) wallTime() time.Time {
	return time.Unix(0, 0).Add(c.sched.Now())
}

// Wheel handles a wheel delta (positive is scrolling down). It reports
// whether the event was consumed so the caller can suppress default
// scrolling.
func (c *Carousel) Wheel(deltaY float64) bool {
	if c.opts.Mode != ModeBounded {
		return false
	}
	if deltaY != 0 {
		c.request(deltaY > 0)
	}
	return true
}

// Key handles navigation keys in bounded mode.
func (c *Carousel) Key(k Key) bool {
	if c.opts.Mode != ModeBounded {
		return false
	}
	switch k {
	case KeyDown, KeyPageDown:
		c.request(true)
	case KeyUp, KeyPageUp:
		c.request(false)
	default:
		return false
	}
	return true
}

func (c *Carousel) TouchStart(y float64) {
	c.touchY = y
}

// TouchEnd turns a vertical swipe into one step; swiping up moves forward.
func (c *Carousel) TouchEnd(y float64) {
	if c.opts.Mode != ModeBounded {
		return
	}
	diff := c.touchY - y
	if math.Abs(diff) > c.opts.SwipeThreshold {
		c.request(diff > 0)
	}
}

// Resize re-measures and re-applies the current index without animation.
func (c *Carousel) Resize() {
	c.measure()
	if c.started {
		c.snapTo(c.index)
	}
}

// PointerEnter pauses auto-advance in loop mode.
func (c *Carousel) PointerEnter() {
	if c.opts.Mode != ModeLoop {
		return
	}
	c.paused = true
	c.stopAuto()
}

// PointerLeave resumes auto-advance unless the interlude holds the lock.
func (c *Carousel) PointerLeave() {
	if c.opts.Mode != ModeLoop {
		return
	}
	c.paused = false
	c.scheduleAuto()
}

// Lock pauses the carousel for the interlude.
func (c *Carousel) Lock() {
	c.locked = true
	c.stopAuto()
	c.state = StateLocked
	c.log.Debug("carousel locked")
}

func (c *Carousel) Hide() { c.root.Hidden = true }

func (c *Carousel) Show() { c.root.Hidden = false }

// Reset jumps to the first item with no animation.
func (c *Carousel) Reset() { c.snapTo(0) }

// Resume re-measures, releases the interlude lock and restarts
// auto-advance.
func (c *Carousel) Resume() {
	c.measure()
	c.snapTo(c.index)
	c.locked = false
	if c.started {
		c.state = StateDisplaying
	}
	c.log.Debug("carousel resumed")
	c.scheduleAuto()
}

func (c *Carousel) Index() int { return c.index }

// ActiveIndex returns the index of the single active item, or -1.
func (c *Carousel) ActiveIndex() int {
	for i, it := range c.items {
		if it.HasClass(ClassActive) {
			return i
		}
	}
	return -1
}

// ActiveCount is the number of items flagged active.
func (c *Carousel) ActiveCount() int {
	n := 0
	for _, it := range c.items {
		if it.HasClass(ClassActive) {
			n++
		}
	}
	return n
}

// Offset is the track's vertical translation at the current time.
func (c *Carousel) Offset() float64 { return c.offset.At(c.sched.Now()) }

func (c *Carousel) LineHeight() float64 { return c.lineH }

// Items includes the loop clone.
func (c *Carousel) Items() []*scene.Element { return c.items }

// Count is the number of real items, without the clone.
func (c *Carousel) Count() int { return c.count }

func (c *Carousel) State() State { return c.state }

func (c *Carousel) Mode() Mode { return c.opts.Mode }

func (c *Carousel) Locked() bool { return c.locked }

func (c *Carousel) Animating() bool { return c.animating }

func (c *Carousel) Root() *scene.Element { return c.root }
