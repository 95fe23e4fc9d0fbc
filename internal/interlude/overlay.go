package interlude

import (
	"errors"
	"image"
	"time"

	"github.com/iburimskiy/landing-motion/internal/motion"
)

var ErrSlotOccupied = errors.New("overlay slot occupied")

type Kind int

const (
	KindMessage Kind = iota
	KindLogo
	KindLogoText
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindLogo:
		return "logo"
	case KindLogoText:
		return "logo-text"
	default:
		return "unknown"
	}
}

// Overlay is the centered interlude element. Its look is a function of
// scheduler time.
type Overlay struct {
	Kind Kind
	Text string
	Logo image.Image
	Size float64 // logo width in pixels, zero for text

	alpha motion.Tween
	scale motion.Tween
	shift motion.Tween
}

func newOverlay(kind Kind, text string, scale float64) *Overlay {
	return &Overlay{
		Kind:  kind,
		Text:  text,
		alpha: motion.Hold(0),
		scale: motion.Hold(scale),
		shift: motion.Hold(0),
	}
}

func (o *Overlay) Alpha(now time.Duration) float64 { return o.alpha.At(now) }

func (o *Overlay) Scale(now time.Duration) float64 { return o.scale.At(now) }

// Shift is the vertical offset in pixels, negative is up.
func (o *Overlay) Shift(now time.Duration) float64 { return o.shift.At(now) }

func (o *Overlay) animate(now, d time.Duration, alpha, scale, shift float64, ease motion.Easing) {
	o.alpha = o.alpha.Retarget(now, alpha, d, ease)
	o.scale = o.scale.Retarget(now, scale, d, ease)
	o.shift = o.shift.Retarget(now, shift, d, ease)
}

// Slot holds at most one overlay.
type Slot struct {
	cur    *Overlay
	mounts int
}

// Mount places o in the slot. It fails while another overlay is mounted.
func (s *Slot) Mount(o *Overlay) error {
	if s.cur != nil {
		return ErrSlotOccupied
	}
	s.cur = o
	s.mounts++
	return nil
}

// Unmount removes o if it is the current overlay.
func (s *Slot) Unmount(o *Overlay) bool {
	if s.cur == nil || s.cur != o {
		return false
	}
	s.cur = nil
	return true
}

// Current returns the mounted overlay or nil.
func (s *Slot) Current() *Overlay { return s.cur }

// Mounts counts successful mounts over the slot's lifetime.
func (s *Slot) Mounts() int { return s.mounts }
