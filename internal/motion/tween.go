package motion

import "time"

// Tween interpolates a single value between From and To over Duration,
// starting at Start on the scheduler clock.
type Tween struct {
	From, To float64
	Start    time.Duration
	Duration time.Duration
	Ease     Easing
}

// Hold is a tween that sits at v.
func Hold(v float64) Tween {
	return Tween{From: v, To: v}
}

// Progress returns linear progress in [0, 1] at now.
func (tw Tween) Progress(now time.Duration) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	return Clamp01(float64(now-tw.Start) / float64(tw.Duration))
}

// At returns the interpolated value at now.
func (tw Tween) At(now time.Duration) float64 {
	p := tw.Progress(now)
	if tw.Ease != nil {
		p = tw.Ease(p)
	}
	return Lerp(tw.From, tw.To, p)
}

// Done reports whether the tween has reached its end value.
func (tw Tween) Done(now time.Duration) bool {
	return tw.Progress(now) >= 1
}

// Retarget starts a new tween from the current value at now.
func (tw Tween) Retarget(now time.Duration, to float64, d time.Duration, ease Easing) Tween {
	return Tween{From: tw.At(now), To: to, Start: now, Duration: d, Ease: ease}
}
