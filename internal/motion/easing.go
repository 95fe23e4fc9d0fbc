// Package motion holds easing curves, tweens and small numeric helpers
// shared by the animated components.
package motion

import "math"

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return Clamp01(t) }

// Power3Out decelerates sharply towards the end.
func Power3Out(t float64) float64 {
	t = Clamp01(t)
	u := 1 - t
	return 1 - u*u*u
}

// SineInOut accelerates then decelerates along a half cosine.
func SineInOut(t float64) float64 {
	t = Clamp01(t)
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// Standard is the material "standard" curve, cubic-bezier(0.4, 0, 0.2, 1).
var Standard = CubicBezier(0.4, 0.0, 0.2, 1)

// CubicBezier builds a CSS-style timing function with control points
// (x1, y1) and (x2, y2); the end points are fixed at (0,0) and (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	return func(t float64) float64 {
		x := Clamp01(t)
		if x == 0 || x == 1 {
			return x
		}
		return bezier(solveCurveX(x, x1, x2), y1, y2)
	}
}

// bezier evaluates one axis of the curve at parameter u.
func bezier(u, p1, p2 float64) float64 {
	omu := 1 - u
	return 3*omu*omu*u*p1 + 3*omu*u*u*p2 + u*u*u
}

func bezierSlope(u, p1, p2 float64) float64 {
	omu := 1 - u
	return 3*omu*omu*p1 + 6*omu*u*(p2-p1) + 3*u*u*(1-p2)
}

// solveCurveX finds u such that x(u) == x. Newton first, bisection when the
// slope flattens out.
func solveCurveX(x, x1, x2 float64) float64 {
	const eps = 1e-7
	u := x
	for i := 0; i < 8; i++ {
		dx := bezier(u, x1, x2) - x
		if math.Abs(dx) < eps {
			return u
		}
		slope := bezierSlope(u, x1, x2)
		if math.Abs(slope) < 1e-6 {
			break
		}
		u -= dx / slope
	}

	lo, hi := 0.0, 1.0
	u = x
	for i := 0; i < 64 && lo < hi; i++ {
		v := bezier(u, x1, x2)
		if math.Abs(v-x) < eps {
			return u
		}
		if x > v {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}
