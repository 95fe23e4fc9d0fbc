// Package scene models the landing page as a small set of positioned
// elements that the effect components mutate and the frontends draw.
package scene

import "sort"

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Viewport is the drawable area in logical pixels.
type Viewport struct {
	W, H float64
}

func (v Viewport) Center() Point {
	return Point{X: v.W / 2, Y: v.H / 2}
}

// Capability describes the pointer hardware, resolved once at startup.
type Capability struct {
	Hover bool
	Touch bool
}

// Element is one drawable piece of the page. Offset is owned by the parallax
// driver; Lift, Alpha and Scale by the entrance timeline and interlude.
type Element struct {
	Name   string
	Label  string
	Bounds Rect
	Alpha  float64
	Scale  float64
	Lift   float64
	Offset Point
	Hidden bool

	classes map[string]struct{}
}

func NewElement(name, label string) *Element {
	return &Element{Name: name, Label: label, Alpha: 1, Scale: 1}
}

// Visible reports whether the element would draw anything.
func (e *Element) Visible() bool {
	return !e.Hidden && e.Alpha > 0
}

// Translate sets the parallax offset.
func (e *Element) Translate(x, y float64) {
	e.Offset = Point{X: x, Y: y}
}

// Position is the element's drawn top-left corner after offset and lift.
func (e *Element) Position() Point {
	return Point{X: e.Bounds.X + e.Offset.X, Y: e.Bounds.Y + e.Offset.Y + e.Lift}
}

func (e *Element) AddClass(name string) {
	if e.classes == nil {
		e.classes = make(map[string]struct{})
	}
	e.classes[name] = struct{}{}
}

func (e *Element) RemoveClass(name string) {
	delete(e.classes, name)
}

func (e *Element) HasClass(name string) bool {
	_, ok := e.classes[name]
	return ok
}

// Classes returns the element's classes in sorted order.
func (e *Element) Classes() []string {
	out := make([]string, 0, len(e.classes))
	for c := range e.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Measurer reports the rendered size of a line of text.
type Measurer interface {
	Measure(text string) (w, h float64)
}

// FixedMeasurer gives every glyph the same advance and every line the same
// height. The terminal frontend and tests use it.
type FixedMeasurer struct {
	Advance float64
	Line    float64
}

func (m FixedMeasurer) Measure(text string) (float64, float64) {
	if text == "" {
		return 0, 0
	}
	return float64(len([]rune(text))) * m.Advance, m.Line
}
