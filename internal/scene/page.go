package scene

import "math"

// Anchors are fractional viewport positions, cycled when there are more
// elements than anchors.
var (
	pillAnchors = []Point{
		{0.14, 0.22}, {0.80, 0.18}, {0.22, 0.76},
		{0.78, 0.72}, {0.52, 0.12}, {0.60, 0.86},
	}
	decorAnchors = []Point{
		{0.18, 0.30}, {0.82, 0.64}, {0.50, 0.50}, {0.30, 0.82},
	}
)

// Page holds every element of the hero scene.
type Page struct {
	Decor  []*Element
	Pills  []*Element
	Wrap   *Element
	Build  *Element
	Ticker *Element
	Mouse  *Element
	Cursor *Element
}

// NewPage creates the hero elements. Decor alternates between "blob" and
// "ring".
func NewPage(buildLabel, tagline string, pills []string, decor int) *Page {
	p := &Page{
		Wrap:   NewElement("wrap", tagline),
		Build:  NewElement("build", buildLabel),
		Ticker: NewElement("ticker", ""),
		Mouse:  NewElement("mouse", ""),
		Cursor: NewElement("cursor", ""),
	}
	for i := 0; i < decor; i++ {
		name := "blob"
		if i%2 == 1 {
			name = "ring"
		}
		p.Decor = append(p.Decor, NewElement(name, ""))
	}
	for _, label := range pills {
		p.Pills = append(p.Pills, NewElement("pill", label))
	}
	return p
}

// Layout positions everything for the viewport. hero measures the ticker
// line, small measures pill labels. Items are laid out in track
// coordinates: item i sits i line-heights below the ticker row.
func (p *Page) Layout(vp Viewport, hero, small Measurer, items []*Element) {
	buildW, lineH := hero.Measure(p.Build.Label)
	itemW := 0.0
	for _, it := range items {
		w, h := hero.Measure(it.Label)
		itemW = math.Max(itemW, w)
		lineH = math.Max(lineH, h)
	}
	gap := lineH * 0.35
	rowW := buildW + gap + itemW
	rowX := (vp.W - rowW) / 2
	rowY := (vp.H - lineH) / 2

	p.Build.Bounds = Rect{X: rowX, Y: rowY, W: buildW, H: lineH}
	p.Ticker.Bounds = Rect{X: rowX, Y: rowY, W: rowW, H: lineH}
	for i, it := range items {
		w, _ := hero.Measure(it.Label)
		it.Bounds = Rect{X: rowX + buildW + gap, Y: rowY + float64(i)*lineH, W: w, H: lineH}
	}

	tagW, tagH := small.Measure(p.Wrap.Label)
	wrapW := math.Max(rowW, tagW)
	p.Wrap.Bounds = Rect{
		X: (vp.W - wrapW) / 2,
		Y: rowY - lineH*0.5,
		W: wrapW,
		H: lineH*2 + tagH,
	}

	p.Mouse.Bounds = Rect{X: vp.W/2 - 12, Y: vp.H - 84, W: 24, H: 40}
	p.Cursor.Bounds.W, p.Cursor.Bounds.H = 12, 12

	short := math.Min(vp.W, vp.H)
	for i, d := range p.Decor {
		a := decorAnchors[i%len(decorAnchors)]
		size := short * (0.42 - 0.06*float64(i%3))
		d.Bounds = Rect{X: a.X*vp.W - size/2, Y: a.Y*vp.H - size/2, W: size, H: size}
	}

	for i, pill := range p.Pills {
		a := pillAnchors[i%len(pillAnchors)]
		tw, th := small.Measure(pill.Label)
		pad := th * 0.6
		w, h := tw+2*pad, th+pad
		pill.Bounds = Rect{X: a.X*vp.W - w/2, Y: a.Y*vp.H - h/2, W: w, H: h}
	}
}

// All returns every static element in draw order (back to front). Ticker
// items and the cursor are drawn separately.
func (p *Page) All() []*Element {
	out := make([]*Element, 0, len(p.Decor)+len(p.Pills)+4)
	out = append(out, p.Decor...)
	out = append(out, p.Pills...)
	out = append(out, p.Wrap, p.Build, p.Ticker, p.Mouse)
	return out
}
