package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/landing-motion/internal/cursor"
	"github.com/iburimskiy/landing-motion/internal/motion"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/ticker"
)

// Alpha below this draws nothing; below dimAlpha draws dim.
const (
	minAlpha = 0.1
	dimAlpha = 0.6
)

func (t *Terminal) hue(shift, s, v float64) tcell.Color {
	r, g, b := motion.HSVToRGB(t.cfg.Page.Hue+shift, s, v)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func fade(st tcell.Style, alpha float64) (tcell.Style, bool) {
	if alpha < minAlpha {
		return st, false
	}
	return st.Dim(alpha < dimAlpha), true
}

func (t *Terminal) text(col, row int, s string, st tcell.Style) {
	cols, rows := t.screen.Size()
	if row < 0 || row >= rows {
		return
	}
	for i, r := range []rune(s) {
		if c := col + i; c >= 0 && c < cols {
			t.screen.SetContent(c, row, r, nil, st)
		}
	}
}

func (t *Terminal) draw() {
	t.screen.Clear()
	p := t.app.Page
	base := tcell.StyleDefault.Background(t.hue(0, 0.55, 0.08))
	cols, rows := t.screen.Size()

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := t.surface.At(col, row)
			t.screen.SetContent(col, row, glyph(v), nil, base.Foreground(t.hue(0, 0.2, 0.5+0.5*v)))
		}
	}

	for _, pill := range p.Pills {
		st, ok := fade(base.Foreground(t.hue(0, 0.3, 0.9)), pill.Alpha)
		if !ok || pill.Hidden {
			continue
		}
		col, row := toCell(pill.Position())
		t.text(col, row, "("+pill.Label+")", st)
	}

	t.drawHero(p, base)

	if o := t.app.Overlay(); o != nil {
		now := t.app.Now()
		if st, ok := fade(base.Foreground(tcell.ColorWhite).Bold(true), o.Alpha(now)); ok {
			label := o.Text
			if label == "" {
				label = "[logo]"
			}
			c := t.app.Viewport().Center()
			col, row := toCell(scene.Point{X: c.X, Y: c.Y + o.Shift(now)})
			t.text(col-len([]rune(label))/2, row, label, st)
		}
	}

	if m := p.Mouse; !m.Hidden {
		if st, ok := fade(base.Foreground(tcell.ColorSilver), m.Alpha); ok {
			col, row := toCell(m.Position())
			t.text(col, row, "v", st)
		}
	}

	if dot := p.Cursor; !dot.Hidden {
		col, row := toCell(dot.Bounds.Center())
		st := base.Reverse(true)
		if dot.HasClass(cursor.ClassHover) {
			st = st.Foreground(t.hue(0, 0.45, 1))
		}
		if col >= 0 && col < cols && row >= 0 && row < rows {
			r, _, _, _ := t.screen.GetContent(col, row)
			t.screen.SetContent(col, row, r, nil, st)
		}
	}

	if t.debug {
		tk := t.app.Ticker
		t.text(0, 0, fmt.Sprintf("%s %s | index %d/%d | frames %d", tk.Mode(), tk.State(), tk.Index(), tk.Count(), t.frames),
			tcell.StyleDefault.Reverse(true))
	}
	t.screen.Show()
}

// drawHero writes the tagline, the build label and whichever ticker item
// sits on the row after the track offset.
func (t *Terminal) drawHero(p *scene.Page, base tcell.Style) {
	wrap := p.Wrap
	if wrap.Hidden {
		return
	}
	st, ok := fade(base.Foreground(tcell.ColorSilver), wrap.Alpha)
	if !ok {
		return
	}
	if wrap.Label != "" {
		col, row := toCell(scene.Point{X: wrap.Bounds.Center().X, Y: wrap.Bounds.Y + wrap.Bounds.H - cellH/2 + wrap.Lift})
		t.text(col-len([]rune(wrap.Label))/2, row, wrap.Label, st)
	}

	b := p.Build.Position()
	col, rowY := toCell(scene.Point{X: b.X, Y: b.Y + wrap.Lift + cellH/2})
	if bst, ok := fade(base.Foreground(tcell.ColorWhite).Bold(true), wrap.Alpha*p.Build.Alpha); ok {
		t.text(col, rowY, p.Build.Label, bst)
	}

	row := p.Ticker
	if row.Hidden {
		return
	}
	offset := t.app.Ticker.Offset()
	for _, it := range t.app.Ticker.Items() {
		pos := it.Position()
		y := pos.Y + offset
		// Only the item aligned with the row is visible through the mask.
		if math.Abs(y-row.Bounds.Y) >= row.Bounds.H/2 {
			continue
		}
		ist := base.Foreground(tcell.ColorGray)
		if it.HasClass(ticker.ClassActive) {
			ist = base.Foreground(t.hue(0, 0.45, 1)).Bold(true)
		}
		ist, ok := fade(ist, wrap.Alpha*row.Alpha*it.Alpha)
		if !ok {
			continue
		}
		icol, _ := toCell(pos)
		t.text(icol, rowY, it.Label, ist)
	}
}
