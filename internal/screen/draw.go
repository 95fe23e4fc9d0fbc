package screen

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/landing-motion/internal/cursor"
	"github.com/iburimskiy/landing-motion/internal/interlude"
	"github.com/iburimskiy/landing-motion/internal/motion"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/ticker"
)

const bandHeight = 4

// spriteCache uploads each decoded logo once.
type spriteCache struct {
	images map[image.Image]*ebiten.Image
}

func newSpriteCache() *spriteCache {
	return &spriteCache{images: make(map[image.Image]*ebiten.Image)}
}

func (c *spriteCache) get(img image.Image) *ebiten.Image {
	if e, ok := c.images[img]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img)
	c.images[img] = e
	return e
}

func tint(hue, s, v float64, alpha float64) color.Color {
	r, g, b := motion.HSVToRGB(hue, s, v)
	a := motion.Clamp01(alpha)
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a * 255)}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	if g.app == nil {
		return
	}
	p := g.app.Page

	g.drawDecor(screen, p.Decor)
	if g.canvas.img != nil {
		screen.DrawImage(g.canvas.img, &ebiten.DrawImageOptions{Blend: ebiten.BlendLighter})
	}
	g.drawPills(screen, p.Pills)
	g.drawHero(screen, p)
	g.drawOverlay(screen)
	g.drawMouse(screen, p.Mouse)
	g.drawCursor(screen, p.Cursor)

	if g.debug {
		g.drawHUD(screen)
	}
}

func (g *Game) drawBackground(screen *ebiten.Image) {
	hue := g.cfg.Page.Hue
	t := 0.0
	if g.app != nil {
		t = g.app.Now().Seconds()
	}
	h := g.vp.H
	for y := 0.0; y < h; y += bandHeight {
		ratio := y / h
		v := 0.06 + 0.05*ratio + 0.015*math.Sin(t*0.5+ratio*math.Pi)
		vector.DrawFilledRect(screen, 0, float32(y), float32(g.vp.W), bandHeight+1,
			tint(hue+20*ratio, 0.55, v, 1), false)
	}
}

func (g *Game) drawDecor(screen *ebiten.Image, decor []*scene.Element) {
	hue := g.cfg.Page.Hue
	for i, d := range decor {
		if !d.Visible() {
			continue
		}
		pos := d.Position()
		r := d.Bounds.W / 2 * d.Scale
		cx, cy := float32(pos.X+d.Bounds.W/2), float32(pos.Y+d.Bounds.H/2)
		clr := tint(hue+float64(i)*35, 0.6, 0.8, d.Alpha*0.18)
		if d.Name == "ring" {
			vector.StrokeCircle(screen, cx, cy, float32(r), 2, clr, true)
			continue
		}
		vector.DrawFilledCircle(screen, cx, cy, float32(r), clr, true)
	}
}

func (g *Game) drawPills(screen *ebiten.Image, pills []*scene.Element) {
	face := g.fonts.Face(false, smallSize)
	hue := g.cfg.Page.Hue
	for _, pill := range pills {
		if !pill.Visible() {
			continue
		}
		pos := pill.Position()
		b := pill.Bounds
		w, h := b.W*pill.Scale, b.H*pill.Scale
		x, y := pos.X+(b.W-w)/2, pos.Y+(b.H-h)/2
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), tint(hue, 0.35, 0.25, pill.Alpha*0.7), true)
		vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, tint(hue, 0.3, 0.9, pill.Alpha*0.5), true)
		g.drawLabel(screen, face, pill.Label, x+w/2, y+h/2, color.White, pill.Alpha, text.AlignCenter)
	}
}

// drawHero draws the wrap with the tagline, the build label and the ticker
// clipped to its row. Children inherit the wrap's alpha and lift.
func (g *Game) drawHero(screen *ebiten.Image, p *scene.Page) {
	wrap := p.Wrap
	if !wrap.Visible() {
		return
	}
	lift := wrap.Lift
	hero := g.fonts.Face(true, heroSize)

	if wrap.Label != "" {
		b := wrap.Bounds
		g.drawLabel(screen, g.fonts.Face(false, smallSize), wrap.Label, b.X+b.W/2, b.Y+b.H-smallSize+lift, color.Gray{Y: 180}, wrap.Alpha, text.AlignCenter)
	}

	if p.Build.Visible() {
		pos := p.Build.Position()
		g.drawLabel(screen, hero, p.Build.Label, pos.X, pos.Y+p.Build.Bounds.H/2+lift, color.White,
			wrap.Alpha*p.Build.Alpha, text.AlignStart)
	}

	row := p.Ticker
	if !row.Visible() {
		return
	}
	rect := image.Rect(
		int(math.Floor(row.Bounds.X)), int(math.Floor(row.Bounds.Y+lift)),
		int(math.Ceil(row.Bounds.X+row.Bounds.W)), int(math.Ceil(row.Bounds.Y+row.Bounds.H+lift)),
	)
	clip, ok := screen.SubImage(rect).(*ebiten.Image)
	if !ok {
		return
	}
	offset := g.app.Ticker.Offset()
	accent := tint(g.cfg.Page.Hue, 0.45, 1, 1)
	for _, it := range g.app.Ticker.Items() {
		if it.Alpha <= 0 {
			continue
		}
		clr := color.Color(color.Gray{Y: 200})
		if it.HasClass(ticker.ClassActive) {
			clr = accent
		}
		pos := it.Position()
		g.drawLabel(clip, hero, it.Label, pos.X, pos.Y+offset+it.Bounds.H/2+lift, clr,
			wrap.Alpha*row.Alpha*it.Alpha, text.AlignStart)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	o := g.app.Overlay()
	if o == nil {
		return
	}
	now := g.app.Now()
	alpha := o.Alpha(now)
	if alpha <= 0 {
		return
	}
	scale := o.Scale(now)
	c := g.vp.Center()
	cy := c.Y + o.Shift(now)

	if g.chime != nil && o.Kind != interlude.KindMessage {
		if level := g.chime.Level(); level > 0 {
			r := float32(math.Max(o.Size, overlaySize*2) * (0.5 + level))
			vector.DrawFilledCircle(screen, float32(c.X), float32(cy), r, tint(g.cfg.Page.Hue, 0.5, 1, alpha*level*0.35), true)
		}
	}

	if o.Kind == interlude.KindLogo && o.Logo != nil {
		img := g.sprites.get(o.Logo)
		b := img.Bounds()
		s := o.Size / float64(b.Dx()) * scale
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
		op.GeoM.Scale(s, s)
		op.GeoM.Translate(c.X, cy)
		op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(img, op)
		return
	}

	face := g.fonts.Face(true, overlaySize*scale)
	g.drawLabel(screen, face, o.Text, c.X, cy, color.White, alpha, text.AlignCenter)
}

func (g *Game) drawMouse(screen *ebiten.Image, m *scene.Element) {
	if !m.Visible() {
		return
	}
	pos := m.Position()
	b := m.Bounds
	clr := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(motion.Clamp01(m.Alpha*0.6) * 255)}
	vector.StrokeRect(screen, float32(pos.X), float32(pos.Y), float32(b.W), float32(b.H), 1.5, clr, true)
	vector.DrawFilledCircle(screen, float32(pos.X+b.W/2), float32(pos.Y+b.H*0.3), 2.5, clr, true)
}

func (g *Game) drawCursor(screen *ebiten.Image, dot *scene.Element) {
	if dot.Hidden {
		return
	}
	c := dot.Bounds.Center()
	r := dot.Bounds.W / 2
	clr := color.NRGBA{R: 255, G: 255, B: 255, A: 200}
	switch {
	case dot.HasClass(cursor.ClassHover):
		r *= 3
		clr = color.NRGBA{R: 255, G: 255, B: 255, A: 70}
	case dot.HasClass(cursor.ClassActive):
		r *= 2
		clr = color.NRGBA{R: 255, G: 255, B: 255, A: 120}
	}
	vector.DrawFilledCircle(screen, float32(c.X), float32(c.Y), float32(r), clr, true)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	t := g.app.Ticker
	status := fmt.Sprintf("%s %s | index %d/%d | tps %.0f fps %.0f",
		t.Mode(), t.State(), t.Index(), t.Count(), ebiten.ActualTPS(), ebiten.ActualFPS())
	if s := g.app.Interlude; s != nil && s.Running() {
		status += " | interlude " + s.Phase().String()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// drawLabel draws s vertically centered on y. Without a face (fonts still
// loading) it falls back to the debug font.
func (g *Game) drawLabel(dst *ebiten.Image, face text.Face, s string, x, y float64, clr color.Color, alpha float64, align text.Align) {
	if s == "" || alpha <= 0 {
		return
	}
	if face == nil {
		ebitenutil.DebugPrintAt(dst, s, int(x), int(y)-8)
		return
	}
	op := &text.DrawOptions{}
	op.PrimaryAlign = align
	op.SecondaryAlign = text.AlignCenter
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.ColorScale.ScaleAlpha(float32(motion.Clamp01(alpha)))
	text.Draw(dst, s, face, op)
}
