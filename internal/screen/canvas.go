package screen

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/landing-motion/internal/particles"
)

const spriteRadius = 16

// canvas is the particle surface: an offscreen image the field redraws
// every frame, stamped with a pre-rendered disc.
type canvas struct {
	img    *ebiten.Image
	sprite *ebiten.Image
	blend  ebiten.Blend
}

func blendFor(b particles.Blend) ebiten.Blend {
	if b == particles.BlendLighter {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}

func (c *canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if c.sprite == nil {
		c.sprite = ebiten.NewImage(2*spriteRadius, 2*spriteRadius)
		vector.DrawFilledCircle(c.sprite, spriteRadius, spriteRadius, spriteRadius, color.White, true)
	}
	if c.img != nil {
		if b := c.img.Bounds(); b.Dx() == w && b.Dy() == h {
			return
		}
		c.img.Deallocate()
	}
	c.img = ebiten.NewImage(w, h)
}

func (c *canvas) Clear() {
	if c.img != nil {
		c.img.Clear()
	}
}

func (c *canvas) SetBlend(b particles.Blend) { c.blend = blendFor(b) }

func (c *canvas) FillCircle(x, y, r float64, clr color.Color) {
	if c.img == nil || r <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{Blend: c.blend}
	s := r / spriteRadius
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(x-r, y-r)
	op.ColorScale.ScaleWithColor(clr)
	c.img.DrawImage(c.sprite, op)
}
