package term

import (
	"image/color"
	"math"

	"github.com/iburimskiy/landing-motion/internal/particles"
)

// cellSurface rasterizes particles onto terminal cells. Each cell keeps an
// intensity; lighter blending adds, source-over replaces.
type cellSurface struct {
	cols, rows int
	cellW      float64
	cellH      float64
	blend      particles.Blend
	light      []float64
}

func newCellSurface(cellW, cellH float64) *cellSurface {
	return &cellSurface{cellW: cellW, cellH: cellH}
}

// Resize takes logical pixels.
func (s *cellSurface) Resize(w, h int) {
	s.cols = int(math.Ceil(float64(w) / s.cellW))
	s.rows = int(math.Ceil(float64(h) / s.cellH))
	s.light = make([]float64, s.cols*s.rows)
}

func (s *cellSurface) Clear() { clear(s.light) }

func (s *cellSurface) SetBlend(b particles.Blend) { s.blend = b }

// FillCircle lights the cell holding the center. Particles are far smaller
// than a cell.
func (s *cellSurface) FillCircle(x, y, r float64, c color.Color) {
	col, row := int(x/s.cellW), int(y/s.cellH)
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return
	}
	_, _, _, a := c.RGBA()
	v := float64(a) / 0xffff * math.Min(1, r)
	i := row*s.cols + col
	if s.blend == particles.BlendLighter {
		s.light[i] = math.Min(1, s.light[i]+v)
		return
	}
	s.light[i] = v
}

// At is the light in a cell, zero outside the grid.
func (s *cellSurface) At(col, row int) float64 {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return 0
	}
	return s.light[row*s.cols+col]
}

func glyph(v float64) rune {
	switch {
	case v >= 0.9:
		return '*'
	case v >= 0.5:
		return '+'
	case v > 0:
		return '.'
	default:
		return ' '
	}
}
