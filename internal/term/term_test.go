package term

import (
	"context"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iburimskiy/landing-motion/internal/config"
	"github.com/iburimskiy/landing-motion/internal/particles"
	"github.com/iburimskiy/landing-motion/internal/style"
)

const frame = 20 * time.Millisecond

func newTerminal(t *testing.T, mutate func(*config.Config)) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)

	cfg := config.NewDefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	cfg.Window.Pointer = "mouse"
	term := New(screen, Options{Config: cfg, Timing: style.NewReader(style.MapSource(cfg.Style))})
	return term, screen
}

func (t *Terminal) run(d time.Duration) {
	for end := t.app.Now() + d; t.app.Now() < end; {
		t.frame(frame)
	}
}

func rowText(s tcell.SimulationScreen, row int) string {
	cols, _ := s.Size()
	var b strings.Builder
	for col := 0; col < cols; col++ {
		r, _, _, _ := s.GetContent(col, row)
		b.WriteRune(r)
	}
	return b.String()
}

func findRow(s tcell.SimulationScreen, needle string) int {
	_, rows := s.Size()
	for row := 0; row < rows; row++ {
		if strings.Contains(rowText(s, row), needle) {
			return row
		}
	}
	return -1
}

func TestCellSurfaceBlending(t *testing.T) {
	s := newCellSurface(cellW, cellH)
	s.Resize(80, 32)
	dot := color.NRGBA{R: 255, G: 255, B: 255, A: 128}

	s.SetBlend(particles.BlendLighter)
	s.FillCircle(4, 4, 1, dot)
	s.FillCircle(5, 6, 1, dot)
	assert.InDelta(t, 1.0, s.At(0, 0), 0.01)
	assert.Equal(t, '*', glyph(s.At(0, 0)))

	s.SetBlend(particles.BlendSourceOver)
	s.FillCircle(4, 4, 1, dot)
	assert.InDelta(t, 0.5, s.At(0, 0), 0.01)

	s.FillCircle(-1, 4, 1, dot)
	s.FillCircle(800, 4, 1, dot)
	assert.Zero(t, s.At(-1, 0))
	assert.Zero(t, s.At(10, 0))

	s.Clear()
	assert.Zero(t, s.At(0, 0))
	assert.Equal(t, ' ', glyph(0))
}

func TestDrawsHeroRow(t *testing.T) {
	term, screen := newTerminal(t, nil)
	defer screen.Fini()
	require.NoError(t, term.start(context.Background()))
	defer term.app.Stop()

	term.run(200 * time.Millisecond)
	assert.Equal(t, -1, findRow(screen, "We build"), "hidden until the entrance plays")

	// The entrance ends at 1.2 s; the first auto step is 1.2 s later.
	term.run(time.Second + 800*time.Millisecond)
	row := findRow(screen, "We build")
	require.NotEqual(t, -1, row)
	assert.Contains(t, rowText(screen, row), "fast APIs")
}

func TestMouseRoutesToPage(t *testing.T) {
	term, screen := newTerminal(t, func(c *config.Config) {
		c.Ticker.Mode = "bounded"
		c.Entrance.Enabled = false
	})
	defer screen.Fini()
	require.NoError(t, term.start(context.Background()))
	defer term.app.Stop()
	term.run(2 * time.Second)

	build := term.app.Page.Build.Bounds.Center()
	col, row := toCell(build)
	assert.True(t, term.handle(tcell.NewEventMouse(col, row, tcell.ButtonNone, tcell.ModNone)))
	assert.True(t, term.app.Cursor.Active())
	assert.True(t, term.app.Cursor.Hover())

	assert.True(t, term.handle(tcell.NewEventMouse(col, row, tcell.WheelDown, tcell.ModNone)))
	assert.Equal(t, 1, term.app.Ticker.Index())
	term.run(time.Second)
	term.handle(tcell.NewEventMouse(col, row, tcell.WheelUp, tcell.ModNone))
	assert.Equal(t, 0, term.app.Ticker.Index())
}

func TestResizeEvent(t *testing.T) {
	term, screen := newTerminal(t, nil)
	defer screen.Fini()
	require.NoError(t, term.start(context.Background()))
	defer term.app.Stop()

	screen.SetSize(120, 40)
	assert.True(t, term.handle(tcell.NewEventResize(120, 40)))
	assert.Equal(t, 120.0*cellW, term.app.Viewport().W)
	assert.Equal(t, 40.0*cellH, term.app.Viewport().H)
}

func TestRunStopsOnCancel(t *testing.T) {
	term, _ := newTerminal(t, nil)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	assert.NoError(t, term.Run(ctx))
	assert.Greater(t, term.frames, 0)
}
