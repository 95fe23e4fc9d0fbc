// Package screen is the windowed frontend: an ebiten game that feeds input
// to the page and draws the scene every frame.
package screen

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/iburimskiy/landing-motion/internal/assets"
	"github.com/iburimskiy/landing-motion/internal/audio"
	"github.com/iburimskiy/landing-motion/internal/clock"
	"github.com/iburimskiy/landing-motion/internal/config"
	"github.com/iburimskiy/landing-motion/internal/interlude"
	"github.com/iburimskiy/landing-motion/internal/page"
	"github.com/iburimskiy/landing-motion/internal/scene"
	"github.com/iburimskiy/landing-motion/internal/style"
	"github.com/iburimskiy/landing-motion/internal/ticker"
)

const (
	// One wheel notch in ebiten is roughly 100px of scroll delta.
	wheelLine = 100
	maxFrame  = 100 * time.Millisecond
)

var keyMap = map[ebiten.Key]ticker.Key{
	ebiten.KeyArrowDown: ticker.KeyDown,
	ebiten.KeyArrowUp:   ticker.KeyUp,
	ebiten.KeyPageDown:  ticker.KeyPageDown,
	ebiten.KeyPageUp:    ticker.KeyPageUp,
}

// wheelDelta converts ebiten's wheel offset (positive is up) to a scroll
// delta (positive is down).
func wheelDelta(yoff float64) float64 {
	return -yoff * wheelLine
}

// clampFrame bounds a measured frame delta so a stalled window does not
// fast-forward every timeline at once.
func clampFrame(dt time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	if dt > maxFrame {
		return maxFrame
	}
	return dt
}

type Options struct {
	Config *config.Config
	Timing *style.Reader
	Images *assets.ImageCache
	Chime  *audio.Chime // optional
	Log    *zap.Logger
}

type Game struct {
	ctx    context.Context
	cfg    *config.Config
	timing *style.Reader
	images *assets.ImageCache
	chime  *audio.Chime
	log    *zap.Logger

	app     *page.App
	fonts   *Fonts
	canvas  *canvas
	sprites *spriteCache

	vp          scene.Viewport
	last        time.Time
	pointer     scene.Point
	touchActive bool
	debug       bool
}

func NewGame(ctx context.Context, opts Options) *Game {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	images := opts.Images
	if images == nil {
		images = assets.NewImageCache()
	}
	return &Game{
		ctx:     ctx,
		cfg:     opts.Config,
		timing:  opts.Timing,
		images:  images,
		chime:   opts.Chime,
		log:     log,
		fonts:   &Fonts{},
		canvas:  &canvas{},
		sprites: newSpriteCache(),
		vp:      scene.Viewport{W: float64(opts.Config.Window.Width), H: float64(opts.Config.Window.Height)},
		debug:   opts.Config.Window.Debug,
	}
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, opts Options) error {
	w := opts.Config.Window
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(w.TPS)

	g := NewGame(ctx, opts)
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

// start builds the page on the first update, when the real viewport and
// any touch input are known.
func (g *Game) start() error {
	sched := clock.New()
	capb := page.ResolveCapability(g.cfg.Window.Pointer, len(ebiten.AppendTouchIDs(nil)) > 0)

	var cue interlude.Cue
	if g.chime != nil {
		cue = g.chime
	}
	app, err := page.New(page.Deps{
		Config:     g.cfg,
		Timing:     g.timing,
		Sched:      sched,
		Surface:    g.canvas,
		Hero:       Measurer{Fonts: g.fonts, Bold: true, Size: heroSize},
		Small:      Measurer{Fonts: g.fonts, Size: smallSize},
		Prober:     g.images,
		Cue:        cue,
		Capability: capb,
		Viewport:   g.vp,
		Log:        g.log,
	})
	if err != nil {
		return err
	}
	g.app = app

	loaders := []assets.Loader{g.fonts.Load}
	if path := g.cfg.Interlude.LogoPath; path != "" {
		loaders = append(loaders, g.images.Prewarm(path, g.log.Named("assets")))
	}
	app.Start(assets.Ready(g.ctx, sched, g.log.Named("assets"), loaders...))

	if capb.Hover {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}
	g.last = time.Now()
	g.log.Info("window started",
		zap.Float64("width", g.vp.W),
		zap.Float64("height", g.vp.H),
		zap.Bool("touch", capb.Touch))
	return nil
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if g.app == nil {
		if err := g.start(); err != nil {
			return err
		}
	}

	g.handleInput()

	now := time.Now()
	g.app.Tick(clampFrame(now.Sub(g.last)))
	g.last = now
	return nil
}

func (g *Game) handleInput() {
	if x, y := ebiten.CursorPosition(); !g.touchActive {
		p := scene.Point{X: float64(x), Y: float64(y)}
		if p != g.pointer {
			g.pointer = p
			g.app.PointerMove(p)
		}
	}

	if _, yoff := ebiten.Wheel(); yoff != 0 {
		g.app.Wheel(wheelDelta(yoff))
	}

	for k, tk := range keyMap {
		if inpututil.IsKeyJustPressed(k) {
			g.app.Key(tk)
		}
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		_, y := ebiten.TouchPosition(id)
		g.touchActive = true
		g.app.TouchStart(float64(y))
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		_, y := inpututil.TouchPositionInPreviousTick(id)
		g.app.TouchEnd(float64(y))
	}
	if len(ebiten.AppendTouchIDs(nil)) == 0 {
		g.touchActive = false
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := scene.Viewport{W: float64(outsideWidth), H: float64(outsideHeight)}
	if vp != g.vp {
		g.vp = vp
		if g.app != nil {
			g.app.Resize(vp)
		}
	}
	return outsideWidth, outsideHeight
}

// Close stops the page and releases the audio device.
func (g *Game) Close() {
	if g.app != nil {
		g.app.Stop()
	}
	if g.chime != nil {
		g.chime.Close()
	}
}
