// Package term is the terminal frontend. It renders the page onto tcell
// cells, one cell standing for cellW x cellH logical pixels.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
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
	cellW     = 8
	cellH     = 16
	wheelStep = 100
	maxFrame  = 100 * time.Millisecond
)

type Options struct {
	Config *config.Config
	Timing *style.Reader
	Images *assets.ImageCache
	Chime  *audio.Chime // optional
	Log    *zap.Logger
}

type Terminal struct {
	screen tcell.Screen
	cfg    *config.Config
	timing *style.Reader
	images *assets.ImageCache
	chime  *audio.Chime
	log    *zap.Logger

	app     *page.App
	surface *cellSurface
	debug   bool
	frames  int
}

// New takes an initialized screen; Run finalizes it.
func New(screen tcell.Screen, opts Options) *Terminal {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	images := opts.Images
	if images == nil {
		images = assets.NewImageCache()
	}
	return &Terminal{
		screen:  screen,
		cfg:     opts.Config,
		timing:  opts.Timing,
		images:  images,
		chime:   opts.Chime,
		log:     log,
		surface: newCellSurface(cellW, cellH),
		debug:   opts.Config.Window.Debug,
	}
}

func (t *Terminal) viewport() scene.Viewport {
	cols, rows := t.screen.Size()
	return scene.Viewport{W: float64(cols * cellW), H: float64(rows * cellH)}
}

// start builds and starts the page. Terminals have no touch input.
func (t *Terminal) start(ctx context.Context) error {
	var cue interlude.Cue
	if t.chime != nil {
		cue = t.chime
	}
	sched := clock.New()
	cells := scene.FixedMeasurer{Advance: cellW, Line: cellH}
	app, err := page.New(page.Deps{
		Config:     t.cfg,
		Timing:     t.timing,
		Sched:      sched,
		Surface:    t.surface,
		Hero:       cells,
		Small:      cells,
		Prober:     t.images,
		Cue:        cue,
		Capability: page.ResolveCapability(t.cfg.Window.Pointer, false),
		Viewport:   t.viewport(),
		Log:        t.log,
	})
	if err != nil {
		return err
	}
	t.app = app

	var loaders []assets.Loader
	if path := t.cfg.Interlude.LogoPath; path != "" {
		loaders = append(loaders, t.images.Prewarm(path, t.log.Named("assets")))
	}
	app.Start(assets.Ready(ctx, sched, t.log.Named("assets"), loaders...))
	return nil
}

// Run draws at the configured rate until ctx is done or the user quits.
func (t *Terminal) Run(ctx context.Context) error {
	defer t.screen.Fini()
	t.screen.EnableMouse(tcell.MouseMotionEvents)
	t.screen.HideCursor()

	if err := t.start(ctx); err != nil {
		return fmt.Errorf("start page: %w", err)
	}
	defer t.app.Stop()

	quit := make(chan struct{})
	defer close(quit)
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	tick := time.NewTicker(time.Second / time.Duration(t.cfg.Window.TPS))
	defer tick.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !t.handle(ev) {
				t.log.Info("terminal closed by user")
				return nil
			}
		case now := <-tick.C:
			dt := now.Sub(last)
			last = now
			t.frame(min(dt, maxFrame))
		}
	}
}

// frame advances the page and redraws.
func (t *Terminal) frame(dt time.Duration) {
	t.app.Tick(dt)
	t.frames++
	t.draw()
}

// handle routes one event and reports whether to keep running.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			t.app.Key(ticker.KeyDown)
		case tcell.KeyUp:
			t.app.Key(ticker.KeyUp)
		case tcell.KeyPgDn:
			t.app.Key(ticker.KeyPageDown)
		case tcell.KeyPgUp:
			t.app.Key(ticker.KeyPageUp)
		case tcell.KeyF3:
			t.debug = !t.debug
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return false
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.app.PointerMove(cellCenter(x, y))
		switch btn := ev.Buttons(); {
		case btn&tcell.WheelDown != 0:
			t.app.Wheel(wheelStep)
		case btn&tcell.WheelUp != 0:
			t.app.Wheel(-wheelStep)
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.app.Resize(t.viewport())
	}
	return true
}

func cellCenter(col, row int) scene.Point {
	return scene.Point{X: float64(col)*cellW + cellW/2, Y: float64(row)*cellH + cellH/2}
}

func toCell(p scene.Point) (int, int) {
	return int(p.X / cellW), int(p.Y / cellH)
}
