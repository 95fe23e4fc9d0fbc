package screen

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/landing-motion/internal/scene"
)

const (
	heroSize    = 40
	smallSize   = 16
	overlaySize = 56
)

// Fonts holds the parsed Go fonts. Load runs on the readiness goroutine;
// everything else reads from the game loop.
type Fonts struct {
	regular atomic.Pointer[text.GoTextFaceSource]
	bold    atomic.Pointer[text.GoTextFaceSource]
}

// Load parses the embedded faces. It satisfies assets.Loader.
func (f *Fonts) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return fmt.Errorf("parse bold font: %w", err)
	}
	f.regular.Store(regular)
	f.bold.Store(bold)
	return nil
}

func (f *Fonts) Loaded() bool {
	return f.regular.Load() != nil && f.bold.Load() != nil
}

// Face returns nil until Load has finished.
func (f *Fonts) Face(bold bool, size float64) text.Face {
	src := f.regular.Load()
	if bold {
		src = f.bold.Load()
	}
	if src == nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: size}
}

// Measurer measures with the real face once fonts are loaded and estimates
// before that. The page relayouts when readiness resolves.
type Measurer struct {
	Fonts *Fonts
	Bold  bool
	Size  float64
}

func (m Measurer) Measure(s string) (float64, float64) {
	face := m.Fonts.Face(m.Bold, m.Size)
	if face == nil {
		return scene.FixedMeasurer{Advance: m.Size * 0.55, Line: m.Size * 1.2}.Measure(s)
	}
	if s == "" {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
