package entrance

import (
	"time"

	"github.com/iburimskiy/landing-motion/internal/scene"
)

const (
	FallbackTimeout = 2 * time.Second
	BobAmplitude    = 10
	BobHalfPeriod   = 1200 * time.Millisecond
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// PageTimeline is the hero entrance: decor, wrap, build label with the
// ticker items, pills, then the mouse indicator.
func PageTimeline(p *scene.Page, items []*scene.Element) []Instruction {
	labels := append([]*scene.Element{p.Build}, items...)
	return []Instruction{
		{
			Targets: p.Decor, Animate: PropAll,
			From:     Props{Alpha: 0, Lift: 20, Scale: 0.98},
			To:       Identity,
			Duration: ms(800), Stagger: ms(80), Offset: 0,
		},
		{
			Targets: []*scene.Element{p.Wrap}, Animate: PropAlpha | PropLift,
			From:     Props{Alpha: 0, Lift: 30, Scale: 1},
			To:       Identity,
			Duration: ms(900), Offset: ms(150),
		},
		{
			Targets: labels, Animate: PropAlpha | PropLift,
			From:     Props{Alpha: 0, Lift: 20, Scale: 1},
			To:       Identity,
			Duration: ms(600), Stagger: ms(60), Offset: ms(250),
		},
		{
			Targets: p.Pills, Animate: PropAll,
			From:     Props{Alpha: 0, Lift: 12, Scale: 0.98},
			To:       Identity,
			Duration: ms(600), Stagger: ms(100), Offset: ms(350),
		},
		{
			Targets: []*scene.Element{p.Mouse}, Animate: PropAlpha | PropLift,
			From:     Props{Alpha: 0, Lift: 10, Scale: 1},
			To:       Identity,
			Duration: ms(600), Offset: ms(600),
		},
	}
}

// Reveal lists what the fallback must make visible.
func Reveal(p *scene.Page) []*scene.Element {
	return []*scene.Element{p.Wrap, p.Ticker}
}

// Conceal hides what only the entrance or the fallback may reveal. Used
// when no timeline will play.
func Conceal(p *scene.Page) {
	for _, el := range Reveal(p) {
		el.Alpha = 0
	}
}
