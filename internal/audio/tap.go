package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap passes a stream through and keeps the most recent samples in a
// ring so the renderer can read a loudness level while the cue plays.
type levelTap struct {
	Source beep.Streamer

	mu   sync.RWMutex
	ring [][2]float64
	next int
	fill int
}

func newLevelTap(src beep.Streamer, size int) *levelTap {
	return &levelTap{Source: src, ring: make([][2]float64, size)}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.ring[t.next] = samples[i]
			t.next = (t.next + 1) % len(t.ring)
		}
		t.fill = min(t.fill+n, len(t.ring))
		t.mu.Unlock()
	}
	return n, ok
}

func (t *levelTap) Err() error { return t.Source.Err() }

// recent returns up to n of the latest samples, oldest first.
func (t *levelTap) recent(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n = min(n, t.fill)
	out := make([][2]float64, n)
	idx := t.next - n
	if idx < 0 {
		idx += len(t.ring)
	}
	for i := range out {
		out[i] = t.ring[idx]
		idx = (idx + 1) % len(t.ring)
	}
	return out
}

// level is the RMS of the last n samples across both channels.
func (t *levelTap) level(n int) float64 {
	s := t.recent(n)
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v[0]*v[0] + v[1]*v[1]
	}
	return math.Sqrt(sum / float64(2*len(s)))
}

// clear forgets everything, so a finished cue reads as silence.
func (t *levelTap) clear() {
	t.mu.Lock()
	t.fill = 0
	t.next = 0
	t.mu.Unlock()
}
