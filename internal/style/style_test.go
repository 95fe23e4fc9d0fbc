package style

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"bare number", "600", 600},
		{"seconds", "0.6s", 600},
		{"milliseconds", "600ms", 600},
		{"padded", "  1.2s ", 1200},
		{"empty", "", -1},
		{"whitespace only", "   ", -1},
		{"garbage", "fast", -1},
		{"leading dot", ".5s", 500},
		{"exponent", "1e3", 1000},
		{"dangling exponent", "2e", 2},
		{"unit without number", "ms", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseMs(tt.raw, -1), 1e-9)
		})
	}
}

func TestReaderFallbacks(t *testing.T) {
	r := NewReader(MapSource{
		"--transition-speed": "0.4s",
		"--ticker-speed":     "nope",
	})

	assert.InDelta(t, 400, r.Ms("--transition-speed", 600), 1e-9)
	assert.InDelta(t, 1200, r.Ms("--ticker-speed", 1200), 1e-9)
	assert.InDelta(t, 600, r.Ms("--missing", 600), 1e-9)
	assert.Equal(t, 400*time.Millisecond, r.Duration("--transition-speed", time.Second))
	assert.Equal(t, time.Second, r.Duration("--missing", time.Second))

	var nilReader *Reader
	assert.InDelta(t, 42, nilReader.Ms("--transition-speed", 42), 1e-9)
}

func TestDurationSaturates(t *testing.T) {
	r := NewReader(MapSource{
		"--ticker-speed":     "1e30ms",
		"--transition-speed": "-1e30s",
	})
	assert.Equal(t, time.Duration(math.MaxInt64), r.Duration("--ticker-speed", time.Second))
	assert.Equal(t, time.Duration(math.MinInt64), r.Duration("--transition-speed", time.Second))
}

func TestReaderSeesLiveChanges(t *testing.T) {
	src := MapSource{"--transition-speed": "600"}
	r := NewReader(src)
	assert.InDelta(t, 600, r.Ms("--transition-speed", 0), 1e-9)

	src["--transition-speed"] = "1s"
	assert.InDelta(t, 1000, r.Ms("--transition-speed", 0), 1e-9)
}
