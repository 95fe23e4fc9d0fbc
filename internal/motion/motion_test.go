package motion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEasingEndpoints(t *testing.T) {
	curves := map[string]Easing{
		"linear":   Linear,
		"power3":   Power3Out,
		"sine":     SineInOut,
		"standard": Standard,
		"ease":     CubicBezier(0.25, 0.1, 0.25, 1),
	}
	for name, ease := range curves {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, ease(0), 1e-9)
			assert.InDelta(t, 1, ease(1), 1e-9)
			assert.InDelta(t, 0, ease(-1), 1e-9)
			assert.InDelta(t, 1, ease(2), 1e-9)

			prev := 0.0
			for i := 1; i <= 100; i++ {
				v := ease(float64(i) / 100)
				assert.GreaterOrEqual(t, v+1e-6, prev, "curve must not go backwards at %d", i)
				prev = v
			}
		})
	}
}

func TestCubicBezierMatchesLinearDiagonal(t *testing.T) {
	diag := CubicBezier(1.0/3, 1.0/3, 2.0/3, 2.0/3)
	for _, x := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		assert.InDelta(t, x, diag(x), 1e-5)
	}
}

func TestStandardCurveShape(t *testing.T) {
	// Decelerating curve: well past the halfway mark at half time.
	assert.Greater(t, Standard(0.5), 0.7)
	assert.Less(t, Standard(0.1), 0.2)
}

func TestTween(t *testing.T) {
	tw := Tween{From: 0, To: -100, Start: time.Second, Duration: 400 * time.Millisecond}

	assert.InDelta(t, 0, tw.At(0), 1e-9)
	assert.InDelta(t, -50, tw.At(1200*time.Millisecond), 1e-9)
	assert.InDelta(t, -100, tw.At(2*time.Second), 1e-9)
	assert.False(t, tw.Done(1300*time.Millisecond))
	assert.True(t, tw.Done(1400*time.Millisecond))

	re := tw.Retarget(1200*time.Millisecond, 0, 100*time.Millisecond, nil)
	assert.InDelta(t, -50, re.From, 1e-9)
	assert.InDelta(t, 0, re.At(2*time.Second), 1e-9)

	assert.InDelta(t, 7, Hold(7).At(0), 1e-9)
	assert.True(t, Hold(7).Done(0))
}

func TestHSVToRGB(t *testing.T) {
	r, g, b := HSVToRGB(0, 1, 1)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r, g, b = HSVToRGB(480, 1, 1)
	assert.Equal(t, [3]uint8{0, 255, 0}, [3]uint8{r, g, b})
	r, g, b = HSVToRGB(-120, 1, 1)
	assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})
}
