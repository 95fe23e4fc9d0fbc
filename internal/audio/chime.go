// Package audio plays the short cue that accompanies the logo reveal. The
// cue is either a decoded sound file or a synthesized decaying sine.
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported audio file")

const tapSize = 2048

type Options struct {
	SampleRate int
	File       string // optional wav, mp3 or flac; empty synthesizes
	Frequency  float64
	Duration   time.Duration
	Decay      time.Duration // time constant of the envelope
	Gain       float64
}

func DefaultOptions() Options {
	return Options{
		SampleRate: 44100,
		Frequency:  880,
		Duration:   900 * time.Millisecond,
		Decay:      250 * time.Millisecond,
		Gain:       0.25,
	}
}

// Chime is safe to Play from the scheduler goroutine while the speaker
// goroutine streams.
type Chime struct {
	opts Options
	rate beep.SampleRate
	clip *beep.Buffer
	log  *zap.Logger

	mu     sync.Mutex
	tap    *levelTap
	ready  bool
	output func(...beep.Streamer)
	plays  int
}

// NewChime prepares the cue. A configured file is decoded and resampled up
// front so playback never touches the disk.
func NewChime(opts Options, log *zap.Logger) (*Chime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultOptions().SampleRate
	}
	c := &Chime{opts: opts, rate: beep.SampleRate(opts.SampleRate), log: log}
	if opts.File != "" {
		clip, err := c.load(opts.File)
		if err != nil {
			return nil, err
		}
		c.clip = clip
	}
	return c, nil
}

func (c *Chime) load(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cue: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode cue %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: c.rate, NumChannels: 2, Precision: 2})
	var src beep.Streamer = streamer
	if format.SampleRate != c.rate {
		src = beep.Resample(4, format.SampleRate, c.rate, streamer)
	}
	buf.Append(src)
	c.log.Debug("cue loaded", zap.String("path", path), zap.Int("samples", buf.Len()))
	return buf, nil
}

// Init opens the speaker. Without it Play only feeds the level tap.
func (c *Chime) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}
	if err := speaker.Init(c.rate, c.rate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	c.output = speaker.Play
	c.ready = true
	return nil
}

// Close stops playback and releases the speaker.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	c.ready = false
	c.output = nil
}

// Play starts the cue from the beginning, replacing one still playing.
func (c *Chime) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plays++
	if c.output == nil {
		return
	}
	tap := newLevelTap(c.source(), tapSize)
	c.tap = tap
	if c.ready {
		speaker.Clear()
	}
	c.output(beep.Seq(tap, beep.Callback(tap.clear)))
}

func (c *Chime) source() beep.Streamer {
	if c.clip != nil {
		return c.clip.Streamer(0, c.clip.Len())
	}
	return Tone(c.rate, c.opts.Frequency, c.opts.Duration, c.opts.Decay, c.opts.Gain)
}

// Level is the loudness of what was played most recently, in [0, 1].
func (c *Chime) Level() float64 {
	c.mu.Lock()
	tap := c.tap
	c.mu.Unlock()
	if tap == nil {
		return 0
	}
	return math.Min(1, tap.level(c.rate.N(time.Second/30)))
}

// Plays counts Play calls.
func (c *Chime) Plays() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.plays
}

// Tone is a sine at freq with an exponential decay envelope, lasting d.
func Tone(sr beep.SampleRate, freq float64, d, decay time.Duration, gain float64) beep.Streamer {
	total := sr.N(d)
	step := 2 * math.Pi * freq / float64(sr)
	tau := decay.Seconds() * float64(sr)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1.0
			if tau > 0 {
				env = math.Exp(-float64(pos) / tau)
			}
			v := gain * env * math.Sin(step*float64(pos))
			samples[i] = [2]float64{v, v}
			pos++
			n++
		}
		return n, true
	})
}
