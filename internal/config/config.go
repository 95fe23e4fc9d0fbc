package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the whole runtime configuration, unmarshaled by viper.
type Config struct {
	Logger    LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Window    WindowConfig      `mapstructure:"window" yaml:"window"`
	Page      PageConfig        `mapstructure:"page" yaml:"page"`
	Ticker    TickerConfig      `mapstructure:"ticker" yaml:"ticker"`
	Interlude InterludeConfig   `mapstructure:"interlude" yaml:"interlude"`
	Particles ParticlesConfig   `mapstructure:"particles" yaml:"particles"`
	Parallax  ParallaxConfig    `mapstructure:"parallax" yaml:"parallax"`
	Cursor    CursorConfig      `mapstructure:"cursor" yaml:"cursor"`
	Entrance  EntranceConfig    `mapstructure:"entrance" yaml:"entrance"`
	Audio     AudioConfig       `mapstructure:"audio" yaml:"audio"`
	Style     map[string]string `mapstructure:"style" yaml:"style"`
}

type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each level.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

type WindowConfig struct {
	Width    int    `mapstructure:"width" yaml:"width"`
	Height   int    `mapstructure:"height" yaml:"height"`
	Title    string `mapstructure:"title" yaml:"title"`
	TPS      int    `mapstructure:"tps" yaml:"tps"`
	Frontend string `mapstructure:"frontend" yaml:"frontend"` // window | terminal
	Pointer  string `mapstructure:"pointer" yaml:"pointer"`   // auto | mouse | touch
	Debug    bool   `mapstructure:"debug" yaml:"debug"`
}

type PageConfig struct {
	BuildLabel string   `mapstructure:"build_label" yaml:"build_label"`
	Tagline    string   `mapstructure:"tagline" yaml:"tagline"`
	Pills      []string `mapstructure:"pills" yaml:"pills"`
	Decor      int      `mapstructure:"decor" yaml:"decor"`
	Hue        float64  `mapstructure:"hue" yaml:"hue"`
}

type TickerConfig struct {
	Mode           string        `mapstructure:"mode" yaml:"mode"` // loop | bounded
	Items          []string      `mapstructure:"items" yaml:"items"`
	SwipeThreshold float64       `mapstructure:"swipe_threshold" yaml:"swipe_threshold"`
	LockRatio      float64       `mapstructure:"lock_ratio" yaml:"lock_ratio"`
	SnapBuffer     time.Duration `mapstructure:"snap_buffer" yaml:"snap_buffer"`
}

type InterludeConfig struct {
	Message          string        `mapstructure:"message" yaml:"message"`
	LogoPath         string        `mapstructure:"logo_path" yaml:"logo_path"`
	LogoText         string        `mapstructure:"logo_text" yaml:"logo_text"`
	EnterDelay       time.Duration `mapstructure:"enter_delay" yaml:"enter_delay"`
	Fade             time.Duration `mapstructure:"fade" yaml:"fade"`
	MessageHold      time.Duration `mapstructure:"message_hold" yaml:"message_hold"`
	Exit             time.Duration `mapstructure:"exit" yaml:"exit"`
	LogoHold         time.Duration `mapstructure:"logo_hold" yaml:"logo_hold"`
	ResumeDelay      time.Duration `mapstructure:"resume_delay" yaml:"resume_delay"`
	SmallBreakpoint  float64       `mapstructure:"small_breakpoint" yaml:"small_breakpoint"`
	MobileBreakpoint float64       `mapstructure:"mobile_breakpoint" yaml:"mobile_breakpoint"`
	SmallLogo        float64       `mapstructure:"small_logo" yaml:"small_logo"`
	MediumLogo       float64       `mapstructure:"medium_logo" yaml:"medium_logo"`
	LargeLogo        float64       `mapstructure:"large_logo" yaml:"large_logo"`
}

type ParticlesConfig struct {
	SmallMobile      int     `mapstructure:"small_mobile" yaml:"small_mobile"`
	Mobile           int     `mapstructure:"mobile" yaml:"mobile"`
	Desktop          int     `mapstructure:"desktop" yaml:"desktop"`
	SmallBreakpoint  float64 `mapstructure:"small_breakpoint" yaml:"small_breakpoint"`
	MobileBreakpoint float64 `mapstructure:"mobile_breakpoint" yaml:"mobile_breakpoint"`
	Speed            float64 `mapstructure:"speed" yaml:"speed"`
	RadiusMin        float64 `mapstructure:"radius_min" yaml:"radius_min"`
	RadiusMax        float64 `mapstructure:"radius_max" yaml:"radius_max"`
	OpacityMin       float64 `mapstructure:"opacity_min" yaml:"opacity_min"`
	OpacityMax       float64 `mapstructure:"opacity_max" yaml:"opacity_max"`
	Seed             int64   `mapstructure:"seed" yaml:"seed"` // zero seeds from the clock
}

type ParallaxConfig struct {
	BaseUnit         float64 `mapstructure:"base_unit" yaml:"base_unit"`
	MobileMultiplier float64 `mapstructure:"mobile_multiplier" yaml:"mobile_multiplier"`
	MobileBreakpoint float64 `mapstructure:"mobile_breakpoint" yaml:"mobile_breakpoint"`
}

type CursorConfig struct {
	Smoothing float64 `mapstructure:"smoothing" yaml:"smoothing"`
}

type EntranceConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	FallbackTimeout time.Duration `mapstructure:"fallback_timeout" yaml:"fallback_timeout"`
}

type AudioConfig struct {
	Chime      bool          `mapstructure:"chime" yaml:"chime"`
	File       string        `mapstructure:"file" yaml:"file"`
	SampleRate int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	Frequency  float64       `mapstructure:"frequency" yaml:"frequency"`
	Duration   time.Duration `mapstructure:"duration" yaml:"duration"`
	Decay      time.Duration `mapstructure:"decay" yaml:"decay"`
	Gain       float64       `mapstructure:"gain" yaml:"gain"`
}

// NewDefaultConfig returns the configuration made of defaults only.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default value.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "landing")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Window --
	v.SetDefault("window.width", 1024)
	v.SetDefault("window.height", 640)
	v.SetDefault("window.title", "Landing")
	v.SetDefault("window.tps", 60)
	v.SetDefault("window.frontend", "window")
	v.SetDefault("window.pointer", "auto")
	v.SetDefault("window.debug", false)

	// -- Page --
	v.SetDefault("page.build_label", "We build")
	v.SetDefault("page.tagline", "Small team. Sharp software.")
	v.SetDefault("page.pills", []string{"Go", "Design", "Infra", "Product", "Motion", "Data"})
	v.SetDefault("page.decor", 4)
	v.SetDefault("page.hue", 250.0)

	// -- Ticker --
	v.SetDefault("ticker.mode", "loop")
	v.SetDefault("ticker.items", []string{"fast APIs", "calm tooling", "clear interfaces", "honest dashboards"})
	v.SetDefault("ticker.swipe_threshold", 50.0)
	v.SetDefault("ticker.lock_ratio", 0.65)
	v.SetDefault("ticker.snap_buffer", "80ms")

	// -- Interlude --
	v.SetDefault("interlude.message", "Let's build.")
	v.SetDefault("interlude.logo_path", "assets/logo.png")
	v.SetDefault("interlude.logo_text", "LANDING")
	v.SetDefault("interlude.enter_delay", "50ms")
	v.SetDefault("interlude.fade", "600ms")
	v.SetDefault("interlude.message_hold", "3.2s")
	v.SetDefault("interlude.exit", "600ms")
	v.SetDefault("interlude.logo_hold", "2.8s")
	v.SetDefault("interlude.resume_delay", "400ms")
	v.SetDefault("interlude.small_breakpoint", 480.0)
	v.SetDefault("interlude.mobile_breakpoint", 768.0)
	v.SetDefault("interlude.small_logo", 140.0)
	v.SetDefault("interlude.medium_logo", 180.0)
	v.SetDefault("interlude.large_logo", 240.0)

	// -- Particles --
	v.SetDefault("particles.small_mobile", 30)
	v.SetDefault("particles.mobile", 50)
	v.SetDefault("particles.desktop", 70)
	v.SetDefault("particles.small_breakpoint", 480.0)
	v.SetDefault("particles.mobile_breakpoint", 768.0)
	v.SetDefault("particles.speed", 0.15)
	v.SetDefault("particles.radius_min", 0.6)
	v.SetDefault("particles.radius_max", 1.6)
	v.SetDefault("particles.opacity_min", 0.3)
	v.SetDefault("particles.opacity_max", 0.8)
	v.SetDefault("particles.seed", 0)

	// -- Parallax --
	v.SetDefault("parallax.base_unit", 6.0)
	v.SetDefault("parallax.mobile_multiplier", 0.3)
	v.SetDefault("parallax.mobile_breakpoint", 768.0)

	// -- Cursor --
	v.SetDefault("cursor.smoothing", 0.12)

	// -- Entrance --
	v.SetDefault("entrance.enabled", true)
	v.SetDefault("entrance.fallback_timeout", "2s")

	// -- Audio --
	v.SetDefault("audio.chime", false)
	v.SetDefault("audio.file", "")
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.frequency", 880.0)
	v.SetDefault("audio.duration", "900ms")
	v.SetDefault("audio.decay", "250ms")
	v.SetDefault("audio.gain", 0.25)

	// -- Style tokens --
	v.SetDefault("style.--transition-speed", "400ms")
	v.SetDefault("style.--ticker-speed", "1.2s")
}

// NewConfigFromViper unmarshals and validates.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Style = normalizeTokens(cfg.Style)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Load reads path (or ./landing.yaml when empty) on top of the defaults and
// LANDING_* environment variables. A missing default file is not an error.
func Load(path string) (*viper.Viper, *Config, error) {
	v := viper.New()
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("landing")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("LANDING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		return nil, nil, err
	}
	return v, cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.TPS <= 0 {
		return fmt.Errorf("window.tps must be a positive integer")
	}
	switch c.Window.Frontend {
	case "window", "terminal":
	default:
		return fmt.Errorf("window.frontend must be window or terminal, got %q", c.Window.Frontend)
	}
	switch c.Window.Pointer {
	case "auto", "mouse", "touch":
	default:
		return fmt.Errorf("window.pointer must be auto, mouse or touch, got %q", c.Window.Pointer)
	}
	if err := c.Ticker.Validate(); err != nil {
		return fmt.Errorf("ticker configuration invalid: %w", err)
	}
	if err := c.Particles.Validate(); err != nil {
		return fmt.Errorf("particles configuration invalid: %w", err)
	}
	if c.Cursor.Smoothing <= 0 || c.Cursor.Smoothing > 1 {
		return fmt.Errorf("cursor.smoothing must be in (0, 1]")
	}
	if c.Page.Decor < 0 {
		return fmt.Errorf("page.decor must not be negative")
	}
	return nil
}

func (t *TickerConfig) Validate() error {
	switch strings.ToLower(t.Mode) {
	case "loop", "bounded":
	default:
		return fmt.Errorf("mode must be loop or bounded, got %q", t.Mode)
	}
	if len(t.Items) == 0 {
		return fmt.Errorf("items must not be empty")
	}
	if t.LockRatio < 0 {
		return fmt.Errorf("lock_ratio must not be negative")
	}
	if t.SwipeThreshold < 0 {
		return fmt.Errorf("swipe_threshold must not be negative")
	}
	return nil
}

func (p *ParticlesConfig) Validate() error {
	if p.SmallMobile < 0 || p.Mobile < 0 || p.Desktop < 0 {
		return fmt.Errorf("particle counts must not be negative")
	}
	if p.RadiusMin > p.RadiusMax {
		return fmt.Errorf("radius_min must not exceed radius_max")
	}
	if p.OpacityMin > p.OpacityMax || p.OpacityMin < 0 || p.OpacityMax > 1 {
		return fmt.Errorf("opacity range must lie within [0, 1]")
	}
	return nil
}

// normalizeTokens makes every token start with "--". Viper lowercases keys,
// which matches how the tokens are written anyway.
func normalizeTokens(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.ToLower(strings.TrimSpace(k))
		if !strings.HasPrefix(k, "--") {
			k = "--" + strings.TrimLeft(k, "-")
		}
		out[k] = v
	}
	return out
}
