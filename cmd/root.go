package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iburimskiy/landing-motion/internal/assets"
	"github.com/iburimskiy/landing-motion/internal/audio"
	"github.com/iburimskiy/landing-motion/internal/config"
	"github.com/iburimskiy/landing-motion/internal/observability"
	"github.com/iburimskiy/landing-motion/internal/screen"
	"github.com/iburimskiy/landing-motion/internal/style"
	"github.com/iburimskiy/landing-motion/internal/term"
)

type rootOptions struct {
	configFile string
	frontend   string
	mode       string
	debug      bool
	pickLogo   bool

	v   *viper.Viper
	cfg *config.Config
}

// NewRootCmd builds the landing command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "landing",
		Short:        "Landing renders an animated hero scene in a window or a terminal.",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file (default is ./landing.yaml)")
	cmd.Flags().StringVar(&opts.frontend, "frontend", "", "window or terminal (overrides window.frontend)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "ticker mode, loop or bounded (overrides ticker.mode)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "show the debug HUD and log at debug level")
	cmd.Flags().BoolVar(&opts.pickLogo, "pick-logo", false, "choose the interlude logo with a file dialog")

	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and starts the
// logger. Terminal mode keeps the console quiet so logs do not corrupt the
// screen.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	v, cfg, err := config.Load(o.configFile)
	if err != nil {
		observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "landing"})
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("frontend") {
		cfg.Window.Frontend = o.frontend
	}
	if flags.Changed("mode") {
		cfg.Ticker.Mode = o.mode
	}
	if o.debug {
		cfg.Window.Debug = true
		cfg.Logger.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cfg.Window.Frontend == "terminal" {
		observability.Initialize(cfg.Logger, zapcore.AddSync(io.Discard))
	} else {
		observability.InitializeLogger(cfg.Logger)
	}
	observability.GetLogger().Info("Starting landing",
		zap.String("version", Version),
		zap.String("frontend", cfg.Window.Frontend),
		zap.String("mode", cfg.Ticker.Mode),
		zap.String("config", v.ConfigFileUsed()))

	o.v, o.cfg = v, cfg
	return nil
}

func (o *rootOptions) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.GetLogger()
	defer observability.Sync()
	cfg := o.cfg
	window := cfg.Window.Frontend == "window"

	if o.pickLogo {
		path, err := pickLogo()
		if err != nil {
			return err
		}
		if path != "" {
			cfg.Interlude.LogoPath = path
		}
	}

	tokens := config.NewTokenStore(cfg.Style)
	config.WatchTokens(o.v, tokens, log.Named("config"))
	timing := style.NewReader(tokens)
	images := assets.NewImageCache()
	chime := newChime(cfg.Audio, log.Named("audio"))
	if chime != nil {
		defer chime.Close()
	}

	var err error
	if window {
		err = screen.Run(ctx, screen.Options{Config: cfg, Timing: timing, Images: images, Chime: chime, Log: log})
	} else {
		err = runTerminal(ctx, term.Options{Config: cfg, Timing: timing, Images: images, Chime: chime, Log: log})
	}
	if err != nil && window {
		if dlgErr := zenity.Error(err.Error(), zenity.Title("Landing"), zenity.ErrorIcon); dlgErr != nil {
			log.Warn("error dialog unavailable", zap.Error(dlgErr))
		}
	}
	return err
}

func runTerminal(ctx context.Context, opts term.Options) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	return term.New(s, opts).Run(ctx)
}

// pickLogo asks for an image. Cancelling keeps the configured logo.
func pickLogo() (string, error) {
	path, err := zenity.SelectFile(
		zenity.Title("Choose Interlude Logo"),
		zenity.FileFilters{{
			Name:     "Images",
			Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.webp"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", fmt.Errorf("select logo: %w", err)
	}
	return path, nil
}

// newChime returns nil when the cue is disabled or the audio device is
// unavailable; the interlude then runs silently.
func newChime(c config.AudioConfig, log *zap.Logger) *audio.Chime {
	if !c.Chime {
		return nil
	}
	chime, err := audio.NewChime(audio.Options{
		SampleRate: c.SampleRate,
		File:       c.File,
		Frequency:  c.Frequency,
		Duration:   c.Duration,
		Decay:      c.Decay,
		Gain:       c.Gain,
	}, log)
	if err != nil {
		log.Warn("chime disabled", zap.Error(err))
		return nil
	}
	if err := chime.Init(); err != nil {
		log.Warn("chime disabled", zap.Error(err))
		return nil
	}
	return chime
}
