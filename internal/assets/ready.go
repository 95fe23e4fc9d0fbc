package assets

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/landing-motion/internal/clock"
)

// Loader prepares one resource. It runs off the scheduler goroutine.
type Loader func(ctx context.Context) error

// Ready runs loaders in parallel and resolves the returned signal on the
// scheduler goroutine once they all return. Loaders are independent: a
// failure is logged and neither cancels its siblings nor holds the page
// back. With no loaders the signal is already resolved.
func Ready(ctx context.Context, sched *clock.Scheduler, log *zap.Logger, loaders ...Loader) *clock.Signal {
	sig := clock.NewSignal()
	if len(loaders) == 0 {
		sig.Resolve()
		return sig
	}
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		start := time.Now()
		var g errgroup.Group
		for i, load := range loaders {
			g.Go(func() error {
				err := load(ctx)
				if err != nil {
					log.Warn("asset preload failed", zap.Int("loader", i), zap.Error(err))
				}
				return err
			})
		}
		err := g.Wait()
		sched.Post(func() {
			if err == nil {
				log.Debug("assets ready", zap.Int("loaders", len(loaders)), zap.Duration("took", time.Since(start)))
			}
			sig.Resolve()
		})
	}()
	return sig
}

// Prewarm returns a loader that probes path into the cache. A missing or
// undecodable image is an expected outcome: it is logged, cached for the
// later Probe and not reported as a load failure.
func (c *ImageCache) Prewarm(path string, log *zap.Logger) Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context) error {
		if path == "" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := c.Probe(path); err != nil {
			log.Info("logo unavailable, the interlude will use text", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
}
