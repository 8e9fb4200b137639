// Package daemon schedules the sync passes and serves the status endpoint.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/itassets/identity-sync/internal/config"
)

// Daemon runs the scheduled passes until its context ends.
type Daemon struct {
	cfg          *config.Config
	rt           *Runtime
	cron         *cron.Cron
	app          *fiber.App
	alive        atomic.Bool
	fastShutDown bool
}

// New opens the runtime and registers the schedule. ctx bounds every scheduled pass.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	rt, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{cfg: cfg, rt: rt, fastShutDown: cfg.DevMode}

	if d.cron, err = NewScheduler(ctx, cfg.Schedule, rt.Service); err != nil {
		rt.Close()
		return nil, err
	}

	if cfg.Webserver.Enabled {
		if d.app, err = NewStatusApp(cfg, &d.alive, rt.Store); err != nil {
			rt.Close()
			return nil, err
		}
	}

	return d, nil
}

// Run starts the scheduler and the status endpoint and blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	d.alive.Store(true)
	d.cron.Start()

	log.Info().Int("jobs", len(d.cron.Entries())).Msg("scheduler started")

	listenErr := make(chan error, 1)

	if d.app != nil {
		addr := net.JoinHostPort(d.cfg.Webserver.Host, strconv.Itoa(d.cfg.Webserver.Port))

		go func() {
			log.Info().Str("addr", addr).Msg("status endpoint listening")

			err := d.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				listenErr <- err
			}
		}()
	}

	var err error

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err = <-listenErr:
		log.Error().Err(err).Msg("status endpoint failed")
	}

	d.shutdown()

	return err
}

// shutdown reports not alive, lets running passes end and closes the runtime.
func (d *Daemon) shutdown() {
	d.alive.Store(false)

	if d.app != nil && !d.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			d.cfg.Webserver.ShutDownTime,
		)

		time.Sleep(time.Duration(d.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("waiting for running passes ...")
	<-d.cron.Stop().Done()

	if d.app != nil {
		if err := d.app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("failed to stop status endpoint")
		}
	}

	d.rt.Close()
	log.Info().Msg("daemon stopped ... good bye...")
}
