package daemon

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/itassets/identity-sync/internal/config"
	"github.com/itassets/identity-sync/internal/logger/adapter/cronlogger"
	"github.com/itassets/identity-sync/internal/reconcile"
)

// Runner runs single sync passes.
type Runner interface {
	RunAscender(ctx context.Context) (reconcile.Summary, error)
	RunCloud(ctx context.Context) (reconcile.Summary, error)
	RunOnPrem(ctx context.Context) (reconcile.Summary, error)
	RunCostCentreManagers(ctx context.Context) (reconcile.Summary, error)
}

// PassFunc is one sync pass.
type PassFunc func(ctx context.Context) (reconcile.Summary, error)

// Pass looks up a pass of r by name.
func Pass(r Runner, name string) (PassFunc, error) {
	switch name {
	case reconcile.PassAscender:
		return r.RunAscender, nil
	case reconcile.PassCloud:
		return r.RunCloud, nil
	case reconcile.PassOnPrem:
		return r.RunOnPrem, nil
	case reconcile.PassCCManagers:
		return r.RunCostCentreManagers, nil
	default:
		return nil, errors.Wrap(ErrUnknownPass, name)
	}
}

// NewScheduler registers every pass with a cron expression. Jobs run with ctx and a
// pass still running when its next tick fires is skipped.
func NewScheduler(ctx context.Context, sched config.Schedule, r Runner) (*cron.Cron, error) {
	loc := time.Local

	if sched.TimeZone != "" {
		var err error
		if loc, err = time.LoadLocation(sched.TimeZone); err != nil {
			return nil, errors.Wrap(err, "schedule time zone")
		}
	}

	cl := cronlogger.New()
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	entries := []struct {
		pass string
		spec string
	}{
		{reconcile.PassOnPrem, sched.OnPrem},
		{reconcile.PassCloud, sched.Cloud},
		{reconcile.PassAscender, sched.Ascender},
		{reconcile.PassCCManagers, sched.CCManagers},
	}

	for _, e := range entries {
		if e.spec == "" {
			log.Info().Str("pass", e.pass).Msg("pass not scheduled")
			continue
		}

		fn, err := Pass(r, e.pass)
		if err != nil {
			return nil, err
		}

		if _, err = c.AddFunc(e.spec, func() { runScheduled(ctx, e.pass, fn) }); err != nil {
			return nil, errors.Wrapf(err, "schedule %s pass %q", e.pass, e.spec)
		}

		log.Info().Str("pass", e.pass).Str("schedule", e.spec).Msg("pass scheduled")
	}

	return c, nil
}

func runScheduled(ctx context.Context, pass string, fn PassFunc) {
	if ctx.Err() != nil {
		return
	}

	if _, err := fn(ctx); err != nil {
		log.Error().Err(err).Str("pass", pass).Msg("scheduled pass failed")
	}
}
