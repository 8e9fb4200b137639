package daemon

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itassets/identity-sync/internal/config"
	"github.com/itassets/identity-sync/internal/db/controller/setting"
	fiberlogger "github.com/itassets/identity-sync/internal/logger/adapter/fiber"
	"github.com/itassets/identity-sync/internal/reconcile"
)

// Status endpoint routes.
const (
	CheckAliveURI = "/checkalive"
	MetricsURI    = "/metrics"
	StatusURI     = "/status"
)

// SummaryLoader reads stored pass summaries.
type SummaryLoader interface {
	LoadSetting(ctx context.Context, name string, v any) error
}

// NewStatusApp builds the status endpoint. /checkalive answers 503 while alive is false.
func NewStatusApp(cfg *config.Config, alive *atomic.Bool, summaries SummaryLoader) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:       cfg.Title,
		CaseSensitive: true,
		Immutable:     true,
	})

	accessLog, err := fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
	})
	if err != nil {
		return nil, err
	}

	app.Use(accessLog)

	app.Get(CheckAliveURI, func(c fiber.Ctx) error {
		if !alive.Load() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}

		return c.SendString("OK")
	})

	app.Get(MetricsURI, adaptor.HTTPHandler(promhttp.Handler()))

	app.Get(StatusURI, func(c fiber.Ctx) error {
		out := map[string]reconcile.Summary{}

		for _, pass := range []string{
			reconcile.PassOnPrem, reconcile.PassCloud, reconcile.PassAscender, reconcile.PassCCManagers,
		} {
			var sum reconcile.Summary

			err := summaries.LoadSetting(c.Context(), reconcile.SummarySettingPrefix+pass, &sum)
			switch {
			case errors.Is(err, setting.ErrSettingNotFound):
				continue
			case err != nil:
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}

			out[pass] = sum
		}

		return c.JSON(out)
	})

	return app, nil
}
