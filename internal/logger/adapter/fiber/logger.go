// Package fiber provides a zerolog access log middleware for the daemon status endpoint.
package fiber

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/itassets/identity-sync/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	Next func(c fiber.Ctx) bool

	// Config of the logger.
	Config logger.Log

	// CheckAliveURI for disabling logging of check alive http calls.
	CheckAliveURI string

	// Output overrides the configured writers. Used by tests.
	Output io.Writer
}

// New creates a fiber access logging middleware using zerolog.
func New(cfg Config) (fiber.Handler, error) {
	var writers []io.Writer

	if cfg.Output != nil {
		writers = append(writers, cfg.Output)
	}

	if cfg.Output == nil && cfg.Config.File.Enabled && cfg.Config.File.Access.Name != "" {
		w, err := cfg.Config.File.Access.Writer(cfg.Config.File.Path)
		if err != nil {
			return nil, err
		}

		writers = append(writers, w)
	}

	if cfg.Output == nil && cfg.Config.Console.Enabled && cfg.Config.EnableAccessLogToConsole {
		if cfg.Config.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{"level"},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	accessLogger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger().
		Level(zerolog.NoLevel)

	return func(c fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()
		chainErr := c.Next()
		elapsed := time.Since(start).Seconds()

		c.Response().Header.Set("X-Performance", fmt.Sprintf("%f", elapsed))

		if cfg.Config.DisableCheckAlive && c.Path() == cfg.CheckAliveURI {
			return chainErr
		}

		entry := accessLogger.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Float64("X-Performance", elapsed).
			Str("URI", c.OriginalURL()).
			Str("method", c.Method()).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent))

		if chainErr != nil {
			entry.Err(chainErr)
		}

		entry.Send()

		return chainErr
	}, nil
}
