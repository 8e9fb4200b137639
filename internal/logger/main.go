// Package logger configures the global zerolog logger used by every sync pass.
package logger

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// LevelWriter splits log lines by level: trace, debug and info, warn, error and above.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (n int, err error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init builds the logger from cfg and installs it as the global logger.
// With neither console nor file enabled nothing is written.
func Init(cfg Log) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}

	log.Logger = l

	return nil
}

// New builds a logger from cfg. Extra writers receive every line as JSON.
// It also sets the zerolog globals: level, error handler and stack marshaler.
func New(cfg Log, extra ...io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(ErrUnknownLogLevel, "%s", cfg.LogLevel)
	}

	if cfg.ServiceName == "" {
		return zerolog.Nop(), ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return zerolog.Nop(), ErrAppNameIsEmpty
	}

	stack := level == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	writers := append([]io.Writer{}, extra...)

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		fw, errFile := newRollingFiles(cfg.File)
		if errFile != nil {
			return zerolog.Nop(), errFile
		}

		writers = append(writers, fw)
	}

	lc := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("app", cfg.AppName)

	if cfg.LogEnv != "" {
		lc = lc.Str("env", cfg.LogEnv)
	}

	if stack {
		lc = lc.Stack()
	}

	if cfg.ReportCaller {
		lc = lc.Caller()
	}

	return lc.Logger(), nil
}

// Pass returns a child of the global logger tagged with the sync pass name.
func Pass(name string) zerolog.Logger {
	return log.With().Str("pass", name).Logger()
}

func newRollingFiles(cfg LogFile) (io.Writer, error) {
	lw := &LevelWriter{}

	for _, f := range []struct {
		dst  *io.Writer
		file RollingFile
	}{
		{&lw.ErrorWriter, cfg.Error},
		{&lw.InfoWriter, cfg.Info},
		{&lw.TraceWriter, cfg.Trace},
		{&lw.WarnWriter, cfg.Warn},
	} {
		w, err := f.file.Writer(cfg.Path)
		if err != nil {
			return nil, err
		}

		*f.dst = w
	}

	return lw, nil
}

// NewConsoleWriter writes info and debug to stdout, everything else to stderr.
// UseConsoleWriter switches from JSON lines to zerolog's human readable format.
func NewConsoleWriter(cfg Log) io.Writer {
	out, errOut := io.Writer(os.Stdout), io.Writer(os.Stderr)

	if cfg.Console.UseConsoleWriter {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: zerolog.TimeFieldFormat}
		errOut = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &LevelWriter{
		ErrorWriter: errOut,
		InfoWriter:  out,
		TraceWriter: errOut,
		WarnWriter:  errOut,
	}
}
