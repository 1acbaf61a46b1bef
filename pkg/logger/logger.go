// Package logger provides context-aware structured logging on top of logrus.
// A process-wide entry is configured once at startup; request and command
// scoped fields travel through context.
package logger

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// G returns the logger carried by ctx, or the global logger.
	G = GetLogger
	// L is the global logger entry used when ctx carries none.
	L = logrus.NewEntry(newLogger())
)

type loggerKey struct{}

// Config describes how the global logger writes.
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig logs info and above as human-readable text.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text"}
}

// Configure applies cfg to the global logger.
func Configure(cfg Config) error {
	return ConfigureLogger(L.Logger, cfg)
}

// ConfigureLogger applies cfg to l. An empty level or format keeps the current value.
func ConfigureLogger(l *logrus.Logger, cfg Config) error {
	if cfg.Level != "" {
		level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
		l.SetLevel(level)
	}
	if cfg.Format != "" {
		if err := setLoggerFormat(l, cfg.Format); err != nil {
			return err
		}
	}
	return nil
}

// WithLogger attaches a logger entry to ctx.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	e := logger.WithContext(ctx)
	return context.WithValue(ctx, loggerKey{}, e)
}

// WithFields returns a context whose logger carries fields in addition to
// those already attached.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return WithLogger(ctx, GetLogger(ctx).WithFields(fields))
}

// GetLogger retrieves the logger entry from ctx. If none is attached it
// returns L bound to ctx.
func GetLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(loggerKey{})

	if logger == nil {
		return L.WithContext(ctx)
	}

	return logger.(*logrus.Entry)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	_ = setLoggerFormat(l, "text")
	return l
}

func setLoggerFormat(logger *logrus.Logger, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		logger.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	case "text", "fmt", "":
		logger.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		}
	default:
		return errors.Errorf("invalid log format %q: expected text or json", format)
	}
	return nil
}

// SetLogOutput sets the output destination for the global logger
func SetLogOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}
