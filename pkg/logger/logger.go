// Package logger builds the *slog.Logger every ragsql component logs through.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

type config struct {
	level   slog.Level
	format  Format
	source  bool
	writers []io.Writer
}

// New builds a logger from opts. Without options it writes Info and above
// as text to os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		format: FormatText,
	}
	for _, opt := range opts {
		opt(c)
	}

	return slog.New(c.handler(c.output()))
}

func (c *config) output() io.Writer {
	switch len(c.writers) {
	case 0:
		return os.Stdout
	case 1:
		return c.writers[0]
	default:
		return io.MultiWriter(c.writers...)
	}
}

func (c *config) handler(w io.Writer) slog.Handler {
	switch c.format {
	case FormatPretty:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(c.level),
			ReportTimestamp: true,
			ReportCaller:    c.source,
		})
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.level, AddSource: c.source})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.level, AddSource: c.source})
	}
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(discard{})
}

type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (d discard) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discard) WithGroup(string) slog.Handler           { return d }

// Err is the conventional "error" attribute.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
