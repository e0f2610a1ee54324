package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler New builds.
type Format string

const (
	// FormatText is slog's logfmt-style text handler.
	FormatText Format = "text"

	// FormatJSON is slog's JSON handler, for service logs.
	FormatJSON Format = "json"

	// FormatPretty is the colorized charmbracelet/log handler for terminals.
	FormatPretty Format = "pretty"
)

// ParseFormat accepts text, json or pretty in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatPretty:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want text, json or pretty)", s)
	}
}

// Option configures a logger built by New.
type Option func(*config)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithDebug lowers the level to Debug when debug is set.
func WithDebug(debug bool) Option {
	if debug {
		return WithLevel(slog.LevelDebug)
	}
	return WithLevel(slog.LevelInfo)
}

// WithFormat selects the handler.
func WithFormat(f Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithWriter sends output to w only.
func WithWriter(w io.Writer) Option {
	return WithWriters(w)
}

// WithWriters sends output to every w.
func WithWriters(w ...io.Writer) Option {
	return func(c *config) {
		c.writers = w
	}
}

// WithSource adds the caller's file and line.
func WithSource(source bool) Option {
	return func(c *config) {
		c.source = source
	}
}
