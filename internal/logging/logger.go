// Package logging configures the charmbracelet/log logger shared by eflint
// and carries it through contexts.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	// Level is debug, info, warn or error. Anything else means info.
	Level string

	// Format is text, json or logfmt. Anything else means text.
	Format string

	Prefix     string
	Timestamps bool

	// Writer defaults to os.Stderr.
	Writer io.Writer
}

//nolint:gochecknoglobals // process-wide fallback for code without a context
var fallback atomic.Pointer[log.Logger]

// New builds a logger from opts.
func New(opts Options) *log.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      time.RFC3339,
		Formatter:       parseFormat(opts.Format),
	})
}

// ParseLevel maps a level name to a log.Level, accepting "warning" as warn.
func ParseLevel(name string) log.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	level, err := log.ParseLevel(name)
	if err != nil || level == log.FatalLevel {
		return log.InfoLevel
	}
	return level
}

func parseFormat(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	}
	return log.TextFormatter
}

// Default returns the process-wide logger, creating an info-level stderr
// logger on first use.
func Default() *log.Logger {
	if l := fallback.Load(); l != nil {
		return l
	}
	fallback.CompareAndSwap(nil, New(Options{}))
	return fallback.Load()
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(l *log.Logger) {
	if l != nil {
		fallback.Store(l)
	}
}

type loggerKey struct{}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, _ := ctx.Value(loggerKey{}).(*log.Logger); l != nil {
			return l
		}
	}
	return Default()
}
