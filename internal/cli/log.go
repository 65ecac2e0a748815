// Package cli implements the notionmap command-line interface.
//
// # Commands
//
//   - layout: settle a dataset headlessly and write the snapshot as JSON
//   - render: settle and draw a dataset as SVG, PNG, PDF or DOT
//   - visualize: draw a previously written snapshot
//   - explore: interactive mind map in the terminal
//   - config: create, show and locate notionmap.toml
//   - cache: clear or locate the settle cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging and
// --log-format for text, json or logfmt output on stderr. The logger travels
// in the command context (see [withLogger]).
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logFormats maps --log-format values to charmbracelet formatters.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// newLogger creates a logger writing to w at level. Timestamps are
// formatted as "HH:MM:SS.ms" (e.g. "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l to the named formatter. An empty name keeps the
// current one.
func setLogFormat(l *log.Logger, name string) error {
	if name == "" {
		return nil
	}
	f, ok := logFormats[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown log format %q (want text, json or logfmt)", name)
	}
	l.SetFormatter(f)
	return nil
}

// progress times one stage of a command (loading, settling) and logs the
// elapsed time with the stage's counters when it finishes. Not safe for
// concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time rounded to milliseconds:
//
//	14:32:01.45 INFO Loaded dataset records=42 elapsed=12ms
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by [withLogger], or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
