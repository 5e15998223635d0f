// Package cli implements the agendagraph command tree.
//
// Commands:
//   - convert: write Mermaid or DOT text, or render it to SVG or PNG
//   - parse: print the parsed agenda model as JSON or YAML
//   - preview: browse lanes and diagram text in the terminal
//   - watch: re-convert a file after every save
//   - serve: run the HTTP API with Prometheus metrics
//   - cache: inspect or clear the on-disk image cache
//
// Diagram text goes to stdout. Status lines and charmbracelet/log output go
// to stderr; --verbose lowers the log level to debug. The logger travels to
// subcommands through the command context.
//
// # Exit Status
//
// A renderer that exits non-zero passes its own status through (see
// [ExitCode]). Asking for an image without an output file exits 2, and an
// interrupt exits 130.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger with centisecond wall-clock timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one conversion.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg suffixed with the elapsed time, e.g.
// "Rendered agenda.svg (1.234s) components=4".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg+" ("+time.Since(p.start).Round(time.Millisecond).String()+")", keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
