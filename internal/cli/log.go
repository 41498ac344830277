// Package cli implements the mmcifsite command-line interface.
//
// This package provides the commands that build the dictionary
// documentation site, render single neighbor figures, preview the site
// locally, and inspect the render cache and past runs. The CLI is built
// using cobra and logs with the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Write the HTML pages and neighbor figures of every dictionary
//   - html, images: Shortcuts for one stage of build
//   - figure: Render one category figure, choosing the category interactively
//   - serve: Preview the generated site, optionally rebuilding on changes
//   - cache, runs: Manage the render cache and the run history
//
// # Configuration
//
// Settings come from mmcifsite.toml (or --config), MMCIFSITE_* environment
// variables and command flags, later sources winning. --verbose (-v)
// switches to debug logging; the logger reaches commands through their
// context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled, timestamped records to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// progress times one command and logs its outcome with the elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default outside a
// command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
