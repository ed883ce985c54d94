// Package logging builds the application logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New writes tinted records to stderr, keeping stdout free for rendered maps.
// Colour is disabled when stderr is not a terminal.
func New(level slog.Level) *slog.Logger {
	return NewWriter(os.Stderr, level, !isatty.IsTerminal(os.Stderr.Fd()))
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
