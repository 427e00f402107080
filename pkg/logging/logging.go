// Package logging builds the zerolog logger shared by commands and services.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// Service is the service field stamped on every event.
const Service = "taskflow"

// Options controls logger output.
type Options struct {
	// Level is a zerolog level name; unknown names fall back to warn.
	Level string
	// JSON writes raw JSON lines instead of the console format.
	JSON bool
	// Out defaults to stderr so command output on stdout stays clean.
	Out io.Writer
}

// New returns a configured logger. Call sites use .Stack() on error events
// to include stacks.
func New(opts Options) zerolog.Logger {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    !isTerminal(out),
		}
	}
	return zerolog.New(out).Level(ParseLevel(opts.Level)).With().
		Str("service", Service).
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to warn.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.WarnLevel
	}
	return lvl
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
