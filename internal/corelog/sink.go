// Package corelog provides the internal diagnostic sink the resolution
// stack logs to — invariant warnings, skipped skill failures, recoverable
// error detail — distinct from the player-facing engine.Event stream.
package corelog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lianhua-dev/sgscore/internal/engine"
)

// Sink wraps a zerolog.Logger behind the engine.LogSink interface so the
// core never imports zerolog directly.
type Sink struct {
	logger zerolog.Logger
}

// New builds a Sink writing structured JSON lines to w.
func New(w io.Writer) *Sink {
	return &Sink{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// NewConsole builds a Sink writing human-readable colored lines to stderr,
// for local CLI use.
func NewConsole() *Sink {
	return &Sink{logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

func fields(e *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	return e
}

// Info logs an informational diagnostic.
func (s *Sink) Info(msg string, kv ...any) { fields(s.logger.Info(), kv).Msg(msg) }

// Warn logs a recoverable diagnostic (e.g. a skipped skill failure).
func (s *Sink) Warn(msg string, kv ...any) { fields(s.logger.Warn(), kv).Msg(msg) }

// Error logs a fatal-adjacent diagnostic.
func (s *Sink) Error(msg string, kv ...any) { fields(s.logger.Error(), kv).Msg(msg) }

var _ engine.LogSink = (*Sink)(nil)
