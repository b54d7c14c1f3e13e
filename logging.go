package lifecycle

import (
	"github.com/rs/zerolog"
)

// LogSink renders lifecycle events through a zerolog logger. Successful
// steps log at info level, failed steps and failed passes at error level
// with the wrapped error attached.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a LogSink writing to logger
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// LifecycleEvent implements EventSink
func (s *LogSink) LifecycleEvent(ev Event) {
	var entry *zerolog.Event
	if ev.Err != nil {
		entry = s.logger.Error().Err(ev.Err)
	} else {
		entry = s.logger.Info()
	}

	entry = entry.Str("mode", ev.Mode.String())
	if ev.Service != "" {
		entry = entry.Str("service", ev.Service)
	}
	entry.Msg(ev.Kind.String())
}
