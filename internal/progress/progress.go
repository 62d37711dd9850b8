// Package progress carries scan lifecycle events from the engine to
// whoever wants to observe them (CLI verbose output, future UIs).
package progress

import (
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	EventScanStarted  EventType = "scan_started"
	EventFileScanned  EventType = "file_scanned"
	EventScanFinished EventType = "scan_finished"
)

type Event struct {
	Type       EventType
	At         time.Time
	Path       string
	Matches    int
	Files      int
	DurationMS int64
}

// Sink receives events. Implementations must be safe for concurrent use;
// the engine emits from multiple workers.
type Sink interface {
	Emit(Event)
}

type NoopSink struct{}

func (NoopSink) Emit(Event) {}

// LogSink writes events to a zap logger at debug level.
type LogSink struct {
	Log *zap.SugaredLogger
}

func (s LogSink) Emit(e Event) {
	if s.Log == nil {
		return
	}
	switch e.Type {
	case EventScanStarted:
		s.Log.Debugw("scan started", "files", e.Files)
	case EventFileScanned:
		s.Log.Debugw("file scanned", "path", e.Path, "matches", e.Matches)
	case EventScanFinished:
		s.Log.Debugw("scan finished", "files", e.Files, "matches", e.Matches, "duration_ms", e.DurationMS)
	}
}
