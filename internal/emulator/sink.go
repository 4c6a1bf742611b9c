package emulator

import (
	"sync"

	"go.uber.org/zap"
)

// LogSink logs every delivered event at debug level
func LogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(ev Event) {
		switch ev.Kind {
		case KindKey:
			logger.Debug("key",
				zap.Uint16("code", uint16(ev.Key.Code)),
				zap.Bool("pressed", ev.Key.Pressed),
				zap.Stringer("mods", ev.Key.Modifiers))
		case KindMouseButton:
			logger.Debug("mouse button",
				zap.Stringer("button", ev.Button.Button),
				zap.Bool("pressed", ev.Button.Pressed),
				zap.Stringer("mods", ev.Button.Modifiers))
		case KindMouseMotion:
			logger.Debug("mouse motion",
				zap.Float64("x", ev.Motion.Position.X),
				zap.Float64("y", ev.Motion.Position.Y),
				zap.Float64("dx", ev.Motion.Delta.X),
				zap.Float64("dy", ev.Motion.Delta.Y),
				zap.Bool("locked", ev.Motion.Locked))
		case KindReleaseAll:
			logger.Debug("release all")
		}
	})
}

// Recorder keeps the most recent events delivered to it
type Recorder struct {
	mu     sync.Mutex
	limit  int
	events []Event
}

// NewRecorder creates a recorder holding at most limit events; limit <= 0 keeps everything
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Deliver records ev, dropping the oldest event when full
func (r *Recorder) Deliver(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Events returns a copy of the recorded events, oldest first
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset discards all recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
