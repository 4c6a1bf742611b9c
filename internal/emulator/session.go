// Package emulator provides an in-process emulation target that keeps track of held
// keys and buttons and fans translated events out to sinks.
package emulator

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dosinput/internal/input"
)

// EventKind identifies the payload of an Event
type EventKind string

const (
	KindKey         EventKind = "key"
	KindMouseButton EventKind = "mouse_btn"
	KindMouseMotion EventKind = "mouse_move"
	KindReleaseAll  EventKind = "release_all"
)

// Event is a single emulated input event as delivered to sinks
type Event struct {
	Kind   EventKind              `json:"kind"`
	Key    input.KeyEvent         `json:"key"`
	Button input.MouseButtonEvent `json:"button"`
	Motion input.MouseMotionEvent `json:"motion"`
}

// Sink receives emulated events in the order the session applies them
type Sink interface {
	Deliver(ev Event)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(ev Event)

// Deliver calls f(ev)
func (f SinkFunc) Deliver(ev Event) { f(ev) }

// Session is an emulation target. It tracks which keys and mouse buttons are down so
// that ReleaseAll can emit the matching releases.
type Session struct {
	id     uuid.UUID
	logger *zap.Logger

	mu          sync.Mutex
	heldKeys    map[input.EmulatedKeyCode]struct{}
	heldButtons map[input.MouseButton]struct{}
	sinks       []Sink
}

// NewSession creates a session delivering to the given sinks
func NewSession(logger *zap.Logger, sinks ...Sink) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.New()
	return &Session{
		id:          id,
		logger:      logger.With(zap.String("session", id.String())),
		heldKeys:    make(map[input.EmulatedKeyCode]struct{}),
		heldButtons: make(map[input.MouseButton]struct{}),
		sinks:       sinks,
	}
}

// ID returns the session identifier
func (s *Session) ID() uuid.UUID {
	return s.id
}

// AddSink registers an additional sink
func (s *Session) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// HandleKeyEvent applies a key event
func (s *Session) HandleKeyEvent(ev input.KeyEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Pressed {
		s.heldKeys[ev.Code] = struct{}{}
	} else {
		delete(s.heldKeys, ev.Code)
	}
	s.deliver(Event{Kind: KindKey, Key: ev})
}

// HandleMouseButton applies a mouse button event
func (s *Session) HandleMouseButton(ev input.MouseButtonEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Pressed {
		s.heldButtons[ev.Button] = struct{}{}
	} else {
		delete(s.heldButtons, ev.Button)
	}
	s.deliver(Event{Kind: KindMouseButton, Button: ev})
}

// HandleMouseMotion applies a mouse motion event
func (s *Session) HandleMouseMotion(ev input.MouseMotionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliver(Event{Kind: KindMouseMotion, Motion: ev})
}

// ReleaseAll emits a release for every held key and button, in code order.
// Nothing is emitted when nothing is held.
func (s *Session) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.heldKeys) == 0 && len(s.heldButtons) == 0 {
		return
	}

	keys := s.sortedKeys()
	buttons := s.sortedButtons()

	s.logger.Debug("releasing held input", zap.Int("keys", len(keys)), zap.Int("buttons", len(buttons)))

	for _, code := range keys {
		delete(s.heldKeys, code)
		s.deliver(Event{Kind: KindKey, Key: input.KeyEvent{Code: code}})
	}
	for _, b := range buttons {
		delete(s.heldButtons, b)
		s.deliver(Event{Kind: KindMouseButton, Button: input.MouseButtonEvent{Button: b}})
	}
	s.deliver(Event{Kind: KindReleaseAll})
}

// HeldKeys returns the keys currently down, in code order
func (s *Session) HeldKeys() []input.EmulatedKeyCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedKeys()
}

// HeldButtons returns the mouse buttons currently down
func (s *Session) HeldButtons() []input.MouseButton {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedButtons()
}

func (s *Session) sortedKeys() []input.EmulatedKeyCode {
	keys := make([]input.EmulatedKeyCode, 0, len(s.heldKeys))
	for code := range s.heldKeys {
		keys = append(keys, code)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *Session) sortedButtons() []input.MouseButton {
	buttons := make([]input.MouseButton, 0, len(s.heldButtons))
	for b := range s.heldButtons {
		buttons = append(buttons, b)
	}
	sort.Slice(buttons, func(i, j int) bool { return buttons[i] < buttons[j] })
	return buttons
}

// deliver must be called with s.mu held
func (s *Session) deliver(ev Event) {
	for _, sink := range s.sinks {
		sink.Deliver(ev)
	}
}
