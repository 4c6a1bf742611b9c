package emulator

import (
	"testing"

	"dosinput/internal/input"
)

func TestSessionReleaseAll(t *testing.T) {
	rec := NewRecorder(0)
	s := NewSession(nil, rec)

	s.HandleKeyEvent(input.KeyEvent{Code: input.ScanLeftShift, Pressed: true, Modifiers: input.ModLeftShift})
	s.HandleKeyEvent(input.KeyEvent{Code: input.ScanA, Pressed: true, Modifiers: input.ModLeftShift})
	s.HandleMouseButton(input.MouseButtonEvent{Button: input.MouseLeft, Pressed: true})
	s.HandleKeyEvent(input.KeyEvent{Code: input.ScanA, Pressed: false})

	if got := s.HeldKeys(); len(got) != 1 || got[0] != input.ScanLeftShift {
		t.Fatalf("Expected only shift held, got %v", got)
	}
	rec.Reset()

	s.ReleaseAll()

	events := rec.Events()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != KindKey || events[0].Key.Code != input.ScanLeftShift || events[0].Key.Pressed {
		t.Errorf("Expected shift release, got %+v", events[0])
	}
	if events[1].Kind != KindMouseButton || events[1].Button.Button != input.MouseLeft || events[1].Button.Pressed {
		t.Errorf("Expected left button release, got %+v", events[1])
	}
	if events[2].Kind != KindReleaseAll {
		t.Errorf("Expected release-all marker, got %+v", events[2])
	}
	if len(s.HeldKeys()) != 0 || len(s.HeldButtons()) != 0 {
		t.Error("Expected nothing held after ReleaseAll")
	}
}

func TestSessionReleaseAllIdempotent(t *testing.T) {
	rec := NewRecorder(0)
	s := NewSession(nil, rec)

	s.HandleKeyEvent(input.KeyEvent{Code: input.ScanUp, Pressed: true})
	s.ReleaseAll()
	once := len(rec.Events())

	s.ReleaseAll()
	if twice := len(rec.Events()); twice != once {
		t.Errorf("Expected second ReleaseAll to emit nothing, got %d extra events", twice-once)
	}
}

func TestHandlerLostFocusThroughSession(t *testing.T) {
	rec := NewRecorder(0)
	s := NewSession(nil, rec)
	h := input.NewHandler(input.Options{MouseActive: true})
	h.SetEmulator(s)

	h.SendKeyEvent(input.HostKeyControl, true, input.HostControl)
	h.MouseButtonPressed(input.MouseRight, 0)
	h.LostFocus()
	after := len(rec.Events())
	h.LostFocus()

	if len(rec.Events()) != after {
		t.Error("Expected repeated LostFocus to have no further effect")
	}
	if len(s.HeldKeys()) != 0 || len(s.HeldButtons()) != 0 {
		t.Error("Expected LostFocus to leave nothing held")
	}
}

func TestRecorderLimit(t *testing.T) {
	rec := NewRecorder(2)
	for i := 0; i < 5; i++ {
		rec.Deliver(Event{Kind: KindKey, Key: input.KeyEvent{Code: input.EmulatedKeyCode(i)}})
	}
	events := rec.Events()
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Key.Code != 3 || events[1].Key.Code != 4 {
		t.Errorf("Expected the newest events, got %+v", events)
	}
}
