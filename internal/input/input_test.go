package input

import (
	"errors"
	"math"
	"testing"
)

// recorder is an Emulator that records everything forwarded to it
type recorder struct {
	keys     []KeyEvent
	buttons  []MouseButtonEvent
	motions  []MouseMotionEvent
	releases int
}

func (r *recorder) HandleKeyEvent(ev KeyEvent)            { r.keys = append(r.keys, ev) }
func (r *recorder) HandleMouseButton(ev MouseButtonEvent) { r.buttons = append(r.buttons, ev) }
func (r *recorder) HandleMouseMotion(ev MouseMotionEvent) { r.motions = append(r.motions, ev) }
func (r *recorder) ReleaseAll()                           { r.releases++ }
func (r *recorder) total() int                            { return len(r.keys) + len(r.buttons) + len(r.motions) + r.releases }

func newTestHandler(mods HostModifierMask, mouseActive bool) (*Handler, *recorder) {
	rec := &recorder{}
	h := NewHandler(Options{
		Modifiers:   func() HostModifierMask { return mods },
		MouseActive: mouseActive,
	})
	h.SetEmulator(rec)
	return h, rec
}

// TestSendKeypressScenario tests that host A produces a press and release of scan code 30
func TestSendKeypressScenario(t *testing.T) {
	h, rec := newTestHandler(0, true)

	h.SendKeypress(0x00)

	want := []KeyEvent{
		{Code: 30, Pressed: true, Modifiers: 0},
		{Code: 30, Pressed: false, Modifiers: 0},
	}
	if len(rec.keys) != len(want) {
		t.Fatalf("Expected %d key events, got %d", len(want), len(rec.keys))
	}
	for i := range want {
		if rec.keys[i] != want[i] {
			t.Errorf("Event %d: expected %+v, got %+v", i, want[i], rec.keys[i])
		}
	}
}

// TestSendKeypressModifiers tests that both halves of a keypress carry the same modifiers
func TestSendKeypressModifiers(t *testing.T) {
	calls := 0
	rec := &recorder{}
	h := NewHandler(Options{
		Modifiers: func() HostModifierMask {
			calls++
			if calls == 1 {
				return HostShift
			}
			return HostControl
		},
	})
	h.SetEmulator(rec)

	h.SendKeypress(HostKeyQ)

	if len(rec.keys) != 2 {
		t.Fatalf("Expected 2 key events, got %d", len(rec.keys))
	}
	if rec.keys[0].Modifiers != rec.keys[1].Modifiers {
		t.Errorf("Expected identical modifiers, got 0x%X and 0x%X", rec.keys[0].Modifiers, rec.keys[1].Modifiers)
	}
	if rec.keys[0].Modifiers != ModLeftShift {
		t.Errorf("Expected ModLeftShift, got 0x%X", rec.keys[0].Modifiers)
	}
	if !rec.keys[0].Pressed || rec.keys[1].Pressed {
		t.Error("Expected press before release")
	}
	if rec.keys[0].Code != ScanQ || rec.keys[1].Code != ScanQ {
		t.Errorf("Expected both events for ScanQ, got 0x%X and 0x%X", rec.keys[0].Code, rec.keys[1].Code)
	}
}

// TestSendKeyEventUnmapped tests that keys with no emulated equivalent are dropped
func TestSendKeyEventUnmapped(t *testing.T) {
	h, rec := newTestHandler(0, true)

	for _, code := range []HostKeyCode{HostKeyFunction, HostKeyVolumeUp, HostKeyF16, HostKeyKeypadEquals, 0x7F, 0xFFFF} {
		h.SendKeyEvent(code, true, HostShift)
		h.SendKeyEventNow(code, false)
		h.SendKeypress(code)
	}

	if rec.total() != 0 {
		t.Errorf("Expected no forwarded events, got %d", rec.total())
	}
}

// TestSendKeyEventModifiers tests explicit and current modifier paths
func TestSendKeyEventModifiers(t *testing.T) {
	h, rec := newTestHandler(HostOption, true)

	h.SendKeyEvent(HostKeyUpArrow, true, HostControl|HostRightShift)
	h.SendKeyEventNow(HostKeyUpArrow, false)

	if len(rec.keys) != 2 {
		t.Fatalf("Expected 2 key events, got %d", len(rec.keys))
	}
	if rec.keys[0].Code != ScanUp || !rec.keys[0].Code.Extended() {
		t.Errorf("Expected extended ScanUp, got 0x%X", rec.keys[0].Code)
	}
	if rec.keys[0].Modifiers != ModLeftCtrl|ModRightShift {
		t.Errorf("Expected Ctrl+RightShift, got 0x%X", rec.keys[0].Modifiers)
	}
	if rec.keys[1].Modifiers != ModLeftAlt {
		t.Errorf("Expected current modifiers to map to ModLeftAlt, got 0x%X", rec.keys[1].Modifiers)
	}
}

// TestNoEmulator tests that every operation is a no-op without an emulator
func TestNoEmulator(t *testing.T) {
	h := NewHandler(Options{MouseActive: true})

	h.LostFocus()
	h.SendKeypress(HostKeyA)
	h.SendKeyEvent(HostKeyA, true, 0)
	h.MouseButtonPressed(MouseLeft, 0)
	h.MouseMoved(Point{X: 1, Y: 1}, Point{X: 1, Y: 1}, Rect{Width: 10, Height: 10}, false)
	if !h.SendNamedKey("enter") {
		t.Error("Expected enter to be a known named key")
	}

	rec := &recorder{}
	h.SetEmulator(rec)
	h.SetEmulator(nil)
	h.SendTab()
	if rec.total() != 0 {
		t.Errorf("Expected detached emulator to receive nothing, got %d events", rec.total())
	}
}

// TestLostFocus tests that LostFocus delegates release to the emulator
func TestLostFocus(t *testing.T) {
	h, rec := newTestHandler(0, false)

	h.LostFocus()
	h.LostFocus()

	if rec.releases != 2 {
		t.Errorf("Expected 2 release directives, got %d", rec.releases)
	}
	if len(rec.keys) != 0 || len(rec.buttons) != 0 {
		t.Error("Expected LostFocus to forward no key or button events itself")
	}
}

// TestMouseInactive tests that mouse operations are gated by the active flag
func TestMouseInactive(t *testing.T) {
	h, rec := newTestHandler(0, false)

	h.MouseButtonPressed(MouseLeft, HostShift)
	h.MouseButtonReleased(MouseRight, 0)
	h.MouseMoved(Point{X: 5, Y: 5}, Point{X: 2, Y: -2}, Rect{Width: 100, Height: 100}, true)
	h.MouseMoved(Point{X: -50, Y: 500}, Point{}, Rect{Width: 100, Height: 100}, false)

	if rec.total() != 0 {
		t.Errorf("Expected no forwarded events, got %d", rec.total())
	}

	h.SetMouseActive(true)
	if !h.MouseActive() {
		t.Fatal("Expected mouse to be active")
	}
	h.MouseButtonPressed(MouseMiddle, HostCommand)
	if len(rec.buttons) != 1 {
		t.Fatalf("Expected 1 button event, got %d", len(rec.buttons))
	}
	got := rec.buttons[0]
	if got.Button != MouseMiddle || !got.Pressed || got.Modifiers != ModLeftMeta {
		t.Errorf("Unexpected button event %+v", got)
	}
}

// TestMouseMovedLocked tests relative motion scaling
func TestMouseMovedLocked(t *testing.T) {
	rec := &recorder{}
	h := NewHandler(Options{MouseActive: true, Sensitivity: 2})
	h.SetEmulator(rec)

	h.MouseMoved(Point{X: 999, Y: 999}, Point{X: 10, Y: -20}, Rect{Width: 100, Height: 200}, true)
	h.MouseMoved(Point{}, Point{X: 3, Y: -4}, Rect{}, true)

	if len(rec.motions) != 2 {
		t.Fatalf("Expected 2 motion events, got %d", len(rec.motions))
	}
	ev := rec.motions[0]
	if !ev.Locked {
		t.Error("Expected locked motion")
	}
	if ev.Position != (Point{}) {
		t.Errorf("Expected position to be ignored, got %+v", ev.Position)
	}
	if ev.Delta.X != 0.2 || ev.Delta.Y != -0.2 {
		t.Errorf("Expected delta (0.2, -0.2), got %+v", ev.Delta)
	}

	ev = rec.motions[1]
	if ev.Delta.X != 6 || ev.Delta.Y != -8 {
		t.Errorf("Expected unscaled-by-canvas delta (6, -8), got %+v", ev.Delta)
	}
}

// TestMouseMovedAbsolute tests normalization and clamping
func TestMouseMovedAbsolute(t *testing.T) {
	h, rec := newTestHandler(0, true)
	canvas := Rect{X: 100, Y: 50, Width: 200, Height: 100}

	tests := []struct {
		point Point
		want  Point
	}{
		{Point{X: 200, Y: 100}, Point{X: 0.5, Y: 0.5}},
		{Point{X: 100, Y: 50}, Point{X: 0, Y: 0}},
		{Point{X: 0, Y: 0}, Point{X: 0, Y: 0}},
		{Point{X: 1000, Y: 1000}, Point{X: 1, Y: 1}},
		{Point{X: 350, Y: 75}, Point{X: 1, Y: 0.25}},
	}

	for _, tt := range tests {
		h.MouseMoved(tt.point, Point{X: 20, Y: 10}, canvas, false)
		ev := rec.motions[len(rec.motions)-1]
		if ev.Locked {
			t.Error("Expected unlocked motion")
		}
		if ev.Position != tt.want {
			t.Errorf("MouseMoved(%+v): expected position %+v, got %+v", tt.point, tt.want, ev.Position)
		}
		if ev.Delta.X != 0.1 || ev.Delta.Y != 0.1 {
			t.Errorf("Expected normalized delta (0.1, 0.1), got %+v", ev.Delta)
		}
	}
}

// TestMouseMovedNaN tests that an invalid host coordinate still lands on the canvas
func TestMouseMovedNaN(t *testing.T) {
	h, rec := newTestHandler(0, true)
	h.MouseMoved(Point{X: math.NaN(), Y: 5}, Point{}, Rect{Width: 10, Height: 10}, false)
	h.MouseMoved(Point{X: 5, Y: math.NaN()}, Point{}, Rect{Width: 10, Height: 10}, false)

	want := []Point{{X: 0, Y: 0.5}, {X: 0.5, Y: 0}}
	if len(rec.motions) != len(want) {
		t.Fatalf("Expected %d motion events, got %d", len(want), len(rec.motions))
	}
	for i, ev := range rec.motions {
		if ev.Position != want[i] {
			t.Errorf("Motion %d: expected position %+v, got %+v", i, want[i], ev.Position)
		}
	}
}

// TestNamedKeys tests the canned key table and wrappers
func TestNamedKeys(t *testing.T) {
	names := NamedKeys()
	want := []string{"tab", "delete", "space", "enter", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d named keys, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected name %q at %d, got %q", want[i], i, names[i])
		}
	}

	h, rec := newTestHandler(0, true)
	wrappers := []func(){
		h.SendTab, h.SendDelete, h.SendSpace, h.SendEnter,
		h.SendF1, h.SendF2, h.SendF3, h.SendF4, h.SendF5,
		h.SendF6, h.SendF7, h.SendF8, h.SendF9, h.SendF10,
	}
	for _, send := range wrappers {
		send()
	}
	scans := []EmulatedKeyCode{
		ScanTab, ScanDelete, ScanSpace, ScanEnter,
		ScanF1, ScanF2, ScanF3, ScanF4, ScanF5,
		ScanF6, ScanF7, ScanF8, ScanF9, ScanF10,
	}
	if len(rec.keys) != 2*len(scans) {
		t.Fatalf("Expected %d key events, got %d", 2*len(scans), len(rec.keys))
	}
	for i, scan := range scans {
		if rec.keys[2*i].Code != scan || rec.keys[2*i+1].Code != scan {
			t.Errorf("Expected keypress of 0x%X for %s", scan, want[i])
		}
	}

	if h.SendNamedKey("f11") {
		t.Error("Expected f11 to be unknown")
	}
	if !h.SendNamedKey(" F1 ") {
		t.Error("Expected named key lookup to ignore case and spaces")
	}
}

// TestKeyboardLayout tests the handler delegating to the layout resolver
func TestKeyboardLayout(t *testing.T) {
	h := NewHandler(Options{
		InputMethod: func() (string, error) { return "com.apple.keylayout.German", nil },
	})
	if got := h.KeyboardLayout(); got != "gr" {
		t.Errorf("Expected layout 'gr', got '%s'", got)
	}

	h = NewHandler(Options{
		InputMethod: func() (string, error) { return "", errors.New("unavailable") },
	})
	if got := h.KeyboardLayout(); got != DefaultKeyboardLayout {
		t.Errorf("Expected default layout, got '%s'", got)
	}
}
