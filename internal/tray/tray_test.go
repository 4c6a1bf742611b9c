package tray

import (
	"encoding/binary"
	"errors"
	"testing"
)

type fakeController struct {
	active   bool
	released int
	sent     []string
}

func (f *fakeController) MouseActive() bool          { return f.active }
func (f *fakeController) SetMouseActive(active bool) { f.active = active }
func (f *fakeController) LostFocus()                 { f.released++ }

func (f *fakeController) SendNamedKey(name string) bool {
	f.sent = append(f.sent, name)
	return true
}

type fakeLogin struct {
	enabled bool
	err     error
}

func (f *fakeLogin) IsEnabled() bool { return f.enabled }

func (f *fakeLogin) SetEnabled(enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.enabled = enabled
	return nil
}

func findItem(t *testing.T, tr *Tray, title string) *MenuItem {
	t.Helper()
	for _, mi := range tr.items {
		if mi != nil && mi.Title == title {
			return mi
		}
	}
	t.Fatalf("Menu item %q not found", title)
	return nil
}

func TestBuildMenu(t *testing.T) {
	tr := New("test")
	ctl := &fakeController{active: true}
	quit := 0
	BuildMenu(tr, ctl, nil, func() { quit++ })

	capture := findItem(t, tr, "Capture Mouse")
	if !capture.Checkbox || !capture.Checked {
		t.Error("Expected a checked Capture Mouse checkbox")
	}
	capture.Callback()
	if ctl.active || capture.Checked {
		t.Error("Expected first click to disable mouse capture")
	}
	capture.Callback()
	if !ctl.active || !capture.Checked {
		t.Error("Expected second click to re-enable mouse capture")
	}

	findItem(t, tr, "Release All Keys").Callback()
	if ctl.released != 1 {
		t.Errorf("Expected 1 release, got %d", ctl.released)
	}

	findItem(t, tr, "Send F10").Callback()
	findItem(t, tr, "Send Enter").Callback()
	if len(ctl.sent) != 2 || ctl.sent[0] != "f10" || ctl.sent[1] != "enter" {
		t.Errorf("Expected f10 then enter, got %v", ctl.sent)
	}

	findItem(t, tr, "Quit").Callback()
	if quit != 1 {
		t.Errorf("Expected quit to be called once, got %d", quit)
	}
}

func TestBuildMenuLoginItem(t *testing.T) {
	tr := New("test")
	login := &fakeLogin{}
	BuildMenu(tr, &fakeController{}, login, func() {})

	item := findItem(t, tr, "Start at Login")
	if item.Checked {
		t.Error("Expected Start at Login to start unchecked")
	}
	item.Callback()
	if !login.enabled || !item.Checked {
		t.Error("Expected click to enable start at login")
	}

	login.err = errors.New("read-only")
	item.Callback()
	if !login.enabled || !item.Checked {
		t.Error("Expected a failed toggle to leave the item checked")
	}
}

func TestKeyLabel(t *testing.T) {
	tests := map[string]string{
		"tab":    "Tab",
		"delete": "Delete",
		"f1":     "F1",
		"f10":    "F10",
	}
	for name, want := range tests {
		if got := keyLabel(name); got != want {
			t.Errorf("keyLabel(%q): expected %q, got %q", name, want, got)
		}
	}
}

func TestIconHeader(t *testing.T) {
	icon := getIcon()
	if len(icon) != 22+40+16*16*4+16*4 {
		t.Fatalf("Unexpected icon size %d", len(icon))
	}
	if binary.LittleEndian.Uint16(icon[4:6]) != 1 {
		t.Error("Expected one image")
	}
	if got := binary.LittleEndian.Uint32(icon[14:18]); int(got) != len(icon)-22 {
		t.Errorf("Expected image size %d, got %d", len(icon)-22, got)
	}
}
