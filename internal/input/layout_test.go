package input

import (
	"errors"
	"testing"
)

func TestCurrentLayout(t *testing.T) {
	tests := []struct {
		name string
		id   string
		err  error
		want string
	}{
		{"us", "com.apple.keylayout.US", nil, "us"},
		{"french", "com.apple.keylayout.French", nil, "fr"},
		{"swiss german", "com.apple.keylayout.SwissGerman", nil, "sg"},
		{"windows german", "00000407", nil, "gr"},
		{"unknown input method", "com.apple.inputmethod.Kotoese", nil, DefaultKeyboardLayout},
		{"empty", "", nil, DefaultKeyboardLayout},
		{"lookup failure", "com.apple.keylayout.French", errors.New("no input source"), DefaultKeyboardLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLayoutResolver(func() (string, error) { return tt.id, tt.err })
			if got := r.CurrentLayout(); got != tt.want {
				t.Errorf("CurrentLayout() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCurrentLayoutNilSource(t *testing.T) {
	if got := NewLayoutResolver(nil).CurrentLayout(); got != "us" {
		t.Errorf("Expected 'us', got %q", got)
	}
	var r *LayoutResolver
	if got := r.CurrentLayout(); got != DefaultKeyboardLayout {
		t.Errorf("Expected default from nil resolver, got %q", got)
	}
}

func TestKeyboardLayoutMappings(t *testing.T) {
	m := KeyboardLayoutMappings()
	if len(m) == 0 {
		t.Fatal("Expected a non-empty layout table")
	}
	for id, layout := range m {
		if layout == "" {
			t.Errorf("Layout for %q is empty", id)
		}
		if got := LayoutFor(id); got != layout {
			t.Errorf("LayoutFor(%q) = %q, want %q", id, got, layout)
		}
	}

	m["com.apple.keylayout.US"] = "fr"
	if got := LayoutFor("com.apple.keylayout.US"); got != "us" {
		t.Errorf("Expected table to be unaffected by copy mutation, got %q", got)
	}
}
