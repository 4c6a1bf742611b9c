package osutils

import "testing"

func TestInputMethodSourceOverride(t *testing.T) {
	source := InputMethodSource("com.apple.keylayout.German")
	id, err := source()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != "com.apple.keylayout.German" {
		t.Errorf("Expected override to be reported, got %q", id)
	}
}

func TestInputMethodSourcePlatform(t *testing.T) {
	// The platform lookup may fail in CI; the source must still be callable.
	source := InputMethodSource("")
	if source == nil {
		t.Fatal("Expected a source")
	}
	source()
}

func TestModifierSource(t *testing.T) {
	if ModifierSource() == nil {
		t.Fatal("Expected a modifier source")
	}
}
