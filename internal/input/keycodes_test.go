package input

import "testing"

func TestTranslateKnownKeys(t *testing.T) {
	tests := []struct {
		host HostKeyCode
		want EmulatedKeyCode
	}{
		{HostKeyA, 30},
		{HostKeyZ, ScanZ},
		{HostKey1, Scan1},
		{HostKey0, Scan0},
		{HostKeyReturn, ScanEnter},
		{HostKeyDelete, ScanBackspace},
		{HostKeyForwardDelete, ScanDelete},
		{HostKeyF10, ScanF10},
		{HostKeyF12, ScanF12},
		{HostKeyKeypadEnter, ScanKeypadEnter},
		{HostKeyRightOption, ScanRightAlt},
		{HostKeyHelp, ScanInsert},
	}

	for _, tt := range tests {
		got, ok := Translate(tt.host)
		if !ok {
			t.Errorf("Translate(0x%X): expected a mapping", tt.host)
			continue
		}
		if got != tt.want {
			t.Errorf("Translate(0x%X) = 0x%X, want 0x%X", tt.host, got, tt.want)
		}
	}
}

func TestTranslateDeterministic(t *testing.T) {
	s := NewSynthesizer(nil)
	for host, scan := range KeyCodeMappings() {
		for i := 0; i < 2; i++ {
			ev, ok := s.KeyEvent(host, i == 0, 0)
			if !ok || ev.Code != scan {
				t.Errorf("KeyEvent(0x%X) = (0x%X, %v), want 0x%X", host, ev.Code, ok, scan)
			}
		}
	}
}

func TestTranslateUnmapped(t *testing.T) {
	mapped := KeyCodeMappings()
	s := NewSynthesizer(func() HostModifierMask { return HostShift })
	for code := 0; code <= 0xFF; code++ {
		if _, ok := mapped[HostKeyCode(code)]; ok {
			continue
		}
		if _, ok := Translate(HostKeyCode(code)); ok {
			t.Errorf("Translate(0x%X): expected no mapping", code)
		}
		if _, ok := s.KeyEventNow(HostKeyCode(code), true); ok {
			t.Errorf("KeyEventNow(0x%X): expected no event", code)
		}
	}
}

func TestKeyCodeMappingsIsCopy(t *testing.T) {
	m := KeyCodeMappings()
	m[HostKeyA] = ScanB
	if got, _ := Translate(HostKeyA); got != ScanA {
		t.Errorf("Expected table to be unaffected by copy mutation, got 0x%X", got)
	}
}

func TestExtended(t *testing.T) {
	if ScanA.Extended() {
		t.Error("ScanA should not be extended")
	}
	if !ScanRightCtrl.Extended() {
		t.Error("ScanRightCtrl should be extended")
	}
}
