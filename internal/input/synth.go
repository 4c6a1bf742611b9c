package input

// Synthesizer builds emulated key events from host key codes
type Synthesizer struct {
	modifiers ModifierSource
}

// NewSynthesizer creates a synthesizer. current reports the host modifiers held at
// call time and is used by KeyEventNow; nil means no modifiers are ever held.
func NewSynthesizer(current ModifierSource) *Synthesizer {
	return &Synthesizer{modifiers: current}
}

// KeyEvent translates a host key code and modifier flags into an emulated key event.
// ok is false when the key has no emulated equivalent.
func (s *Synthesizer) KeyEvent(code HostKeyCode, pressed bool, mods HostModifierMask) (KeyEvent, bool) {
	scan, ok := Translate(code)
	if !ok {
		return KeyEvent{}, false
	}
	return KeyEvent{
		Code:      scan,
		Pressed:   pressed,
		Modifiers: MapModifiers(mods),
	}, true
}

// KeyEventNow is KeyEvent using the host modifiers held right now
func (s *Synthesizer) KeyEventNow(code HostKeyCode, pressed bool) (KeyEvent, bool) {
	return s.KeyEvent(code, pressed, s.CurrentModifiers())
}

// CurrentModifiers returns the host modifier flags held right now
func (s *Synthesizer) CurrentModifiers() HostModifierMask {
	if s == nil || s.modifiers == nil {
		return 0
	}
	return s.modifiers()
}
