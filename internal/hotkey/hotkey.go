// Package hotkey matches local hotkey chords in the host key stream so they can be
// handled here instead of being forwarded to the emulator.
package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dosinput/internal/input"
	"dosinput/internal/protocol"
)

// Manager handles hotkey registration and matching
type Manager struct {
	mu        sync.Mutex
	hotkeys   []*registeredHotkey
	down      map[input.HostKeyCode]bool // keys pressed and not yet released
	swallowed map[input.HostKeyCode]bool // down keys whose first press triggered a hotkey
	logger    *zap.Logger
}

type registeredHotkey struct {
	key      input.HostKeyCode
	mods     input.HostModifierMask // device-independent flags that must be held
	original string
	callback func()
}

// modifierNames maps chord tokens to the device-independent host flags
var modifierNames = map[string]input.HostModifierMask{
	"CTRL":    input.HostControl,
	"CONTROL": input.HostControl,
	"ALT":     input.HostOption,
	"OPTION":  input.HostOption,
	"SHIFT":   input.HostShift,
	"CMD":     input.HostCommand,
	"COMMAND": input.HostCommand,
	"META":    input.HostCommand,
}

var chordModifiers = input.HostControl | input.HostOption | input.HostShift | input.HostCommand

// keyNames maps chord tokens to host keys
var keyNames = func() map[string]input.HostKeyCode {
	m := map[string]input.HostKeyCode{
		"A": input.HostKeyA, "B": input.HostKeyB, "C": input.HostKeyC, "D": input.HostKeyD,
		"E": input.HostKeyE, "F": input.HostKeyF, "G": input.HostKeyG, "H": input.HostKeyH,
		"I": input.HostKeyI, "J": input.HostKeyJ, "K": input.HostKeyK, "L": input.HostKeyL,
		"M": input.HostKeyM, "N": input.HostKeyN, "O": input.HostKeyO, "P": input.HostKeyP,
		"Q": input.HostKeyQ, "R": input.HostKeyR, "S": input.HostKeyS, "T": input.HostKeyT,
		"U": input.HostKeyU, "V": input.HostKeyV, "W": input.HostKeyW, "X": input.HostKeyX,
		"Y": input.HostKeyY, "Z": input.HostKeyZ,
		"0": input.HostKey0, "1": input.HostKey1, "2": input.HostKey2, "3": input.HostKey3,
		"4": input.HostKey4, "5": input.HostKey5, "6": input.HostKey6, "7": input.HostKey7,
		"8": input.HostKey8, "9": input.HostKey9,
		"F11": input.HostKeyF11, "F12": input.HostKeyF12,
		"ESC": input.HostKeyEscape, "ESCAPE": input.HostKeyEscape,
		"HOME": input.HostKeyHome, "END": input.HostKeyEnd,
		"PAGEUP": input.HostKeyPageUp, "PAGEDOWN": input.HostKeyPageDown,
		"BACKSPACE": input.HostKeyDelete,
	}
	// Canned keys: TAB, DELETE, SPACE, ENTER, F1-F10
	for _, name := range input.NamedKeys() {
		code, _ := input.NamedKeyCode(name)
		m[strings.ToUpper(name)] = code
	}
	return m
}()

// NewManager creates a new hotkey manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		down:      make(map[input.HostKeyCode]bool),
		swallowed: make(map[input.HostKeyCode]bool),
		logger:    logger.Named("hotkey"),
	}
}

// ParseChord parses a chord such as "Ctrl+Alt+End" into a key and the modifiers
// that must be held with it.
func ParseChord(chord string) (input.HostKeyCode, input.HostModifierMask, error) {
	var (
		mods   input.HostModifierMask
		key    input.HostKeyCode
		hasKey bool
	)
	for _, part := range strings.Split(strings.ToUpper(chord), "+") {
		part = strings.TrimSpace(part)
		if mod, ok := modifierNames[part]; ok {
			mods |= mod
			continue
		}
		code, ok := keyNames[part]
		if !ok {
			return 0, 0, fmt.Errorf("hotkey %q: unknown key %q", chord, part)
		}
		if hasKey {
			return 0, 0, fmt.Errorf("hotkey %q: more than one non-modifier key", chord)
		}
		key, hasKey = code, true
	}
	if !hasKey {
		return 0, 0, fmt.Errorf("hotkey %q: no key", chord)
	}
	return key, mods, nil
}

// Register registers a hotkey chord (e.g. "Ctrl+Alt+End") and a callback.
// An empty chord is ignored.
func (m *Manager) Register(chord string, callback func()) error {
	if chord == "" {
		return nil
	}
	key, mods, err := ParseChord(chord)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = append(m.hotkeys, &registeredHotkey{
		key:      key,
		mods:     mods,
		original: chord,
		callback: callback,
	})
	return nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Reset forgets which keys are down, e.g. after the frontend lost focus and the
// emulator released everything
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.down = make(map[input.HostKeyCode]bool)
	m.swallowed = make(map[input.HostKeyCode]bool)
}

// KeyEvent checks a host key event against the registered hotkeys. It returns true
// when the event belongs to a hotkey and must not be forwarded: the press that
// completes a chord, its auto-repeats, and the later release of the same key.
// A chord only fires when its key goes down; a key that was already down and
// forwarded keeps being forwarded until it is released.
func (m *Manager) KeyEvent(code input.HostKeyCode, pressed bool, mods input.HostModifierMask) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !pressed {
		delete(m.down, code)
		if m.swallowed[code] {
			delete(m.swallowed, code)
			return true
		}
		return false
	}

	if m.down[code] {
		return m.swallowed[code]
	}
	m.down[code] = true

	for _, hk := range m.hotkeys {
		// Exact match on the chord modifiers so Ctrl+Alt+R does not fire for Ctrl+Alt+Shift+R
		if hk.key == code && mods&chordModifiers == hk.mods {
			m.logger.Info("hotkey triggered", zap.String("hotkey", hk.original))
			m.swallowed[code] = true
			go hk.callback()
			return true
		}
	}
	return false
}

// Intercept applies KeyEvent to a host input message from a capture frontend.
// Messages without explicit modifiers are matched against current.
func (m *Manager) Intercept(p protocol.HostInputPayload, current input.ModifierSource) bool {
	code := input.HostKeyCode(p.KeyCode)
	mods := input.HostModifierMask(p.Modifiers)
	if !p.HasModifiers && current != nil {
		mods = current()
	}

	switch p.Kind {
	case protocol.InputKey:
		return m.KeyEvent(code, p.Pressed, mods)
	case protocol.InputKeyPress:
		hit := m.KeyEvent(code, true, mods)
		m.KeyEvent(code, false, mods)
		return hit
	case protocol.InputFocusLost:
		m.Reset()
	}
	return false
}
