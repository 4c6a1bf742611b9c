// Package input translates host keyboard and mouse input into the event model of an
// emulated DOS PC.
package input

// HostKeyCode is a host virtual key code (macOS kVK_* numbering)
type HostKeyCode uint16

// HostModifierMask is a host modifier flag set (NSEvent flag numbering)
type HostModifierMask uint32

// EmulatedKeyCode is a PC/XT set-1 scan code. Extended keys carry the 0xE0 prefix
// in the high byte.
type EmulatedKeyCode uint16

// EmulatedModifierMask is a modifier set in the emulated machine's (SDL KMOD) vocabulary
type EmulatedModifierMask uint16

// MouseButton identifies a mouse button. Values are passed through unmodified.
type MouseButton int

const (
	MouseLeft    MouseButton = 1
	MouseRight   MouseButton = 2
	MouseMiddle  MouseButton = 3
	MouseButton4 MouseButton = 4
	MouseButton5 MouseButton = 5
)

// String returns the button name
func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	case MouseButton4:
		return "button4"
	case MouseButton5:
		return "button5"
	}
	return "unknown"
}

// Point is a 2D point or vector
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a canvas rectangle in host coordinates
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// KeyEvent is a key press or release in the emulated machine
type KeyEvent struct {
	Code      EmulatedKeyCode      `json:"code"`
	Pressed   bool                 `json:"pressed"`
	Modifiers EmulatedModifierMask `json:"modifiers"`
}

// MouseButtonEvent is a mouse button press or release in the emulated machine
type MouseButtonEvent struct {
	Button    MouseButton          `json:"button"`
	Pressed   bool                 `json:"pressed"`
	Modifiers EmulatedModifierMask `json:"modifiers"`
}

// MouseMotionEvent is a pointer movement in the emulated machine.
//
// When Locked is false, Position is the pointer location normalized to [0,1] on both
// axes. When Locked is true only Delta is meaningful and Position is zero.
type MouseMotionEvent struct {
	Position Point `json:"position"`
	Delta    Point `json:"delta"`
	Locked   bool  `json:"locked"`
}

// Emulator is the push interface of an emulation runtime. Events must be applied in
// the order they are received.
type Emulator interface {
	HandleKeyEvent(ev KeyEvent)
	HandleMouseButton(ev MouseButtonEvent)
	HandleMouseMotion(ev MouseMotionEvent)

	// ReleaseAll releases every key and mouse button the emulator considers held
	ReleaseAll()
}

// ModifierSource returns the host modifier flags currently held
type ModifierSource func() HostModifierMask

// InputMethodSource returns the identifier of the host's active input method
type InputMethodSource func() (string, error)
