package input

import (
	"math"
	"sync"

	"go.uber.org/zap"
)

// DefaultMouseSensitivity is the relative motion scale used when none is configured
const DefaultMouseSensitivity = 1.0

// Options configures a Handler
type Options struct {
	// Modifiers reports the host modifiers currently held (used for synthetic key sends)
	Modifiers ModifierSource

	// InputMethod reports the host's active input method identifier
	InputMethod InputMethodSource

	// Sensitivity scales relative (locked) mouse motion. Values <= 0 use the default.
	Sensitivity float64

	// MouseActive is the initial mouse translation state
	MouseActive bool

	Logger *zap.Logger
}

// Handler receives host input and forwards the translated events to an emulator.
// It is safe for concurrent use.
type Handler struct {
	mu          sync.Mutex
	emulator    Emulator
	mouseActive bool
	sensitivity float64

	synth   *Synthesizer
	layouts *LayoutResolver
	logger  *zap.Logger
}

// NewHandler creates a handler with no emulator attached
func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sensitivity := opts.Sensitivity
	if sensitivity <= 0 {
		sensitivity = DefaultMouseSensitivity
	}
	return &Handler{
		mouseActive: opts.MouseActive,
		sensitivity: sensitivity,
		synth:       NewSynthesizer(opts.Modifiers),
		layouts:     NewLayoutResolver(opts.InputMethod),
		logger:      logger,
	}
}

// SetEmulator attaches the emulation target. Passing nil detaches it, after which
// every forwarding operation is a no-op.
func (h *Handler) SetEmulator(emu Emulator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emulator = emu
}

// SetMouseActive sets whether mouse input is translated at all
func (h *Handler) SetMouseActive(active bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mouseActive != active {
		h.logger.Debug("mouse translation toggled", zap.Bool("active", active))
	}
	h.mouseActive = active
}

// MouseActive reports whether mouse input is being translated
func (h *Handler) MouseActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mouseActive
}

// KeyboardLayout returns the DOS layout code for the host's active input method
func (h *Handler) KeyboardLayout() string {
	return h.layouts.CurrentLayout()
}

// target returns the attached emulator. Must be called with h.mu held.
func (h *Handler) target() (Emulator, bool) {
	if h.emulator == nil {
		return nil, false
	}
	return h.emulator, true
}

// LostFocus releases every key and mouse button held in the emulator
func (h *Handler) LostFocus() {
	h.mu.Lock()
	defer h.mu.Unlock()

	emu, ok := h.target()
	if !ok {
		return
	}
	emu.ReleaseAll()
}

// MouseButtonPressed presses a mouse button in the emulator
func (h *Handler) MouseButtonPressed(button MouseButton, mods HostModifierMask) {
	h.sendMouseButton(button, true, mods)
}

// MouseButtonReleased releases a mouse button in the emulator
func (h *Handler) MouseButtonReleased(button MouseButton, mods HostModifierMask) {
	h.sendMouseButton(button, false, mods)
}

func (h *Handler) sendMouseButton(button MouseButton, pressed bool, mods HostModifierMask) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.mouseActive {
		return
	}
	emu, ok := h.target()
	if !ok {
		return
	}
	emu.HandleMouseButton(MouseButtonEvent{
		Button:    button,
		Pressed:   pressed,
		Modifiers: MapModifiers(mods),
	})
}

// MouseMoved moves the emulated mouse. When locked, only delta is used and it is
// forwarded as relative motion. Otherwise point is normalized against canvas and
// clamped to its edges.
func (h *Handler) MouseMoved(point, delta Point, canvas Rect, locked bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.mouseActive {
		return
	}
	emu, ok := h.target()
	if !ok {
		return
	}
	emu.HandleMouseMotion(motionEvent(point, delta, canvas, locked, h.sensitivity))
}

func motionEvent(point, delta Point, canvas Rect, locked bool, sensitivity float64) MouseMotionEvent {
	if locked {
		return MouseMotionEvent{
			Delta: Point{
				X: relative(delta.X, canvas.Width) * sensitivity,
				Y: relative(delta.Y, canvas.Height) * sensitivity,
			},
			Locked: true,
		}
	}
	return MouseMotionEvent{
		Position: Point{
			X: clamp01(normalize(point.X-canvas.X, canvas.Width)),
			Y: clamp01(normalize(point.Y-canvas.Y, canvas.Height)),
		},
		Delta: Point{
			X: normalize(delta.X, canvas.Width),
			Y: normalize(delta.Y, canvas.Height),
		},
	}
}

// relative scales a delta to canvas units; a degenerate canvas leaves it unscaled
func relative(d, size float64) float64 {
	if size <= 0 {
		return d
	}
	return d / size
}

func normalize(v, size float64) float64 {
	if size <= 0 {
		return 0
	}
	return v / size
}

// clamp01 clamps v to [0,1]; NaN becomes 0
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SendKeyEvent sends a key press or release with the given host modifiers.
// Keys with no emulated equivalent are dropped.
func (h *Handler) SendKeyEvent(code HostKeyCode, pressed bool, mods HostModifierMask) {
	ev, ok := h.synth.KeyEvent(code, pressed, mods)
	if !ok {
		h.logger.Debug("dropping unmapped key", zap.Uint16("code", uint16(code)))
		return
	}
	h.forwardKeys(ev)
}

// SendKeyEventNow sends a key press or release using the host modifiers held right now
func (h *Handler) SendKeyEventNow(code HostKeyCode, pressed bool) {
	h.SendKeyEvent(code, pressed, h.synth.CurrentModifiers())
}

// SendKeypress sends a press followed by a release of the same key, using the host
// modifiers held right now
func (h *Handler) SendKeypress(code HostKeyCode) {
	mods := h.synth.CurrentModifiers()
	down, ok := h.synth.KeyEvent(code, true, mods)
	if !ok {
		h.logger.Debug("dropping unmapped key", zap.Uint16("code", uint16(code)))
		return
	}
	up := down
	up.Pressed = false
	h.forwardKeys(down, up)
}

// forwardKeys delivers events under a single lock so no other caller can interleave
func (h *Handler) forwardKeys(events ...KeyEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	emu, ok := h.target()
	if !ok {
		return
	}
	for _, ev := range events {
		emu.HandleKeyEvent(ev)
	}
}
