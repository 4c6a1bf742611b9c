package network

import (
	"fmt"

	"dosinput/internal/input"
	"dosinput/internal/protocol"
)

// HostInputHandler is the part of input.Handler driven by remote host input
type HostInputHandler interface {
	SendKeyEvent(code input.HostKeyCode, pressed bool, mods input.HostModifierMask)
	SendKeyEventNow(code input.HostKeyCode, pressed bool)
	SendKeypress(code input.HostKeyCode)
	SendNamedKey(name string) bool
	MouseButtonPressed(button input.MouseButton, mods input.HostModifierMask)
	MouseButtonReleased(button input.MouseButton, mods input.HostModifierMask)
	MouseMoved(point, delta input.Point, canvas input.Rect, locked bool)
	LostFocus()
	SetMouseActive(active bool)
}

// Dispatch applies one host input message to h
func Dispatch(h HostInputHandler, p protocol.HostInputPayload) error {
	code := input.HostKeyCode(p.KeyCode)
	mods := input.HostModifierMask(p.Modifiers)

	switch p.Kind {
	case protocol.InputKey:
		if p.HasModifiers {
			h.SendKeyEvent(code, p.Pressed, mods)
		} else {
			h.SendKeyEventNow(code, p.Pressed)
		}
	case protocol.InputKeyPress:
		h.SendKeypress(code)
	case protocol.InputNamedKey:
		if !h.SendNamedKey(p.Name) {
			return fmt.Errorf("unknown named key %q", p.Name)
		}
	case protocol.InputMouseButton:
		button := input.MouseButton(p.Button)
		if p.Pressed {
			h.MouseButtonPressed(button, mods)
		} else {
			h.MouseButtonReleased(button, mods)
		}
	case protocol.InputMouseMove:
		h.MouseMoved(
			input.Point{X: p.X, Y: p.Y},
			input.Point{X: p.DX, Y: p.DY},
			input.Rect{X: p.Canvas.X, Y: p.Canvas.Y, Width: p.Canvas.Width, Height: p.Canvas.Height},
			p.Locked,
		)
	case protocol.InputFocusLost:
		h.LostFocus()
	case protocol.InputMouseActive:
		h.SetMouseActive(p.Active)
	default:
		return fmt.Errorf("unknown host input kind %q", p.Kind)
	}
	return nil
}
