package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// TypeAuth is sent by the client immediately after connection to authenticate
	TypeAuth MessageType = "auth"

	// TypeHostInput carries one host input event from a capture frontend
	TypeHostInput MessageType = "host_input"

	// TypePing can be used for application-level heartbeats if needed
	TypePing MessageType = "ping"
)

// Message is the generic container for all WebSocket messages
type Message struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// AuthPayload is the payload for TypeAuth
type AuthPayload struct {
	Token         string `json:"token"`
	ClientName    string `json:"client_name"`
	ClientVersion string `json:"client_version"`
}

// Host input kinds
const (
	InputKey         = "key"
	InputKeyPress    = "key_press"
	InputNamedKey    = "named_key"
	InputMouseButton = "mouse_btn"
	InputMouseMove   = "mouse_move"
	InputFocusLost   = "focus_lost"
	InputMouseActive = "mouse_active"
)

// HostInputPayload is the payload for TypeHostInput. Fields are in host terms:
// key codes and modifier masks as the host reports them, coordinates in host points.
type HostInputPayload struct {
	Kind string `json:"kind"`

	KeyCode   uint16 `json:"key_code,omitempty"`
	Pressed   bool   `json:"pressed,omitempty"`
	Modifiers uint32 `json:"modifiers,omitempty"`
	// HasModifiers is false when the sender wants the modifiers held right now
	HasModifiers bool   `json:"has_modifiers,omitempty"`
	Name         string `json:"name,omitempty"`

	Button int     `json:"button,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	Canvas Canvas  `json:"canvas"`
	Locked bool    `json:"locked,omitempty"`

	Active bool `json:"active,omitempty"`
}

// Canvas is the host rectangle the emulated display occupies
type Canvas struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MessageTypeOf peeks at the type field of a raw message without decoding the payload
func MessageTypeOf(data []byte) MessageType {
	return MessageType(gjson.GetBytes(data, "type").String())
}

// DecodePayload decodes the payload field of a raw message into v
func DecodePayload(data []byte, v interface{}) error {
	raw := gjson.GetBytes(data, "payload")
	if !raw.Exists() {
		return fmt.Errorf("message %q has no payload", MessageTypeOf(data))
	}
	if err := json.Unmarshal([]byte(raw.Raw), v); err != nil {
		return fmt.Errorf("decode %q payload: %w", MessageTypeOf(data), err)
	}
	return nil
}
