package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"dosinput/internal/input"
)

// UDP Packet types
const (
	UDPPacketMouseMotion uint8 = 0x01
	UDPPacketMouseButton uint8 = 0x02
	UDPPacketKeyEvent    uint8 = 0x04
	UDPPacketReleaseAll  uint8 = 0x05
	UDPPacketRegister    uint8 = 0x10
	UDPPacketHeartbeat   uint8 = 0x11
	UDPPacketAck         uint8 = 0x12 // Sender -> Runtime: confirms UDP path is open
)

// Header: [type(1)] [seq(4)] [timestamp(8)] = 13 bytes
const UDPHeaderSize = 13

var (
	ErrShortPacket   = errors.New("udp: packet too short")
	ErrUnknownPacket = errors.New("udp: unknown packet type")
	ErrButtonRange   = errors.New("udp: mouse button out of range")
)

// UDPPacket is a binary-encoded emulated input event.
//
// Wire format per type:
//
//	MouseMotion (0x01): header + x,y,dx,dy(float32) + locked(uint8)             = 30 bytes
//	MouseButton (0x02): header + button(uint16) + pressed(uint8) + mods(uint16) = 18 bytes
//	KeyEvent    (0x04): header + keyCode(uint16) + pressed(uint8) + mods(uint16)= 18 bytes
//	ReleaseAll  (0x05): header only                                             = 13 bytes
//	Register    (0x10): header only                                             = 13 bytes
//	Heartbeat   (0x11): header only                                             = 13 bytes
type UDPPacket struct {
	Type      uint8
	Seq       uint32
	Timestamp int64
	X, Y      float32 // absolute position, 0..1
	DeltaX    float32
	DeltaY    float32
	Locked    uint8
	Button    uint16 // mouse button, passed through as is
	Pressed   uint8  // mouse button / key (1=pressed, 0=released)
	KeyCode   uint16 // emulated scan code
	Modifiers uint16 // emulated modifier mask
}

func payloadSize(pktType uint8) int {
	switch pktType {
	case UDPPacketMouseMotion:
		return 17
	case UDPPacketMouseButton:
		return 5
	case UDPPacketKeyEvent:
		return 5
	}
	return 0
}

// EncodeUDPPacket serializes a UDPPacket to wire format.
func EncodeUDPPacket(pkt *UDPPacket) []byte {
	buf := make([]byte, UDPHeaderSize+payloadSize(pkt.Type))
	buf[0] = pkt.Type
	binary.BigEndian.PutUint32(buf[1:5], pkt.Seq)
	binary.BigEndian.PutUint64(buf[5:13], uint64(pkt.Timestamp))

	payload := buf[UDPHeaderSize:]
	switch pkt.Type {
	case UDPPacketMouseMotion:
		binary.BigEndian.PutUint32(payload[0:4], math.Float32bits(pkt.X))
		binary.BigEndian.PutUint32(payload[4:8], math.Float32bits(pkt.Y))
		binary.BigEndian.PutUint32(payload[8:12], math.Float32bits(pkt.DeltaX))
		binary.BigEndian.PutUint32(payload[12:16], math.Float32bits(pkt.DeltaY))
		payload[16] = pkt.Locked
	case UDPPacketMouseButton:
		binary.BigEndian.PutUint16(payload[0:2], pkt.Button)
		payload[2] = pkt.Pressed
		binary.BigEndian.PutUint16(payload[3:5], pkt.Modifiers)
	case UDPPacketKeyEvent:
		binary.BigEndian.PutUint16(payload[0:2], pkt.KeyCode)
		payload[2] = pkt.Pressed
		binary.BigEndian.PutUint16(payload[3:5], pkt.Modifiers)
	}

	return buf
}

// DecodeUDPPacket deserializes wire bytes into a UDPPacket.
func DecodeUDPPacket(data []byte) (*UDPPacket, error) {
	if len(data) < UDPHeaderSize {
		return nil, ErrShortPacket
	}

	pkt := &UDPPacket{
		Type:      data[0],
		Seq:       binary.BigEndian.Uint32(data[1:5]),
		Timestamp: int64(binary.BigEndian.Uint64(data[5:13])),
	}

	switch pkt.Type {
	case UDPPacketMouseMotion, UDPPacketMouseButton, UDPPacketKeyEvent,
		UDPPacketReleaseAll, UDPPacketRegister, UDPPacketHeartbeat, UDPPacketAck:
	default:
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownPacket, pkt.Type)
	}

	payload := data[UDPHeaderSize:]
	if len(payload) < payloadSize(pkt.Type) {
		return nil, fmt.Errorf("%w: type 0x%02X has %d payload bytes", ErrShortPacket, pkt.Type, len(payload))
	}

	switch pkt.Type {
	case UDPPacketMouseMotion:
		pkt.X = math.Float32frombits(binary.BigEndian.Uint32(payload[0:4]))
		pkt.Y = math.Float32frombits(binary.BigEndian.Uint32(payload[4:8]))
		pkt.DeltaX = math.Float32frombits(binary.BigEndian.Uint32(payload[8:12]))
		pkt.DeltaY = math.Float32frombits(binary.BigEndian.Uint32(payload[12:16]))
		pkt.Locked = payload[16]
	case UDPPacketMouseButton:
		pkt.Button = binary.BigEndian.Uint16(payload[0:2])
		pkt.Pressed = payload[2]
		pkt.Modifiers = binary.BigEndian.Uint16(payload[3:5])
	case UDPPacketKeyEvent:
		pkt.KeyCode = binary.BigEndian.Uint16(payload[0:2])
		pkt.Pressed = payload[2]
		pkt.Modifiers = binary.BigEndian.Uint16(payload[3:5])
	}

	return pkt, nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// KeyPacket builds a key event packet
func KeyPacket(ev input.KeyEvent) *UDPPacket {
	return &UDPPacket{
		Type:      UDPPacketKeyEvent,
		KeyCode:   uint16(ev.Code),
		Pressed:   flag(ev.Pressed),
		Modifiers: uint16(ev.Modifiers),
	}
}

// MouseButtonPacket builds a mouse button packet. Buttons that do not fit the
// 16-bit wire field are rejected rather than truncated.
func MouseButtonPacket(ev input.MouseButtonEvent) (*UDPPacket, error) {
	if ev.Button < 0 || ev.Button > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d", ErrButtonRange, int(ev.Button))
	}
	return &UDPPacket{
		Type:      UDPPacketMouseButton,
		Button:    uint16(ev.Button),
		Pressed:   flag(ev.Pressed),
		Modifiers: uint16(ev.Modifiers),
	}, nil
}

// MouseMotionPacket builds a mouse motion packet
func MouseMotionPacket(ev input.MouseMotionEvent) *UDPPacket {
	return &UDPPacket{
		Type:   UDPPacketMouseMotion,
		X:      float32(ev.Position.X),
		Y:      float32(ev.Position.Y),
		DeltaX: float32(ev.Delta.X),
		DeltaY: float32(ev.Delta.Y),
		Locked: flag(ev.Locked),
	}
}

// Critical reports whether losing the packet would leave emulator state wrong.
// Motion is superseded by the next motion packet; everything else is not.
func (p *UDPPacket) Critical() bool {
	switch p.Type {
	case UDPPacketKeyEvent, UDPPacketMouseButton, UDPPacketReleaseAll:
		return true
	}
	return false
}

// Apply forwards the event carried by the packet to emu. Control packets are ignored.
func (p *UDPPacket) Apply(emu input.Emulator) {
	switch p.Type {
	case UDPPacketKeyEvent:
		emu.HandleKeyEvent(input.KeyEvent{
			Code:      input.EmulatedKeyCode(p.KeyCode),
			Pressed:   p.Pressed == 1,
			Modifiers: input.EmulatedModifierMask(p.Modifiers),
		})
	case UDPPacketMouseButton:
		emu.HandleMouseButton(input.MouseButtonEvent{
			Button:    input.MouseButton(p.Button),
			Pressed:   p.Pressed == 1,
			Modifiers: input.EmulatedModifierMask(p.Modifiers),
		})
	case UDPPacketMouseMotion:
		emu.HandleMouseMotion(input.MouseMotionEvent{
			Position: input.Point{X: float64(p.X), Y: float64(p.Y)},
			Delta:    input.Point{X: float64(p.DeltaX), Y: float64(p.DeltaY)},
			Locked:   p.Locked == 1,
		})
	case UDPPacketReleaseAll:
		emu.ReleaseAll()
	}
}
