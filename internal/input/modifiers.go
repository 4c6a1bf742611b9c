package input

import "strings"

// Host modifier flags. The low bits are the device-dependent (left/right) flags,
// the high bits the device-independent ones.
const (
	HostLeftControl  HostModifierMask = 0x00000001
	HostLeftShift    HostModifierMask = 0x00000002
	HostRightShift   HostModifierMask = 0x00000004
	HostLeftCommand  HostModifierMask = 0x00000008
	HostRightCommand HostModifierMask = 0x00000010
	HostLeftOption   HostModifierMask = 0x00000020
	HostRightOption  HostModifierMask = 0x00000040
	HostRightControl HostModifierMask = 0x00002000

	HostCapsLock   HostModifierMask = 1 << 16
	HostShift      HostModifierMask = 1 << 17
	HostControl    HostModifierMask = 1 << 18
	HostOption     HostModifierMask = 1 << 19
	HostCommand    HostModifierMask = 1 << 20
	HostNumericPad HostModifierMask = 1 << 21
	HostHelp       HostModifierMask = 1 << 22
	HostFunction   HostModifierMask = 1 << 23
)

// Emulated modifier flags
const (
	ModNone       EmulatedModifierMask = 0x0000
	ModLeftShift  EmulatedModifierMask = 0x0001
	ModRightShift EmulatedModifierMask = 0x0002
	ModLeftCtrl   EmulatedModifierMask = 0x0040
	ModRightCtrl  EmulatedModifierMask = 0x0080
	ModLeftAlt    EmulatedModifierMask = 0x0100
	ModRightAlt   EmulatedModifierMask = 0x0200
	ModLeftMeta   EmulatedModifierMask = 0x0400
	ModRightMeta  EmulatedModifierMask = 0x0800
	ModNum        EmulatedModifierMask = 0x1000
	ModCaps       EmulatedModifierMask = 0x2000
	ModMode       EmulatedModifierMask = 0x4000

	ModShift = ModLeftShift | ModRightShift
	ModCtrl  = ModLeftCtrl | ModRightCtrl
	ModAlt   = ModLeftAlt | ModRightAlt
	ModMeta  = ModLeftMeta | ModRightMeta
)

// modifierBits lists every host flag that has an emulated equivalent.
// Host flags not listed here are dropped.
var modifierBits = []struct {
	host     HostModifierMask
	emulated EmulatedModifierMask
}{
	{HostShift, ModLeftShift},
	{HostLeftShift, ModLeftShift},
	{HostRightShift, ModRightShift},
	{HostControl, ModLeftCtrl},
	{HostLeftControl, ModLeftCtrl},
	{HostRightControl, ModRightCtrl},
	{HostOption, ModLeftAlt},
	{HostLeftOption, ModLeftAlt},
	{HostRightOption, ModRightAlt},
	{HostCommand, ModLeftMeta},
	{HostLeftCommand, ModLeftMeta},
	{HostRightCommand, ModRightMeta},
	{HostCapsLock, ModCaps},
}

// MapModifiers converts host modifier flags to emulated modifier flags
func MapModifiers(mask HostModifierMask) EmulatedModifierMask {
	var out EmulatedModifierMask
	for _, b := range modifierBits {
		if mask&b.host != 0 {
			out |= b.emulated
		}
	}
	return out
}

// Has returns true if m contains any of the bits in mod
func (m EmulatedModifierMask) Has(mod EmulatedModifierMask) bool {
	return m&mod != 0
}

// String returns a human-readable representation like "Ctrl+Alt"
func (m EmulatedModifierMask) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	if m.Has(ModCaps) {
		parts = append(parts, "Caps")
	}
	if m.Has(ModNum) {
		parts = append(parts, "Num")
	}
	return strings.Join(parts, "+")
}
