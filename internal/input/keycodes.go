package input

// Host virtual key codes (macOS kVK_*)
// Reference: HIToolbox/Events.h
const (
	HostKeyA              HostKeyCode = 0x00
	HostKeyS              HostKeyCode = 0x01
	HostKeyD              HostKeyCode = 0x02
	HostKeyF              HostKeyCode = 0x03
	HostKeyH              HostKeyCode = 0x04
	HostKeyG              HostKeyCode = 0x05
	HostKeyZ              HostKeyCode = 0x06
	HostKeyX              HostKeyCode = 0x07
	HostKeyC              HostKeyCode = 0x08
	HostKeyV              HostKeyCode = 0x09
	HostKeyISOSection     HostKeyCode = 0x0A
	HostKeyB              HostKeyCode = 0x0B
	HostKeyQ              HostKeyCode = 0x0C
	HostKeyW              HostKeyCode = 0x0D
	HostKeyE              HostKeyCode = 0x0E
	HostKeyR              HostKeyCode = 0x0F
	HostKeyY              HostKeyCode = 0x10
	HostKeyT              HostKeyCode = 0x11
	HostKey1              HostKeyCode = 0x12
	HostKey2              HostKeyCode = 0x13
	HostKey3              HostKeyCode = 0x14
	HostKey4              HostKeyCode = 0x15
	HostKey6              HostKeyCode = 0x16
	HostKey5              HostKeyCode = 0x17
	HostKeyEqual          HostKeyCode = 0x18
	HostKey9              HostKeyCode = 0x19
	HostKey7              HostKeyCode = 0x1A
	HostKeyMinus          HostKeyCode = 0x1B
	HostKey8              HostKeyCode = 0x1C
	HostKey0              HostKeyCode = 0x1D
	HostKeyRightBracket   HostKeyCode = 0x1E
	HostKeyO              HostKeyCode = 0x1F
	HostKeyU              HostKeyCode = 0x20
	HostKeyLeftBracket    HostKeyCode = 0x21
	HostKeyI              HostKeyCode = 0x22
	HostKeyP              HostKeyCode = 0x23
	HostKeyReturn         HostKeyCode = 0x24
	HostKeyL              HostKeyCode = 0x25
	HostKeyJ              HostKeyCode = 0x26
	HostKeyQuote          HostKeyCode = 0x27
	HostKeyK              HostKeyCode = 0x28
	HostKeySemicolon      HostKeyCode = 0x29
	HostKeyBackslash      HostKeyCode = 0x2A
	HostKeyComma          HostKeyCode = 0x2B
	HostKeySlash          HostKeyCode = 0x2C
	HostKeyN              HostKeyCode = 0x2D
	HostKeyM              HostKeyCode = 0x2E
	HostKeyPeriod         HostKeyCode = 0x2F
	HostKeyTab            HostKeyCode = 0x30
	HostKeySpace          HostKeyCode = 0x31
	HostKeyGrave          HostKeyCode = 0x32
	HostKeyDelete         HostKeyCode = 0x33 // backspace
	HostKeyEscape         HostKeyCode = 0x35
	HostKeyRightCommand   HostKeyCode = 0x36
	HostKeyCommand        HostKeyCode = 0x37
	HostKeyShift          HostKeyCode = 0x38
	HostKeyCapsLock       HostKeyCode = 0x39
	HostKeyOption         HostKeyCode = 0x3A
	HostKeyControl        HostKeyCode = 0x3B
	HostKeyRightShift     HostKeyCode = 0x3C
	HostKeyRightOption    HostKeyCode = 0x3D
	HostKeyRightControl   HostKeyCode = 0x3E
	HostKeyFunction       HostKeyCode = 0x3F
	HostKeyF17            HostKeyCode = 0x40
	HostKeyKeypadDecimal  HostKeyCode = 0x41
	HostKeyKeypadMultiply HostKeyCode = 0x43
	HostKeyKeypadPlus     HostKeyCode = 0x45
	HostKeyKeypadClear    HostKeyCode = 0x47
	HostKeyVolumeUp       HostKeyCode = 0x48
	HostKeyVolumeDown     HostKeyCode = 0x49
	HostKeyMute           HostKeyCode = 0x4A
	HostKeyKeypadDivide   HostKeyCode = 0x4B
	HostKeyKeypadEnter    HostKeyCode = 0x4C
	HostKeyKeypadMinus    HostKeyCode = 0x4E
	HostKeyF18            HostKeyCode = 0x4F
	HostKeyF19            HostKeyCode = 0x50
	HostKeyKeypadEquals   HostKeyCode = 0x51
	HostKeyKeypad0        HostKeyCode = 0x52
	HostKeyKeypad1        HostKeyCode = 0x53
	HostKeyKeypad2        HostKeyCode = 0x54
	HostKeyKeypad3        HostKeyCode = 0x55
	HostKeyKeypad4        HostKeyCode = 0x56
	HostKeyKeypad5        HostKeyCode = 0x57
	HostKeyKeypad6        HostKeyCode = 0x58
	HostKeyKeypad7        HostKeyCode = 0x59
	HostKeyF20            HostKeyCode = 0x5A
	HostKeyKeypad8        HostKeyCode = 0x5B
	HostKeyKeypad9        HostKeyCode = 0x5C
	HostKeyJISYen         HostKeyCode = 0x5D
	HostKeyJISUnderscore  HostKeyCode = 0x5E
	HostKeyF5             HostKeyCode = 0x60
	HostKeyF6             HostKeyCode = 0x61
	HostKeyF7             HostKeyCode = 0x62
	HostKeyF3             HostKeyCode = 0x63
	HostKeyF8             HostKeyCode = 0x64
	HostKeyF9             HostKeyCode = 0x65
	HostKeyJISEisu        HostKeyCode = 0x66
	HostKeyF11            HostKeyCode = 0x67
	HostKeyJISKana        HostKeyCode = 0x68
	HostKeyF13            HostKeyCode = 0x69
	HostKeyF16            HostKeyCode = 0x6A
	HostKeyF14            HostKeyCode = 0x6B
	HostKeyF10            HostKeyCode = 0x6D
	HostKeyF12            HostKeyCode = 0x6F
	HostKeyF15            HostKeyCode = 0x71
	HostKeyHelp           HostKeyCode = 0x72 // Insert on PC keyboards
	HostKeyHome           HostKeyCode = 0x73
	HostKeyPageUp         HostKeyCode = 0x74
	HostKeyForwardDelete  HostKeyCode = 0x75
	HostKeyF4             HostKeyCode = 0x76
	HostKeyEnd            HostKeyCode = 0x77
	HostKeyF2             HostKeyCode = 0x78
	HostKeyPageDown       HostKeyCode = 0x79
	HostKeyF1             HostKeyCode = 0x7A
	HostKeyLeftArrow      HostKeyCode = 0x7B
	HostKeyRightArrow     HostKeyCode = 0x7C
	HostKeyDownArrow      HostKeyCode = 0x7D
	HostKeyUpArrow        HostKeyCode = 0x7E
)

// Emulated set-1 scan codes
const (
	ScanEscape         EmulatedKeyCode = 0x01
	Scan1              EmulatedKeyCode = 0x02
	Scan2              EmulatedKeyCode = 0x03
	Scan3              EmulatedKeyCode = 0x04
	Scan4              EmulatedKeyCode = 0x05
	Scan5              EmulatedKeyCode = 0x06
	Scan6              EmulatedKeyCode = 0x07
	Scan7              EmulatedKeyCode = 0x08
	Scan8              EmulatedKeyCode = 0x09
	Scan9              EmulatedKeyCode = 0x0A
	Scan0              EmulatedKeyCode = 0x0B
	ScanMinus          EmulatedKeyCode = 0x0C
	ScanEqual          EmulatedKeyCode = 0x0D
	ScanBackspace      EmulatedKeyCode = 0x0E
	ScanTab            EmulatedKeyCode = 0x0F
	ScanQ              EmulatedKeyCode = 0x10
	ScanW              EmulatedKeyCode = 0x11
	ScanE              EmulatedKeyCode = 0x12
	ScanR              EmulatedKeyCode = 0x13
	ScanT              EmulatedKeyCode = 0x14
	ScanY              EmulatedKeyCode = 0x15
	ScanU              EmulatedKeyCode = 0x16
	ScanI              EmulatedKeyCode = 0x17
	ScanO              EmulatedKeyCode = 0x18
	ScanP              EmulatedKeyCode = 0x19
	ScanLeftBracket    EmulatedKeyCode = 0x1A
	ScanRightBracket   EmulatedKeyCode = 0x1B
	ScanEnter          EmulatedKeyCode = 0x1C
	ScanLeftCtrl       EmulatedKeyCode = 0x1D
	ScanA              EmulatedKeyCode = 0x1E
	ScanS              EmulatedKeyCode = 0x1F
	ScanD              EmulatedKeyCode = 0x20
	ScanF              EmulatedKeyCode = 0x21
	ScanG              EmulatedKeyCode = 0x22
	ScanH              EmulatedKeyCode = 0x23
	ScanJ              EmulatedKeyCode = 0x24
	ScanK              EmulatedKeyCode = 0x25
	ScanL              EmulatedKeyCode = 0x26
	ScanSemicolon      EmulatedKeyCode = 0x27
	ScanQuote          EmulatedKeyCode = 0x28
	ScanGrave          EmulatedKeyCode = 0x29
	ScanLeftShift      EmulatedKeyCode = 0x2A
	ScanBackslash      EmulatedKeyCode = 0x2B
	ScanZ              EmulatedKeyCode = 0x2C
	ScanX              EmulatedKeyCode = 0x2D
	ScanC              EmulatedKeyCode = 0x2E
	ScanV              EmulatedKeyCode = 0x2F
	ScanB              EmulatedKeyCode = 0x30
	ScanN              EmulatedKeyCode = 0x31
	ScanM              EmulatedKeyCode = 0x32
	ScanComma          EmulatedKeyCode = 0x33
	ScanPeriod         EmulatedKeyCode = 0x34
	ScanSlash          EmulatedKeyCode = 0x35
	ScanRightShift     EmulatedKeyCode = 0x36
	ScanKeypadMultiply EmulatedKeyCode = 0x37
	ScanLeftAlt        EmulatedKeyCode = 0x38
	ScanSpace          EmulatedKeyCode = 0x39
	ScanCapsLock       EmulatedKeyCode = 0x3A
	ScanF1             EmulatedKeyCode = 0x3B
	ScanF2             EmulatedKeyCode = 0x3C
	ScanF3             EmulatedKeyCode = 0x3D
	ScanF4             EmulatedKeyCode = 0x3E
	ScanF5             EmulatedKeyCode = 0x3F
	ScanF6             EmulatedKeyCode = 0x40
	ScanF7             EmulatedKeyCode = 0x41
	ScanF8             EmulatedKeyCode = 0x42
	ScanF9             EmulatedKeyCode = 0x43
	ScanF10            EmulatedKeyCode = 0x44
	ScanNumLock        EmulatedKeyCode = 0x45
	ScanScrollLock     EmulatedKeyCode = 0x46
	ScanKeypad7        EmulatedKeyCode = 0x47
	ScanKeypad8        EmulatedKeyCode = 0x48
	ScanKeypad9        EmulatedKeyCode = 0x49
	ScanKeypadMinus    EmulatedKeyCode = 0x4A
	ScanKeypad4        EmulatedKeyCode = 0x4B
	ScanKeypad5        EmulatedKeyCode = 0x4C
	ScanKeypad6        EmulatedKeyCode = 0x4D
	ScanKeypadPlus     EmulatedKeyCode = 0x4E
	ScanKeypad1        EmulatedKeyCode = 0x4F
	ScanKeypad2        EmulatedKeyCode = 0x50
	ScanKeypad3        EmulatedKeyCode = 0x51
	ScanKeypad0        EmulatedKeyCode = 0x52
	ScanKeypadPeriod   EmulatedKeyCode = 0x53
	ScanISOBackslash   EmulatedKeyCode = 0x56 // 102nd key
	ScanF11            EmulatedKeyCode = 0x57
	ScanF12            EmulatedKeyCode = 0x58
	ScanKatakana       EmulatedKeyCode = 0x70
	ScanRo             EmulatedKeyCode = 0x73
	ScanMuhenkan       EmulatedKeyCode = 0x7B
	ScanYen            EmulatedKeyCode = 0x7D

	ScanKeypadEnter  EmulatedKeyCode = 0xE01C
	ScanRightCtrl    EmulatedKeyCode = 0xE01D
	ScanKeypadDivide EmulatedKeyCode = 0xE035
	ScanPrintScreen  EmulatedKeyCode = 0xE037
	ScanRightAlt     EmulatedKeyCode = 0xE038
	ScanPause        EmulatedKeyCode = 0xE045 // sent as E1 1D 45 by real hardware
	ScanHome         EmulatedKeyCode = 0xE047
	ScanUp           EmulatedKeyCode = 0xE048
	ScanPageUp       EmulatedKeyCode = 0xE049
	ScanLeft         EmulatedKeyCode = 0xE04B
	ScanRight        EmulatedKeyCode = 0xE04D
	ScanEnd          EmulatedKeyCode = 0xE04F
	ScanDown         EmulatedKeyCode = 0xE050
	ScanPageDown     EmulatedKeyCode = 0xE051
	ScanInsert       EmulatedKeyCode = 0xE052
	ScanDelete       EmulatedKeyCode = 0xE053
	ScanLeftMeta     EmulatedKeyCode = 0xE05B
	ScanRightMeta    EmulatedKeyCode = 0xE05C
)

// Extended reports whether the scan code is sent with an 0xE0 prefix
func (c EmulatedKeyCode) Extended() bool {
	return c>>8 == 0xE0
}

// hostToEmulatedKeyMap maps host virtual key codes to emulated scan codes.
// Keys absent from the map have no PC equivalent and are dropped.
var hostToEmulatedKeyMap = map[HostKeyCode]EmulatedKeyCode{
	// Letters
	HostKeyA: ScanA,
	HostKeyB: ScanB,
	HostKeyC: ScanC,
	HostKeyD: ScanD,
	HostKeyE: ScanE,
	HostKeyF: ScanF,
	HostKeyG: ScanG,
	HostKeyH: ScanH,
	HostKeyI: ScanI,
	HostKeyJ: ScanJ,
	HostKeyK: ScanK,
	HostKeyL: ScanL,
	HostKeyM: ScanM,
	HostKeyN: ScanN,
	HostKeyO: ScanO,
	HostKeyP: ScanP,
	HostKeyQ: ScanQ,
	HostKeyR: ScanR,
	HostKeyS: ScanS,
	HostKeyT: ScanT,
	HostKeyU: ScanU,
	HostKeyV: ScanV,
	HostKeyW: ScanW,
	HostKeyX: ScanX,
	HostKeyY: ScanY,
	HostKeyZ: ScanZ,

	// Number row
	HostKey1: Scan1,
	HostKey2: Scan2,
	HostKey3: Scan3,
	HostKey4: Scan4,
	HostKey5: Scan5,
	HostKey6: Scan6,
	HostKey7: Scan7,
	HostKey8: Scan8,
	HostKey9: Scan9,
	HostKey0: Scan0,

	// Punctuation
	HostKeyMinus:        ScanMinus,
	HostKeyEqual:        ScanEqual,
	HostKeyLeftBracket:  ScanLeftBracket,
	HostKeyRightBracket: ScanRightBracket,
	HostKeyBackslash:    ScanBackslash,
	HostKeySemicolon:    ScanSemicolon,
	HostKeyQuote:        ScanQuote,
	HostKeyGrave:        ScanGrave,
	HostKeyComma:        ScanComma,
	HostKeyPeriod:       ScanPeriod,
	HostKeySlash:        ScanSlash,
	HostKeyISOSection:   ScanISOBackslash,

	// Editing
	HostKeyReturn:        ScanEnter,
	HostKeyTab:           ScanTab,
	HostKeySpace:         ScanSpace,
	HostKeyDelete:        ScanBackspace,
	HostKeyEscape:        ScanEscape,
	HostKeyHelp:          ScanInsert,
	HostKeyForwardDelete: ScanDelete,

	// Modifiers
	HostKeyShift:        ScanLeftShift,
	HostKeyRightShift:   ScanRightShift,
	HostKeyControl:      ScanLeftCtrl,
	HostKeyRightControl: ScanRightCtrl,
	HostKeyOption:       ScanLeftAlt,
	HostKeyRightOption:  ScanRightAlt,
	HostKeyCommand:      ScanLeftMeta,
	HostKeyRightCommand: ScanRightMeta,
	HostKeyCapsLock:     ScanCapsLock,

	// Function keys. F13-F15 sit where Print Screen, Scroll Lock and Pause are
	// on a PC keyboard.
	HostKeyF1:  ScanF1,
	HostKeyF2:  ScanF2,
	HostKeyF3:  ScanF3,
	HostKeyF4:  ScanF4,
	HostKeyF5:  ScanF5,
	HostKeyF6:  ScanF6,
	HostKeyF7:  ScanF7,
	HostKeyF8:  ScanF8,
	HostKeyF9:  ScanF9,
	HostKeyF10: ScanF10,
	HostKeyF11: ScanF11,
	HostKeyF12: ScanF12,
	HostKeyF13: ScanPrintScreen,
	HostKeyF14: ScanScrollLock,
	HostKeyF15: ScanPause,

	// Navigation
	HostKeyHome:       ScanHome,
	HostKeyEnd:        ScanEnd,
	HostKeyPageUp:     ScanPageUp,
	HostKeyPageDown:   ScanPageDown,
	HostKeyLeftArrow:  ScanLeft,
	HostKeyRightArrow: ScanRight,
	HostKeyUpArrow:    ScanUp,
	HostKeyDownArrow:  ScanDown,

	// Keypad
	HostKeyKeypad0:        ScanKeypad0,
	HostKeyKeypad1:        ScanKeypad1,
	HostKeyKeypad2:        ScanKeypad2,
	HostKeyKeypad3:        ScanKeypad3,
	HostKeyKeypad4:        ScanKeypad4,
	HostKeyKeypad5:        ScanKeypad5,
	HostKeyKeypad6:        ScanKeypad6,
	HostKeyKeypad7:        ScanKeypad7,
	HostKeyKeypad8:        ScanKeypad8,
	HostKeyKeypad9:        ScanKeypad9,
	HostKeyKeypadDecimal:  ScanKeypadPeriod,
	HostKeyKeypadMultiply: ScanKeypadMultiply,
	HostKeyKeypadPlus:     ScanKeypadPlus,
	HostKeyKeypadMinus:    ScanKeypadMinus,
	HostKeyKeypadDivide:   ScanKeypadDivide,
	HostKeyKeypadEnter:    ScanKeypadEnter,
	HostKeyKeypadClear:    ScanNumLock,

	// JIS keyboards
	HostKeyJISYen:        ScanYen,
	HostKeyJISUnderscore: ScanRo,
	HostKeyJISEisu:       ScanMuhenkan,
	HostKeyJISKana:       ScanKatakana,
}

// Translate returns the emulated scan code for a host key code.
// ok is false when the key has no emulated equivalent.
func Translate(code HostKeyCode) (EmulatedKeyCode, bool) {
	scan, ok := hostToEmulatedKeyMap[code]
	return scan, ok
}

// KeyCodeMappings returns a copy of the host to emulated key code table
func KeyCodeMappings() map[HostKeyCode]EmulatedKeyCode {
	out := make(map[HostKeyCode]EmulatedKeyCode, len(hostToEmulatedKeyMap))
	for k, v := range hostToEmulatedKeyMap {
		out[k] = v
	}
	return out
}
