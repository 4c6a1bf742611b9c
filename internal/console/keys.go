package console

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"dosinput/internal/input"
)

// runeKeys maps unshifted characters to the host key that types them on a US layout
var runeKeys = map[rune]input.HostKeyCode{
	'a': input.HostKeyA, 'b': input.HostKeyB, 'c': input.HostKeyC, 'd': input.HostKeyD,
	'e': input.HostKeyE, 'f': input.HostKeyF, 'g': input.HostKeyG, 'h': input.HostKeyH,
	'i': input.HostKeyI, 'j': input.HostKeyJ, 'k': input.HostKeyK, 'l': input.HostKeyL,
	'm': input.HostKeyM, 'n': input.HostKeyN, 'o': input.HostKeyO, 'p': input.HostKeyP,
	'q': input.HostKeyQ, 'r': input.HostKeyR, 's': input.HostKeyS, 't': input.HostKeyT,
	'u': input.HostKeyU, 'v': input.HostKeyV, 'w': input.HostKeyW, 'x': input.HostKeyX,
	'y': input.HostKeyY, 'z': input.HostKeyZ,

	'1': input.HostKey1, '2': input.HostKey2, '3': input.HostKey3, '4': input.HostKey4,
	'5': input.HostKey5, '6': input.HostKey6, '7': input.HostKey7, '8': input.HostKey8,
	'9': input.HostKey9, '0': input.HostKey0,

	'-': input.HostKeyMinus, '=': input.HostKeyEqual, '[': input.HostKeyLeftBracket,
	']': input.HostKeyRightBracket, '\\': input.HostKeyBackslash, ';': input.HostKeySemicolon,
	'\'': input.HostKeyQuote, ',': input.HostKeyComma, '.': input.HostKeyPeriod,
	'/': input.HostKeySlash, '`': input.HostKeyGrave, ' ': input.HostKeySpace,
}

// shiftedRunes maps shifted symbols to their unshifted character
var shiftedRunes = map[rune]rune{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5', '^': '6', '&': '7', '*': '8',
	'(': '9', ')': '0', '_': '-', '+': '=', '{': '[', '}': ']', '|': '\\', ':': ';',
	'"': '\'', '<': ',', '>': '.', '?': '/', '~': '`',
}

// specialKeys maps tcell's named keys to host keys
var specialKeys = map[tcell.Key]input.HostKeyCode{
	tcell.KeyEnter:      input.HostKeyReturn,
	tcell.KeyTab:        input.HostKeyTab,
	tcell.KeyBacktab:    input.HostKeyTab,
	tcell.KeyBackspace:  input.HostKeyDelete,
	tcell.KeyBackspace2: input.HostKeyDelete,
	tcell.KeyDelete:     input.HostKeyForwardDelete,
	tcell.KeyEscape:     input.HostKeyEscape,
	tcell.KeyInsert:     input.HostKeyHelp,
	tcell.KeyHome:       input.HostKeyHome,
	tcell.KeyEnd:        input.HostKeyEnd,
	tcell.KeyPgUp:       input.HostKeyPageUp,
	tcell.KeyPgDn:       input.HostKeyPageDown,
	tcell.KeyUp:         input.HostKeyUpArrow,
	tcell.KeyDown:       input.HostKeyDownArrow,
	tcell.KeyLeft:       input.HostKeyLeftArrow,
	tcell.KeyRight:      input.HostKeyRightArrow,
	tcell.KeyF1:         input.HostKeyF1,
	tcell.KeyF2:         input.HostKeyF2,
	tcell.KeyF3:         input.HostKeyF3,
	tcell.KeyF4:         input.HostKeyF4,
	tcell.KeyF5:         input.HostKeyF5,
	tcell.KeyF6:         input.HostKeyF6,
	tcell.KeyF7:         input.HostKeyF7,
	tcell.KeyF8:         input.HostKeyF8,
	tcell.KeyF9:         input.HostKeyF9,
	tcell.KeyF10:        input.HostKeyF10,
	tcell.KeyF11:        input.HostKeyF11,
	tcell.KeyF12:        input.HostKeyF12,
}

// hostModifiers converts tcell modifiers to host flags. Terminals cannot tell left
// from right, so the left flag is set along with the device-independent one.
func hostModifiers(mod tcell.ModMask) input.HostModifierMask {
	var mask input.HostModifierMask
	if mod&tcell.ModShift != 0 {
		mask |= input.HostLeftShift | input.HostShift
	}
	if mod&tcell.ModCtrl != 0 {
		mask |= input.HostLeftControl | input.HostControl
	}
	if mod&tcell.ModAlt != 0 {
		mask |= input.HostLeftOption | input.HostOption
	}
	if mod&tcell.ModMeta != 0 {
		mask |= input.HostLeftCommand | input.HostCommand
	}
	return mask
}

// hostKey converts a terminal key event to a host key code and modifiers.
// It returns false for keys with no host equivalent.
func hostKey(ev *tcell.EventKey) (input.HostKeyCode, input.HostModifierMask, bool) {
	mods := hostModifiers(ev.Modifiers())

	if code, ok := specialKeys[ev.Key()]; ok {
		if ev.Key() == tcell.KeyBacktab {
			mods |= input.HostLeftShift | input.HostShift
		}
		return code, mods, true
	}

	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		code := runeKeys[rune('a'+ev.Key()-tcell.KeyCtrlA)]
		return code, mods | input.HostLeftControl | input.HostControl, true
	}

	if ev.Key() != tcell.KeyRune {
		return 0, 0, false
	}

	r := ev.Rune()
	if base, ok := shiftedRunes[r]; ok {
		r = base
		mods |= input.HostLeftShift | input.HostShift
	} else if unicode.IsUpper(r) {
		r = unicode.ToLower(r)
		mods |= input.HostLeftShift | input.HostShift
	}
	code, ok := runeKeys[r]
	if !ok {
		return 0, 0, false
	}
	return code, mods, true
}

// mouseButtons lists the tcell buttons that have an emulated counterpart
var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button input.MouseButton
}{
	{tcell.Button1, input.MouseLeft},
	{tcell.Button2, input.MouseRight},
	{tcell.Button3, input.MouseMiddle},
	{tcell.Button4, input.MouseButton4},
	{tcell.Button5, input.MouseButton5},
}

// buttonChange is a press or release derived from two button states
type buttonChange struct {
	button  input.MouseButton
	pressed bool
}

// buttonChanges returns the presses and releases between two button states
func buttonChanges(prev, cur tcell.ButtonMask) []buttonChange {
	var changes []buttonChange
	for _, b := range mouseButtons {
		was, is := prev&b.mask != 0, cur&b.mask != 0
		if was != is {
			changes = append(changes, buttonChange{button: b.button, pressed: is})
		}
	}
	return changes
}
