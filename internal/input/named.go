package input

import "strings"

// namedKeys lists the canned keys in display order
var namedKeys = []struct {
	name string
	code HostKeyCode
}{
	{"tab", HostKeyTab},
	{"delete", HostKeyForwardDelete},
	{"space", HostKeySpace},
	{"enter", HostKeyReturn},
	{"f1", HostKeyF1},
	{"f2", HostKeyF2},
	{"f3", HostKeyF3},
	{"f4", HostKeyF4},
	{"f5", HostKeyF5},
	{"f6", HostKeyF6},
	{"f7", HostKeyF7},
	{"f8", HostKeyF8},
	{"f9", HostKeyF9},
	{"f10", HostKeyF10},
}

var namedKeyIndex = func() map[string]HostKeyCode {
	m := make(map[string]HostKeyCode, len(namedKeys))
	for _, k := range namedKeys {
		m[k.name] = k.code
	}
	return m
}()

// NamedKeys returns the canned key names in display order
func NamedKeys() []string {
	names := make([]string, len(namedKeys))
	for i, k := range namedKeys {
		names[i] = k.name
	}
	return names
}

// NamedKeyCode returns the host key code for a canned key name
func NamedKeyCode(name string) (HostKeyCode, bool) {
	code, ok := namedKeyIndex[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// SendNamedKey sends a keypress of the named canned key. It returns false if the
// name is unknown.
func (h *Handler) SendNamedKey(name string) bool {
	code, ok := NamedKeyCode(name)
	if !ok {
		return false
	}
	h.SendKeypress(code)
	return true
}

// SendTab through SendF10 send a keypress of the matching canned key
func (h *Handler) SendTab()    { h.SendNamedKey("tab") }
func (h *Handler) SendDelete() { h.SendNamedKey("delete") }
func (h *Handler) SendSpace()  { h.SendNamedKey("space") }
func (h *Handler) SendEnter()  { h.SendNamedKey("enter") }
func (h *Handler) SendF1()     { h.SendNamedKey("f1") }
func (h *Handler) SendF2()     { h.SendNamedKey("f2") }
func (h *Handler) SendF3()     { h.SendNamedKey("f3") }
func (h *Handler) SendF4()     { h.SendNamedKey("f4") }
func (h *Handler) SendF5()     { h.SendNamedKey("f5") }
func (h *Handler) SendF6()     { h.SendNamedKey("f6") }
func (h *Handler) SendF7()     { h.SendNamedKey("f7") }
func (h *Handler) SendF8()     { h.SendNamedKey("f8") }
func (h *Handler) SendF9()     { h.SendNamedKey("f9") }
func (h *Handler) SendF10()    { h.SendNamedKey("f10") }
