// Package tray provides system tray functionality using getlantern/systray.
package tray

import (
	"encoding/binary"
	"strings"

	"github.com/getlantern/systray"

	"dosinput/internal/input"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Checked  bool
	Checkbox bool
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu
type Tray struct {
	items   []*MenuItem
	onReady func()
	onExit  func()
	readyCh chan struct{}
	quitCh  chan struct{}
}

// New creates a new system tray
func New(tooltip string) *Tray {
	t := &Tray{
		items:   make([]*MenuItem, 0),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}

	t.onReady = func() {
		systray.SetTitle("DOS")
		systray.SetTooltip(tooltip)
		systray.SetIcon(getIcon())
		close(t.readyCh)
	}

	t.onExit = func() {
		close(t.quitCh)
	}

	return t
}

// AddMenuItem adds a menu item to the tray
func (t *Tray) AddMenuItem(title string, callback func()) int {
	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Callback: callback,
	})
	return id
}

// AddCheckboxItem adds a checkable item. Each click flips the check mark and
// passes the new state to callback.
func (t *Tray) AddCheckboxItem(title string, checked bool, callback func(checked bool)) int {
	id := len(t.items)
	mi := &MenuItem{
		ID:       id,
		Title:    title,
		Checked:  checked,
		Checkbox: true,
	}
	mi.Callback = func() {
		t.SetItemChecked(id, !mi.Checked)
		callback(mi.Checked)
	}
	t.items = append(t.items, mi)
	return id
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.items = append(t.items, nil) // nil indicates separator
}

// SetItemChecked sets the checked state of a menu item
func (t *Tray) SetItemChecked(id int, checked bool) {
	if id < 0 || id >= len(t.items) || t.items[id] == nil {
		return
	}
	mi := t.items[id]
	mi.Checked = checked
	if mi.item == nil {
		return
	}
	if checked {
		mi.item.Check()
	} else {
		mi.item.Uncheck()
	}
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	t.onReady()
	<-t.readyCh

	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}
		if menuItem.Checkbox {
			menuItem.item = systray.AddMenuItemCheckbox(menuItem.Title, "", menuItem.Checked)
		} else {
			menuItem.item = systray.AddMenuItem(menuItem.Title, "")
		}

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem) {
				for {
					select {
					case <-mi.item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem)
		}
	}
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}

// Controller is the part of input.Handler the tray menu drives
type Controller interface {
	MouseActive() bool
	SetMouseActive(active bool)
	LostFocus()
	SendNamedKey(name string) bool
}

// LoginItem toggles starting the service at login
type LoginItem interface {
	IsEnabled() bool
	SetEnabled(enabled bool) error
}

// BuildMenu populates t with the input controls for h. login may be nil.
func BuildMenu(t *Tray, h Controller, login LoginItem, quit func()) {
	t.AddCheckboxItem("Capture Mouse", h.MouseActive(), h.SetMouseActive)
	t.AddMenuItem("Release All Keys", h.LostFocus)
	t.AddSeparator()

	for _, name := range input.NamedKeys() {
		t.AddMenuItem("Send "+keyLabel(name), func() { h.SendNamedKey(name) })
	}
	t.AddSeparator()

	if login != nil {
		var id int
		id = t.AddCheckboxItem("Start at Login", login.IsEnabled(), func(checked bool) {
			if err := login.SetEnabled(checked); err != nil {
				t.SetItemChecked(id, !checked)
			}
		})
	}
	t.AddMenuItem("Quit", quit)
}

// keyLabel returns the menu label for a canned key name
func keyLabel(name string) string {
	if len(name) > 1 && name[0] == 'f' && name[1] >= '0' && name[1] <= '9' {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// getIcon returns a 16x16 32-bit ICO showing a keyboard outline
func getIcon() []byte {
	const (
		size       = 16
		headerSize = 6 + 16 // ICONDIR + one ICONDIRENTRY
		dibSize    = 40
		pixelBytes = size * size * 4
		maskBytes  = size * 4 // 1bpp rows padded to 32 bits
	)
	imageSize := dibSize + pixelBytes + maskBytes
	icon := make([]byte, headerSize+imageSize)

	// ICONDIR
	binary.LittleEndian.PutUint16(icon[2:4], 1) // type: icon
	binary.LittleEndian.PutUint16(icon[4:6], 1) // count
	// ICONDIRENTRY
	icon[6], icon[7] = size, size
	binary.LittleEndian.PutUint16(icon[10:12], 1)  // planes
	binary.LittleEndian.PutUint16(icon[12:14], 32) // bpp
	binary.LittleEndian.PutUint32(icon[14:18], uint32(imageSize))
	binary.LittleEndian.PutUint32(icon[18:22], headerSize)

	// BITMAPINFOHEADER, height doubled for the AND mask
	dib := icon[headerSize:]
	binary.LittleEndian.PutUint32(dib[0:4], dibSize)
	binary.LittleEndian.PutUint32(dib[4:8], size)
	binary.LittleEndian.PutUint32(dib[8:12], size*2)
	binary.LittleEndian.PutUint16(dib[12:14], 1)
	binary.LittleEndian.PutUint16(dib[14:16], 32)
	binary.LittleEndian.PutUint32(dib[20:24], pixelBytes)

	// BGRA pixels, bottom-up: a frame from rows 4-11 with two rows of keys and a space bar
	pixels := dib[dibSize:]
	for y := 4; y <= 11; y++ {
		for x := 1; x <= 14; x++ {
			edge := y == 4 || y == 11 || x == 1 || x == 14
			key := (y == 6 || y == 8) && x%2 == 1 && x > 2 && x < 14
			space := y == 9 && x >= 5 && x <= 10
			if edge || key || space {
				off := (y*size + x) * 4
				copy(pixels[off:off+4], []byte{0xE0, 0xE0, 0xE0, 0xFF})
			}
		}
	}
	return icon
}
