// Package console is a terminal host frontend. It turns terminal key, mouse and focus
// events into host input for an input.Handler and shows the emulated events produced.
package console

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"dosinput/internal/emulator"
	"dosinput/internal/input"
)

// historyRows is how many recent emulated events are displayed
const historyRows = 20

// Console drives an input.Handler from a tcell screen
type Console struct {
	screen   tcell.Screen
	handler  *input.Handler
	recorder *emulator.Recorder
	logger   *zap.Logger

	buttons tcell.ButtonMask
	lastX   int
	lastY   int
}

// New creates a console. recorder should be attached to the handler's emulator so
// the console can display what was forwarded.
func New(screen tcell.Screen, h *input.Handler, recorder *emulator.Recorder, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		screen:   screen,
		handler:  h,
		recorder: recorder,
		logger:   logger.Named("console"),
	}
}

// Run initializes the screen and processes events until ctx is done or Ctrl+] is typed
func (c *Console) Run(ctx context.Context) error {
	if err := c.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer c.screen.Fini()

	c.screen.EnableMouse()
	c.screen.EnableFocus()
	c.draw()

	go func() {
		<-ctx.Done()
		c.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := c.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if ctx.Err() != nil {
			c.handler.LostFocus()
			return nil
		}
		if !c.HandleEvent(ev) {
			c.handler.LostFocus()
			return nil
		}
		c.draw()
	}
}

// HandleEvent applies one terminal event. It returns false when the user asked to quit.
func (c *Console) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlRightSq {
			return false
		}
		code, mods, ok := hostKey(ev)
		if !ok {
			c.logger.Debug("unmapped terminal key", zap.String("key", ev.Name()))
			return true
		}
		// Terminals only report presses
		c.handler.SendKeyEvent(code, true, mods)
		c.handler.SendKeyEvent(code, false, mods)

	case *tcell.EventMouse:
		c.handleMouse(ev)

	case *tcell.EventFocus:
		if !ev.Focused {
			c.handler.LostFocus()
		}

	case *tcell.EventResize:
		c.screen.Sync()
	}
	return true
}

func (c *Console) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	w, h := c.screen.Size()
	canvas := input.Rect{Width: float64(w), Height: float64(h)}
	mods := hostModifiers(ev.Modifiers())

	if x != c.lastX || y != c.lastY {
		delta := input.Point{X: float64(x - c.lastX), Y: float64(y - c.lastY)}
		c.handler.MouseMoved(input.Point{X: float64(x), Y: float64(y)}, delta, canvas, false)
		c.lastX, c.lastY = x, y
	}

	cur := ev.Buttons()
	for _, change := range buttonChanges(c.buttons, cur) {
		if change.pressed {
			c.handler.MouseButtonPressed(change.button, mods)
		} else {
			c.handler.MouseButtonReleased(change.button, mods)
		}
	}
	c.buttons = cur
}

func (c *Console) draw() {
	c.screen.Clear()
	header := tcell.StyleDefault.Bold(true)
	mouse := "off"
	if c.handler.MouseActive() {
		mouse = "on"
	}
	c.print(0, 0, header, fmt.Sprintf("DOS input console  layout=%s  mouse=%s  (Ctrl+] quits)", c.handler.KeyboardLayout(), mouse))

	if c.recorder != nil {
		events := c.recorder.Events()
		if len(events) > historyRows {
			events = events[len(events)-historyRows:]
		}
		for i, ev := range events {
			c.print(0, i+2, tcell.StyleDefault, describe(ev))
		}
	}
	c.screen.Show()
}

func (c *Console) print(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// describe renders an emulated event as one display line
func describe(ev emulator.Event) string {
	state := func(pressed bool) string {
		if pressed {
			return "down"
		}
		return "up"
	}
	switch ev.Kind {
	case emulator.KindKey:
		return fmt.Sprintf("key    0x%04X %-4s %s", uint16(ev.Key.Code), state(ev.Key.Pressed), ev.Key.Modifiers)
	case emulator.KindMouseButton:
		return fmt.Sprintf("button %-6s %-4s %s", ev.Button.Button, state(ev.Button.Pressed), ev.Button.Modifiers)
	case emulator.KindMouseMotion:
		if ev.Motion.Locked {
			return fmt.Sprintf("motion rel (%.3f, %.3f)", ev.Motion.Delta.X, ev.Motion.Delta.Y)
		}
		return fmt.Sprintf("motion abs (%.3f, %.3f)", ev.Motion.Position.X, ev.Motion.Position.Y)
	case emulator.KindReleaseAll:
		return "release all"
	}
	return string(ev.Kind)
}
