// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//======================================================================

// ECMA48Backend is the "real terminal" Backend variant (§4.2): it drives
// an actual device via tcell, which itself speaks the ECMA-48/xterm
// escape-sequence dialect described in §6. This is distinct from the
// hand-rolled TerminalEmulator in package term, which parses a *child*
// program's escape sequences - ECMA48Backend is gowid's own tcell.Screen
// usage generalized behind the IBackend contract.
type ECMA48Backend struct {
	screen tcell.Screen
	log    log.FieldLogger
	closed bool
}

// NewECMA48Backend initializes a tcell screen and wraps it as an
// IBackend, matching gowid.NewApp's screen setup.
func NewECMA48Backend(logger log.FieldLogger) (*ECMA48Backend, error) {
	scr, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.WithStack(WithKVs(err, map[string]interface{}{"stage": "NewScreen"}))
	}
	if err := scr.Init(); err != nil {
		return nil, errors.WithStack(WithKVs(err, map[string]interface{}{"stage": "Init"}))
	}
	scr.EnableMouse()
	scr.Clear()
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ECMA48Backend{screen: scr, log: logger}, nil
}

func (b *ECMA48Backend) SessionInfo() SessionInfo {
	cols, rows := b.screen.Size()
	return SessionInfo{Rows: rows, Cols: cols, CellPixelW: 1, CellPixelH: 1}
}

// PollInput blocks on tcell's PollEvent, translating whatever it returns
// into this package's event types. tcell itself has no true poll-with-
// timeout, so a timer goroutine posts an interrupt after timeout to keep
// the Reader's "clamp to nearest due timer" contract (§4.4).
func (b *ECMA48Backend) PollInput(timeout time.Duration) ([]IEvent, bool) {
	done := make(chan struct{})
	timer := time.AfterFunc(timeout, func() {
		select {
		case <-done:
		default:
			b.screen.PostEventWait(tcell.NewEventInterrupt(nil))
		}
	})
	ev := b.screen.PollEvent()
	close(done)
	timer.Stop()
	if ev == nil {
		return nil, false
	}
	now := time.Now()
	switch e := ev.(type) {
	case *tcell.EventKey:
		return []IEvent{KeyEvent{Key: translateTCellKey(e), Time: now}}, true
	case *tcell.EventMouse:
		return []IEvent{translateTCellMouse(e, now)}, true
	case *tcell.EventResize:
		cols, rows := e.Size()
		return []IEvent{ResizeEvent{Cols: cols, Rows: rows, Time: now}}, true
	case *tcell.EventInterrupt:
		return nil, true
	case *tcell.EventError:
		b.log.WithError(e).Error("tcell backend error")
		return nil, false
	default:
		return nil, true
	}
}

func translateTCellKey(e *tcell.EventKey) Key {
	var mod KeyMod
	if e.Modifiers()&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if e.Modifiers()&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if e.Modifiers()&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if e.Modifiers()&tcell.ModMeta != 0 {
		mod |= ModMeta
	}
	if e.Key() == tcell.KeyRune {
		return Key{Rune: e.Rune(), Name: KeyRune, Mod: mod}
	}
	if name, ok := tcellKeyNames[e.Key()]; ok {
		return Key{Name: name, Mod: mod}
	}
	return Key{Rune: e.Rune(), Name: KeyRune, Mod: mod}
}

var tcellKeyNames = map[tcell.Key]KeyName{
	tcell.KeyEnter:     KeyEnter,
	tcell.KeyEscape:    KeyEscape,
	tcell.KeyTab:       KeyTab,
	tcell.KeyBackspace: KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyUp:        KeyUp,
	tcell.KeyDown:      KeyDown,
	tcell.KeyLeft:      KeyLeft,
	tcell.KeyRight:     KeyRight,
	tcell.KeyHome:      KeyHome,
	tcell.KeyEnd:       KeyEnd,
	tcell.KeyPgUp:      KeyPgUp,
	tcell.KeyPgDn:      KeyPgDn,
	tcell.KeyDelete:    KeyDelete,
	tcell.KeyInsert:    KeyInsert,
	tcell.KeyF1:        KeyF1,
	tcell.KeyF2:        KeyF2,
	tcell.KeyF3:        KeyF3,
	tcell.KeyF4:        KeyF4,
	tcell.KeyF5:        KeyF5,
	tcell.KeyF6:        KeyF6,
	tcell.KeyF7:        KeyF7,
	tcell.KeyF8:        KeyF8,
	tcell.KeyF9:        KeyF9,
	tcell.KeyF10:       KeyF10,
	tcell.KeyF11:       KeyF11,
	tcell.KeyF12:       KeyF12,
}

func translateTCellMouse(e *tcell.EventMouse, now time.Time) MouseEvent {
	x, y := e.Position()
	btn := MouseNone
	action := MouseMotion
	switch {
	case e.Buttons()&tcell.Button1 != 0:
		btn, action = MouseButton1, MousePress
	case e.Buttons()&tcell.Button2 != 0:
		btn, action = MouseButton2, MousePress
	case e.Buttons()&tcell.Button3 != 0:
		btn, action = MouseButton3, MousePress
	case e.Buttons()&tcell.WheelUp != 0:
		btn, action = MouseWheelUp, MousePress
	case e.Buttons()&tcell.WheelDown != 0:
		btn, action = MouseWheelDown, MousePress
	case e.Buttons() == tcell.ButtonNone:
		action = MouseRelease
	}
	return MouseEvent{X: x, Y: y, Button: btn, Action: action, Time: now}
}

// Flush implements IScreenSink against tcell's SetContent/Show, coalescing
// runs as handed to it by Screen.Flush.
func (b *ECMA48Backend) Flush(scr *Screen) {
	scr.Flush(b)
	b.screen.Show()
}

func (b *ECMA48Backend) WriteRun(x, y int, cells []Cell) {
	for i, c := range cells {
		if c.IsContinuation() {
			continue
		}
		style := cellStyleToTCell(c)
		b.screen.SetContent(x+i, y, c.Rune(), nil, style)
	}
}

func (b *ECMA48Backend) MoveCursor(x, y int) {
	// tcell's SetContent addresses cells directly; no separate cursor-
	// motion step is needed before a run, unlike a raw ECMA-48 byte stream.
}

func (b *ECMA48Backend) SetCursor(c Cursor) {
	if c.Visible {
		b.screen.ShowCursor(c.X, c.Y)
	} else {
		b.screen.HideCursor()
	}
}

func cellStyleToTCell(c Cell) tcell.Style {
	st := tcell.StyleDefault
	fg := colorToTCell(c.ForegroundColor())
	bg := colorToTCell(c.BackgroundColor())
	st = st.Foreground(fg).Background(bg)
	style := c.Style()
	if style.Declares(AttrBold) {
		st = st.Bold(style.Has(AttrBold))
	}
	if style.Declares(AttrUnderline) {
		st = st.Underline(style.Has(AttrUnderline))
	}
	if style.Declares(AttrBlink) {
		st = st.Blink(style.Has(AttrBlink))
	}
	if style.Declares(AttrReverse) {
		st = st.Reverse(style.Has(AttrReverse))
	}
	if style.Declares(AttrDim) {
		st = st.Dim(style.Has(AttrDim))
	}
	return st
}

func colorToTCell(c Color) tcell.Color {
	switch c.Kind {
	case ColorKindRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	case ColorKindPalette:
		return tcell.PaletteColor(int(c.PaletteIdx))
	case ColorKindDefault:
		return tcell.ColorDefault
	default:
		return tcell.ColorDefault
	}
}

func (b *ECMA48Backend) SetTitle(title string) {
	// tcell has no portable set-title call across all terminfo databases;
	// callers that need it should write OSC 0 bytes directly via Tty(),
	// which tcell exposes on unix.
}

func (b *ECMA48Backend) SetMouseStyle(style MouseTrackingMode) {
	if style == MouseTrackingOff {
		b.screen.DisableMouse()
	} else {
		b.screen.EnableMouse()
	}
}

func (b *ECMA48Backend) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.screen.Fini()
}
