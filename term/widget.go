// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import "github.com/nilgiri/console"

//======================================================================

var _ console.IWidget = (*Widget)(nil)

// Widget hosts a child process's terminal inside a console Window (§2,
// §4.2): it owns an Emulator and (on supported platforms) a pty-backed
// Session, translates key/mouse events into the byte stream the child
// expects, and paints the Emulator's Canvas onto the compositor each
// frame.
type Widget struct {
	console.BaseWidget
	Emu     *Emulator
	session *Session
	onTitle func(title string)
	onExit  func(error)
	exited  bool
}

// New returns a Widget whose Emulator is sized to rect's dimensions. Call
// Start to spawn a child process attached to it.
func New(rect console.Rect, scrollbackLines int) *Widget {
	w := &Widget{
		BaseWidget: console.NewBaseWidget(),
		Emu:        NewEmulator(rect.W, rect.H, scrollbackLines),
	}
	w.SetRect(rect)
	return w
}

// OnTitleChange registers a callback that Draw invokes with the terminal
// title (set by the child via OSC) on every frame while that title is
// non-empty, whether or not it changed since the last frame.
func (w *Widget) OnTitleChange(f func(title string)) { w.onTitle = f }

// OnExit registers a callback invoked once the child process's output
// stream closes.
func (w *Widget) OnExit(f func(error)) { w.onExit = f }

// Start spawns command as the widget's child process.
func (w *Widget) Start(command []string, env []string) error {
	s, err := StartSession(command, env, w.Emu.Cols(), w.Emu.Rows(), w.Emu, func(err error) {
		w.exited = true
		if w.onExit != nil {
			w.onExit(err)
		}
	})
	if err != nil {
		return err
	}
	w.session = s
	return nil
}

// Exited reports whether the child process's output stream has closed.
func (w *Widget) Exited() bool { return w.exited }

func (w *Widget) CanFocus() bool { return true }

// SetRect resizes both the widget and (if a session is attached) the
// underlying pty and Emulator to match.
func (w *Widget) SetRect(r console.Rect) {
	w.BaseWidget.SetRect(r)
	if w.session != nil {
		_ = w.session.Resize(r.W, r.H)
	} else {
		w.Emu.Resize(r.W, r.H)
	}
}

func (w *Widget) Draw(scr *console.Screen, app console.IApp) {
	r := w.Rect()
	scr.ClipPush(r)
	defer scr.ClipPop()

	canvas := w.Emu.Canvas()
	for y := 0; y < canvas.Rows() && y < r.H; y++ {
		for x := 0; x < canvas.Cols() && x < r.W; x++ {
			scr.PutCell(r.X+x, r.Y+y, canvas.CellAt(x, y))
		}
	}
	if title := w.Emu.Title(); title != "" && w.onTitle != nil {
		w.onTitle(title)
	}

	cx, cy, visible := w.Emu.Cursor()
	if visible {
		scr.SetCursor(r.X+cx, r.Y+cy, true)
		scr.SetCursorShape(w.Emu.CursorShape())
	}
}

func (w *Widget) HandleKey(app console.IApp, key console.Key) bool {
	if w.session == nil {
		return false
	}
	b, ok := EncodeKey(key, w.Emu.Modes.AppCursorKeys)
	if !ok {
		return false
	}
	_, _ = w.session.Write(b)
	return true
}

func (w *Widget) HandleMouse(app console.IApp, ev console.MouseEvent) bool {
	if w.session == nil || w.Emu.Modes.MouseTracking == console.MouseTrackingOff {
		return false
	}
	local := ev
	local.X -= w.Rect().X
	local.Y -= w.Rect().Y
	wasDragging := w.Emu.RecordMouseState(local)
	b := EncodeMouse(local, w.Emu.Modes.MouseTracking, w.Emu.Modes.MouseSGR, wasDragging)
	if b == nil {
		return false
	}
	_, _ = w.session.Write(b)
	return true
}
