// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

//======================================================================

// fakeBackend is a minimal IBackend for exercising Application dispatch
// logic without a real terminal, matching the role gowid's gwtest package
// plays for its own App tests.
type fakeBackend struct {
	flushes int
	closed  bool
}

func (f *fakeBackend) SessionInfo() SessionInfo { return SessionInfo{Cols: 80, Rows: 24} }
func (f *fakeBackend) PollInput(time.Duration) ([]IEvent, bool) {
	return nil, true
}
func (f *fakeBackend) Flush(*Screen)                        { f.flushes++ }
func (f *fakeBackend) SetTitle(string)                       {}
func (f *fakeBackend) SetMouseStyle(MouseTrackingMode)       {}
func (f *fakeBackend) Close()                                { f.closed = true }

func newTestApp() *Application {
	return NewApplication(AppArgs{Backend: &fakeBackend{}, Config: DefaultConfig()})
}

//======================================================================

// TestMenuAcceleratorDispatch is scenario 4 from §8: binding Ctrl-Q to
// menu ID 11 dispatches onMenu(11) regardless of what widget is active.
func TestMenuAcceleratorDispatch(t *testing.T) {
	app := newTestApp()
	var gotID int
	app.OnMenu(11, func(IApp) { gotID = 11 })
	ctrlQ := Key{Name: KeyRune, Rune: 'q', Mod: ModCtrl}
	app.BindAccelerator(ctrlQ, 11)

	app.dispatch(KeyEvent{Key: ctrlQ, Time: time.Now()})
	assert.Equal(t, 11, gotID)
}

// TestModalWindowSuppressesNonModalClicks is scenario 6 from §8: with a
// modal dialog open, a click on the non-modal window beneath it must not
// activate that window, but clicks inside the modal remain functional.
func TestModalWindowSuppressesNonModalClicks(t *testing.T) {
	app := newTestApp()
	base := NewWindow("base", Rect{X: 0, Y: 0, W: 40, H: 10}, 0)
	app.wm.Add(base)

	var clicked bool
	modal := NewWindow("dialog", Rect{X: 5, Y: 2, W: 10, H: 4}, WindowModal)
	btn := &clickCounter{onClick: func() { clicked = true }}
	// Window/widget rects live in the shared desktop coordinate space
	// (§3), so the root widget's rect matches the window's own rect here
	// rather than a window-relative one.
	btn.SetRect(modal.Rect())
	modal.SetRoot(btn)
	app.wm.Add(modal)
	app.wm.Activate(modal)

	assert.Equal(t, modal, app.wm.ActiveWindow())

	// Click on the base window (outside the modal's rect) must not
	// activate it, nor reach its widgets.
	app.dispatch(MouseEvent{X: 1, Y: 1, Action: MousePress, Button: MouseButton1, Time: time.Now()})
	assert.Equal(t, modal, app.wm.ActiveWindow(), "modal must remain active")

	// Click inside the modal's own rect still reaches its widget.
	app.dispatch(MouseEvent{X: 6, Y: 3, Action: MousePress, Button: MouseButton1, Time: time.Now()})
	assert.True(t, clicked)
}

// clickCounter is a tiny IWidget stub for mouse-routing tests.
type clickCounter struct {
	BaseWidget
	onClick func()
}

func (c *clickCounter) CanFocus() bool { return true }
func (c *clickCounter) Draw(*Screen, IApp) {}
func (c *clickCounter) HandleKey(IApp, Key) bool { return false }
func (c *clickCounter) HandleMouse(app IApp, ev MouseEvent) bool {
	if ev.Action == MousePress {
		c.onClick()
		return true
	}
	return false
}

//======================================================================

func TestWindowZOrderAndClose(t *testing.T) {
	wm := NewWindowManager()
	a := NewWindow("a", Rect{W: 5, H: 5}, 0)
	b := NewWindow("b", Rect{W: 5, H: 5}, 0)
	c := NewWindow("c", Rect{W: 5, H: 5}, 0)
	wm.Add(a)
	wm.Add(b)
	wm.Add(c)
	assert.Equal(t, []*Window{a, b, c}, wm.Windows())
	assert.Equal(t, c, wm.Top())

	wm.Activate(a)
	assert.Equal(t, []*Window{b, c, a}, wm.Windows())
	assert.Equal(t, a, wm.Top())

	assert.NoError(t, wm.Close(c, nil))
	assert.Equal(t, []*Window{b, a}, wm.Windows())
}

func TestUnclosableWindowRefusesClose(t *testing.T) {
	wm := NewWindowManager()
	w := NewWindow("w", Rect{W: 5, H: 5}, WindowUnclosable)
	wm.Add(w)
	assert.ErrorIs(t, wm.Close(w, nil), ErrUnclosable)
	assert.Equal(t, []*Window{w}, wm.Windows())
}
