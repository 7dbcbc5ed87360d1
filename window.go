// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "github.com/pkg/errors"

//======================================================================

// WindowFlags is a bitmask of the boolean flags a Window carries (§3).
type WindowFlags uint16

const (
	WindowModal WindowFlags = 1 << iota
	WindowResizable
	WindowMovable
	WindowCentered
	WindowAbsolutePosition
	WindowHidden
	WindowZoomed
	WindowUnclosable
	WindowStayOnBottom // e.g. a desktop background window
)

func (f WindowFlags) has(m WindowFlags) bool { return f&m != 0 }

// StatusBar is the minimal widget a Window can show along its bottom
// edge; concrete status bar content (hint text, clock, etc.) is left to
// callers, per §1's "minimum needed to exercise the core".
type StatusBar struct {
	Text string
}

// Window is a top-level widget (§3): a rectangle in desktop coordinates,
// a title, a z-index (tracked by WindowManager, not stored here), flags,
// an optional status bar, and a tree of children. Window embeds
// BaseWidget for its own rect/enabled/visible bookkeeping and owns a
// WidgetTree for everything inside it.
type Window struct {
	BaseWidget
	Title     string
	Flags     WindowFlags
	StatusBar *StatusBar
	Tree      *WidgetTree
	root      WidgetID
	onClose   func(app IApp)
}

// NewWindow returns a Window with an empty body tree and the given rect.
func NewWindow(title string, rect Rect, flags WindowFlags) *Window {
	w := &Window{
		BaseWidget: NewBaseWidget(),
		Title:      title,
		Flags:      flags,
		Tree:       NewWidgetTree(),
	}
	w.SetRect(rect)
	return w
}

// SetRoot sets (or replaces) the window's single top-level child widget.
func (w *Window) SetRoot(body IWidget) WidgetID {
	w.root = w.Tree.Insert(NoWidget, body)
	w.Tree.Activate(w.root)
	return w.root
}

func (w *Window) Root() WidgetID { return w.root }

// OnClose registers a callback run when the window is closed, for
// resource release (§3 lifecycle, §4.4 cancellation).
func (w *Window) OnClose(f func(app IApp)) { w.onClose = f }

func (w *Window) IsModal() bool      { return w.Flags.has(WindowModal) }
func (w *Window) IsHidden() bool     { return w.Flags.has(WindowHidden) }
func (w *Window) IsUnclosable() bool { return w.Flags.has(WindowUnclosable) }

func (w *Window) CanFocus() bool { return true }

func (w *Window) Draw(scr *Screen, app IApp) {
	scr.ClipPush(w.Rect())
	defer scr.ClipPop()
	drawFrame(scr, w.Rect(), w.Title, app)
	if root, ok := w.Tree.Widget(w.root); ok {
		inner := insetRect(w.Rect())
		root.SetRect(inner)
		root.Draw(scr, app)
	}
	if w.StatusBar != nil {
		scr.PutString(w.Rect().X+1, w.Rect().Bottom()-1, w.StatusBar.Text, ColorDefault, ColorDefault, StyleNone)
	}
}

func insetRect(r Rect) Rect {
	if r.W <= 2 || r.H <= 2 {
		return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	}
	return Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

func drawFrame(scr *Screen, r Rect, title string, app IApp) {
	for x := r.X; x < r.Right(); x++ {
		scr.PutChar(x, r.Y, '-', ColorDefault, ColorDefault, StyleNone)
		scr.PutChar(x, r.Bottom()-1, '-', ColorDefault, ColorDefault, StyleNone)
	}
	for y := r.Y; y < r.Bottom(); y++ {
		scr.PutChar(r.X, y, '|', ColorDefault, ColorDefault, StyleNone)
		scr.PutChar(r.Right()-1, y, '|', ColorDefault, ColorDefault, StyleNone)
	}
	if title != "" {
		scr.PutString(r.X+2, r.Y, title, ColorDefault, ColorDefault, StyleBold)
	}
}

// HandleKey routes to the window's active widget, or handles Tab cycling
// directly when no widget claims the key first.
func (w *Window) HandleKey(app IApp, key Key) bool {
	if leaf := w.Tree.ActiveLeaf(); leaf.Valid() {
		if widget, ok := w.Tree.Widget(leaf); ok {
			if widget.HandleKey(app, key) {
				return true
			}
		}
	}
	if key.Name == KeyTab {
		dir := Forwards
		if key.Mod&ModShift != 0 {
			dir = Backwards
		}
		w.Tree.CycleTabOrder(dir)
		return true
	}
	return false
}

func (w *Window) HandleMouse(app IApp, ev MouseEvent) bool {
	if root, ok := w.Tree.Widget(w.root); ok {
		if root.Rect().Contains(ev.X, ev.Y) {
			return root.HandleMouse(app, ev)
		}
	}
	return false
}

//======================================================================

// WindowManager owns the ordered set of Windows for one Application,
// z-order last-is-topmost (§4.5). Activating a window moves it to the
// top unless it is flagged WindowStayOnBottom (a desktop window).
// Modality: while any modal window exists, events to windows that are
// not that window (or an ancestor dialog chain - not modeled here since
// Windows don't nest) are suppressed except repaint.
type WindowManager struct {
	windows []*Window
}

func NewWindowManager() *WindowManager {
	return &WindowManager{}
}

// Add registers w at the top of the z-order (unless it stays on bottom,
// in which case it is inserted at the bottom).
func (m *WindowManager) Add(w *Window) {
	if w.Flags.has(WindowStayOnBottom) {
		m.windows = append([]*Window{w}, m.windows...)
	} else {
		m.windows = append(m.windows, w)
	}
}

// Windows returns the z-ordered list, bottom to top.
func (m *WindowManager) Windows() []*Window {
	return m.windows
}

// Top returns the topmost non-hidden window, or nil.
func (m *WindowManager) Top() *Window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		if !m.windows[i].IsHidden() {
			return m.windows[i]
		}
	}
	return nil
}

// HasModal reports whether any registered window is currently modal and
// visible.
func (m *WindowManager) HasModal() bool {
	return m.topModal() != nil
}

func (m *WindowManager) topModal() *Window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		if m.windows[i].IsModal() && !m.windows[i].IsHidden() {
			return m.windows[i]
		}
	}
	return nil
}

// ActiveWindow returns the window that should currently receive keyboard
// input: the topmost modal window if one is open, else the topmost
// non-hidden window.
func (m *WindowManager) ActiveWindow() *Window {
	if modal := m.topModal(); modal != nil {
		return modal
	}
	return m.Top()
}

// Activate moves w to the top of the z-order, unless it stays on bottom.
func (m *WindowManager) Activate(w *Window) {
	if w.Flags.has(WindowStayOnBottom) {
		return
	}
	idx := m.indexOf(w)
	if idx < 0 || idx == len(m.windows)-1 {
		return
	}
	m.windows = append(append(m.windows[:idx], m.windows[idx+1:]...), w)
}

func (m *WindowManager) indexOf(w *Window) int {
	for i, x := range m.windows {
		if x == w {
			return i
		}
	}
	return -1
}

// ErrUnclosable is returned by Close when the window is flagged
// un-closable.
var ErrUnclosable = errors.New("window cannot be closed")

// Close removes w from the z-order. §3: "when closed, focus passes to the
// next non-hidden non-modal window by z-order." The higher-z-index
// windows implicitly shift down by one since the slice simply closes the
// gap (§8's "decrements every higher z-index by one").
func (m *WindowManager) Close(w *Window, app IApp) error {
	if w.IsUnclosable() {
		return ErrUnclosable
	}
	idx := m.indexOf(w)
	if idx < 0 {
		return nil
	}
	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	if w.onClose != nil {
		w.onClose(app)
	}
	return nil
}

// WindowAt returns the topmost window whose rect contains (x, y), for
// mouse routing (§4.5).
func (m *WindowManager) WindowAt(x, y int) *Window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		w := m.windows[i]
		if !w.IsHidden() && w.Rect().Contains(x, y) {
			return w
		}
	}
	return nil
}
