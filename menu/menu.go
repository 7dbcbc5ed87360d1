// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package menu

import "github.com/nilgiri/console"

//======================================================================

// Menu is a vertical list of Items drawn as a bordered overlay anchored
// at a screen position (§3, §4.6). Opening a submenu pushes a second
// Menu onto the Application's menu stack so that it receives keys first;
// closing it (Escape, left-arrow, or clicking outside) pops back to the
// parent. Unlike gowid's menu widget, which anchors itself via a
// zero-width "site" widget threaded through the render tree, a Menu here
// just records its own anchor rectangle directly and draws itself with
// absolute desktop coordinates, matching the rest of this package's
// direct-draw model.
type Menu struct {
	console.BaseWidget
	Name   string
	Items  []*Item
	parent *Menu

	selected int
	open     bool
	autoClose bool
}

var _ console.IMenuCompatible = (*Menu)(nil)

// New returns an unopened Menu with no anchor position yet.
func New(name string, items []*Item) *Menu {
	m := &Menu{
		BaseWidget: console.NewBaseWidget(),
		Name:       name,
		Items:      items,
		selected:   -1,
		autoClose:  true,
	}
	m.selected = m.firstSelectable()
	return m
}

// SetAutoClose controls whether activating a leaf item closes the whole
// menu chain (default true) or leaves it open, e.g. for a checkbox-style
// item a user may want to toggle repeatedly.
func (m *Menu) SetAutoClose(v bool) { m.autoClose = v }

func (m *Menu) CanFocus() bool { return true }

// Open opens the menu at the origin of its current rect (desktop
// coordinates) and registers it as the Application's topmost menu.
func (m *Menu) Open(app console.IApp) {
	m.openAt(app, m.Rect().X, m.Rect().Y)
}

// OpenAt anchors the menu at (x, y) then opens it.
func (m *Menu) OpenAt(app console.IApp, x, y int) {
	m.openAt(app, x, y)
}

func (m *Menu) openAt(app console.IApp, x, y int) {
	w, h := m.naturalSize()
	m.SetRect(console.Rect{X: x, Y: y, W: w, H: h})
	m.open = true
	app.RegisterMenu(m)
	app.Repaint()
}

// Close closes this menu and, if it is a submenu, leaves the parent menu
// open (§4.6: closing a submenu returns focus to the parent, not the
// underlying window).
func (m *Menu) Close(app console.IApp) {
	if !m.open {
		return
	}
	m.open = false
	app.UnregisterMenu(m)
	for _, it := range m.Items {
		if it.Submenu != nil && it.Submenu.IsOpen() {
			it.Submenu.Close(app)
		}
	}
	app.Repaint()
}

func (m *Menu) IsOpen() bool { return m.open }

func (m *Menu) naturalSize() (int, int) {
	w := 4
	for _, it := range m.Items {
		l := len(it.Label) + 4
		if it.Submenu != nil {
			l += 2
		}
		if l > w {
			w = l
		}
	}
	return w, len(m.Items) + 2
}

func (m *Menu) firstSelectable() int {
	for i, it := range m.Items {
		if it.Enabled() {
			return i
		}
	}
	return -1
}

//======================================================================

func (m *Menu) Draw(scr *console.Screen, app console.IApp) {
	if !m.open {
		return
	}
	r := m.Rect()
	scr.ClipPush(r)
	defer scr.ClipPop()

	blank := console.MakeCell(' ', console.ColorDefault, console.ColorDefault, console.StyleNone)
	scr.FillRect(r, blank)
	for x := r.X; x < r.Right(); x++ {
		scr.PutChar(x, r.Y, '-', console.ColorDefault, console.ColorDefault, console.StyleNone)
		scr.PutChar(x, r.Bottom()-1, '-', console.ColorDefault, console.ColorDefault, console.StyleNone)
	}
	for y := r.Y; y < r.Bottom(); y++ {
		scr.PutChar(r.X, y, '|', console.ColorDefault, console.ColorDefault, console.StyleNone)
		scr.PutChar(r.Right()-1, y, '|', console.ColorDefault, console.ColorDefault, console.StyleNone)
	}

	for i, it := range m.Items {
		y := r.Y + 1 + i
		if it.Separator {
			for x := r.X + 1; x < r.Right()-1; x++ {
				scr.PutChar(x, y, '-', console.ColorDefault, console.ColorDefault, console.StyleNone)
			}
			continue
		}
		style := console.StyleNone
		if i == m.selected {
			style = console.StyleReverse
		}
		if !it.Enabled() {
			style = style.MergeUnder(console.StyleDim)
		}
		scr.PutString(r.X+2, y, it.Label, console.ColorDefault, console.ColorDefault, style)
		if it.Mnemonic != 0 {
			scr.PutChar(mnemonicX(r.X+2, it.Label, it.Mnemonic), y, it.Mnemonic,
				console.ColorDefault, console.ColorDefault, style.MergeUnder(console.StyleUnderline))
		}
		if it.Submenu != nil {
			scr.PutChar(r.Right()-2, y, '>', console.ColorDefault, console.ColorDefault, style)
		}
	}

	for _, it := range m.Items {
		if it.Submenu != nil && it.Submenu.IsOpen() {
			it.Submenu.Draw(scr, app)
		}
	}
}

func mnemonicX(base int, label string, mnemonic rune) int {
	for i, r := range label {
		if toLower(r) == toLower(mnemonic) {
			return base + i
		}
	}
	return base
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

//======================================================================

func (m *Menu) HandleKey(app console.IApp, key console.Key) bool {
	if sub := m.openSubmenu(); sub != nil {
		if sub.HandleKey(app, key) {
			return true
		}
	}

	switch {
	case key.Name == console.KeyDown:
		m.moveSelection(1)
		app.Repaint()
		return true
	case key.Name == console.KeyUp:
		m.moveSelection(-1)
		app.Repaint()
		return true
	case key.Name == console.KeyEnter, key.Name == console.KeyRight:
		m.activateSelected(app)
		return true
	case key.Name == console.KeyLeft, key.Name == console.KeyEscape:
		m.Close(app)
		return true
	case key.Name == console.KeyRune:
		for i, it := range m.Items {
			if it.Enabled() && it.Mnemonic != 0 && toLower(it.Mnemonic) == toLower(key.Rune) {
				m.selected = i
				m.activateSelected(app)
				return true
			}
		}
	}
	return false
}

func (m *Menu) openSubmenu() *Menu {
	for _, it := range m.Items {
		if it.Submenu != nil && it.Submenu.IsOpen() {
			return it.Submenu
		}
	}
	return nil
}

func (m *Menu) moveSelection(dir int) {
	n := len(m.Items)
	if n == 0 {
		return
	}
	i := m.selected
	for step := 0; step < n; step++ {
		i = ((i+dir)%n + n) % n
		if m.Items[i].Enabled() {
			m.selected = i
			return
		}
	}
}

func (m *Menu) activateSelected(app console.IApp) {
	if m.selected < 0 || m.selected >= len(m.Items) {
		return
	}
	it := m.Items[m.selected]
	if !it.Enabled() {
		return
	}
	if it.Submenu != nil {
		r := m.Rect()
		it.Submenu.parent = m
		it.Submenu.OpenAt(app, r.Right()-1, r.Y+1+m.selected)
		return
	}
	app.DispatchMenu(it.ID)
	if m.autoClose {
		m.closeChain(app)
	}
}

// closeChain closes this menu and every ancestor up to (and including)
// the root of the chain, since activating a leaf item should dismiss the
// whole nested menu, not just the innermost submenu.
func (m *Menu) closeChain(app console.IApp) {
	root := m
	for root.parent != nil {
		root = root.parent
	}
	root.Close(app)
}

func (m *Menu) HandleMouse(app console.IApp, ev console.MouseEvent) bool {
	if sub := m.openSubmenu(); sub != nil {
		if sub.Rect().Contains(ev.X, ev.Y) {
			return sub.HandleMouse(app, ev)
		}
		if ev.Action == console.MousePress {
			sub.Close(app)
		}
	}
	r := m.Rect()
	if !r.Contains(ev.X, ev.Y) {
		return false
	}
	if ev.Action != console.MousePress {
		return true
	}
	row := ev.Y - r.Y - 1
	if row < 0 || row >= len(m.Items) {
		return true
	}
	if m.Items[row].Enabled() {
		m.selected = row
		m.activateSelected(app)
	}
	return true
}
