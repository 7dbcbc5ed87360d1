// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

//======================================================================

// IWidget is the minimal capability every node in a widget tree must
// provide (§9 design notes: "a closed set of widget variants plus a
// shared trait"). Library users extend the toolkit either by embedding
// BaseWidget into a new struct, or by implementing IWidget directly on a
// type of their own.
type IWidget interface {
	// Rect returns the widget's rectangle in desktop coordinates (the
	// same space as its Window's rect); it is not relative to the parent.
	Rect() Rect
	SetRect(Rect)
	Enabled() bool
	SetEnabled(bool)
	Visible() bool
	SetVisible(bool)
	// CanFocus reports whether this widget can become the active widget
	// of its window.
	CanFocus() bool
	// Draw renders the widget into scr at its own rectangle's origin;
	// composite widgets are responsible for translating coordinates and
	// drawing their children.
	Draw(scr *Screen, app IApp)
	// HandleKey processes a keyboard event if this widget is the active
	// widget of the active window. Returns true if handled.
	HandleKey(app IApp, key Key) bool
	// HandleMouse processes a mouse event whose coordinates already fall
	// within this widget's rectangle. Returns true if handled.
	HandleMouse(app IApp, ev MouseEvent) bool
}

//======================================================================

// BaseWidget supplies the bookkeeping (rect, enabled/visible flags) every
// IWidget needs, for embedding into concrete widget types. It does not
// implement Draw/HandleKey/HandleMouse/CanFocus - those remain the
// embedding type's responsibility, matching the spirit of gowid's
// IWidget/ICompositeWidget split without gowid's render-size negotiation
// machinery (dropped; see DESIGN.md).
type BaseWidget struct {
	rect    Rect
	enabled bool
	visible bool
}

// NewBaseWidget returns a BaseWidget that is enabled and visible by
// default.
func NewBaseWidget() BaseWidget {
	return BaseWidget{enabled: true, visible: true}
}

func (b *BaseWidget) Rect() Rect          { return b.rect }
func (b *BaseWidget) SetRect(r Rect)      { b.rect = r }
func (b *BaseWidget) Enabled() bool       { return b.enabled }
func (b *BaseWidget) SetEnabled(v bool)   { b.enabled = v }
func (b *BaseWidget) Visible() bool       { return b.visible }
func (b *BaseWidget) SetVisible(v bool)   { b.visible = v }

//======================================================================

// WidgetTree is extended here with focus/activation tracking. Exactly one
// widget in the tree is the "active leaf"; IsActive reports true for that
// widget and every one of its ancestors (§3 invariant: activating a child
// transitively activates its ancestors, and no sibling of any ancestor is
// active, which holds automatically since only a single root-to-leaf path
// is ever marked).
type widgetTreeFocus struct {
	activeLeaf WidgetID
}

func (t *WidgetTree) focus() *widgetTreeFocus {
	if t.focusState == nil {
		t.focusState = &widgetTreeFocus{}
	}
	return t.focusState
}

// Activate makes id the tree's active leaf. Its ancestors become
// (transitively) active and every other widget becomes inactive.
func (t *WidgetTree) Activate(id WidgetID) {
	t.focus().activeLeaf = id
}

// ActiveLeaf returns the tree's current active leaf widget, if any.
func (t *WidgetTree) ActiveLeaf() WidgetID {
	return t.focus().activeLeaf
}

// IsActive reports whether id is the active leaf or one of its ancestors.
func (t *WidgetTree) IsActive(id WidgetID) bool {
	cur := t.focus().activeLeaf
	for cur.Valid() {
		if cur == id {
			return true
		}
		cur = t.Parent(cur)
	}
	return false
}

// CycleTabOrder moves the active leaf to the next (dir=Forwards) or
// previous (dir=Backwards) focusable sibling under the active leaf's
// parent, wrapping around. If no sibling can take focus, the active leaf
// is unchanged.
func (t *WidgetTree) CycleTabOrder(dir Direction) {
	leaf := t.focus().activeLeaf
	if !leaf.Valid() {
		return
	}
	parent := t.Parent(leaf)
	siblings := t.Children(parent)
	if len(siblings) == 0 {
		return
	}
	pos := -1
	for i, s := range siblings {
		if s == leaf {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}
	n := len(siblings)
	for step := 1; step <= n; step++ {
		next := ((pos+int(dir))%n + n) % n
		cand := siblings[next]
		if w, ok := t.Widget(cand); ok && w.CanFocus() && w.Enabled() && w.Visible() {
			t.Activate(cand)
			return
		}
		pos = next
	}
}
