// Copyright 2019-2022 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package button provides a clickable, decorated label widget.
package button

import (
	"github.com/nilgiri/console"
)

//======================================================================

// Decoration is the pair of strings bracketing a button's label, e.g.
// "<" and ">".
type Decoration struct {
	Left, Right string
}

var (
	NormalDecoration = Decoration{Left: "<", Right: ">"}
	AltDecoration    = Decoration{Left: "[", Right: "]"}
	BareDecoration   = Decoration{Left: "", Right: ""}
)

var _ console.IWidget = (*Widget)(nil)

// Widget is a clickable label. Grounded on gowid's widgets/button.Widget,
// trimmed of its ICompositeWidget/callback-registry machinery (dropped
// with the render-size negotiation layer; see DESIGN.md) down to a single
// OnClick func field, since nothing in this module's scope needs more
// than one listener per button.
type Widget struct {
	console.BaseWidget
	Label      string
	Decoration Decoration
	Fg, Bg     console.Color
	Style      console.StyleAttrs
	OnClick    func(app console.IApp)
}

// New returns a Widget with the default "<label>" decoration.
func New(label string) *Widget {
	return &Widget{
		BaseWidget: console.NewBaseWidget(),
		Label:      label,
		Decoration: NormalDecoration,
		Fg:         console.ColorDefault,
		Bg:         console.ColorDefault,
	}
}

func (w *Widget) CanFocus() bool { return true }

func (w *Widget) text() string {
	return w.Decoration.Left + w.Label + w.Decoration.Right
}

func (w *Widget) Draw(scr *console.Screen, app console.IApp) {
	r := w.Rect()
	style := w.Style
	scr.PutString(r.X, r.Y, w.text(), w.Fg, w.Bg, style)
}

func (w *Widget) click(app console.IApp) {
	if w.OnClick != nil {
		w.OnClick(app)
	}
}

func (w *Widget) HandleKey(app console.IApp, key console.Key) bool {
	if key.Name == console.KeyEnter || (key.Name == console.KeyRune && (key.Rune == ' ' || key.Rune == '\r')) {
		w.click(app)
		return true
	}
	return false
}

func (w *Widget) HandleMouse(app console.IApp, ev console.MouseEvent) bool {
	if ev.Action == console.MouseRelease && ev.Button == console.MouseButton1 {
		w.click(app)
		return true
	}
	return false
}
