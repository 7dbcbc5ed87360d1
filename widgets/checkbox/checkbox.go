// Copyright 2019-2022 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package checkbox provides a widget which can be checked or unchecked.
package checkbox

import (
	"github.com/nilgiri/console"
)

//======================================================================

var _ console.IWidget = (*Widget)(nil)

// Widget is a "[X]"/"[ ]" toggle. Grounded on gowid's widgets/checkbox.Widget,
// simplified the same way button.Widget was: no callback registry, a
// single OnToggle func field.
type Widget struct {
	console.BaseWidget
	Label    string
	checked  bool
	Fg, Bg   console.Color
	Style    console.StyleAttrs
	OnToggle func(app console.IApp, checked bool)
}

func New(label string, checked bool) *Widget {
	return &Widget{
		BaseWidget: console.NewBaseWidget(),
		Label:      label,
		checked:    checked,
		Fg:         console.ColorDefault,
		Bg:         console.ColorDefault,
	}
}

func (w *Widget) CanFocus() bool { return true }

func (w *Widget) IsChecked() bool { return w.checked }

func (w *Widget) SetChecked(app console.IApp, checked bool) {
	w.checked = checked
	if w.OnToggle != nil {
		w.OnToggle(app, w.checked)
	}
}

func (w *Widget) toggle(app console.IApp) {
	w.SetChecked(app, !w.checked)
}

func (w *Widget) text() string {
	mark := " "
	if w.checked {
		mark = "X"
	}
	return "[" + mark + "] " + w.Label
}

func (w *Widget) Draw(scr *console.Screen, app console.IApp) {
	r := w.Rect()
	scr.PutString(r.X, r.Y, w.text(), w.Fg, w.Bg, w.Style)
}

func (w *Widget) HandleKey(app console.IApp, key console.Key) bool {
	if key.Name == console.KeyEnter || (key.Name == console.KeyRune && key.Rune == ' ') {
		w.toggle(app)
		return true
	}
	return false
}

func (w *Widget) HandleMouse(app console.IApp, ev console.MouseEvent) bool {
	if ev.Action == console.MouseRelease && ev.Button == console.MouseButton1 {
		w.toggle(app)
		return true
	}
	return false
}
