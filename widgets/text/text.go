// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package text provides a static single-line text widget, the minimum
// widget needed to exercise the core (window titles, status lines, menu
// items drawn as part of the menu system already do their own text
// rendering directly against a console.Screen; this is the widget form
// for use as an ordinary child of a Window).
package text

import (
	"github.com/mattn/go-runewidth"

	"github.com/nilgiri/console"
)

//======================================================================

var _ console.IWidget = (*Widget)(nil)

// Widget renders a single line of text, left-aligned and clipped to its
// rectangle. Grounded on gowid's widgets/text.Widget, stripped of its
// styled-segment IContent model (ICellStyler, ContentSegment, RangeOver)
// down to one style for the whole line, since nothing in this module's
// scope needs mixed-style runs within a single text widget.
type Widget struct {
	console.BaseWidget
	Text  string
	Fg, Bg console.Color
	Style console.StyleAttrs
}

// New returns a Widget showing s in the default foreground/background.
func New(s string) *Widget {
	return &Widget{
		BaseWidget: console.NewBaseWidget(),
		Text:       s,
		Fg:         console.ColorDefault,
		Bg:         console.ColorDefault,
	}
}

func (w *Widget) CanFocus() bool { return false }

func (w *Widget) SetText(s string) { w.Text = s }

func (w *Widget) Draw(scr *console.Screen, app console.IApp) {
	r := w.Rect()
	scr.ClipPush(r)
	defer scr.ClipPop()

	x := r.X
	for _, ru := range w.Text {
		if x >= r.Right() {
			break
		}
		cw := runewidth.RuneWidth(ru)
		if cw == 0 {
			cw = 1
		}
		scr.PutChar(x, r.Y, ru, w.Fg, w.Bg, w.Style)
		x += cw
	}
}

func (w *Widget) HandleKey(app console.IApp, key console.Key) bool { return false }

func (w *Widget) HandleMouse(app console.IApp, ev console.MouseEvent) bool { return false }
