// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package divider provides a widget that draws a horizontal dividing
// line across its rectangle's width.
package divider

import (
	"github.com/nilgiri/console"
)

//======================================================================

var (
	HorizontalLine    = '━'
	AltHorizontalLine = '▀'
)

var _ console.IWidget = (*Widget)(nil)

// Widget draws Chr across every column of its rectangle's top row.
// Grounded on gowid's widgets/divider.Widget, with the Above/Below blank-
// line padding dropped: this module's Window lays out children by fixed
// rect rather than flow layout, so padding belongs to the caller choosing
// the divider's rect, not the divider itself.
type Widget struct {
	console.BaseWidget
	Chr    rune
	Fg, Bg console.Color
	Style  console.StyleAttrs
}

func New(chr rune) *Widget {
	return &Widget{
		BaseWidget: console.NewBaseWidget(),
		Chr:        chr,
		Fg:         console.ColorDefault,
		Bg:         console.ColorDefault,
	}
}

func NewAscii() *Widget      { return New('-') }
func NewUnicode() *Widget    { return New(HorizontalLine) }
func NewUnicodeAlt() *Widget { return New(AltHorizontalLine) }

func (w *Widget) CanFocus() bool { return false }

func (w *Widget) Draw(scr *console.Screen, app console.IApp) {
	r := w.Rect()
	line := console.MakeCell(w.Chr, w.Fg, w.Bg, w.Style)
	for x := r.X; x < r.Right(); x++ {
		scr.PutCell(x, r.Y, line)
	}
}

func (w *Widget) HandleKey(app console.IApp, key console.Key) bool { return false }

func (w *Widget) HandleMouse(app console.IApp, ev console.MouseEvent) bool { return false }
