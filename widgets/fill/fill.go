// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package fill provides a widget that paints its whole rectangle with a
// single styled rune, useful as a spacer or background behind a Window's
// other children.
package fill

import (
	"github.com/nilgiri/console"
)

//======================================================================

var _ console.IWidget = (*Widget)(nil)

// Widget fills its rectangle with Cell. Grounded on gowid's
// widgets/fill.Widget, whose RenderSize/Render negotiation this module
// has no equivalent of (a Window's children are placed at fixed rects;
// see DESIGN.md) - only the fill-the-rect behavior survives.
type Widget struct {
	console.BaseWidget
	Cell console.Cell
}

func New(r rune) *Widget {
	return &Widget{
		BaseWidget: console.NewBaseWidget(),
		Cell:       console.CellFromRune(r),
	}
}

func (w *Widget) CanFocus() bool { return false }

func (w *Widget) Draw(scr *console.Screen, app console.IApp) {
	scr.FillRect(w.Rect(), w.Cell)
}

func (w *Widget) HandleKey(app console.IApp, key console.Key) bool { return false }

func (w *Widget) HandleMouse(app console.IApp, ev console.MouseEvent) bool { return false }
