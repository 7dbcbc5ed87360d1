// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "image"

// Tile is a small raster of pixels sized to fill exactly one terminal
// cell. Cells produced by sixel or iTerm2 image decoding (§4.3) carry a
// Tile instead of a code point. Tile wraps the standard image.RGBA so
// backends can hand the raster straight to golang.org/x/image/draw when
// compositing onto a canvas/window, or re-encode it back to sixel bytes
// on flush.
type Tile struct {
	Pix *image.RGBA
}

// Equal compares two tiles by pixel content, used by the Screen diff so
// that two identical tiles don't count as a changed Cell.
func (t *Tile) Equal(o *Tile) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if t.Pix == nil || o.Pix == nil {
		return t.Pix == o.Pix
	}
	if t.Pix.Bounds() != o.Pix.Bounds() {
		return false
	}
	return string(t.Pix.Pix) == string(o.Pix.Pix)
}
