// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "github.com/mattn/go-runewidth"

//======================================================================

// Cell is a single element of the Screen grid. The empty value is a blank
// cell with no color or style preference and no rune - a Cell layered
// underneath it during composition shows through entirely. A Cell carries
// either a code point or a pixel Tile, never both; WithRune clears any
// tile and WithTile clears any rune.
type Cell struct {
	codePoint rune
	tile      *Tile
	fg        Color
	bg        Color
	style     StyleAttrs
	wide      bool // true if this cell holds the first half of a wide glyph
	cont      bool // true if this cell is a non-emittable wide-char continuation
}

// MakeCell returns a Cell with the given rune, foreground, background and
// style. Passing ColorNone for fg or bg means "no preference".
func MakeCell(r rune, fg, bg Color, style StyleAttrs) Cell {
	return Cell{codePoint: r, fg: fg, bg: bg, style: style}
}

// CellFromRune returns a Cell with the given rune and no color/style
// preference.
func CellFromRune(r rune) Cell {
	return Cell{codePoint: r}
}

// MakeTileCell returns a Cell carrying a pixel Tile rather than a rune.
func MakeTileCell(t *Tile) Cell {
	return Cell{tile: t}
}

// HasRune reports whether the cell declares a rune to display.
func (c Cell) HasRune() bool {
	return c.tile == nil && c.codePoint != 0
}

// HasTile reports whether the cell carries a pixel tile.
func (c Cell) HasTile() bool {
	return c.tile != nil
}

// Tile returns the cell's pixel tile, or nil if it has none.
func (c Cell) Tile() *Tile {
	return c.tile
}

// Rune returns the rune to display - a space if the cell is empty or
// holds a tile.
func (c Cell) Rune() rune {
	if !c.HasRune() {
		return ' '
	}
	return c.codePoint
}

// WithRune returns a Cell equal to the receiver but displaying r, clearing
// any tile.
func (c Cell) WithRune(r rune) Cell {
	c.codePoint = r
	c.tile = nil
	return c
}

// WithTile returns a Cell equal to the receiver but carrying tile t,
// clearing any rune.
func (c Cell) WithTile(t *Tile) Cell {
	c.tile = t
	c.codePoint = 0
	return c
}

// WithNoRune clears the cell's rune and tile, leaving it "empty".
func (c Cell) WithNoRune() Cell {
	c.codePoint = 0
	c.tile = nil
	return c
}

func (c Cell) ForegroundColor() Color { return c.fg }
func (c Cell) BackgroundColor() Color { return c.bg }
func (c Cell) Style() StyleAttrs      { return c.style }

func (c Cell) WithForegroundColor(col Color) Cell { c.fg = col; return c }
func (c Cell) WithBackgroundColor(col Color) Cell { c.bg = col; return c }
func (c Cell) WithStyle(s StyleAttrs) Cell        { c.style = s; return c }

// IsWide reports whether this cell is the first half of a wide (2-column)
// glyph - the invariant is that the adjacent cell to its right holds a
// continuation marker.
func (c Cell) IsWide() bool { return c.wide }

// IsContinuation reports whether this cell is a non-emittable
// continuation of a wide glyph in the cell to its left.
func (c Cell) IsContinuation() bool { return c.cont }

// Width returns the terminal column width of the cell's rune: 0 for a
// continuation cell, 1 for an empty cell, otherwise go-runewidth's width
// for the rune (2 for wide glyphs, 0 for zero-width runes such as
// combining marks). Wide-rune detection is delegated to
// go-runewidth, matching gowid's approach and resolving the spec's open
// question on East Asian width arithmetic in favor of go-runewidth's
// table, without attempting ZWJ-sequence joining.
func (c Cell) Width() int {
	if c.cont {
		return 0
	}
	if !c.HasRune() {
		return 1
	}
	return runewidth.RuneWidth(c.codePoint)
}

func (c Cell) withWide(wide bool) Cell { c.wide = wide; return c }
func (c Cell) asContinuation() Cell {
	return Cell{fg: c.fg, bg: c.bg, style: c.style, cont: true}
}

// Equal reports whether two cells are identical in every field the
// compositor cares about - this is what the Screen diff uses to decide
// whether a cell changed.
func (c Cell) Equal(o Cell) bool {
	if c.codePoint != o.codePoint || c.fg != o.fg || c.bg != o.bg || c.style != o.style {
		return false
	}
	if c.wide != o.wide || c.cont != o.cont {
		return false
	}
	if c.HasTile() || o.HasTile() {
		return c.tile.Equal(o.tile)
	}
	return true
}

//======================================================================

// CellsFromString turns a string into a slice of plain, unstyled Cells,
// one per rune (space runs are stored as a zero-value Cell).
func CellsFromString(s string) []Cell {
	res := make([]Cell, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			res = append(res, Cell{})
		} else {
			res = append(res, CellFromRune(r))
		}
	}
	return res
}
