// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

//======================================================================

type recordingSink struct {
	runs   []runRecord
	moves  []Cursor
	cursor Cursor
}

type runRecord struct {
	x, y  int
	cells []Cell
}

func (s *recordingSink) WriteRun(x, y int, cells []Cell) {
	s.runs = append(s.runs, runRecord{x: x, y: y, cells: append([]Cell(nil), cells...)})
}

func (s *recordingSink) MoveCursor(x, y int) {
	s.moves = append(s.moves, Cursor{X: x, Y: y})
}

func (s *recordingSink) SetCursor(c Cursor) { s.cursor = c }

//======================================================================

func TestPutCellGetCellRoundTrip(t *testing.T) {
	s := NewScreen(10, 5)
	c := MakeCell('z', PaletteColor(1), PaletteColor(2), StyleNone.With(AttrBold, true))
	s.PutCell(3, 2, c)
	assert.True(t, s.GetCell(3, 2).Equal(c))
}

func TestPutCellClipsOutOfBounds(t *testing.T) {
	s := NewScreen(10, 5)
	assert.NotPanics(t, func() {
		s.PutCell(-1, 0, MakeCell('x', ColorDefault, ColorDefault, StyleNone))
		s.PutCell(100, 100, MakeCell('x', ColorDefault, ColorDefault, StyleNone))
	})
}

// TestBasicDrawFlush is scenario 1 from §8: write 'A' at (0,0) and 'B' at
// (79,23) on an 80x24 screen, flush, and confirm exactly those two cells
// changed and a second flush is silent.
func TestBasicDrawFlush(t *testing.T) {
	s := NewScreen(80, 24)
	s.PutChar(0, 0, 'A', ColorDefault, ColorDefault, StyleNone)
	s.PutChar(79, 23, 'B', ColorDefault, ColorDefault, StyleNone)

	sink := &recordingSink{}
	s.Flush(sink)

	var runeAt = func(x, y int) rune {
		for _, r := range sink.runs {
			if r.y == y {
				for i, c := range r.cells {
					if r.x+i == x {
						return c.Rune()
					}
				}
			}
		}
		return 0
	}
	assert.Equal(t, 'A', runeAt(0, 0))
	assert.Equal(t, 'B', runeAt(79, 23))
	assert.Equal(t, 'A', s.GetCell(0, 0).Rune())
	assert.Equal(t, 'B', s.GetCell(79, 23).Rune())

	// A second flush with no intervening write must emit zero runs.
	sink2 := &recordingSink{}
	s.Flush(sink2)
	assert.Empty(t, sink2.runs)
	assert.Empty(t, sink2.moves)
}

func TestFlushSyncsPhysicalToLogical(t *testing.T) {
	s := NewScreen(5, 5)
	s.PutChar(1, 1, 'x', ColorDefault, ColorDefault, StyleNone)
	s.Flush(&recordingSink{})
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.True(t, s.logical.CellAt(x, y).Equal(s.physical.CellAt(x, y)), "cell (%d,%d) out of sync", x, y)
		}
	}
}

func TestWideCharLeavesNoOrphanedContinuation(t *testing.T) {
	s := NewScreen(10, 1)
	s.PutChar(2, 0, '中', ColorDefault, ColorDefault, StyleNone) // a wide CJK glyph
	assert.True(t, s.GetCell(2, 0).IsWide())
	assert.True(t, s.GetCell(3, 0).IsContinuation())

	// Overwriting the lead half clears both.
	s.PutChar(2, 0, 'x', ColorDefault, ColorDefault, StyleNone)
	assert.False(t, s.GetCell(2, 0).IsWide())
	assert.False(t, s.GetCell(3, 0).IsContinuation())
	assert.Equal(t, 'x', s.GetCell(2, 0).Rune())
}

func TestWideCharOverwriteFromContinuationSide(t *testing.T) {
	s := NewScreen(10, 1)
	s.PutChar(2, 0, '中', ColorDefault, ColorDefault, StyleNone)
	s.PutChar(3, 0, 'y', ColorDefault, ColorDefault, StyleNone)
	assert.False(t, s.GetCell(2, 0).IsWide())
	assert.False(t, s.GetCell(3, 0).IsContinuation())
	assert.Equal(t, 'y', s.GetCell(3, 0).Rune())
}

func TestClipStackIntersectsWrites(t *testing.T) {
	s := NewScreen(10, 10)
	s.ClipPush(Rect{X: 2, Y: 2, W: 3, H: 3})
	s.PutChar(0, 0, 'a', ColorDefault, ColorDefault, StyleNone)
	assert.Equal(t, rune(0), s.GetCell(0, 0).codePoint)
	s.PutChar(2, 2, 'b', ColorDefault, ColorDefault, StyleNone)
	assert.Equal(t, 'b', s.GetCell(2, 2).Rune())
	s.ClipPop()
	s.PutChar(0, 0, 'a', ColorDefault, ColorDefault, StyleNone)
	assert.Equal(t, 'a', s.GetCell(0, 0).Rune())
}

func TestScrollUpDown(t *testing.T) {
	s := NewScreen(3, 3)
	s.PutString(0, 0, "aaa", ColorDefault, ColorDefault, StyleNone)
	s.PutString(0, 1, "bbb", ColorDefault, ColorDefault, StyleNone)
	s.PutString(0, 2, "ccc", ColorDefault, ColorDefault, StyleNone)

	s.ScrollUp(Rect{W: 3, H: 3}, 1)
	assert.Equal(t, 'b', s.GetCell(0, 0).Rune())
	assert.Equal(t, 'c', s.GetCell(0, 1).Rune())
	assert.Equal(t, rune(0), s.GetCell(0, 2).codePoint)

	s.ScrollDown(Rect{W: 3, H: 3}, 1)
	assert.Equal(t, rune(0), s.GetCell(0, 0).codePoint)
	assert.Equal(t, 'b', s.GetCell(0, 1).Rune())
	assert.Equal(t, 'c', s.GetCell(0, 2).Rune())
}

func TestResizeBlanksPhysicalForFullRepaint(t *testing.T) {
	s := NewScreen(5, 5)
	s.PutChar(0, 0, 'x', ColorDefault, ColorDefault, StyleNone)
	s.Flush(&recordingSink{})
	s.Resize(8, 8)
	assert.True(t, s.Dirty())
	sink := &recordingSink{}
	s.Flush(sink)
	assert.NotEmpty(t, sink.runs) // 'x' must be re-emitted against the blanked physical grid
}
