// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nilgiri/console"
)

//======================================================================

func cellRune(e *Emulator, x, y int) rune {
	return e.Canvas().CellAt(x, y).Rune()
}

// TestBasicSequenceRoundTrip feeds CSI 2 J, CSI H, and a printable string
// and confirms it lands exactly at (0,0), per §8's terminal round-trip
// property.
func TestBasicSequenceRoundTrip(t *testing.T) {
	e := NewEmulator(20, 5, 100)
	e.Write([]byte("\x1b[2J\x1b[Hhello"))
	for i, r := range "hello" {
		assert.Equal(t, r, cellRune(e, i, 0))
	}
	cx, cy, _ := e.Cursor()
	assert.Equal(t, 5, cx)
	assert.Equal(t, 0, cy)
}

// TestAutowrap is scenario 2 from §8: a 10x5 screen, cursor pending-wrap
// at the last column, DECAWM on; printing 'x' wraps to (0,1) and leaves
// the cursor at (1,1).
func TestAutowrap(t *testing.T) {
	e := NewEmulator(10, 5, 100)
	assert.True(t, e.Modes.AutoWrap)
	e.MoveCursorTo(9, 0)
	e.PutRune('9') // fills the last column and raises pendingWrap
	assert.True(t, e.pendingWrap)

	e.PutRune('x')
	assert.Equal(t, 'x', cellRune(e, 0, 1))
	cx, cy, _ := e.Cursor()
	assert.Equal(t, 1, cx)
	assert.Equal(t, 1, cy)
}

func TestAutowrapDisabledClampsAtMargin(t *testing.T) {
	e := NewEmulator(10, 5, 100)
	e.Write([]byte("\x1b[?7l")) // DECRST 7: disable autowrap
	assert.False(t, e.Modes.AutoWrap)
	e.MoveCursorTo(9, 0)
	e.PutRune('9')
	e.PutRune('x')
	// With autowrap off, the cursor stays pinned to the last column and
	// the next glyph overwrites it rather than wrapping.
	assert.Equal(t, 'x', cellRune(e, 9, 0))
	cx, cy, _ := e.Cursor()
	assert.Equal(t, 9, cx)
	assert.Equal(t, 0, cy)
}

// TestScrollingRegion is scenario 3 from §8: 10x5 screen, DECSTBM 2;4,
// cursor to the region's bottom row (0-based row 3), LF shifts lines 2-4
// up by one, line 1 is untouched, cursor stays at (0,3).
func TestScrollingRegion(t *testing.T) {
	e := NewEmulator(10, 5, 100)
	e.Write([]byte("line1\r\n"))
	e.MoveCursorTo(0, 1)
	e.Write([]byte("line2"))
	e.MoveCursorTo(0, 2)
	e.Write([]byte("line3"))
	e.MoveCursorTo(0, 3)
	e.Write([]byte("line4"))
	e.MoveCursorTo(0, 4)
	e.Write([]byte("line5"))

	e.Write([]byte("\x1b[2;4r")) // DECSTBM: rows 2-4 (1-based) scroll
	e.MoveCursorTo(0, 3)         // bottom of the scrolling region (0-based row 3 == 1-based row 4)
	e.LineFeed(false)

	assert.Equal(t, 'l', cellRune(e, 0, 0)) // line1 untouched (outside region)
	assert.Equal(t, 'l', cellRune(e, 0, 1)) // old line3 shifted up into row 1
	assert.Equal(t, '3', cellRune(e, 4, 1))
	assert.Equal(t, 'l', cellRune(e, 0, 2)) // old line4 shifted up into row 2
	assert.Equal(t, '4', cellRune(e, 4, 2))
	cx, cy, _ := e.Cursor()
	assert.Equal(t, 0, cx)
	assert.Equal(t, 3, cy) // LF at the region's bottom scrolls in place, cursor unchanged
}

func TestSGRRoundTrip(t *testing.T) {
	e := NewEmulator(20, 5, 100)
	e.Write([]byte("\x1b[1;4;38;2;10;20;30mX"))
	cell := e.Canvas().CellAt(0, 0)
	assert.True(t, cell.Style().Has(console.AttrBold))
	assert.True(t, cell.Style().Has(console.AttrUnderline))
	assert.Equal(t, console.RGBColor(10, 20, 30), cell.ForegroundColor())

	e.Write([]byte("\x1b[0mY"))
	cell2 := e.Canvas().CellAt(1, 0)
	assert.False(t, cell2.Style().Has(console.AttrBold))
	assert.Equal(t, console.ColorDefault, cell2.ForegroundColor())
}

func TestEraseChars(t *testing.T) {
	e := NewEmulator(10, 1, 100)
	e.Write([]byte("abcdef"))
	e.MoveCursorTo(2, 0)
	e.Write([]byte("\x1b[3X")) // ECH: blank 3 cells at the cursor, no shift
	assert.Equal(t, 'a', cellRune(e, 0, 0))
	assert.Equal(t, 'b', cellRune(e, 1, 0))
	assert.Equal(t, ' ', cellRune(e, 2, 0))
	assert.Equal(t, ' ', cellRune(e, 3, 0))
	assert.Equal(t, ' ', cellRune(e, 4, 0))
	assert.Equal(t, 'f', cellRune(e, 5, 0)) // unshifted: 'f' stays put
}

func TestAlternateScreenPreservesScrollback(t *testing.T) {
	e := NewEmulator(10, 3, 10)
	for i := 0; i < 5; i++ {
		e.Write([]byte("x\r\n"))
	}
	before := e.Scrollback.Len()
	assert.True(t, before > 0)

	e.Write([]byte("\x1b[?1049h")) // enter alternate screen
	e.Write([]byte("\x1b[2J"))     // clearing the alt screen must not touch scrollback
	assert.Equal(t, before, e.Scrollback.Len())

	e.Write([]byte("\x1b[?1049l")) // restore primary
}
