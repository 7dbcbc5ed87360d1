// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "github.com/mattn/go-runewidth"

//======================================================================

// CursorShape selects the visual shape of the terminal cursor (DECSCUSR).
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cursor is the Screen's cursor state.
type Cursor struct {
	X, Y    int
	Visible bool
	Shape   CursorShape
}

// IScreenSink receives the backend-specific bytes produced when flushing a
// changed run of cells on one row. Backends implement this to turn runs
// into their own escape sequences or draw calls.
type IScreenSink interface {
	// WriteRun is called once per coalesced run of cells on a single row
	// that share identical display attributes (foreground, background,
	// style). Consecutive cells differing only in rune are combined into
	// one run to minimize attribute-change churn (e.g. SGR sequences).
	WriteRun(x, y int, cells []Cell)
	// MoveCursor is called only when the next written run is not adjacent
	// to the end of the previous one.
	MoveCursor(x, y int)
	// SetCursor reports the final cursor position/visibility/shape after a
	// flush completes.
	SetCursor(c Cursor)
}

// Screen is a 2-D cell buffer with a logical grid (mutated by widgets) and
// a physical grid (reflecting what was last flushed to a device). Writes
// intersect the top of the clip-rectangle stack. Screen tracks a coarse
// dirty flag so Application can skip a flush when nothing changed.
type Screen struct {
	logical  *Canvas
	physical *Canvas
	cursor   Cursor
	clips    []Rect
	dirty    bool
}

// NewScreen returns a Screen of the given size, logical and physical grids
// both blank and therefore already in sync (so an initial flush of an
// untouched Screen emits nothing).
func NewScreen(cols, rows int) *Screen {
	return &Screen{
		logical:  NewCanvas(cols, rows),
		physical: NewCanvas(cols, rows),
		clips:    []Rect{{W: cols, H: rows}},
	}
}

func (s *Screen) Cols() int { return s.logical.Cols() }
func (s *Screen) Rows() int { return s.logical.Rows() }

// clip returns the current effective clip rectangle, which is always the
// top of the stack (the stack is seeded with the full screen rect so it's
// never empty).
func (s *Screen) clip() Rect {
	return s.clips[len(s.clips)-1]
}

// ClipPush intersects rect with the current clip and pushes the result.
func (s *Screen) ClipPush(rect Rect) {
	s.clips = append(s.clips, s.clip().Intersect(rect))
}

// ClipPop restores the clip rectangle in effect before the matching
// ClipPush. Popping past the base rectangle is a no-op.
func (s *Screen) ClipPop() {
	if len(s.clips) > 1 {
		s.clips = s.clips[:len(s.clips)-1]
	}
}

func (s *Screen) markDirty() { s.dirty = true }

// Dirty reports whether any write has happened since the last flush.
func (s *Screen) Dirty() bool { return s.dirty }

// GetCell returns the logical cell at (x, y).
func (s *Screen) GetCell(x, y int) Cell {
	return s.logical.CellAt(x, y)
}

// PutCell writes a cell into the logical grid at (x, y), clipped.
func (s *Screen) PutCell(x, y int, cell Cell) {
	if !s.clip().Contains(x, y) {
		return
	}
	s.logical.SetCellAt(x, y, cell)
	s.markDirty()
}

// PutChar writes a single rune with the given style at (x, y), handling
// the wide-glyph invariant: a wide glyph also claims (x+1, y) as a
// continuation cell, clearing whatever was there, and overwriting either
// half of an existing wide glyph clears both halves first.
func (s *Screen) PutChar(x, y int, r rune, fg, bg Color, style StyleAttrs) {
	s.clearWideAt(x, y)
	cell := MakeCell(r, fg, bg, style)
	w := runewidth.RuneWidth(r)
	if w == 2 {
		s.clearWideAt(x+1, y)
		cell = cell.withWide(true)
		s.PutCell(x, y, cell)
		s.PutCell(x+1, y, cell.asContinuation())
	} else {
		s.PutCell(x, y, cell)
	}
}

// clearWideAt removes a wide glyph occupying (x,y), whichever half that
// is, so no orphaned continuation marker can remain (§8).
func (s *Screen) clearWideAt(x, y int) {
	cur := s.GetCell(x, y)
	if cur.IsWide() {
		s.logical.SetCellAt(x, y, Cell{})
		s.logical.SetCellAt(x+1, y, Cell{})
		s.markDirty()
	} else if cur.IsContinuation() {
		s.logical.SetCellAt(x-1, y, Cell{})
		s.logical.SetCellAt(x, y, Cell{})
		s.markDirty()
	}
}

// PutString writes each rune of str starting at (x, y), advancing by each
// rune's width.
func (s *Screen) PutString(x, y int, str string, fg, bg Color, style StyleAttrs) {
	cx := x
	for _, r := range str {
		s.PutChar(cx, y, r, fg, bg, style)
		cx += runewidth.RuneWidth(r)
	}
}

// FillRect fills rect (clipped) with cell.
func (s *Screen) FillRect(rect Rect, cell Cell) {
	rect = rect.Intersect(s.clip())
	s.logical.FillRect(rect, cell)
	s.markDirty()
}

// ScrollUp scrolls region (clipped) up by n rows.
func (s *Screen) ScrollUp(region Rect, n int) {
	s.logical.ScrollUp(region.Intersect(s.clip()), n)
	s.markDirty()
}

// ScrollDown scrolls region (clipped) down by n rows.
func (s *Screen) ScrollDown(region Rect, n int) {
	s.logical.ScrollDown(region.Intersect(s.clip()), n)
	s.markDirty()
}

// SetCursor updates the logical cursor state.
func (s *Screen) SetCursor(x, y int, visible bool) {
	s.cursor = Cursor{X: x, Y: y, Visible: visible, Shape: s.cursor.Shape}
	s.markDirty()
}

// SetCursorShape updates just the cursor's shape.
func (s *Screen) SetCursorShape(shape CursorShape) {
	s.cursor.Shape = shape
	s.markDirty()
}

// Clear blanks the entire logical grid (subject to the current clip).
func (s *Screen) Clear() {
	s.FillRect(Rect{W: s.Cols(), H: s.Rows()}, Cell{})
}

// Resize changes both grids' dimensions. The physical grid is blanked so
// the next flush redraws everything against the new size - a resize is
// rare enough that a full repaint is the simplest correct behavior.
func (s *Screen) Resize(cols, rows int) {
	s.logical.Resize(cols, rows)
	s.physical = NewCanvas(cols, rows)
	s.clips = []Rect{{W: cols, H: rows}}
	s.markDirty()
}

// Flush walks the logical grid against the physical grid a row at a time,
// coalescing contiguous runs of changed cells that share identical
// display attributes into a single sink.WriteRun call, then copies
// logical into physical. If nothing changed since the last flush, sink is
// never called - this is what makes a double flush with no intervening
// write emit zero bytes (§8).
func (s *Screen) Flush(sink IScreenSink) {
	if !s.dirty {
		return
	}
	lastEmitX, lastEmitY := -2, -2
	for y := 0; y < s.Rows(); y++ {
		lrow := s.logical.Line(y)
		prow := s.physical.Line(y)
		x := 0
		for x < s.Cols() {
			if lrow[x].Equal(prow[x]) {
				x++
				continue
			}
			runStart := x
			fg, bg, style := lrow[x].ForegroundColor(), lrow[x].BackgroundColor(), lrow[x].Style()
			for x < s.Cols() && !lrow[x].Equal(prow[x]) &&
				lrow[x].ForegroundColor() == fg && lrow[x].BackgroundColor() == bg && lrow[x].Style() == style {
				x++
			}
			if runStart != lastEmitX || y != lastEmitY {
				sink.MoveCursor(runStart, y)
			}
			run := append([]Cell(nil), lrow[runStart:x]...)
			sink.WriteRun(runStart, y, run)
			lastEmitX, lastEmitY = x, y
		}
		copy(prow, lrow)
	}
	sink.SetCursor(s.cursor)
	s.dirty = false
}

//======================================================================

// MultiScreen fans every mutation out to a list of child Screens, keeping
// them all in identical logical state - used by MultiBackend so that N
// physical devices show the same UI (§4.1 "multi-screen").
type MultiScreen struct {
	*Screen
	children []*Screen
}

// NewMultiScreen returns a MultiScreen of the given size with the supplied
// children attached; children are resized to match if necessary.
func NewMultiScreen(cols, rows int, children ...*Screen) *MultiScreen {
	for _, c := range children {
		c.Resize(cols, rows)
	}
	return &MultiScreen{Screen: NewScreen(cols, rows), children: children}
}

// FlushAll flushes the primary screen's diff into every child screen (by
// copying the same writes) and then flushes each child to its own sink.
// Each child keeps an independent physical grid, so a child that joins
// late still receives a full repaint on its first flush.
func (m *MultiScreen) FlushAll(sinks []IScreenSink) {
	for y := 0; y < m.Rows(); y++ {
		line := m.logical.Line(y)
		for _, c := range m.children {
			c.SetLineFast(y, line)
		}
	}
	for i, c := range m.children {
		if i < len(sinks) && sinks[i] != nil {
			c.Flush(sinks[i])
		}
	}
	m.dirty = false
}

// SetLineFast overwrites a logical row directly and marks the screen
// dirty - used internally by MultiScreen fan-out so every child mirrors
// the parent's exact row contents.
func (s *Screen) SetLineFast(y int, line []Cell) {
	s.logical.SetLine(y, line)
	s.markDirty()
}

//======================================================================

// NestedScreen exposes a sub-rectangle of an outer Screen as if it were a
// standalone Screen - used to render one Application inside another's
// Window (§4.2 "window-as-backend").
type NestedScreen struct {
	outer  *Screen
	offset Rect // offset.X/Y is the origin in outer coords; W/H is this screen's size
}

// NewNestedScreen returns a NestedScreen that maps (0,0)..(w,h) onto
// outer's rectangle starting at (x,y).
func NewNestedScreen(outer *Screen, x, y, w, h int) *NestedScreen {
	return &NestedScreen{outer: outer, offset: Rect{X: x, Y: y, W: w, H: h}}
}

func (n *NestedScreen) Cols() int { return n.offset.W }
func (n *NestedScreen) Rows() int { return n.offset.H }

func (n *NestedScreen) PutCell(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= n.offset.W || y >= n.offset.H {
		return
	}
	n.outer.PutCell(n.offset.X+x, n.offset.Y+y, cell)
}

func (n *NestedScreen) GetCell(x, y int) Cell {
	return n.outer.GetCell(n.offset.X+x, n.offset.Y+y)
}
