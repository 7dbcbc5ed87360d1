// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "fmt"

//======================================================================

// Canvas is a plain 2-D array of Cells: rows x cols. It underlies both the
// logical and physical grids of a Screen, and is also the private grid a
// terminal emulator mutates. Canvas has no notion of dirtiness or
// clipping; that belongs to Screen.
type Canvas struct {
	cols, rows int
	cells      []Cell
}

// NewCanvas returns a Canvas of the given size, every cell blank.
func NewCanvas(cols, rows int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
}

func (c *Canvas) Cols() int { return c.cols }
func (c *Canvas) Rows() int { return c.rows }

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.cols && y < c.rows
}

func (c *Canvas) idx(x, y int) int {
	return y*c.cols + x
}

// CellAt returns the cell at (x,y), or a blank cell if out of bounds.
func (c *Canvas) CellAt(x, y int) Cell {
	if !c.inBounds(x, y) {
		return Cell{}
	}
	return c.cells[c.idx(x, y)]
}

// SetCellAt writes a cell at (x,y). Out-of-bounds writes are silently
// dropped, per §7's clamp-don't-throw error policy.
func (c *Canvas) SetCellAt(x, y int, cell Cell) {
	if !c.inBounds(x, y) {
		return
	}
	c.cells[c.idx(x, y)] = cell
}

// Line returns a slice view onto row y - callers that mutate the returned
// slice mutate the canvas, so copy it first if that isn't wanted.
func (c *Canvas) Line(y int) []Cell {
	if y < 0 || y >= c.rows {
		return nil
	}
	start := c.idx(0, y)
	return c.cells[start : start+c.cols]
}

// SetLine overwrites row y with cells, truncating or blank-padding to fit.
func (c *Canvas) SetLine(y int, cells []Cell) {
	if y < 0 || y >= c.rows {
		return
	}
	dst := c.Line(y)
	n := copy(dst, cells)
	for i := n; i < len(dst); i++ {
		dst[i] = Cell{}
	}
}

// Duplicate returns a deep copy of the canvas.
func (c *Canvas) Duplicate() *Canvas {
	res := &Canvas{cols: c.cols, rows: c.rows, cells: make([]Cell, len(c.cells))}
	copy(res.cells, c.cells)
	return res
}

// Clear resets every cell to blank.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{}
	}
}

// Resize changes the canvas dimensions, preserving the top-left region
// that still fits; newly exposed cells are blank.
func (c *Canvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	n := NewCanvas(cols, rows)
	minRows := rows
	if c.rows < minRows {
		minRows = c.rows
	}
	minCols := cols
	if c.cols < minCols {
		minCols = c.cols
	}
	for y := 0; y < minRows; y++ {
		src := c.Line(y)
		copy(n.Line(y), src[:minCols])
	}
	*c = *n
}

// Rect is an (x, y, width, height) rectangle in some coordinate space.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersect returns the overlapping rectangle of r and o, with W/H zero if
// they don't overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := maxInt(r.X, o.X), maxInt(r.Y, o.Y)
	x1, y1 := minInt(r.Right(), o.Right()), minInt(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// FillRect writes cell into every position of rect, intersected with the
// canvas bounds.
func (c *Canvas) FillRect(rect Rect, cell Cell) {
	clipped := rect.Intersect(Rect{W: c.cols, H: c.rows})
	for y := clipped.Y; y < clipped.Bottom(); y++ {
		for x := clipped.X; x < clipped.Right(); x++ {
			c.SetCellAt(x, y, cell)
		}
	}
}

// ScrollUp shifts the rows of region up by n, discarding the top n rows
// and filling the bottom n rows with blank.
func (c *Canvas) ScrollUp(region Rect, n int) {
	c.scroll(region, n)
}

// ScrollDown shifts the rows of region down by n, discarding the bottom n
// rows and filling the top n rows with blank.
func (c *Canvas) ScrollDown(region Rect, n int) {
	c.scroll(region, -n)
}

// scroll shifts region's rows by delta (positive = up, negative = down).
func (c *Canvas) scroll(region Rect, delta int) {
	region = region.Intersect(Rect{W: c.cols, H: c.rows})
	if region.H <= 0 || delta == 0 {
		return
	}
	if delta > region.H {
		delta = region.H
	}
	if delta < -region.H {
		delta = -region.H
	}
	top, bottom := region.Y, region.Bottom()
	if delta > 0 {
		for y := top; y < bottom-delta; y++ {
			copy(c.Line(y)[region.X:region.Right()], c.Line(y+delta)[region.X:region.Right()])
		}
		for y := bottom - delta; y < bottom; y++ {
			c.FillRect(Rect{X: region.X, Y: y, W: region.W, H: 1}, Cell{})
		}
	} else {
		delta = -delta
		for y := bottom - 1; y >= top+delta; y-- {
			copy(c.Line(y)[region.X:region.Right()], c.Line(y-delta)[region.X:region.Right()])
		}
		for y := top; y < top+delta; y++ {
			c.FillRect(Rect{X: region.X, Y: y, W: region.W, H: 1}, Cell{})
		}
	}
}
