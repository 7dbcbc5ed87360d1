// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/nilgiri/console"
)

//======================================================================

// Modes holds the terminal's boolean DEC private / ANSI modes (§2 "DECSET/
// DECRST modes"). Grounded on gowid's term_canvas.go Modes, trimmed to
// what this package implements.
type Modes struct {
	Insert          bool // IRM, ANSI mode 4
	AutoWrap        bool // DECAWM, mode ?7 (default on)
	AppCursorKeys    bool // DECCKM, mode ?1
	CursorVisible   bool // DECTCEM, mode ?25 (default on)
	OriginMode      bool // DECOM, mode ?6
	ReverseVideo    bool // DECSCNM, mode ?5
	BracketedPaste  bool // mode ?2004
	AlternateScreen bool // mode ?1049
	MouseTracking   console.MouseTrackingMode
	MouseSGR        bool // mode ?1006
}

//======================================================================

// Emulator is an ECMA-48/VT100 terminal: a console.Canvas it paints into
// (plus an alternate-screen buddy for mode 1049), cursor/SGR/scroll-region
// state, a scrollback ring, and a Parser (parser.go) feeding it bytes. Out
// is where responses (DA, DSR, mouse reports) are written back - normally
// the pty master the emulator's own output came from.
type Emulator struct {
	primary   *console.Canvas
	alternate *console.Canvas
	active    *console.Canvas // == primary or alternate
	usingAlt  bool

	cols, rows int

	cx, cy      int
	pendingWrap bool // deferred autowrap: set after writing the last column, consumed by the next printable rune

	savedCX, savedCY     int
	savedFg, savedBg     console.Color
	savedStyle           console.StyleAttrs
	scrollTop, scrollBot int // inclusive row range the scrolling region covers

	fg, bg console.Color
	style  console.StyleAttrs

	charset  *Charset
	tabstops []bool

	Modes Modes
	Scrollback *scrollback

	lastMouseButton console.MouseButton
	wasDragging     bool

	cursorShape console.CursorShape

	title string

	// CellPixelW/CellPixelH give the pixel footprint of one screen cell,
	// used to tile a decoded sixel/iTerm2 image (sixel.go); 0 means use
	// the package defaults.
	CellPixelW, CellPixelH int

	Out io.Writer

	parser *Parser // persists across Write calls so a sequence split across two reads isn't corrupted
}

// Title returns the terminal title last set via an OSC 0/1/2 sequence.
func (e *Emulator) Title() string { return e.title }

// NewEmulator returns an Emulator of the given size with scrollbackLines
// of history capacity.
func NewEmulator(cols, rows, scrollbackLines int) *Emulator {
	e := &Emulator{
		primary:    console.NewCanvas(cols, rows),
		alternate:  console.NewCanvas(cols, rows),
		cols:       cols,
		rows:       rows,
		fg:         console.ColorDefault,
		bg:         console.ColorDefault,
		charset:    NewCharset(),
		Scrollback: newScrollback(scrollbackLines),
	}
	e.active = e.primary
	e.Modes.AutoWrap = true
	e.Modes.CursorVisible = true
	e.scrollTop, e.scrollBot = 0, rows-1
	e.initTabstops()
	e.parser = &Parser{Target: e}
	return e
}

func (e *Emulator) initTabstops() {
	e.tabstops = make([]bool, e.cols)
	for x := 0; x < e.cols; x += 8 {
		e.tabstops[x] = true
	}
}

// Canvas returns the currently visible screen (primary or alternate).
func (e *Emulator) Canvas() *console.Canvas { return e.active }

func (e *Emulator) Cols() int { return e.cols }
func (e *Emulator) Rows() int { return e.rows }

// Cursor returns the emulator's logical cursor position and visibility.
func (e *Emulator) Cursor() (x, y int, visible bool) {
	return e.cx, e.cy, e.Modes.CursorVisible
}

// CursorShape returns the shape last set via DECSCUSR (CursorBlock by
// default).
func (e *Emulator) CursorShape() console.CursorShape { return e.cursorShape }

// SetCursorShape implements DECSCUSR (CSI Ps SP q).
func (e *Emulator) SetCursorShape(shape console.CursorShape) { e.cursorShape = shape }

// Write feeds p through the emulator's parser, mutating its screen. The
// parser persists across calls so a multi-byte rune, escape, or CSI
// sequence split across two Write calls (as happens at pty read-buffer
// boundaries) parses correctly. It always consumes all of p.
func (e *Emulator) Write(p []byte) (int, error) {
	e.parser.Feed(p)
	return len(p), nil
}

// Resize changes the emulator's screen size, preserving the top-left
// region of both the primary and alternate buffers, and clamping the
// cursor and scrolling region to fit (§2 resize handling).
func (e *Emulator) Resize(cols, rows int) {
	e.primary.Resize(cols, rows)
	e.alternate.Resize(cols, rows)
	e.cols, e.rows = cols, rows
	if e.scrollBot >= rows {
		e.scrollBot = rows - 1
	}
	if e.scrollTop > e.scrollBot {
		e.scrollTop = 0
	}
	e.cx, e.cy = e.constrain(e.cx, e.cy, true)
	e.initTabstops()
}

//======================================================================
// Cursor movement

func (e *Emulator) constrain(x, y int, ignoreScrolling bool) (int, int) {
	if x < 0 {
		x = 0
	} else if x >= e.cols {
		x = e.cols - 1
	}
	top, bot := 0, e.rows-1
	if e.Modes.OriginMode && !ignoreScrolling {
		top, bot = e.scrollTop, e.scrollBot
	}
	if y < top {
		y = top
	} else if y > bot {
		y = bot
	}
	return x, y
}

// MoveCursorTo sets the absolute cursor position (CUP/HVP), honoring
// DECOM origin mode.
func (e *Emulator) MoveCursorTo(col, row int) {
	if e.Modes.OriginMode {
		row += e.scrollTop
	}
	e.cx, e.cy = e.constrain(col, row, false)
	e.pendingWrap = false
}

// MoveCursorRel moves the cursor by (dx, dy) from its current position,
// used for CUU/CUD/CUF/CUB.
func (e *Emulator) MoveCursorRel(dx, dy int) {
	e.cx, e.cy = e.constrain(e.cx+dx, e.cy+dy, false)
	e.pendingWrap = false
}

func (e *Emulator) CarriageReturn() {
	e.cx = 0
	e.pendingWrap = false
}

func (e *Emulator) Tab() {
	x := e.cx
	for x < e.cols-1 {
		x++
		if e.tabstops[x] {
			break
		}
	}
	e.cx = x
	e.pendingWrap = false
}

func (e *Emulator) ClearTabstop(all bool) {
	if all {
		for i := range e.tabstops {
			e.tabstops[i] = false
		}
		return
	}
	if e.cx < len(e.tabstops) {
		e.tabstops[e.cx] = false
	}
}

// LineFeed moves the cursor down one row (or up, if reverse), scrolling
// the scroll region when the cursor is already at its edge (§2 "DECSTBM
// scrolling region").
func (e *Emulator) LineFeed(reverse bool) {
	if reverse {
		if e.cy == e.scrollTop {
			e.scrollRegion(false, 1)
		} else if e.cy > 0 {
			e.cy--
		}
	} else {
		if e.cy == e.scrollBot {
			e.pushScrollback()
			e.scrollRegion(true, 1)
		} else if e.cy < e.rows-1 {
			e.cy++
		}
	}
}

// pushScrollback archives the top row of the scrolling region into
// history, but only when that region is the whole screen and we're on
// the primary buffer - scrolling a restricted region, or the alternate
// screen (full-screen apps like pagers), does not accumulate history.
func (e *Emulator) pushScrollback() {
	if e.usingAlt || e.scrollTop != 0 {
		return
	}
	row := append([]console.Cell(nil), e.active.Line(e.scrollTop)...)
	e.Scrollback.Push(row)
}

func (e *Emulator) scrollRegion(up bool, n int) {
	region := console.Rect{X: 0, Y: e.scrollTop, W: e.cols, H: e.scrollBot - e.scrollTop + 1}
	if up {
		e.active.ScrollUp(region, n)
	} else {
		e.active.ScrollDown(region, n)
	}
}

// SetScrollRegion implements DECSTBM: top/bottom are 1-based, inclusive;
// (0,0) restores the full-screen region.
func (e *Emulator) SetScrollRegion(top, bottom int) {
	if top == 0 {
		top = 1
	}
	if bottom == 0 {
		bottom = e.rows
	}
	if top < bottom && bottom <= e.rows {
		e.scrollTop, e.scrollBot = top-1, bottom-1
		e.MoveCursorTo(0, 0)
	}
}

func (e *Emulator) SaveCursor() {
	e.savedCX, e.savedCY = e.cx, e.cy
	e.savedFg, e.savedBg, e.savedStyle = e.fg, e.bg, e.style
}

func (e *Emulator) RestoreCursor() {
	e.cx, e.cy = e.constrain(e.savedCX, e.savedCY, true)
	e.fg, e.bg, e.style = e.savedFg, e.savedBg, e.savedStyle
}

//======================================================================
// Printing

// PutRune writes r at the cursor, applying the active charset mapping,
// current SGR state, insert mode, and autowrap (§2 "autowrap with
// pending-wrap flag": a wide-or-not write that lands in the final
// column defers the wrap decision to the *next* printable character,
// matching xterm so a character printed exactly in the last column
// doesn't immediately scroll an otherwise-empty next line into view).
func (e *Emulator) PutRune(r rune) {
	r = e.charset.ApplyMapping(r)
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
	}

	if e.pendingWrap {
		if e.Modes.AutoWrap {
			e.CarriageReturn()
			e.LineFeed(false)
		}
		e.pendingWrap = false
	}

	if e.Modes.Insert {
		e.insertCells(e.cx, e.cy, w)
	}

	cell := console.MakeCell(r, e.fg, e.bg, e.style)
	e.setCellWide(e.cx, e.cy, cell, w)

	if e.cx+w >= e.cols {
		e.cx = e.cols - 1
		e.pendingWrap = true
	} else {
		e.cx += w
	}
}

func (e *Emulator) setCellWide(x, y int, cell console.Cell, w int) {
	e.active.SetCellAt(x, y, cell)
	for i := 1; i < w; i++ {
		e.active.SetCellAt(x+i, y, console.Cell{})
	}
}

func (e *Emulator) insertCells(x, y, n int) {
	line := e.active.Line(y)
	if line == nil {
		return
	}
	for i := len(line) - 1; i >= x+n; i-- {
		line[i] = line[i-n]
	}
	for i := x; i < x+n && i < len(line); i++ {
		line[i] = console.Cell{}
	}
}

//======================================================================
// Erasing, inserting, deleting

func (e *Emulator) blank() console.Cell {
	return console.MakeCell(' ', e.fg, e.bg, console.StyleNone)
}

// EraseInLine implements CSI K: 0=cursor..end, 1=start..cursor, 2=whole line.
func (e *Emulator) EraseInLine(mode int) {
	y := e.cy
	switch mode {
	case 0:
		e.active.FillRect(console.Rect{X: e.cx, Y: y, W: e.cols - e.cx, H: 1}, e.blank())
	case 1:
		e.active.FillRect(console.Rect{X: 0, Y: y, W: e.cx + 1, H: 1}, e.blank())
	case 2:
		e.active.FillRect(console.Rect{X: 0, Y: y, W: e.cols, H: 1}, e.blank())
	}
}

// EraseInDisplay implements CSI J: 0=cursor..end, 1=start..cursor, 2=whole screen.
func (e *Emulator) EraseInDisplay(mode int) {
	switch mode {
	case 0:
		e.EraseInLine(0)
		e.active.FillRect(console.Rect{X: 0, Y: e.cy + 1, W: e.cols, H: e.rows - e.cy - 1}, e.blank())
	case 1:
		e.active.FillRect(console.Rect{X: 0, Y: 0, W: e.cols, H: e.cy}, e.blank())
		e.EraseInLine(1)
	case 2, 3:
		e.active.FillRect(console.Rect{X: 0, Y: 0, W: e.cols, H: e.rows}, e.blank())
	}
}

// InsertChars implements ICH: shifts n cells right of the cursor right,
// filling with blank.
func (e *Emulator) InsertChars(n int) {
	line := e.active.Line(e.cy)
	if line == nil {
		return
	}
	for i := len(line) - 1; i >= e.cx+n; i-- {
		line[i] = line[i-n]
	}
	for i := e.cx; i < e.cx+n && i < len(line); i++ {
		line[i] = e.blank()
	}
}

// DeleteChars implements DCH: shifts cells right of the cursor left by n.
func (e *Emulator) DeleteChars(n int) {
	line := e.active.Line(e.cy)
	if line == nil {
		return
	}
	for i := e.cx; i < len(line)-n; i++ {
		line[i] = line[i+n]
	}
	for i := len(line) - n; i < len(line); i++ {
		if i >= 0 {
			line[i] = e.blank()
		}
	}
}

// EraseChars implements ECH: blanks n cells starting at the cursor
// without shifting anything, unlike DeleteChars.
func (e *Emulator) EraseChars(n int) {
	line := e.active.Line(e.cy)
	if line == nil {
		return
	}
	for i := e.cx; i < e.cx+n && i < len(line); i++ {
		line[i] = e.blank()
	}
}

// InsertLines implements IL: shifts the scrolling region's rows at/below
// the cursor down by n.
func (e *Emulator) InsertLines(n int) {
	if e.cy < e.scrollTop || e.cy > e.scrollBot {
		return
	}
	region := console.Rect{X: 0, Y: e.cy, W: e.cols, H: e.scrollBot - e.cy + 1}
	e.active.ScrollDown(region, n)
}

// DeleteLines implements DL: shifts the scrolling region's rows at/below
// the cursor up by n.
func (e *Emulator) DeleteLines(n int) {
	if e.cy < e.scrollTop || e.cy > e.scrollBot {
		return
	}
	region := console.Rect{X: 0, Y: e.cy, W: e.cols, H: e.scrollBot - e.cy + 1}
	e.active.ScrollUp(region, n)
}

//======================================================================
// SGR, modes

func (e *Emulator) SetSGR(args []int) {
	e.fg, e.bg, e.style = applySGR(args, e.fg, e.bg, e.style)
}

// SetMode applies CSI h/l (reset=false means 'h' set, true means 'l'
// reset). qmark distinguishes ANSI modes from DEC private (?) modes.
func (e *Emulator) SetMode(mode int, qmark, reset bool) {
	on := !reset
	if qmark {
		switch mode {
		case 1:
			e.Modes.AppCursorKeys = on
		case 3: // DECCOLM, 80/132 columns - not resized here, just cleared (xterm clears on this mode)
			e.EraseInDisplay(2)
			e.MoveCursorTo(0, 0)
		case 5:
			e.Modes.ReverseVideo = on
		case 6:
			e.Modes.OriginMode = on
			e.MoveCursorTo(0, 0)
		case 7:
			e.Modes.AutoWrap = on
		case 25:
			e.Modes.CursorVisible = on
		case 1000:
			if on {
				e.Modes.MouseTracking = console.MouseTrackingNormal
			} else {
				e.Modes.MouseTracking = console.MouseTrackingOff
			}
		case 1002:
			if on {
				e.Modes.MouseTracking = console.MouseTrackingButtonEvent
			} else if e.Modes.MouseTracking == console.MouseTrackingButtonEvent {
				e.Modes.MouseTracking = console.MouseTrackingOff
			}
		case 1003:
			if on {
				e.Modes.MouseTracking = console.MouseTrackingAnyEvent
			} else if e.Modes.MouseTracking == console.MouseTrackingAnyEvent {
				e.Modes.MouseTracking = console.MouseTrackingOff
			}
		case 1006:
			e.Modes.MouseSGR = on
		case 2004:
			e.Modes.BracketedPaste = on
		case 1049:
			e.setAlternateScreen(on)
		}
	} else {
		switch mode {
		case 4:
			e.Modes.Insert = on
		}
	}
}

func (e *Emulator) setAlternateScreen(on bool) {
	if on == e.usingAlt {
		return
	}
	e.usingAlt = on
	if on {
		e.SaveCursor()
		e.active = e.alternate
		e.EraseInDisplay(2)
		e.MoveCursorTo(0, 0)
	} else {
		e.active = e.primary
		e.RestoreCursor()
	}
}

//======================================================================
// Reports

// DeviceStatusReport answers CSI n: mode 5 is "ok", mode 6 reports the
// cursor position (CPR).
func (e *Emulator) DeviceStatusReport(mode int) {
	switch mode {
	case 5:
		e.reply("\x1b[0n")
	case 6:
		e.reply(fmt.Sprintf("\x1b[%d;%dR", e.cy+1, e.cx+1))
	}
}

// DeviceAttributes answers CSI c (primary DA) as a basic VT102.
func (e *Emulator) DeviceAttributes(qmark bool) {
	if !qmark {
		e.reply("\x1b[?6c")
	}
}

func (e *Emulator) reply(s string) {
	if e.Out != nil {
		_, _ = e.Out.Write([]byte(s))
	}
}

// RecordMouseState tracks the last button pressed/released so EncodeMouse
// can tell a drag apart from a fresh press.
func (e *Emulator) RecordMouseState(ev console.MouseEvent) (wasDragging bool) {
	wasDragging = ev.Action == console.MouseMotion && e.lastMouseButton == ev.Button && ev.Button != console.MouseNone
	if ev.Action == console.MousePress {
		e.lastMouseButton = ev.Button
	} else if ev.Action == console.MouseRelease {
		e.lastMouseButton = console.MouseNone
	}
	return wasDragging
}
