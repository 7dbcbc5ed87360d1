// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nilgiri/console"
)

//======================================================================

// parseState is the parser's position in the ECMA-48 escape-sequence
// grammar (§2 "parser states"). Naming follows the states a VT100/xterm
// parser is conventionally described with.
type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCSIEntry
	stateOSCString
	stateNonCSIIntermediate // ESC ( / ESC ) / ESC # / ESC % pending a final byte
	stateDCS                // device control string, e.g. a sixel image (DCS q ... ST)
)

// Parser drives a Target (normally an *Emulator) from a raw input byte
// stream. It owns no terminal state itself beyond the bytes currently
// mid-sequence.
type Parser struct {
	Target *Emulator

	state parseState
	buf   []byte // CSI parameter bytes, OSC payload, or DCS payload accumulated so far
	nonCSI byte  // the intermediate byte (%, #, (, )) that led into stateNonCSIIntermediate
	csiIntermediate byte // the CSI intermediate byte (e.g. ' ' for DECSCUSR), if any

	utf8Buf []byte
}

// Feed processes every byte of p in order.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.feedByte(b)
	}
}

func (p *Parser) feedByte(b byte) {
	e := p.Target

	// C0 controls are honored in every state except mid-OSC/mid-DCS
	// string collection, matching xterm (a BEL always terminates an OSC
	// rather than being swallowed as a print, for instance).
	if p.state != stateOSCString && p.state != stateDCS {
		switch b {
		case 0x1b:
			p.state = stateEscape
			p.buf = p.buf[:0]
			return
		case 0x0d:
			e.CarriageReturn()
			return
		case 0x0a, 0x0b, 0x0c:
			e.LineFeed(false)
			return
		case 0x09:
			e.Tab()
			return
		case 0x08:
			e.MoveCursorRel(-1, 0)
			return
		case 0x07:
			return // bell: no visible effect in this emulator
		case 0x00, 0x7f:
			return
		}
	}

	switch p.state {
	case stateGround:
		p.print(b)
	case stateEscape:
		p.feedEscape(b)
	case stateCSIEntry:
		p.feedCSI(b)
	case stateOSCString:
		p.feedOSC(b)
	case stateNonCSIIntermediate:
		p.feedNonCSI(b)
	case stateDCS:
		p.feedDCS(b)
	}
}

// print decodes UTF-8 one rune at a time (§2: the stream is UTF-8, not
// byte-per-cell) and hands complete runes to the emulator.
func (p *Parser) print(b byte) {
	p.utf8Buf = append(p.utf8Buf, b)
	if !utf8.FullRune(p.utf8Buf) {
		if len(p.utf8Buf) >= utf8.UTFMax {
			p.utf8Buf = p.utf8Buf[:0] // malformed; resync
		}
		return
	}
	r, size := utf8.DecodeRune(p.utf8Buf)
	p.utf8Buf = p.utf8Buf[size:]
	if r == utf8.RuneError && size <= 1 {
		p.utf8Buf = p.utf8Buf[:0]
		return
	}
	p.Target.PutRune(r)
}

func (p *Parser) feedEscape(b byte) {
	switch {
	case b == '[':
		p.state = stateCSIEntry
		p.buf = p.buf[:0]
		p.csiIntermediate = 0
	case b == ']':
		p.state = stateOSCString
		p.buf = p.buf[:0]
	case b == 'P': // DCS
		p.state = stateDCS
		p.buf = p.buf[:0]
	case b == '%' || b == '#' || b == '(' || b == ')':
		p.state = stateNonCSIIntermediate
		p.nonCSI = b
	default:
		p.dispatchNonCSI(b, 0)
		p.state = stateGround
	}
}

func (p *Parser) feedNonCSI(b byte) {
	p.dispatchNonCSI(b, p.nonCSI)
	p.state = stateGround
}

func (p *Parser) dispatchNonCSI(final byte, intermediate byte) {
	e := p.Target
	switch {
	case intermediate == '#' && final == '8':
		e.EraseInDisplay(2) // DECALN approximated as a full clear; alignment pattern isn't load-bearing here
	case intermediate == '(' || intermediate == ')':
		e.charset.Define(g0g1(intermediate), charsetName(final))
	case intermediate == 0 && final == 'M':
		e.LineFeed(true)
	case intermediate == 0 && final == 'D':
		e.LineFeed(false)
	case intermediate == 0 && final == 'E':
		e.CarriageReturn()
		e.LineFeed(false)
	case intermediate == 0 && final == 'H':
		e.tabstops[clampIdx(e.cx, len(e.tabstops))] = true
	case intermediate == 0 && final == '7':
		e.SaveCursor()
	case intermediate == 0 && final == '8':
		e.RestoreCursor()
	case intermediate == 0 && final == 'c':
		out, cpw, cph := e.Out, e.CellPixelW, e.CellPixelH
		*e = *NewEmulator(e.cols, e.rows, e.Scrollback.cap)
		e.Out, e.CellPixelW, e.CellPixelH = out, cpw, cph
		e.parser.Target = e // NewEmulator's parser.Target pointed at the temporary it was built in
	}
}

func clampIdx(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func g0g1(intermediate byte) int {
	if intermediate == '(' {
		return 0
	}
	return 1
}

func charsetName(final byte) string {
	switch final {
	case '0':
		return "vt100"
	case 'U':
		return "ibmpc"
	case 'K':
		return "user"
	default:
		return "default"
	}
}

//======================================================================
// OSC (operating system command): title-setting (0/1/2) and iTerm2 inline
// images (1337) are acted on; any other OSC payload (e.g. 4 palette-set,
// 52 clipboard) is collected and discarded once terminated.

func (p *Parser) feedOSC(b byte) {
	if b == 0x07 || (b == '\\' && len(p.buf) > 0 && p.buf[len(p.buf)-1] == 0x1b) {
		payload := p.buf
		if b == '\\' {
			payload = payload[:len(payload)-1]
		}
		p.finishOSC(payload)
		p.state = stateGround
		return
	}
	p.buf = append(p.buf, b)
}

func (p *Parser) finishOSC(payload []byte) {
	s := string(payload)
	switch {
	case strings.HasPrefix(s, ";"):
		p.Target.title = s[1:]
	case strings.HasPrefix(s, "0;") || strings.HasPrefix(s, "1;") || strings.HasPrefix(s, "2;"):
		p.Target.title = s[2:]
	case strings.HasPrefix(s, "1337;"):
		p.Target.handleITerm2(s[len("1337;"):])
	}
}

//======================================================================
// DCS (device control string): only sixel graphics (§2 "sixel image
// decoding") are interpreted; any other DCS payload is swallowed.

func (p *Parser) feedDCS(b byte) {
	if b == '\\' && len(p.buf) > 0 && p.buf[len(p.buf)-1] == 0x1b { // ESC '\\' (ST) terminates
		p.finishDCS(p.buf[:len(p.buf)-1])
		p.state = stateGround
		p.buf = p.buf[:0]
		return
	}
	p.buf = append(p.buf, b)
}

func (p *Parser) finishDCS(payload []byte) {
	// Skip the optional "P1;P2;P3" parameters in front of the 'q'.
	i := 0
	for i < len(payload) && ((payload[i] >= '0' && payload[i] <= '9') || payload[i] == ';') {
		i++
	}
	if i < len(payload) && payload[i] == 'q' {
		if tile, w, h, err := DecodeSixel(payload[i:]); err == nil {
			p.Target.PlaceTile(tile, w, h)
		}
	}
}

//======================================================================
// CSI: "ESC [ params intermediate final"

func (p *Parser) feedCSI(b byte) {
	if (b >= '0' && b <= '9') || b == ';' || b == '?' || b == '<' || b == '=' || b == '>' {
		p.buf = append(p.buf, b)
		return
	}
	if b >= 0x20 && b <= 0x2f { // intermediate byte, e.g. the SP of "CSI Ps SP q" (DECSCUSR)
		p.csiIntermediate = b
		return
	}
	p.dispatchCSI(b)
	p.state = stateGround
}

func (p *Parser) dispatchCSI(final byte) {
	qmark := len(p.buf) > 0 && p.buf[0] == '?'
	body := p.buf
	if qmark {
		body = body[1:]
	}
	args := parseCSIArgs(body)
	e := p.Target

	arg := func(i, def int) int {
		if i < len(args) && args[i] != 0 {
			return args[i]
		}
		if i < len(args) {
			return args[i]
		}
		return def
	}

	switch final {
	case 'A':
		e.MoveCursorRel(0, -arg(0, 1))
	case 'B':
		e.MoveCursorRel(0, arg(0, 1))
	case 'C':
		e.MoveCursorRel(arg(0, 1), 0)
	case 'D':
		e.MoveCursorRel(-arg(0, 1), 0)
	case 'H', 'f':
		e.MoveCursorTo(arg(1, 1)-1, arg(0, 1)-1)
	case 'J':
		e.EraseInDisplay(arg(0, 0))
	case 'K':
		e.EraseInLine(arg(0, 0))
	case 'L':
		e.InsertLines(arg(0, 1))
	case 'M':
		e.DeleteLines(arg(0, 1))
	case 'P':
		e.DeleteChars(arg(0, 1))
	case '@':
		e.InsertChars(arg(0, 1))
	case 'X':
		e.EraseChars(arg(0, 1))
	case 'S':
		e.scrollRegion(true, arg(0, 1))
	case 'T':
		e.scrollRegion(false, arg(0, 1))
	case 'g':
		e.ClearTabstop(arg(0, 0) == 3)
	case 'm':
		e.SetSGR(args)
	case 'r':
		e.SetScrollRegion(arg(0, 0), arg(1, 0))
	case 'n':
		e.DeviceStatusReport(arg(0, 0))
	case 'c':
		e.DeviceAttributes(qmark)
	case 'h':
		for _, m := range args {
			e.SetMode(m, qmark, false)
		}
	case 'l':
		for _, m := range args {
			e.SetMode(m, qmark, true)
		}
	case 'q':
		if p.csiIntermediate == ' ' { // DECSCUSR
			e.SetCursorShape(decscusrShape(arg(0, 0)))
		}
	}
}

// decscusrShape maps a DECSCUSR Ps argument to a cursor shape; blink vs.
// steady variants (odd/even Ps) aren't distinguished since Screen.Cursor
// only models shape, not blink.
func decscusrShape(ps int) console.CursorShape {
	switch ps {
	case 3, 4:
		return console.CursorUnderline
	case 5, 6:
		return console.CursorBar
	default:
		return console.CursorBlock
	}
}

func parseCSIArgs(body []byte) []int {
	if len(body) == 0 {
		return nil
	}
	parts := strings.Split(string(body), ";")
	args := make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			args = append(args, 0)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			args = append(args, 0)
			continue
		}
		args = append(args, n)
	}
	return args
}
