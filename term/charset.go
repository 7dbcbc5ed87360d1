// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

// Package term implements an embedded ECMA-48/VT100 terminal emulator: a
// byte-stream parser (parser.go) driving an Emulator (screen.go) that
// owns a console.Canvas, SGR state (sgr.go), a scrollback ring
// (scrollback.go), mouse reporting (mouse.go) and sixel/iTerm2 image
// decoding (sixel.go).
package term

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

//======================================================================

const (
	decSpecialChars    = "▮◆▒␉␌␍␊°±␤␋┘┐┌└┼⎺⎻─⎼⎽├┤┴┬│≤≥π≠£·"
	altDecSpecialChars = "_`abcdefghijklmnopqrstuvwxyz{|}~"
)

var charsetMapping = map[string]rune{
	"default": 0,
	"vt100":   '0',
	"ibmpc":   'U',
	"user":    'K',
}

// Charset tracks the active G0/G1 designation and whether SGR-based
// IBM PC (code page 437) line-drawing mapping is forced on, matching
// xterm's "altcharset" behavior.
type Charset struct {
	SgrMapping bool
	Active     int
	Current    rune
	Mapping    []string
}

// NewCharset returns a Charset with G0 and G1 both set to the ASCII
// default and G0 active.
func NewCharset() *Charset {
	c := &Charset{Mapping: []string{"default", "vt100"}}
	c.Activate(0)
	return c
}

// Activate selects G0 (g=0) or G1 (g=1) as the active graphic set.
func (c *Charset) Activate(g int) {
	c.Active = g
	if val, ok := charsetMapping[c.Mapping[g]]; ok {
		c.Current = val
	} else {
		c.Current = 0
	}
}

// Define assigns charset (one of "default", "vt100", "ibmpc", "user") to
// slot g (SCS: ESC ( / ESC )).
func (c *Charset) Define(g int, charset string) {
	c.Mapping[g] = charset
	c.Activate(c.Active)
}

// SetSgrIbmpc forces code-page-437 line-drawing mapping on, independent
// of the active G0/G1 designation. The SGR handler does not call it: SGR
// 11/12 are ignored by applySGR.
func (c *Charset) SetSgrIbmpc() { c.SgrMapping = true }

// ResetSgrIbmpc restores mapping to whatever G0/G1 currently designates.
func (c *Charset) ResetSgrIbmpc() {
	c.SgrMapping = false
	c.Activate(c.Active)
}

// ApplyMapping translates r through the active charset, if any mapping
// is in effect (VT100 line-drawing or IBM PC code page 437).
func (c *Charset) ApplyMapping(r rune) rune {
	if c.SgrMapping || c.Mapping[c.Active] == "ibmpc" {
		if r < 0x100 {
			return charmap.CodePage437.DecodeByte(byte(r))
		}
		return r
	}
	if c.Mapping[c.Active] == "vt100" {
		if pos := strings.IndexRune(altDecSpecialChars, r); pos >= 0 {
			return []rune(decSpecialChars)[pos]
		}
	}
	return r
}
