// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import "github.com/nilgiri/console"

//======================================================================

// applySGR folds CSI ... m parameters into fg/bg/style, matching
// xterm/ECMA-48 semantics: 16/88/256-color palette indices (38/48;5;N)
// and 24-bit RGB (38/48;2;R;G;B) are both accepted, and 0 resets
// everything (§2 "SGR including 256/24-bit color").
func applySGR(args []int, fg, bg console.Color, style console.StyleAttrs) (console.Color, console.Color, console.StyleAttrs) {
	if len(args) == 0 {
		args = []int{0}
	}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == 0:
			fg, bg = console.ColorDefault, console.ColorDefault
			style = console.StyleNone
		case a == 1:
			style = style.With(console.AttrBold, true)
		case a == 2:
			style = style.With(console.AttrDim, true)
		case a == 4:
			style = style.With(console.AttrUnderline, true)
		case a == 5:
			style = style.With(console.AttrBlink, true)
		case a == 7:
			style = style.With(console.AttrReverse, true)
		case a == 8:
			style = style.With(console.AttrProtected, true)
		case a == 22:
			style = style.With(console.AttrBold, false).With(console.AttrDim, false)
		case a == 24:
			style = style.With(console.AttrUnderline, false)
		case a == 25:
			style = style.With(console.AttrBlink, false)
		case a == 27:
			style = style.With(console.AttrReverse, false)
		case a == 28:
			style = style.With(console.AttrProtected, false)
		case 30 <= a && a <= 37:
			fg = console.PaletteColor(uint8(a - 30))
		case a == 38:
			var c console.Color
			c, i = parseExtendedColor(args, i)
			fg = c
		case a == 39:
			fg = console.ColorDefault
		case 40 <= a && a <= 47:
			bg = console.PaletteColor(uint8(a - 40))
		case a == 48:
			var c console.Color
			c, i = parseExtendedColor(args, i)
			bg = c
		case a == 49:
			bg = console.ColorDefault
		case 90 <= a && a <= 97:
			fg = console.PaletteColor(uint8(a-90) + 8)
		case 100 <= a && a <= 107:
			bg = console.PaletteColor(uint8(a-100) + 8)
		}
	}
	return fg, bg, style
}

// parseExtendedColor consumes the ";5;N" or ";2;R;G;B" tail following a
// 38/48 introducer starting at args[i+1], returning the decoded color and
// the new index to resume scanning from.
func parseExtendedColor(args []int, i int) (console.Color, int) {
	if i+2 < len(args) && args[i+1] == 5 {
		idx := args[i+2]
		if idx < 0 {
			idx = 0
		}
		if idx > 255 {
			idx = 255
		}
		return console.PaletteColor(uint8(idx)), i + 2
	}
	if i+4 < len(args) && args[i+1] == 2 {
		clamp := func(v int) uint8 {
			if v < 0 {
				return 0
			}
			if v > 255 {
				return 255
			}
			return uint8(v)
		}
		return console.RGBColor(clamp(args[i+2]), clamp(args[i+3]), clamp(args[i+4])), i + 4
	}
	return console.ColorDefault, i
}
