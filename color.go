// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

//======================================================================

// ColorMode represents the color capability of the device a Screen is
// ultimately flushed to. The Screen and Cell model stay color-mode
// agnostic; a Backend consults the current ColorMode when it converts a
// Color into bytes.
type ColorMode int

const (
	ModeMonochrome ColorMode = iota
	Mode8Colors
	Mode16Colors
	Mode88Colors
	Mode256Colors
	Mode24BitColors
)

func (m ColorMode) String() string {
	switch m {
	case ModeMonochrome:
		return "monochrome"
	case Mode8Colors:
		return "8-color"
	case Mode16Colors:
		return "16-color"
	case Mode88Colors:
		return "88-color"
	case Mode256Colors:
		return "256-color"
	case Mode24BitColors:
		return "24-bit"
	default:
		return "unknown"
	}
}

//======================================================================

// ColorKind distinguishes the three ways a Color value can be populated.
type ColorKind uint8

const (
	// ColorKindNone means "no preference" - a Cell layered underneath
	// determines the color.
	ColorKindNone ColorKind = iota
	// ColorKindDefault means the device's configured default color.
	ColorKindDefault
	// ColorKindPalette means an index into a fixed palette (4-bit, 8-bit
	// or 256-color, depending on mode).
	ColorKindPalette
	// ColorKindRGB means a 24-bit true-color triple.
	ColorKindRGB
)

// Color is a device-independent color value. It can represent "no
// preference" (so lower layers in a composite show through), the
// device's default, a palette index, or a 24-bit RGB triple. Backends are
// responsible for translating a Color to whatever representation their
// device understands, consulting the current ColorMode.
type Color struct {
	Kind        ColorKind
	PaletteIdx  uint8
	R, G, B     uint8
}

// ColorNone expresses no color preference.
var ColorNone = Color{Kind: ColorKindNone}

// ColorDefault expresses the device's default color.
var ColorDefault = Color{Kind: ColorKindDefault}

// PaletteColor returns a Color that refers to a fixed palette index.
func PaletteColor(idx uint8) Color {
	return Color{Kind: ColorKindPalette, PaletteIdx: idx}
}

// RGBColor returns a Color carrying an explicit 24-bit RGB triple.
func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorKindRGB, R: r, G: g, B: b}
}

func (c Color) String() string {
	switch c.Kind {
	case ColorKindNone:
		return "none"
	case ColorKindDefault:
		return "default"
	case ColorKindPalette:
		return fmt.Sprintf("palette(%d)", c.PaletteIdx)
	case ColorKindRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	default:
		return "invalid"
	}
}

// IsNone reports whether the color declares no preference.
func (c Color) IsNone() bool {
	return c.Kind == ColorKindNone
}

//======================================================================

// palette16 and palette256 give the standard xterm RGB values for the
// first 16 and 256 palette slots, used when a true-color value must be
// quantized down for a lower ColorMode backend.
var palette16 = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

var colorCache *lru.Cache[uint32, uint8]

func init() {
	colorCache, _ = lru.New[uint32, uint8](4096)
}

// QuantizeRGB reduces an RGB triple down to the closest palette index for
// the given ColorMode, using perceptual (CIE76) distance in Lab space via
// go-colorful. Results are memoized in an LRU cache since the same UI
// colors recur across nearly every flush.
func QuantizeRGB(r, g, b uint8, mode ColorMode) uint8 {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b) | uint32(mode)<<24
	if v, ok := colorCache.Get(key); ok {
		return v
	}
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	n := 16
	switch mode {
	case Mode256Colors, Mode24BitColors:
		n = 256
	case Mode88Colors:
		n = 88
	case Mode16Colors:
		n = 16
	default:
		n = 8
	}
	best := uint8(0)
	bestDist := -1.0
	for i := 0; i < n; i++ {
		rr, gg, bb := paletteRGB(i)
		cand := colorful.Color{R: float64(rr) / 255, G: float64(gg) / 255, B: float64(bb) / 255}
		d := target.DistanceLab(cand)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = uint8(i)
		}
	}
	colorCache.Add(key, best)
	return best
}

// paletteRGB returns the RGB triple for a standard xterm 256-color palette
// slot: 0-15 are the named ANSI colors, 16-231 are a 6x6x6 color cube, and
// 232-255 are a 24-step grayscale ramp.
func paletteRGB(i int) (uint8, uint8, uint8) {
	if i < 16 {
		c := palette16[i]
		return c[0], c[1], c[2]
	}
	if i < 232 {
		i -= 16
		r := i / 36
		g := (i / 6) % 6
		b := i % 6
		scale := func(v int) uint8 {
			if v == 0 {
				return 0
			}
			return uint8(55 + v*40)
		}
		return scale(r), scale(g), scale(b)
	}
	v := uint8(8 + (i-232)*10)
	return v, v, v
}
