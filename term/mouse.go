// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import (
	"fmt"

	"github.com/nilgiri/console"
)

//======================================================================

// EncodeMouse renders ev as the byte sequence xterm would send to the
// child process under the emulator's current tracking mode, or nil if
// the event shouldn't be reported at all: X10/normal/button-event/
// any-event tracking, in the legacy 8-bit encoding or SGR 1006 (sgr).
// The UTF-8 (1005) encoding is not produced; legacy values above 255 are
// clamped to 255.
// wasDragging indicates the same button was already down on the
// previous event, which xterm reports as motion-with-button-held.
func EncodeMouse(ev console.MouseEvent, mode console.MouseTrackingMode, sgr bool, wasDragging bool) []byte {
	if mode == console.MouseTrackingOff {
		return nil
	}

	btn := buttonIndex(ev.Button)

	switch ev.Action {
	case console.MousePress:
		code := btn
		if wasDragging {
			code += 32
		}
		return encodeReport(code, ev.X, ev.Y, sgr, true)
	case console.MouseRelease:
		if mode == console.MouseTrackingX10 {
			return nil // X10 mode never reports release
		}
		if sgr {
			return encodeReport(btn, ev.X, ev.Y, true, false)
		}
		return encodeReport(3, ev.X, ev.Y, false, true) // legacy encoding has no button id on release
	case console.MouseMotion:
		if mode != console.MouseTrackingButtonEvent && mode != console.MouseTrackingAnyEvent {
			return nil
		}
		if mode == console.MouseTrackingButtonEvent && ev.Button == console.MouseNone {
			return nil // button-event mode only reports motion while a button is held
		}
		code := 35 // no button, motion
		if ev.Button != console.MouseNone {
			code = btn + 32
		}
		return encodeReport(code, ev.X, ev.Y, sgr, true)
	}
	return nil
}

func buttonIndex(b console.MouseButton) int {
	switch b {
	case console.MouseButton1:
		return 0
	case console.MouseButton2:
		return 1
	case console.MouseButton3:
		return 2
	case console.MouseWheelUp:
		return 64
	case console.MouseWheelDown:
		return 65
	default:
		return 3
	}
}

// encodeReport renders one mouse report. press is ignored for the SGR
// encoding, which instead distinguishes press/release with a trailing
// 'M'/'m'; the legacy X10-derived encoding has no way to report release
// button identity so press is used to pick the control byte.
func encodeReport(code, x, y int, sgr, press bool) []byte {
	if sgr {
		final := byte('M')
		if !press {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", code, x+1, y+1, final))
	}
	cb := code + 32
	cx := x + 33
	cy := y + 33
	// Values above 255 can't be represented in the single-byte legacy
	// encoding; xterm clamps rather than wrapping, so this does too.
	if cb > 255 {
		cb = 255
	}
	if cx > 255 {
		cx = 255
	}
	if cy > 255 {
		cy = 255
	}
	return []byte{0x1b, '[', 'M', byte(cb), byte(cx), byte(cy)}
}
