// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package term

import "github.com/nilgiri/console"

//======================================================================

// EncodeKey renders key as the byte sequence sent to the child process,
// following xterm's normal (non-application) cursor- and keypad-mode
// conventions (§2 "keyboard reporting (xterm function key conventions)").
// appCursor selects application mode for the cursor keys (DECCKM, set by
// CSI ?1h), which xterm's child programs expect during full-screen apps
// like editors and pagers.
func EncodeKey(key console.Key, appCursor bool) ([]byte, bool) {
	if key.Name == console.KeyRune {
		if key.Mod&console.ModCtrl != 0 {
			if b, ok := ctrlRune(key.Rune); ok {
				return []byte{b}, true
			}
		}
		if key.Mod&console.ModAlt != 0 {
			return append([]byte{0x1b}, string(key.Rune)...), true
		}
		return []byte(string(key.Rune)), true
	}

	ss3OrCSI := func(final byte) []byte {
		if appCursor {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}

	switch key.Name {
	case console.KeyEnter:
		return []byte{'\r'}, true
	case console.KeyEscape:
		return []byte{0x1b}, true
	case console.KeyTab:
		if key.Mod&console.ModShift != 0 {
			return []byte{0x1b, '[', 'Z'}, true
		}
		return []byte{'\t'}, true
	case console.KeyBackspace:
		return []byte{0x7f}, true
	case console.KeyUp:
		return ss3OrCSI('A'), true
	case console.KeyDown:
		return ss3OrCSI('B'), true
	case console.KeyRight:
		return ss3OrCSI('C'), true
	case console.KeyLeft:
		return ss3OrCSI('D'), true
	case console.KeyHome:
		return []byte{0x1b, '[', 'H'}, true
	case console.KeyEnd:
		return []byte{0x1b, '[', 'F'}, true
	case console.KeyPgUp:
		return []byte{0x1b, '[', '5', '~'}, true
	case console.KeyPgDn:
		return []byte{0x1b, '[', '6', '~'}, true
	case console.KeyInsert:
		return []byte{0x1b, '[', '2', '~'}, true
	case console.KeyDelete:
		return []byte{0x1b, '[', '3', '~'}, true
	case console.KeyF1:
		return []byte{0x1b, 'O', 'P'}, true
	case console.KeyF2:
		return []byte{0x1b, 'O', 'Q'}, true
	case console.KeyF3:
		return []byte{0x1b, 'O', 'R'}, true
	case console.KeyF4:
		return []byte{0x1b, 'O', 'S'}, true
	case console.KeyF5:
		return []byte{0x1b, '[', '1', '5', '~'}, true
	case console.KeyF6:
		return []byte{0x1b, '[', '1', '7', '~'}, true
	case console.KeyF7:
		return []byte{0x1b, '[', '1', '8', '~'}, true
	case console.KeyF8:
		return []byte{0x1b, '[', '1', '9', '~'}, true
	case console.KeyF9:
		return []byte{0x1b, '[', '2', '0', '~'}, true
	case console.KeyF10:
		return []byte{0x1b, '[', '2', '1', '~'}, true
	case console.KeyF11:
		return []byte{0x1b, '[', '2', '3', '~'}, true
	case console.KeyF12:
		return []byte{0x1b, '[', '2', '4', '~'}, true
	}
	return nil, false
}

// ctrlRune maps a ctrl-modified printable rune to its C0 control byte
// (ctrl-A -> 0x01 .. ctrl-Z -> 0x1a), the convention every termios-based
// tty driver assumes.
func ctrlRune(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	case r == '[':
		return 0x1b, true
	case r == '\\':
		return 0x1c, true
	case r == ']':
		return 0x1d, true
	}
	return 0, false
}
