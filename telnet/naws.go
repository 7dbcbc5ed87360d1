// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package telnet

//======================================================================

// ParseNAWS decodes a NAWS subnegotiation payload (the bytes between
// "IAC SB NAWS" and "IAC SE", after any doubled 0xFF bytes have already
// been undone by the caller): four bytes, width high/low then height
// high/low, per RFC 1073.
func ParseNAWS(payload []byte) (cols, rows int, ok bool) {
	if len(payload) != 4 {
		return 0, 0, false
	}
	cols = int(payload[0])<<8 | int(payload[1])
	rows = int(payload[2])<<8 | int(payload[3])
	return cols, rows, true
}

// EncodeNAWS builds the IAC SB NAWS ... IAC SE subnegotiation a telnet
// client sends to report its window size, used by this package's tests
// to exercise ParseNAWS/Conn symmetrically (§8 "Telnet NAWS").
func EncodeNAWS(cols, rows int) []byte {
	b := []byte{IAC, SB, OptNAWS,
		byte(cols >> 8), byte(cols),
		byte(rows >> 8), byte(rows),
		IAC, SE,
	}
	return doubleIAC(b, 3, len(b)-2)
}

// doubleIAC escapes any IAC byte occurring strictly between the payload
// boundaries [start, end) (i.e. not the framing IAC SB / IAC SE bytes
// already placed at the edges) by doubling it, per RFC 854 ("within a
// subnegotiation ... any occurrence of IAC must be doubled").
func doubleIAC(b []byte, start, end int) []byte {
	out := append([]byte(nil), b[:start]...)
	for i := start; i < end; i++ {
		out = append(out, b[i])
		if b[i] == IAC {
			out = append(out, IAC)
		}
	}
	out = append(out, b[end:]...)
	return out
}
