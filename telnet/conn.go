// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package telnet

import (
	"bufio"
	"io"
)

//======================================================================

type connState int

const (
	stateData connState = iota
	stateIAC            // just saw IAC in the data stream
	stateCmd            // just saw IAC WILL/WONT/DO/DONT, awaiting the option byte
	stateSBOpt          // just saw IAC SB, awaiting the option byte
	stateSBData         // collecting a subnegotiation payload
	stateSBIAC          // inside a subnegotiation, just saw IAC
)

// Conn wraps a byte-oriented connection (normally a net.Conn) and speaks
// the server side of telnet option negotiation, consuming IAC commands
// transparently and delivering the cooked application byte stream to
// Read's caller (§4.2, §6 "Telnet server surface").
type Conn struct {
	rw  io.ReadWriter
	r   *bufio.Reader
	opt map[byte]*optionState

	binary bool

	state   connState
	cmd     byte // pending WILL/WONT/DO/DONT, valid in stateCmd
	sbOpt   byte
	sbBuf   []byte
	afterCR bool
	pending []byte // application bytes produced by one input byte but not yet delivered (CR LF -> two bytes)

	// OnResize is called whenever the client reports its window size via
	// NAWS, either during negotiation or later (a real terminal resize).
	OnResize func(cols, rows int)
	// OnTerminalType is called with the client's reported TERMINAL-TYPE.
	OnTerminalType func(name string)
	// OnEnviron is called with every variable the client reports via
	// NEW-ENVIRON, whatever its name.
	OnEnviron func(name, value string)
}

// NewConn wraps rw and sends the server's initial option offers: BINARY
// and SUPPRESS-GO-AHEAD both ways (8-bit-clean, no line-at-a-time
// buffering), ECHO off from the server (client stops echoing locally),
// and requests for TERMINAL-TYPE, NAWS, and NEW-ENVIRON from the client.
func NewConn(rw io.ReadWriter) *Conn {
	c := &Conn{
		rw:  rw,
		r:   bufio.NewReader(rw),
		opt: make(map[byte]*optionState),
	}
	c.negotiate()
	return c
}

func (c *Conn) state_(opt byte) *optionState {
	s, ok := c.opt[opt]
	if !ok {
		s = &optionState{}
		c.opt[opt] = s
	}
	return s
}

func (c *Conn) negotiate() {
	c.sendCommand(WILL, OptBinary)
	c.sendCommand(DO, OptBinary)
	c.sendCommand(WILL, OptSuppressGA)
	c.sendCommand(DO, OptSuppressGA)
	c.sendCommand(WILL, OptEcho)
	c.sendCommand(DO, OptTerminalType)
	c.sendCommand(DO, OptNAWS)
	c.sendCommand(DO, OptNewEnviron)
}

func (c *Conn) sendCommand(cmd, opt byte) {
	switch cmd {
	case WILL:
		c.state_(opt).weRequested = true
	case DO:
		c.state_(opt).theyRequested = true
	}
	c.rw.Write([]byte{IAC, cmd, opt})
}

// IsBinary reports whether BINARY mode is active.
func (c *Conn) IsBinary() bool { return c.binary }

// Read returns cooked application bytes from the client, having consumed
// and acted on any IAC command sequences found in the underlying stream.
// It blocks until at least one application byte is available or the
// underlying connection errs.
func (c *Conn) Read(p []byte) (int, error) {
	n := 0
	for n == 0 {
		for n < len(p) && len(c.pending) > 0 {
			p[n] = c.pending[0]
			c.pending = c.pending[1:]
			n++
		}
		if n > 0 {
			return n, nil
		}
		b, err := c.r.ReadByte()
		if err != nil {
			return n, err
		}
		if app, ok := c.feedByte(b); ok && n < len(p) {
			p[n] = app
			n++
		}
	}
	return n, nil
}

func (c *Conn) feedByte(b byte) (byte, bool) {
	switch c.state {
	case stateData:
		if b == IAC {
			c.state = stateIAC
			return 0, false
		}
		return c.applicationByte(b)

	case stateIAC:
		switch b {
		case IAC:
			c.state = stateData
			return c.applicationByte(IAC)
		case WILL, WONT, DO, DONT:
			c.cmd = b
			c.state = stateCmd
		case SB:
			c.state = stateSBOpt
		default:
			c.state = stateData // NOP/DM/BRK/IP/AO/AYT/EC/EL/GA: no payload, nothing to act on
		}
		return 0, false

	case stateCmd:
		c.handleNegotiation(c.cmd, b)
		c.state = stateData
		return 0, false

	case stateSBOpt:
		c.sbOpt = b
		c.sbBuf = c.sbBuf[:0]
		c.state = stateSBData
		return 0, false

	case stateSBData:
		if b == IAC {
			c.state = stateSBIAC
			return 0, false
		}
		c.sbBuf = append(c.sbBuf, b)
		return 0, false

	case stateSBIAC:
		if b == SE {
			c.finishSB()
			c.state = stateData
			return 0, false
		}
		if b == IAC {
			c.sbBuf = append(c.sbBuf, IAC)
			c.state = stateSBData
			return 0, false
		}
		// Malformed (IAC followed by neither SE nor escaped IAC): drop the
		// subnegotiation and resync on whatever command follows.
		c.state = stateData
		return 0, false
	}
	return 0, false
}

// handleNegotiation replies to a WILL/WONT/DO/DONT per this server's
// fixed policy: agree with every option it itself offered in negotiate,
// and refuse (DONT/WONT) anything else, since this server only speaks
// the six options listed in §6.
func (c *Conn) handleNegotiation(cmd, opt byte) {
	s := c.state_(opt)
	supported := opt == OptBinary || opt == OptSuppressGA || opt == OptEcho ||
		opt == OptTerminalType || opt == OptNAWS || opt == OptNewEnviron

	switch cmd {
	case WILL:
		if s.theyEnabled {
			return
		}
		if supported {
			s.theyEnabled = true
			if !s.theyRequested {
				c.rw.Write([]byte{IAC, DO, opt})
			}
			if opt == OptBinary {
				c.binary = true
			}
		} else if !s.theyRequested {
			c.rw.Write([]byte{IAC, DONT, opt})
		}
		s.theyRequested = false
	case WONT:
		s.theyEnabled = false
		s.theyRequested = false
		if opt == OptBinary {
			c.binary = false
		}
	case DO:
		if s.weEnabled {
			return
		}
		if supported {
			s.weEnabled = true
			if !s.weRequested {
				c.rw.Write([]byte{IAC, WILL, opt})
			}
		} else if !s.weRequested {
			c.rw.Write([]byte{IAC, WONT, opt})
		}
		s.weRequested = false
	case DONT:
		s.weEnabled = false
		s.weRequested = false
	}
}

func (c *Conn) finishSB() {
	opt := c.sbOpt
	payload := c.sbBuf
	c.sbBuf = nil

	switch opt {
	case OptNAWS:
		if cols, rows, ok := ParseNAWS(payload); ok && c.OnResize != nil {
			c.OnResize(cols, rows)
		}
	case OptTerminalType:
		if len(payload) > 1 && payload[0] == 0 { // IS
			if c.OnTerminalType != nil {
				c.OnTerminalType(string(payload[1:]))
			}
		}
	case OptNewEnviron:
		c.parseNewEnviron(payload)
	}
}

// parseNewEnviron decodes a NEW-ENVIRON IS subnegotiation (RFC 1572):
// alternating VAR/USERVAR markers (0/3) and VALUE markers (1) delimiting
// name/value pairs.
func (c *Conn) parseNewEnviron(payload []byte) {
	if len(payload) == 0 || payload[0] != 0 { // IS
		return
	}
	const (
		varMarker  byte = 0
		valMarker  byte = 1
		escMarker  byte = 2
		userMarker byte = 3
	)
	var name, val []byte
	inVal := false
	flush := func() {
		if len(name) > 0 && c.OnEnviron != nil {
			c.OnEnviron(string(name), string(val))
		}
		name, val = nil, nil
		inVal = false
	}
	for i := 1; i < len(payload); i++ {
		b := payload[i]
		switch b {
		case varMarker, userMarker:
			flush()
		case valMarker:
			inVal = true
		case escMarker:
			i++
			if i < len(payload) {
				if inVal {
					val = append(val, payload[i])
				} else {
					name = append(name, payload[i])
				}
			}
		default:
			if inVal {
				val = append(val, b)
			} else {
				name = append(name, b)
			}
		}
	}
	flush()
}

// applicationByte handles CR normalization for bytes outside a command
// sequence (§6/§8): in ASCII (non-BINARY) mode, a CR from the client is
// always followed by either LF or NUL. CR NUL decodes to a lone CR, the
// NUL swallowed; CR LF decodes to CR followed by LF, queued onto pending
// so a client that sends Enter as CR LF keeps its line feed instead of
// losing it. In BINARY mode bytes pass through unmodified.
func (c *Conn) applicationByte(b byte) (byte, bool) {
	if c.afterCR {
		c.afterCR = false
		if b == 0 {
			return '\r', true
		}
		if b == '\n' {
			c.pending = append(c.pending, '\n')
			return '\r', true
		}
		return b, true
	}
	if !c.binary && b == '\r' {
		c.afterCR = true
		return 0, false
	}
	return b, true
}

// WriteString writes s to the client, escaping IAC and, outside BINARY
// mode, expanding bare CR to "CR NUL" (§6: "bare CR is emitted as CR NUL
// and bare LF stays bare"); LF passes through unmodified.
func (c *Conn) WriteString(s string) (int, error) {
	return c.Write([]byte(s))
}

func (c *Conn) Write(p []byte) (int, error) {
	out := make([]byte, 0, len(p))
	for i, b := range p {
		switch {
		case b == IAC:
			out = append(out, IAC, IAC)
		case !c.binary && b == '\r' && (i+1 >= len(p) || p[i+1] != '\n'):
			out = append(out, '\r', 0)
		default:
			out = append(out, b)
		}
	}
	if _, err := c.rw.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
