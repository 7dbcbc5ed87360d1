// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

//go:build !windows

package term

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

//======================================================================

// Session owns a child process attached to a pty master, feeding its
// output through an Emulator and carrying keyboard/mouse input back to
// it (§2 "embedded ... terminal emulator", §4.2 backend/process plumbing).
type Session struct {
	Cmd    *exec.Cmd
	master *os.File
	Emu    *Emulator
}

// StartSession launches command under a new pty sized cols x rows, wires
// its master fd as Emu.Out, and spawns a goroutine copying the pty's
// output into Emu. onExit, if non-nil, is called from that goroutine
// once the child's output stream closes.
func StartSession(command []string, env []string, cols, rows int, emu *Emulator, onExit func(error)) (*Session, error) {
	cmd := exec.Command(command[0], command[1:]...)
	if env != nil {
		cmd.Env = env
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setctty: true, Setsid: true}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, err
	}

	s := &Session{Cmd: cmd, master: master, Emu: emu}
	emu.Out = s

	go s.pump(onExit)

	return s, nil
}

func (s *Session) pump(onExit func(error)) {
	buf := make([]byte, 4096)
	for {
		n, err := s.master.Read(buf)
		if n > 0 {
			s.Emu.Write(buf[:n])
		}
		if err != nil {
			if onExit != nil {
				onExit(err)
			}
			return
		}
	}
}

// Write sends p to the child's stdin, implementing io.Writer so a
// Session can be assigned directly to Emulator.Out for DA/DSR/mouse
// replies as well as forwarded keystrokes.
func (s *Session) Write(p []byte) (int, error) {
	return s.master.Write(p)
}

// Resize updates both the pty's window size and the Emulator's own
// notion of the screen size.
func (s *Session) Resize(cols, rows int) error {
	s.Emu.Resize(cols, rows)
	return pty.Setsize(s.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Close terminates the child process and releases the pty master.
func (s *Session) Close() error {
	if s.Cmd.Process != nil {
		_ = s.Cmd.Process.Signal(syscall.SIGTERM)
	}
	return s.master.Close()
}
