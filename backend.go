// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "time"

//======================================================================

// SessionInfo describes the device a Backend is attached to.
type SessionInfo struct {
	Rows, Cols     int
	CellPixelW     int
	CellPixelH     int
	Username       string
	Language       string
}

// IBackend binds one Screen to one input source and one output sink
// (§4.2). Implementations: ECMA48Backend (a real terminal via tcell),
// MultiBackend (fans out to N children), NestedScreen-backed
// window-as-backend adapters built by callers that host one Application
// inside another's Window.
type IBackend interface {
	// SessionInfo reports static facts about the device.
	SessionInfo() SessionInfo
	// PollInput blocks up to timeout for the next batch of input events,
	// or returns immediately if any are already queued. ok is false if the
	// backend has disconnected.
	PollInput(timeout time.Duration) (events []IEvent, ok bool)
	// Flush applies scr's pending diff to the device.
	Flush(scr *Screen)
	// SetTitle sets the device's window/tab title, if it supports one.
	SetTitle(title string)
	// SetMouseStyle configures which mouse tracking the backend requests
	// from its device, if any.
	SetMouseStyle(style MouseTrackingMode)
	// Close releases the backend's resources. Idempotent.
	Close()
}

// MouseTrackingMode mirrors the tracking modes a backend can ask its
// device to report (§4.3, §6).
type MouseTrackingMode int

const (
	MouseTrackingOff MouseTrackingMode = iota
	MouseTrackingX10
	MouseTrackingNormal
	MouseTrackingButtonEvent
	MouseTrackingAnyEvent
)
