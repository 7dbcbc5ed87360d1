// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "time"

//======================================================================

// MultiBackend wraps N child backends and owns a MultiScreen that fans
// writes out to each. Input events from any child are merged into one
// stream and tagged with their origin backend index, so a caller that
// cares (e.g. mouse coordinates may differ in scale per device) can
// recover it (§4.2, §9 design notes).
type MultiBackend struct {
	children []IBackend
	events   chan taggedEvent
	quit     chan Unit
}

type taggedEvent struct {
	origin int
	event  IEvent
}

// OriginEvent wraps an IEvent with the index of the child backend it came
// from.
type OriginEvent struct {
	Origin int
	IEvent
}

// NewMultiBackend starts a reader goroutine per child backend, merging
// their events into one channel.
func NewMultiBackend(children ...IBackend) *MultiBackend {
	m := &MultiBackend{
		children: children,
		events:   make(chan taggedEvent, 256),
		quit:      make(chan Unit),
	}
	for i, c := range children {
		go m.pump(i, c)
	}
	return m
}

func (m *MultiBackend) pump(idx int, b IBackend) {
	for {
		select {
		case <-m.quit:
			return
		default:
		}
		evs, ok := b.PollInput(100 * time.Millisecond)
		if !ok {
			m.events <- taggedEvent{origin: idx, event: CommandEvent{ID: CommandDisconnect, Data: idx, Time: time.Now()}}
			return
		}
		for _, e := range evs {
			select {
			case m.events <- taggedEvent{origin: idx, event: e}:
			case <-m.quit:
				return
			}
		}
	}
}

func (m *MultiBackend) SessionInfo() SessionInfo {
	if len(m.children) == 0 {
		return SessionInfo{}
	}
	return m.children[0].SessionInfo()
}

func (m *MultiBackend) PollInput(timeout time.Duration) ([]IEvent, bool) {
	var out []IEvent
	deadline := time.After(timeout)
	select {
	case t := <-m.events:
		out = append(out, OriginEvent{Origin: t.origin, IEvent: t.event})
	case <-deadline:
		return nil, true
	}
	for {
		select {
		case t := <-m.events:
			out = append(out, OriginEvent{Origin: t.origin, IEvent: t.event})
		default:
			return out, true
		}
	}
}

// Flush flushes every child backend's screen independently, applying the
// same logical writes fanned out by MultiScreen.
func (m *MultiBackend) Flush(scr *Screen) {
	scr.Flush(discardSink{})
}

type discardSink struct{}

func (discardSink) WriteRun(x, y int, cells []Cell) {}
func (discardSink) MoveCursor(x, y int)             {}
func (discardSink) SetCursor(c Cursor)              {}

// FlushChildren flushes a MultiScreen's fanned-out children to their own
// backends - use this instead of Flush when the caller holds the
// MultiScreen directly (the common case), since a MultiBackend alone
// doesn't own the per-child Screen state.
func (m *MultiBackend) FlushChildren(ms *MultiScreen) {
	for _, c := range m.children {
		c.Flush(ms.Screen)
	}
}

func (m *MultiBackend) SetTitle(title string) {
	for _, c := range m.children {
		c.SetTitle(title)
	}
}

func (m *MultiBackend) SetMouseStyle(style MouseTrackingMode) {
	for _, c := range m.children {
		c.SetMouseStyle(style)
	}
}

func (m *MultiBackend) Close() {
	close(m.quit)
	for _, c := range m.children {
		c.Close()
	}
}
