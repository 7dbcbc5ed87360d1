// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "time"

//======================================================================

// NestedBackend projects one Application's Screen onto a rectangle of
// another Application's Screen, i.e. "window-as-backend" (§4.2). Its
// PollInput is fed by pushing translated events into its inbox rather
// than polling a device directly - the outer Application's event
// dispatch is responsible for routing input destined for the inner
// Window into Inbox().
type NestedBackend struct {
	nested *NestedScreen
	inbox  chan IEvent
	info   SessionInfo
}

// NewNestedBackend returns a NestedBackend that renders into a w x h
// rectangle of outer starting at (x, y).
func NewNestedBackend(outer *Screen, x, y, w, h int) *NestedBackend {
	return &NestedBackend{
		nested: NewNestedScreen(outer, x, y, w, h),
		inbox:  make(chan IEvent, 256),
		info:   SessionInfo{Cols: w, Rows: h},
	}
}

// Inbox returns the channel the owning Window should push translated
// input events into.
func (n *NestedBackend) Inbox() chan<- IEvent { return n.inbox }

func (n *NestedBackend) SessionInfo() SessionInfo { return n.info }

func (n *NestedBackend) PollInput(timeout time.Duration) ([]IEvent, bool) {
	select {
	case e := <-n.inbox:
		out := []IEvent{e}
		for {
			select {
			case e := <-n.inbox:
				out = append(out, e)
			default:
				return out, true
			}
		}
	case <-time.After(timeout):
		return nil, true
	}
}

// Flush copies scr's logical grid directly into the nested rectangle of
// the outer Screen; the outer Application's own Flush call is what
// actually reaches a device.
func (n *NestedBackend) Flush(scr *Screen) {
	for y := 0; y < scr.Rows() && y < n.nested.Rows(); y++ {
		for x := 0; x < scr.Cols() && x < n.nested.Cols(); x++ {
			n.nested.PutCell(x, y, scr.GetCell(x, y))
		}
	}
}

func (n *NestedBackend) SetTitle(title string)                  {}
func (n *NestedBackend) SetMouseStyle(style MouseTrackingMode)   {}
func (n *NestedBackend) Close()                                  { close(n.inbox) }
