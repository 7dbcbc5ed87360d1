// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"sort"
	"sync"
	"time"
)

//======================================================================

// TimerAction is run by the Application's consumer goroutine when a Timer
// comes due.
type TimerAction func(app IApp)

// Timer has a period, a one-shot/recurring flag, and an action. Timers
// are owned by a single Application and kept in a TimerWheel sorted by
// next-due time.
type Timer struct {
	Period    time.Duration
	Recurring bool
	Action    TimerAction

	next    time.Time
	stopped bool
}

// Next returns the time this timer is next due to fire.
func (t *Timer) Next() time.Time { return t.next }

// Stop prevents this timer from firing again. Safe to call from any
// thread; it only flips a flag the TimerWheel checks.
func (t *Timer) Stop() {
	t.stopped = true
}

//======================================================================

// TimerWheel is a sorted set of Timers, kept ordered by next-due time so
// the Reader's poll timeout can be clamped to the nearest deadline without
// scanning the whole set on every iteration. Recurring timers reschedule
// themselves to "now + period" when they fire - this is drift-tolerant:
// if the consumer loop was busy and a tick was missed, it is never made
// up, per the spec's explicit mandate (§9 Open Questions).
type TimerWheel struct {
	mu     sync.Mutex
	timers []*Timer
}

// NewTimerWheel returns an empty TimerWheel.
func NewTimerWheel() *TimerWheel {
	return &TimerWheel{}
}

// Add schedules t to first fire after t.Period from now, inserting it in
// sorted order.
func (w *TimerWheel) Add(t *Timer) *Timer {
	w.mu.Lock()
	defer w.mu.Unlock()
	t.next = time.Now().Add(t.Period)
	w.insert(t)
	return t
}

func (w *TimerWheel) insert(t *Timer) {
	i := sort.Search(len(w.timers), func(i int) bool {
		return w.timers[i].next.After(t.next)
	})
	w.timers = append(w.timers, nil)
	copy(w.timers[i+1:], w.timers[i:])
	w.timers[i] = t
}

// NextDeadline returns the time the soonest live timer is due, and
// whether any timer exists at all. The Reader uses this to clamp its
// poll_input timeout (§4.4).
func (w *TimerWheel) NextDeadline() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.timers) > 0 && w.timers[0].stopped {
		w.timers = w.timers[1:]
	}
	if len(w.timers) == 0 {
		return time.Time{}, false
	}
	return w.timers[0].next, true
}

// Due pops and returns every timer whose next-due time is <= now, in the
// order they are due (ties break in insertion order, since insert uses a
// stable position for equal deadlines). Recurring timers are
// re-registered for now+period before being returned.
func (w *TimerWheel) Due(now time.Time) []*Timer {
	w.mu.Lock()
	defer w.mu.Unlock()
	var due []*Timer
	i := 0
	for i < len(w.timers) && !w.timers[i].next.After(now) {
		i++
	}
	due, w.timers = w.timers[:i], w.timers[i:]
	live := due[:0]
	for _, t := range due {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.Recurring {
			t.next = now.Add(t.Period)
			w.insert(t)
		}
	}
	return live
}
