// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "time"

//======================================================================

// Config holds every process-wide option read at startup (§6). It
// replaces the "read via a global/System.getProperty" anti-pattern the
// design notes call out: an Application takes a Config explicitly, and
// any code that needs one of these values later consults the struct it
// was given rather than a package-level global. All fields have sane
// zero-value-adjacent defaults; DefaultConfig returns a populated one.
type Config struct {
	CursorBlinkRate     time.Duration
	ScrollbackLines     int
	KeyRepeatThreshold  time.Duration
	FocusFollowsMouse   bool
	FontPath            string
	FontSize            int
	ImageOutputEnabled  bool
	DefaultMouseTracking MouseTrackingMode
	MenuOpacity         float64
	WindowBorderStyle   BorderStyle
}

// BorderStyle selects how Window borders are drawn.
type BorderStyle int

const (
	BorderSingle BorderStyle = iota
	BorderDouble
	BorderNone
)

// DefaultConfig returns the configuration a new Application uses unless
// overridden. Unknown options supplied elsewhere (e.g. parsed from a
// theme file) are ignored rather than rejected, per §6.
func DefaultConfig() Config {
	return Config{
		CursorBlinkRate:      530 * time.Millisecond,
		ScrollbackLines:      1000,
		KeyRepeatThreshold:   30 * time.Millisecond,
		FocusFollowsMouse:    false,
		FontSize:             14,
		ImageOutputEnabled:   true,
		DefaultMouseTracking: MouseTrackingNormal,
		MenuOpacity:          1.0,
		WindowBorderStyle:    BorderSingle,
	}
}
