// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import "time"

//======================================================================

// IEvent is implemented by every record that can be placed on the
// Application's event queue.
type IEvent interface {
	When() time.Time
}

// KeyMod is a bitmask of modifier keys held during a key or mouse event.
type KeyMod uint8

const (
	ModShift KeyMod = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Key identifies a single keyboard key, either a printable rune or a
// named key such as Up/F5/Enter.
type Key struct {
	Rune rune // valid when Name == KeyRune
	Name KeyName
	Mod  KeyMod
}

type KeyName int

const (
	KeyRune KeyName = iota // Key.Rune holds the printable character
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// KeyEvent is posted when a key is pressed on some Backend.
type KeyEvent struct {
	Key  Key
	Time time.Time
}

func (e KeyEvent) When() time.Time { return e.Time }

// MouseButton identifies which mouse button (or wheel direction) an event
// concerns.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseButton1
	MouseButton2
	MouseButton3
	MouseWheelUp
	MouseWheelDown
)

// MouseAction distinguishes press, release and drag/motion.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
)

// MouseEvent is posted on mouse activity on some Backend. X/Y are in the
// coordinate space of the Screen the event originated on.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Mod    KeyMod
	Time   time.Time
}

func (e MouseEvent) When() time.Time { return e.Time }

// ResizeEvent is posted when a Backend's underlying device changes size.
type ResizeEvent struct {
	Cols, Rows int
	Time       time.Time
}

func (e ResizeEvent) When() time.Time { return e.Time }

// CommandEvent carries an application-defined integer command, used for
// things like "backend disconnected" or a recovered widget panic. The
// Application does not route it through the widget tree: apart from
// CommandDisconnect, dispatch hands it to the unhandled-input handler.
type CommandEvent struct {
	ID   int
	Data interface{}
	Time time.Time
}

func (e CommandEvent) When() time.Time { return e.Time }

// Reserved command IDs, analogous to the spec's reserved menu IDs - values
// below 1024 are owned by this package.
const (
	CommandDisconnect = iota
	CommandExceptionDialog
)

// MenuEvent requests that menu ID be invoked, e.g. as a result of an
// accelerator keypress or item activation.
type MenuEvent struct {
	ID   int
	Time time.Time
}

func (e MenuEvent) When() time.Time { return e.Time }

// TimerFireEvent describes a Timer coming due. The Application does not
// create it: the consumer loop's afterBatch runs each due Timer's Action
// directly.
type TimerFireEvent struct {
	Timer *Timer
	Time  time.Time
}

func (e TimerFireEvent) When() time.Time { return e.Time }
