// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

//======================================================================

// IMenuCompatible is implemented by anything Application can register as
// an overlaying menu layer (§4.6). Defined here, rather than imported
// from package menu, so that console has no dependency on menu and the
// two packages don't cycle.
type IMenuCompatible interface {
	IWidget
	Open(app IApp)
	Close(app IApp)
	IsOpen() bool
}

// IUnhandledInput handles input no widget, menu or accelerator claimed.
type IUnhandledInput interface {
	UnhandledInput(app IApp, ev IEvent) bool
}

type UnhandledInputFunc func(app IApp, ev IEvent) bool

func (f UnhandledInputFunc) UnhandledInput(app IApp, ev IEvent) bool { return f(app, ev) }

// IApp is the interface of the Application passed to every widget during
// Draw/HandleKey/HandleMouse (§4.4, §4.5, §4.6). It is the sole channel
// through which widget code can terminate the app, post a deferred task,
// register a menu, or bind an accelerator.
type IApp interface {
	Quit()
	Repaint()
	Run(f func(IApp)) error
	Config() Config
	WindowManager() *WindowManager
	Screen() *Screen
	Backend() IBackend
	RegisterMenu(m IMenuCompatible)
	UnregisterMenu(m IMenuCompatible) bool
	BindAccelerator(key Key, menuID int)
	OnMenu(id int, f func(app IApp))
	DispatchMenu(id int)
	Log() log.FieldLogger
}

//======================================================================

// Application owns the primary Backend, the ordered set of Windows, the
// accelerator table, the timer wheel, and the event-dispatch loop (§4.4).
// Reader and Consumer are the two cooperating goroutines described in §5:
// Reader blocks in backend.PollInput and feeds the events channel;
// Consumer drains it, runs due timers and invoke_later tasks, and
// flushes the Screen if anything changed. No other goroutine is allowed
// to touch the widget tree directly - they may only post an event or call
// Run (§5).
type Application struct {
	backend IBackend
	screen  *Screen
	wm      *WindowManager
	config  Config
	timers  *TimerWheel
	log     log.FieldLogger

	accelerators map[Key]int
	menuHandlers map[int]func(app IApp)
	menuStack    []IMenuCompatible

	events      chan IEvent
	invokeLater chan func(IApp)
	quit        chan Unit
	closeOnce   sync.Once
	closing     bool
	closingMu   sync.Mutex

	unhandled IUnhandledInput
}

// AppArgs configures a new Application.
type AppArgs struct {
	Backend   IBackend
	Config    Config
	Log       log.FieldLogger
	Unhandled IUnhandledInput
}

// NewApplication wires up an Application around an already-constructed
// Backend - callers typically pass an *ECMA48Backend, *MultiBackend, or a
// NestedBackend.
func NewApplication(args AppArgs) *Application {
	info := args.Backend.SessionInfo()
	if args.Log == nil {
		args.Log = log.StandardLogger()
	}
	if args.Unhandled == nil {
		args.Unhandled = UnhandledInputFunc(func(app IApp, ev IEvent) bool { return false })
	}
	return &Application{
		backend:      args.Backend,
		screen:       NewScreen(info.Cols, info.Rows),
		wm:           NewWindowManager(),
		config:       args.Config,
		timers:       NewTimerWheel(),
		log:          args.Log,
		accelerators: make(map[Key]int),
		menuHandlers: make(map[int]func(app IApp)),
		events:       make(chan IEvent, 1000),
		invokeLater:  make(chan func(IApp), 1000),
		quit:         make(chan Unit),
		unhandled:    args.Unhandled,
	}
}

func (a *Application) Config() Config             { return a.config }
func (a *Application) WindowManager() *WindowManager { return a.wm }
func (a *Application) Screen() *Screen            { return a.screen }
func (a *Application) Backend() IBackend          { return a.backend }
func (a *Application) Log() log.FieldLogger       { return a.log }

// Quit terminates the running Application soon (§4.4 cancellation).
func (a *Application) Quit() {
	a.closingMu.Lock()
	defer a.closingMu.Unlock()
	if a.closing {
		return
	}
	a.closing = true
	a.closeOnce.Do(func() { close(a.quit) })
}

// Repaint marks the Screen dirty so the consumer flushes after the
// current event batch (§4.4).
func (a *Application) Repaint() {
	a.screen.markDirty()
}

// Run posts f to run on the Consumer goroutine before the next draw
// (invoke_later, §4.4/§5). Safe to call from any goroutine.
func (a *Application) Run(f func(IApp)) error {
	a.closingMu.Lock()
	closing := a.closing
	a.closingMu.Unlock()
	if closing {
		return ErrAppClosing
	}
	select {
	case a.invokeLater <- f:
		return nil
	case <-a.quit:
		return ErrAppClosing
	}
}

// ErrAppClosing is returned by Run once the Application has started
// shutting down.
var ErrAppClosing = errors.New("application is closing")

//======================================================================
// Menus and accelerators (§4.6)

// RegisterMenu pushes m onto the open-menu stack; while any menu is open,
// keyboard events are offered to the topmost menu before the active
// window.
func (a *Application) RegisterMenu(m IMenuCompatible) {
	a.menuStack = append(a.menuStack, m)
}

// UnregisterMenu removes m from the stack wherever it sits (searching
// from the top), returning false if m is not found (mirrors gowid's semantics, adapted
// to a plain stack since menus only ever nest one way: submenu above
// parent).
func (a *Application) UnregisterMenu(m IMenuCompatible) bool {
	for i := len(a.menuStack) - 1; i >= 0; i-- {
		if a.menuStack[i] == m {
			a.menuStack = append(a.menuStack[:i], a.menuStack[i+1:]...)
			return true
		}
	}
	return false
}

func (a *Application) topMenu() IMenuCompatible {
	if len(a.menuStack) == 0 {
		return nil
	}
	return a.menuStack[len(a.menuStack)-1]
}

// BindAccelerator maps a global key to a menu ID (§3, §4.6). Accelerator
// keys are matched before routing to widgets.
func (a *Application) BindAccelerator(key Key, menuID int) {
	a.accelerators[key] = menuID
}

// OnMenu registers the handler invoked when menu ID is dispatched, either
// via an accelerator or a menu item activation.
func (a *Application) OnMenu(id int, f func(app IApp)) {
	a.menuHandlers[id] = f
}

// DispatchMenu invokes the registered handler for id, if any.
func (a *Application) DispatchMenu(id int) {
	if f, ok := a.menuHandlers[id]; ok {
		f(a)
	}
}

//======================================================================
// Timers

// AddTimer schedules t, returning it for later Stop() calls.
func (a *Application) AddTimer(t *Timer) *Timer {
	return a.timers.Add(t)
}

//======================================================================
// Event loop

// MainLoop starts the Reader and Consumer goroutines and blocks until
// Quit is called (or the backend disconnects). unhandled processes any
// input no menu, accelerator or widget claimed.
func (a *Application) MainLoop(unhandled IUnhandledInput) {
	if unhandled != nil {
		a.unhandled = unhandled
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go a.reader(&wg)
	a.consumer()
	wg.Wait()
	a.backend.Close()
}

func (a *Application) reader(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-a.quit:
			return
		default:
		}
		timeout := 200 * time.Millisecond
		if due, ok := a.timers.NextDeadline(); ok {
			if d := time.Until(due); d < timeout {
				if d < 0 {
					d = 0
				}
				timeout = d
			}
		}
		evs, ok := a.backend.PollInput(timeout)
		if !ok {
			select {
			case a.events <- CommandEvent{ID: CommandDisconnect, Time: time.Now()}:
			case <-a.quit:
			}
			return
		}
		for _, e := range evs {
			select {
			case a.events <- e:
			case <-a.quit:
				return
			}
		}
	}
}

func (a *Application) consumer() {
	for {
		select {
		case <-a.quit:
			a.drainAndFlush()
			return
		case ev := <-a.events:
			if cmd, ok := ev.(CommandEvent); ok && cmd.ID == CommandDisconnect {
				a.Quit()
				continue
			}
			a.dispatch(ev)
			a.afterBatch()
		case f := <-a.invokeLater:
			f(a)
			a.afterBatch()
		case <-time.After(50 * time.Millisecond):
			a.afterBatch()
		}
	}
}

// drainAndFlush runs any timers/invoke_later work still pending and
// performs one final flush before the backend is closed (§5 resource
// scoping).
func (a *Application) drainAndFlush() {
	for pending := true; pending; {
		select {
		case f := <-a.invokeLater:
			f(a)
		default:
			pending = false
		}
	}
	a.afterBatch()
	if a.screen.Dirty() {
		a.backend.Flush(a.screen)
	}
}

// afterBatch runs due timers, then flushes if the screen is dirty (§4.4).
func (a *Application) afterBatch() {
	now := time.Now()
	for _, t := range a.timers.Due(now) {
		func() {
			defer a.recoverWidgetPanic()
			t.Action(a)
		}()
	}
	if a.screen.Dirty() {
		a.drawAll()
		a.backend.Flush(a.screen)
	}
}

// drawAll renders every visible window bottom-to-top, then any open menu
// stack on top (§4.1 compositor, §4.6).
func (a *Application) drawAll() {
	for _, w := range a.wm.Windows() {
		if !w.IsHidden() {
			w.Draw(a.screen, a)
		}
	}
	for _, m := range a.menuStack {
		m.Draw(a.screen, a)
	}
}

// recoverWidgetPanic implements §7's propagation policy: a panic inside a
// widget callback (or timer action) is caught, logged, and turned into a
// CommandExceptionDialog event on the events channel, rather than
// crashing the Consumer goroutine. No dialog is opened: dispatch hands
// that event to the unhandled-input handler like any other CommandEvent.
func (a *Application) recoverWidgetPanic() {
	if r := recover(); r != nil {
		a.log.WithField("panic", r).Error("recovered panic in widget/timer callback")
		select {
		case a.events <- CommandEvent{ID: CommandExceptionDialog, Data: r, Time: time.Now()}:
		default:
		}
	}
}

// dispatch routes one event per §4.4/§4.5's ordering guarantees:
// accelerators first, then the open menu (if any), then the active
// window, then the unhandled-input fallback.
func (a *Application) dispatch(ev IEvent) {
	defer a.recoverWidgetPanic()

	switch e := ev.(type) {
	case ResizeEvent:
		a.screen.Resize(e.Cols, e.Rows)
		return
	case MenuEvent:
		a.DispatchMenu(e.ID)
		return
	case KeyEvent:
		if id, ok := a.accelerators[e.Key]; ok {
			a.DispatchMenu(id)
			return
		}
		if menu := a.topMenu(); menu != nil {
			if menu.HandleKey(a, e.Key) {
				return
			}
		}
		if win := a.wm.ActiveWindow(); win != nil {
			if win.HandleKey(a, e.Key) {
				return
			}
		}
		if !a.unhandled.UnhandledInput(a, ev) {
			a.log.WithField("event", ev).Debug("input was not handled")
		}
		return
	case MouseEvent:
		if win := a.wm.WindowAt(e.X, e.Y); win != nil {
			if a.wm.HasModal() && win != a.wm.ActiveWindow() {
				return // §4.5 modality: suppress clicks to non-modal windows
			}
			if e.Action == MousePress {
				a.wm.Activate(win)
			}
			if win.HandleMouse(a, e) {
				return
			}
		}
		if a.config.FocusFollowsMouse && e.Action == MouseMotion {
			if win := a.wm.WindowAt(e.X, e.Y); win != nil {
				a.wm.Activate(win)
			}
		}
		a.unhandled.UnhandledInput(a, ev)
		return
	default:
		a.unhandled.UnhandledInput(a, ev)
	}
}

// HandleQuitKeys is a ready-made IUnhandledInput for the common
// q/Q/ctrl-c/escape "quit the app" convention.
var HandleQuitKeys = UnhandledInputFunc(func(app IApp, ev IEvent) bool {
	if k, ok := ev.(KeyEvent); ok {
		if k.Key.Name == KeyEscape || (k.Key.Name == KeyRune && (k.Key.Rune == 'q' || k.Key.Rune == 'Q')) ||
			(k.Key.Name == KeyRune && k.Key.Rune == 'c' && k.Key.Mod&ModCtrl != 0) {
			app.Quit()
			return true
		}
	}
	return false
})
