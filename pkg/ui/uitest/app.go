// Package uitest is an in-memory toolkit implementing the pkg/ui contract.
// It drives a cooperative, virtual-time event loop and a small set of widget
// types, enough to exercise recording, replay and path resolution without a
// display server.
package uitest

import (
	"time"

	"github.com/uireplay/uireplay/pkg/ui"
)

type dispatch struct {
	target ui.Widget
	ev     ui.Event
}

type timer struct {
	id       int
	interval time.Duration
	fn       func()
	deadline time.Time
	started  bool
	app      *App
}

func (t *timer) ID() int { return t.id }

func (t *timer) Start() {
	t.deadline = t.app.now.Add(t.interval)
	t.started = true
}

func (t *timer) Stop() { t.started = false }

// App is the uitest runtime context. All methods must be called from the
// goroutine running Exec.
type App struct {
	topLevel  []ui.Widget
	filters   []ui.EventFilter
	queue     []dispatch
	timers    []*timer
	nextTimer int
	active    ui.Widget
	now       time.Time
	quitting  bool
	status    int
}

// New constructs an application with the given observers installed, in order,
// before the event loop can start. Observers implementing ui.AppObserver are
// bound to the app here.
func New(observers ...ui.EventFilter) *App {
	a := &App{
		nextTimer: 1,
		now:       time.Unix(0, 0),
	}
	for _, o := range observers {
		if bound, ok := o.(ui.AppObserver); ok {
			bound.Bind(a)
		}
		a.filters = append(a.filters, o)
	}
	return a
}

// TopLevelWidgets returns the registered windows in creation order.
func (a *App) TopLevelWidgets() []ui.Widget {
	out := make([]ui.Widget, len(a.topLevel))
	copy(out, a.topLevel)
	return out
}

// AllWidgets returns every widget reachable from the top-level windows.
func (a *App) AllWidgets() []ui.Widget {
	var all []ui.Widget
	var walk func(w ui.Widget)
	walk = func(w ui.Widget) {
		all = append(all, w)
		if c, ok := w.(ui.Container); ok {
			for _, child := range c.ObjectChildren() {
				walk(child)
			}
		}
	}
	for _, w := range a.topLevel {
		walk(w)
	}
	return all
}

// ActivateWindow raises and activates the window containing w, emitting an
// ActivationChange through the dispatch stream when activation moves.
func (a *App) ActivateWindow(w ui.Widget) {
	win := windowOf(w)
	if win == nil || win == a.active {
		return
	}
	a.active = win
	ev := ui.NewActivationChangeEvent()
	ev.SetSpontaneous(true)
	a.SendEvent(win, ev)
}

// ActiveWindow returns the currently activated window, or nil.
func (a *App) ActiveWindow() ui.Widget { return a.active }

// SendEvent dispatches ev to w synchronously through the installed filters.
func (a *App) SendEvent(w ui.Widget, ev ui.Event) bool {
	for _, f := range a.filters {
		if f.FilterEvent(w, ev) {
			return true
		}
	}
	if h, ok := w.(eventHandler); ok {
		return h.HandleEvent(ev)
	}
	return false
}

// PostEvent queues ev for dispatch to w on a later loop iteration.
func (a *App) PostEvent(w ui.Widget, ev ui.Event) {
	a.queue = append(a.queue, dispatch{target: w, ev: ev})
}

// PostSpontaneous queues ev marked as originating outside the process, the
// way user input arrives from a window system.
func (a *App) PostSpontaneous(w ui.Widget, ev ui.Event) {
	ev.SetSpontaneous(true)
	a.PostEvent(w, ev)
}

// Timer creates a stopped cooperative timer. Expiry delivers a TimerEvent to
// the active window, then invokes fn.
func (a *App) Timer(interval time.Duration, fn func()) ui.TimerHandle {
	t := &timer{id: a.nextTimer, interval: interval, fn: fn, app: a}
	a.nextTimer++
	a.timers = append(a.timers, t)
	return t
}

// Quit asks the loop to exit with the given status.
func (a *App) Quit(status int) {
	a.quitting = true
	a.status = status
}

// Exec runs the event loop until Quit is called, the last visible window
// closes, or the queue drains with no timer pending. The loop uses virtual
// time: with an empty queue the earliest pending timer fires immediately.
func (a *App) Exec() int {
	if a.active == nil {
		for _, w := range a.topLevel {
			if win, ok := w.(*Window); ok && win.Visible() {
				a.ActivateWindow(w)
				break
			}
		}
	}
	for !a.quitting {
		if len(a.queue) > 0 {
			d := a.queue[0]
			a.queue = a.queue[1:]
			a.SendEvent(d.target, d.ev)
			continue
		}
		t := a.earliestTimer()
		if t == nil {
			break
		}
		a.now = t.deadline
		t.Start()
		a.SendEvent(a.active, ui.NewTimerEvent(t.id))
		t.fn()
	}
	return a.status
}

func (a *App) earliestTimer() *timer {
	var best *timer
	for _, t := range a.timers {
		if !t.started {
			continue
		}
		if best == nil || t.deadline.Before(best.deadline) {
			best = t
		}
	}
	return best
}

func (a *App) addTopLevel(w ui.Widget) {
	a.topLevel = append(a.topLevel, w)
}

func (a *App) windowHidden() {
	for _, w := range a.topLevel {
		if win, ok := w.(*Window); ok && win.Visible() {
			return
		}
	}
	a.Quit(a.status)
}
