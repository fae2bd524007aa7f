package ui

import "time"

// Widget is a node in a toolkit's composition hierarchy.
type Widget interface {
	// Parent returns the parent widget, or nil for a top-level window.
	Parent() Widget
	// ObjectName returns the user-assigned identifier, or "" if unset.
	// Names are not guaranteed unique or stable.
	ObjectName() string
	// IsTopLevel reports whether the widget is a top-level window.
	IsTopLevel() bool
	// IsActiveWindow reports whether the widget belongs to the window that
	// currently has activation.
	IsActiveWindow() bool
}

// Layouter is implemented by widgets whose children are managed by a layout.
type Layouter interface {
	LayoutWidgets() []Widget
}

// Splitter is implemented by split containers that expose panes and the
// draggable handles between them.
type Splitter interface {
	Panes() []Widget
	Handles() []Widget
}

// Container is implemented by widgets that own generic object-tree children.
type Container interface {
	ObjectChildren() []Widget
}

// TimerHandle is a cooperative event-loop timer. Start and Stop are
// idempotent; a started timer emits a TimerEvent carrying ID through the
// dispatch stream when its interval elapses, then invokes its callback.
type TimerHandle interface {
	ID() int
	Start()
	Stop()
}

// EventFilter observes every event flowing through the application's central
// dispatch point. FilterEvent runs synchronously on the UI thread before the
// event reaches its target and must return promptly; returning true consumes
// the event.
type EventFilter interface {
	FilterEvent(target Widget, ev Event) bool
}

// AppObserver is an EventFilter that needs the runtime context. The toolkit
// calls Bind exactly once, before the event loop starts, when the observer is
// installed on the application.
type AppObserver interface {
	EventFilter
	Bind(app App)
}

// App is the runtime context of a running toolkit application. Implementations
// are single-threaded: every method is called from the UI thread only.
type App interface {
	// TopLevelWidgets returns the process's top-level windows in creation
	// order.
	TopLevelWidgets() []Widget
	// AllWidgets returns every live widget, in no particular order.
	AllWidgets() []Widget
	// ActivateWindow raises w's window and gives it activation.
	ActivateWindow(w Widget)
	// SendEvent delivers ev to w synchronously, bypassing the queue, and
	// reports whether the event was consumed.
	SendEvent(w Widget, ev Event) bool
	// PostEvent appends ev to the event queue for later dispatch to w.
	PostEvent(w Widget, ev Event)
	// Timer creates a stopped event-loop timer that invokes fn on expiry.
	Timer(interval time.Duration, fn func()) TimerHandle
	// Quit asks the event loop to exit with the given status.
	Quit(status int)
}
