package ui

import "strconv"

// EventKind identifies a dispatchable event. The numeric values match the
// toolkit the scenario format originated with, so scenarios stay comparable
// across implementations.
type EventKind int

const (
	KindNone                EventKind = 0
	KindTimer               EventKind = 1
	KindMouseButtonPress    EventKind = 2
	KindMouseButtonRelease  EventKind = 3
	KindMouseButtonDblClick EventKind = 4
	KindMouseMove           EventKind = 5
	KindKeyPress            EventKind = 6
	KindKeyRelease          EventKind = 7
	KindFocusIn             EventKind = 8
	KindFocusOut            EventKind = 9
	KindEnter               EventKind = 10
	KindLeave               EventKind = 11
	KindPaint               EventKind = 12
	KindMove                EventKind = 13
	KindResize              EventKind = 14
	KindShow                EventKind = 17
	KindHide                EventKind = 18
	KindClose               EventKind = 19
	KindWindowActivate      EventKind = 24
	KindWindowDeactivate    EventKind = 25
	KindActivationChange    EventKind = 99
)

var kindNames = map[EventKind]string{
	KindNone:                "None",
	KindTimer:               "Timer",
	KindMouseButtonPress:    "MouseButtonPress",
	KindMouseButtonRelease:  "MouseButtonRelease",
	KindMouseButtonDblClick: "MouseButtonDblClick",
	KindMouseMove:           "MouseMove",
	KindKeyPress:            "KeyPress",
	KindKeyRelease:          "KeyRelease",
	KindFocusIn:             "FocusIn",
	KindFocusOut:            "FocusOut",
	KindEnter:               "Enter",
	KindLeave:               "Leave",
	KindPaint:               "Paint",
	KindMove:                "Move",
	KindResize:              "Resize",
	KindShow:                "Show",
	KindHide:                "Hide",
	KindClose:               "Close",
	KindWindowActivate:      "WindowActivate",
	KindWindowDeactivate:    "WindowDeactivate",
	KindActivationChange:    "ActivationChange",
}

var kindsByName = make(map[string]EventKind, len(kindNames))

func init() {
	for k, name := range kindNames {
		kindsByName[name] = k
	}
}

// KindName returns the symbolic name of k, or false if k is not a known kind.
func KindName(k EventKind) (string, bool) {
	name, ok := kindNames[k]
	return name, ok
}

// KindByName resolves a symbolic event-kind name back to its value.
func KindByName(name string) (EventKind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

// Event is a single dispatchable occurrence on the widget tree. Spontaneous
// reports whether the event originated outside the process (user input,
// window system) as opposed to being synthesized internally.
type Event interface {
	Kind() EventKind
	Spontaneous() bool
	SetSpontaneous(bool)
}

// BaseEvent carries the kind and spontaneity every concrete event shares.
type BaseEvent struct {
	kind        EventKind
	spontaneous bool
}

// NewBaseEvent constructs the embedded base for a concrete event type.
func NewBaseEvent(kind EventKind) BaseEvent {
	return BaseEvent{kind: kind}
}

func (e *BaseEvent) Kind() EventKind       { return e.kind }
func (e *BaseEvent) Spontaneous() bool     { return e.spontaneous }
func (e *BaseEvent) SetSpontaneous(s bool) { e.spontaneous = s }

// MouseEvent is a press, release, double-click or move of a pointer button.
type MouseEvent struct {
	BaseEvent
	Pos       Point
	GlobalPos Point
	Button    MouseButton
	Buttons   MouseButton
	Modifiers KeyboardModifier
}

// NewMouseEvent constructs a mouse event; kind must be one of the
// MouseButton* or MouseMove kinds.
func NewMouseEvent(kind EventKind, pos, globalPos Point, button, buttons MouseButton, modifiers KeyboardModifier) *MouseEvent {
	return &MouseEvent{
		BaseEvent: NewBaseEvent(kind),
		Pos:       pos,
		GlobalPos: globalPos,
		Button:    button,
		Buttons:   buttons,
		Modifiers: modifiers,
	}
}

// KeyEvent is a key press or release.
type KeyEvent struct {
	BaseEvent
	Key        Key
	Modifiers  KeyboardModifier
	Text       string
	AutoRepeat bool
	Count      int
}

// NewKeyEvent constructs a key event; kind must be KindKeyPress or
// KindKeyRelease.
func NewKeyEvent(kind EventKind, key Key, modifiers KeyboardModifier, text string, autoRepeat bool, count int) *KeyEvent {
	return &KeyEvent{
		BaseEvent:  NewBaseEvent(kind),
		Key:        key,
		Modifiers:  modifiers,
		Text:       text,
		AutoRepeat: autoRepeat,
		Count:      count,
	}
}

// MoveEvent reports a widget moving from OldPos to Pos.
type MoveEvent struct {
	BaseEvent
	Pos    Point
	OldPos Point
}

// NewMoveEvent constructs a widget move event.
func NewMoveEvent(pos, oldPos Point) *MoveEvent {
	return &MoveEvent{BaseEvent: NewBaseEvent(KindMove), Pos: pos, OldPos: oldPos}
}

// CloseEvent requests a window close.
type CloseEvent struct {
	BaseEvent
}

// NewCloseEvent constructs a close event.
func NewCloseEvent() *CloseEvent {
	return &CloseEvent{BaseEvent: NewBaseEvent(KindClose)}
}

// TimerEvent is emitted by a cooperative event-loop timer. ID identifies the
// owning timer so observers can recognize their own ticks.
type TimerEvent struct {
	BaseEvent
	ID int
}

// NewTimerEvent constructs a timer tick event for the given timer id.
func NewTimerEvent(id int) *TimerEvent {
	return &TimerEvent{BaseEvent: NewBaseEvent(KindTimer), ID: id}
}

// ActivationChangeEvent signals that window activation moved. Its first
// occurrence is the bootstrap signal the capture and replay gates wait for.
type ActivationChangeEvent struct {
	BaseEvent
}

// NewActivationChangeEvent constructs an activation-change event.
func NewActivationChangeEvent() *ActivationChangeEvent {
	return &ActivationChangeEvent{BaseEvent: NewBaseEvent(KindActivationChange)}
}

// BasicEvent is a kind-only event with no payload, used for event kinds the
// codec has no first-class support for.
type BasicEvent struct {
	BaseEvent
}

// NewBasicEvent constructs a payload-free event of the given kind.
func NewBasicEvent(kind EventKind) *BasicEvent {
	return &BasicEvent{BaseEvent: NewBaseEvent(kind)}
}
