package ui

// The symbol tables below are hand-maintained from the originating toolkit's
// public constant definitions. Go has no enum reflection to build them from,
// so keeping the tables next to the constants is the contract: adding a
// constant without its table entry makes it unserializable.

// MouseButton is a pointer button, usable alone or as a bit-flag set.
type MouseButton uint32

const (
	NoButton      MouseButton = 0x0
	LeftButton    MouseButton = 0x1
	RightButton   MouseButton = 0x2
	MiddleButton  MouseButton = 0x4
	BackButton    MouseButton = 0x8
	ForwardButton MouseButton = 0x10
	TaskButton    MouseButton = 0x20
)

var buttonNames = map[MouseButton]string{
	NoButton:      "NoButton",
	LeftButton:    "LeftButton",
	RightButton:   "RightButton",
	MiddleButton:  "MiddleButton",
	BackButton:    "BackButton",
	ForwardButton: "ForwardButton",
	TaskButton:    "TaskButton",
}

var buttonsByName = make(map[string]MouseButton, len(buttonNames))

// KeyboardModifier is a modifier key state, usable alone or as a bit-flag set.
type KeyboardModifier uint32

const (
	NoModifier      KeyboardModifier = 0x00000000
	ShiftModifier   KeyboardModifier = 0x02000000
	ControlModifier KeyboardModifier = 0x04000000
	AltModifier     KeyboardModifier = 0x08000000
	MetaModifier    KeyboardModifier = 0x10000000
	KeypadModifier  KeyboardModifier = 0x20000000
)

var modifierNames = map[KeyboardModifier]string{
	NoModifier:      "NoModifier",
	ShiftModifier:   "ShiftModifier",
	ControlModifier: "ControlModifier",
	AltModifier:     "AltModifier",
	MetaModifier:    "MetaModifier",
	KeypadModifier:  "KeypadModifier",
}

var modifiersByName = make(map[string]KeyboardModifier, len(modifierNames))

// Key identifies a keyboard key.
type Key uint32

const (
	Key_Escape    Key = 0x01000000
	Key_Tab       Key = 0x01000001
	Key_Backspace Key = 0x01000003
	Key_Return    Key = 0x01000004
	Key_Enter     Key = 0x01000005
	Key_Insert    Key = 0x01000006
	Key_Delete    Key = 0x01000007
	Key_Home      Key = 0x01000010
	Key_End       Key = 0x01000011
	Key_Left      Key = 0x01000012
	Key_Up        Key = 0x01000013
	Key_Right     Key = 0x01000014
	Key_Down      Key = 0x01000015
	Key_PageUp    Key = 0x01000016
	Key_PageDown  Key = 0x01000017
	Key_Shift     Key = 0x01000020
	Key_Control   Key = 0x01000021
	Key_Meta      Key = 0x01000022
	Key_Alt       Key = 0x01000023
	Key_F1        Key = 0x01000030
	Key_F2        Key = 0x01000031
	Key_F3        Key = 0x01000032
	Key_F4        Key = 0x01000033
	Key_Space     Key = 0x20
	Key_0         Key = 0x30
	Key_A         Key = 0x41
)

var keyNames = map[Key]string{
	Key_Escape:    "Key_Escape",
	Key_Tab:       "Key_Tab",
	Key_Backspace: "Key_Backspace",
	Key_Return:    "Key_Return",
	Key_Enter:     "Key_Enter",
	Key_Insert:    "Key_Insert",
	Key_Delete:    "Key_Delete",
	Key_Home:      "Key_Home",
	Key_End:       "Key_End",
	Key_Left:      "Key_Left",
	Key_Up:        "Key_Up",
	Key_Right:     "Key_Right",
	Key_Down:      "Key_Down",
	Key_PageUp:    "Key_PageUp",
	Key_PageDown:  "Key_PageDown",
	Key_Shift:     "Key_Shift",
	Key_Control:   "Key_Control",
	Key_Meta:      "Key_Meta",
	Key_Alt:       "Key_Alt",
	Key_F1:        "Key_F1",
	Key_F2:        "Key_F2",
	Key_F3:        "Key_F3",
	Key_F4:        "Key_F4",
	Key_Space:     "Key_Space",
}

var keysByName = make(map[string]Key, len(keyNames)+36)

func init() {
	// Letter and digit keys follow their ASCII codes.
	for c := byte('A'); c <= 'Z'; c++ {
		keyNames[Key(c)] = "Key_" + string(c)
	}
	for c := byte('0'); c <= '9'; c++ {
		keyNames[Key(c)] = "Key_" + string(c)
	}
	for k, name := range keyNames {
		keysByName[name] = k
	}
	for b, name := range buttonNames {
		buttonsByName[name] = b
	}
	for m, name := range modifierNames {
		modifiersByName[name] = m
	}
}

// ButtonName returns the symbolic name of a single button value (or the zero
// value), and false for unknown or combined values.
func ButtonName(b MouseButton) (string, bool) {
	name, ok := buttonNames[b]
	return name, ok
}

// ButtonByName resolves a symbolic button name back to its value.
func ButtonByName(name string) (MouseButton, bool) {
	b, ok := buttonsByName[name]
	return b, ok
}

// ModifierName returns the symbolic name of a single modifier value (or the
// zero value), and false for unknown or combined values.
func ModifierName(m KeyboardModifier) (string, bool) {
	name, ok := modifierNames[m]
	return name, ok
}

// ModifierByName resolves a symbolic modifier name back to its value.
func ModifierByName(name string) (KeyboardModifier, bool) {
	m, ok := modifiersByName[name]
	return m, ok
}

// KeyName returns the symbolic name of a key, and false for unknown keys.
func KeyName(k Key) (string, bool) {
	name, ok := keyNames[k]
	return name, ok
}

// KeyByName resolves a symbolic key name back to its value.
func KeyByName(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}
