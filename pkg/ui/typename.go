package ui

import (
	"reflect"
	"sync"
)

// Widget type identity is serialized as "import/path:TypeName". The encoding
// must be reversible, so toolkits register their concrete widget types at
// init; an unregistered or unnamed (local/anonymous) type cannot be addressed
// and serializes to "".

var typeReg = struct {
	sync.RWMutex
	byName map[string]reflect.Type
	names  map[reflect.Type]string
}{
	byName: make(map[string]reflect.Type),
	names:  make(map[reflect.Type]string),
}

// RegisterType makes the concrete type of w resolvable by name during replay.
// Typically called from a toolkit package's init with one zero value per
// widget type.
func RegisterType(w Widget) {
	t := concreteType(w)
	name := typeString(t)
	if name == "" {
		return
	}
	typeReg.Lock()
	defer typeReg.Unlock()
	typeReg.byName[name] = t
	typeReg.names[t] = name
}

// TypeName returns the reversible type reference of w's concrete type, or ""
// if the type cannot be named outside its defining scope.
func TypeName(w Widget) string {
	if w == nil {
		return ""
	}
	t := concreteType(w)
	typeReg.RLock()
	name, ok := typeReg.names[t]
	typeReg.RUnlock()
	if ok {
		return name
	}
	return typeString(t)
}

// TypeByName resolves a type reference recorded by TypeName back to the
// registered reflect.Type.
func TypeByName(name string) (reflect.Type, bool) {
	typeReg.RLock()
	defer typeReg.RUnlock()
	t, ok := typeReg.byName[name]
	return t, ok
}

// ConcreteType returns the reflect.Type used for exact type matching of w.
// Pointers are dereferenced so *Button and Button address the same type.
func ConcreteType(w Widget) reflect.Type {
	return concreteType(w)
}

func concreteType(w Widget) reflect.Type {
	t := reflect.TypeOf(w)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func typeString(t reflect.Type) string {
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return ""
	}
	return t.PkgPath() + ":" + t.Name()
}
