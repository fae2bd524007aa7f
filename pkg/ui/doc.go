// Package ui defines the widget-tree runtime abstraction the tester records
// from and replays into. It is the contract between the engine and a concrete
// toolkit: widgets, events, the symbol tables for enum and flag values, and
// the App runtime context that owns the event loop.
//
// The engine never talks to a toolkit directly. A toolkit implements App and
// Widget (plus the optional child-enumeration capabilities) and constructs
// its application with the observer list the engine hands it; everything else
// is driven through this package's types.
package ui
