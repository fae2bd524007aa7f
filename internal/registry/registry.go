// Package registry maps object paths to small integer identifiers so many
// events on the same widget share one stored path.
package registry

import (
	"github.com/uireplay/uireplay/internal/path"
)

// Registry is a bidirectional map between autoincrementing ids and object
// paths. Ids are dense, start at 1 and are assigned in first-seen order.
// Append-only during capture, read-only once loaded for replay.
type Registry struct {
	byID  map[int]path.ObjectPath
	byKey map[string]int
	next  int
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{
		byID:  make(map[int]path.ObjectPath),
		byKey: make(map[string]int),
		next:  1,
	}
}

// FromSnapshot reconstructs a registry persisted with Snapshot.
func FromSnapshot(snapshot map[int]path.ObjectPath) *Registry {
	r := New()
	for id, p := range snapshot {
		r.byID[id] = p
		r.byKey[p.Key()] = id
		if id >= r.next {
			r.next = id + 1
		}
	}
	return r
}

// Intern returns the id for p, assigning the next id on first sight.
func (r *Registry) Intern(p path.ObjectPath) int {
	key := p.Key()
	if id, ok := r.byKey[key]; ok {
		return id
	}
	id := r.next
	r.next++
	r.byKey[key] = id
	r.byID[id] = p
	return id
}

// Lookup returns the path registered under id.
func (r *Registry) Lookup(id int) (path.ObjectPath, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len returns the number of registered paths.
func (r *Registry) Len() int { return len(r.byID) }

// Snapshot returns the id-to-path map for persistence.
func (r *Registry) Snapshot() map[int]path.ObjectPath {
	out := make(map[int]path.ObjectPath, len(r.byID))
	for id, p := range r.byID {
		out[id] = p
	}
	return out
}
