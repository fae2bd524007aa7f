// Package scenario defines the persisted form of a captured session and the
// stores that read and write it.
package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/uireplay/uireplay/internal/path"
)

// FormatVersion is the current scenario container version. Version 0 is the
// legacy form without an object registry, storing a full path inline per
// event.
const FormatVersion = 1

// Entry is one recorded (object, event) pair. ObjectID refers into the
// scenario's registry for format version 1; Path carries the address inline
// for legacy version 0 scenarios.
type Entry struct {
	ObjectID int             `json:"object_id,omitempty"`
	Event    string          `json:"event"`
	Path     path.ObjectPath `json:"path,omitempty"`
}

// Scenario is the persisted record of a capture: format version, the shared
// object registry, and the ordered event log. Created empty at recording
// start, flushed exactly once at recorder close; loaded once and iterated
// forward-only for replay or explain.
type Scenario struct {
	FormatVersion int                     `json:"format_version"`
	Registry      map[int]path.ObjectPath `json:"object_registry,omitempty"`
	Events        []Entry                 `json:"events"`
}

// Validate checks structural invariants of a loaded scenario.
func (s *Scenario) Validate() error {
	if s.FormatVersion < 0 || s.FormatVersion > FormatVersion {
		return fmt.Errorf("unsupported scenario format version %d", s.FormatVersion)
	}
	for i, e := range s.Events {
		if s.FormatVersion == 0 {
			if len(e.Path) == 0 {
				return fmt.Errorf("event %d: legacy scenario entry has no inline path", i)
			}
			continue
		}
		if _, ok := s.Registry[e.ObjectID]; !ok {
			return fmt.Errorf("event %d: object id %d not present in registry", i, e.ObjectID)
		}
	}
	return nil
}

// PathOf returns the object path for an entry, resolving through the
// registry or the legacy inline form as appropriate.
func (s *Scenario) PathOf(e Entry) (path.ObjectPath, bool) {
	if s.FormatVersion == 0 {
		return e.Path, len(e.Path) > 0
	}
	p, ok := s.Registry[e.ObjectID]
	return p, ok
}

// Store persists and retrieves a single scenario.
type Store interface {
	Save(ctx context.Context, s *Scenario) error
	Load(ctx context.Context) (*Scenario, error)
}

// Open selects a store from a scenario locator. A locator of the form
// "db:PATH#NAME" opens a named scenario in a SQLite archive; anything else
// is a plain scenario file path.
func Open(locator string) (Store, error) {
	if rest, ok := strings.CutPrefix(locator, "db:"); ok {
		dbPath, name, _ := strings.Cut(rest, "#")
		if dbPath == "" {
			return nil, fmt.Errorf("scenario locator %q has no database path", locator)
		}
		return OpenArchive(dbPath, name)
	}
	if locator == "" {
		return nil, fmt.Errorf("scenario path must not be empty")
	}
	return NewFileStore(locator), nil
}
