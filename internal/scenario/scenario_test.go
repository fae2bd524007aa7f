package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/uireplay/uireplay/internal/path"
)

func samplePath(name string) path.ObjectPath {
	return path.ObjectPath{
		{Index: 0, Type: "uitest:Window", Name: "main"},
		{Index: 0, Type: "uitest:Button", Name: name},
	}
}

func sampleScenario() *Scenario {
	return &Scenario{
		FormatVersion: FormatVersion,
		Registry: map[int]path.ObjectPath{
			1: samplePath("a"),
			2: samplePath("b"),
		},
		Events: []Entry{
			{ObjectID: 1, Event: "MouseEvent(MouseButtonPress, Point(1, 1), Point(1, 1), LeftButton, LeftButton, NoModifier)"},
			{ObjectID: 2, Event: "MouseEvent(MouseButtonPress, Point(2, 2), Point(2, 2), LeftButton, LeftButton, NoModifier)"},
			{ObjectID: 1, Event: "CloseEvent()"},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scenario.json")
	store := NewFileStore(file)
	want := sampleScenario()

	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.FormatVersion != FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", got.FormatVersion, FormatVersion)
	}
	if len(got.Registry) != 2 || len(got.Events) != 3 {
		t.Errorf("loaded %d registry entries and %d events, want 2 and 3",
			len(got.Registry), len(got.Events))
	}
	p, ok := got.PathOf(got.Events[1])
	if !ok || p.Key() != samplePath("b").Key() {
		t.Errorf("PathOf(events[1]) = %v, %v", p, ok)
	}
}

func TestLoadLegacyFormat(t *testing.T) {
	// Version 0 scenarios predate the object registry and carry the full
	// path inline on every event.
	legacy := `{
  "format_version": 0,
  "events": [
    {
      "event": "CloseEvent()",
      "path": [{"index": 0, "type": "uitest:Window", "name": "main"}]
    }
  ]
}`
	file := filepath.Join(t.TempDir(), "legacy.json")
	if err := os.WriteFile(file, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(file).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	p, ok := got.PathOf(got.Events[0])
	if !ok || len(p) != 1 || p[0].Name != "main" {
		t.Errorf("PathOf(legacy event) = %v, %v", p, ok)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr bool
	}{
		{"valid", func(s *Scenario) {}, false},
		{"future version", func(s *Scenario) { s.FormatVersion = 2 }, true},
		{"dangling object id", func(s *Scenario) { s.Events[0].ObjectID = 42 }, true},
		{"legacy without path", func(s *Scenario) {
			s.FormatVersion = 0
			s.Events = []Entry{{Event: "CloseEvent()"}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleScenario()
			tt.mutate(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOpenLocator(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(filepath.Join(dir, "plain.json"))
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Errorf("Open(file) = %T, want *FileStore", store)
	}

	store, err = Open("db:" + filepath.Join(dir, "suite.db") + "#login")
	if err != nil {
		t.Fatalf("Open(db locator) error = %v", err)
	}
	archive, ok := store.(*ArchiveStore)
	if !ok {
		t.Fatalf("Open(db locator) = %T, want *ArchiveStore", store)
	}
	archive.Close()

	for _, locator := range []string{"", "db:", "db:#name"} {
		if _, err := Open(locator); err == nil {
			t.Errorf("Open(%q) expected error", locator)
		}
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "suite.db")

	store, err := OpenArchive(dbPath, "login")
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}
	defer store.Close()

	want := sampleScenario()
	if err := store.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.FormatVersion != want.FormatVersion {
		t.Errorf("FormatVersion = %d, want %d", got.FormatVersion, want.FormatVersion)
	}
	if len(got.Registry) != len(want.Registry) {
		t.Errorf("registry size = %d, want %d", len(got.Registry), len(want.Registry))
	}
	for i, e := range want.Events {
		if got.Events[i].Event != e.Event || got.Events[i].ObjectID != e.ObjectID {
			t.Errorf("event %d = %+v, want %+v", i, got.Events[i], e)
		}
	}
}

func TestArchiveLoadsNewest(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "suite.db")

	store, err := OpenArchive(dbPath, "login")
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}
	defer store.Close()

	old := sampleScenario()
	old.Events = old.Events[:1]
	if err := store.Save(context.Background(), old); err != nil {
		t.Fatal(err)
	}
	fresh := sampleScenario()
	if err := store.Save(context.Background(), fresh); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got.Events) != len(fresh.Events) {
		t.Errorf("loaded %d events, want the newer scenario's %d",
			len(got.Events), len(fresh.Events))
	}
}

func TestArchiveMissingName(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "suite.db")
	store, err := OpenArchive(dbPath, "absent")
	if err != nil {
		t.Fatalf("OpenArchive() error = %v", err)
	}
	defer store.Close()

	if _, err := store.Load(context.Background()); err == nil {
		t.Error("Load() of an unsaved name expected error")
	}
}
