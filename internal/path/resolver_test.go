package path

import (
	"log/slog"
	"testing"

	"github.com/uireplay/uireplay/pkg/ui"
	"github.com/uireplay/uireplay/pkg/ui/uitest"
)

// buildApp assembles:
//
//	Window "main"
//	├── Panel ""        (layout)
//	│   ├── Button "ok"
//	│   └── Button ""   (anonymous second button)
//	└── Splitter ""     (layout)
//	    ├── Label ""    (pane)
//	    └── Label ""    (pane)
func buildApp() (*uitest.App, map[string]ui.Widget) {
	app := uitest.New()
	win := uitest.NewWindow(app, "Main", "main")
	panel := uitest.NewPanel(app, win, "")
	win.AddWidget(panel)
	ok := uitest.NewButton(app, panel, "OK", "ok")
	anon := uitest.NewButton(app, panel, "Cancel", "")
	split := uitest.NewSplitter(app, win, "")
	win.AddWidget(split)
	left := uitest.NewLabel(app, split, "L", "")
	right := uitest.NewLabel(app, split, "R", "")
	split.AddPane(left)
	split.AddPane(right)
	return app, map[string]ui.Widget{
		"win": win, "panel": panel, "ok": ok, "anon": anon,
		"split": split, "left": left, "right": right,
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	app, w := buildApp()
	r := NewResolver(app, Options{Logger: slog.Default()})

	for name, widget := range w {
		t.Run(name, func(t *testing.T) {
			path := r.SerializeWidget(widget)
			if path == nil {
				t.Fatalf("SerializeWidget(%s) = nil", name)
			}
			if got := r.DeserializeWidget(path); got != widget {
				t.Errorf("DeserializeWidget(%v) = %v, want the original widget", path, got)
			}
		})
	}
}

func TestSerializeIndexesAmongSameType(t *testing.T) {
	app, w := buildApp()
	r := NewResolver(app, Options{Logger: slog.Default()})

	path := r.SerializeWidget(w["anon"])
	if path == nil {
		t.Fatal("SerializeWidget(anon) = nil")
	}
	last := path[len(path)-1]
	if last.Index != 1 {
		t.Errorf("second button index = %d, want 1", last.Index)
	}
	if last.Name != "" {
		t.Errorf("anonymous button recorded name = %q, want empty", last.Name)
	}

	// The right pane is the second Label even though the splitter's
	// enumeration interleaves panes with handles.
	path = r.SerializeWidget(w["right"])
	if path == nil {
		t.Fatal("SerializeWidget(right) = nil")
	}
	if got := path[len(path)-1].Index; got != 1 {
		t.Errorf("right pane index = %d, want 1", got)
	}
}

func TestDeserializeByNameShortcut(t *testing.T) {
	app, w := buildApp()
	r := NewResolver(app, Options{Logger: slog.Default()})

	path := r.SerializeWidget(w["ok"])
	// Corrupt the structural part; the name shortcut must still find it.
	for i := range path[:len(path)-1] {
		path[i].Index = 99
	}
	if got := r.DeserializeWidget(path); got != w["ok"] {
		t.Errorf("name shortcut failed: got %v", got)
	}
}

func TestStrictVersusFuzzy(t *testing.T) {
	app, w := buildApp()
	strict := NewResolver(app, Options{Logger: slog.Default()})
	fuzzy := NewResolver(app, Options{Fuzzy: true, Logger: slog.Default()})

	path := strict.SerializeWidget(w["anon"])
	if path == nil {
		t.Fatal("SerializeWidget(anon) = nil")
	}
	// Shift the button's sibling index as if a button was removed from the
	// panel after recording.
	path[len(path)-1].Index = 5

	if got := strict.DeserializeWidget(path); got != nil {
		t.Errorf("strict resolution of a stale index = %v, want nil", got)
	}
	if got := fuzzy.DeserializeWidget(path); got != w["ok"] {
		t.Errorf("fuzzy resolution = %v, want the first button in the subtree", got)
	}
}

func TestSerializeUnreachableWidget(t *testing.T) {
	app, w := buildApp()
	r := NewResolver(app, Options{Logger: slog.Default()})

	// An orphan claims a parent that does not enumerate it anywhere.
	orphan := &orphanWidget{parent: w["win"]}
	if path := r.SerializeWidget(orphan); path != nil {
		t.Errorf("SerializeWidget(orphan) = %v, want nil", path)
	}
	_ = app
}

func TestDeserializeUnknownType(t *testing.T) {
	app, _ := buildApp()
	r := NewResolver(app, Options{Logger: slog.Default()})

	path := ObjectPath{{Index: 0, Type: "nosuch:Widget"}}
	if got := r.DeserializeWidget(path); got != nil {
		t.Errorf("DeserializeWidget(unknown type) = %v, want nil", got)
	}
}

func TestPathString(t *testing.T) {
	p := ObjectPath{
		{Index: 0, Type: "app:Window", Name: "main"},
		{Index: 1, Type: "app:Button"},
	}
	want := `0 "main" app:Window -> 1 app:Button`
	if got := p.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

type orphanWidget struct {
	parent ui.Widget
}

func (o *orphanWidget) Parent() ui.Widget    { return o.parent }
func (o *orphanWidget) ObjectName() string   { return "orphan" }
func (o *orphanWidget) IsTopLevel() bool     { return false }
func (o *orphanWidget) IsActiveWindow() bool { return false }
