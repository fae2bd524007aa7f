package replayer

import (
	"context"
	"testing"
	"time"

	"github.com/uireplay/uireplay/internal/recorder"
	"github.com/uireplay/uireplay/internal/scenario"
	"github.com/uireplay/uireplay/pkg/ui"
	"github.com/uireplay/uireplay/pkg/ui/uitest"
)

type memStore struct {
	saved *scenario.Scenario
}

func (m *memStore) Save(ctx context.Context, s *scenario.Scenario) error {
	m.saved = s
	return nil
}

func (m *memStore) Load(ctx context.Context) (*scenario.Scenario, error) {
	return m.saved, nil
}

type fixture struct {
	app *uitest.App
	win *uitest.Window
	b1  *uitest.Button
	b2  *uitest.Button
}

func buildTwoButtons(observers ...ui.EventFilter) *fixture {
	app := uitest.New(observers...)
	win := uitest.NewWindow(app, "Main", "main")
	b1 := uitest.NewButton(app, win, "One", "but1")
	b2 := uitest.NewButton(app, win, "Two", "but2")
	win.AddWidget(b1)
	win.AddWidget(b2)
	win.Show()
	return &fixture{app: app, win: win, b1: b1, b2: b2}
}

func press() *ui.MouseEvent {
	return ui.NewMouseEvent(ui.KindMouseButtonPress,
		ui.Point{X: 1, Y: 1}, ui.Point{X: 1, Y: 1},
		ui.LeftButton, ui.LeftButton, ui.NoModifier)
}

// record captures a press on each button followed by a window close.
func record(t *testing.T) *scenario.Scenario {
	t.Helper()
	store := &memStore{}
	rec, err := recorder.New(store, recorder.Options{})
	if err != nil {
		t.Fatal(err)
	}
	f := buildTwoButtons(rec)
	f.app.PostSpontaneous(f.b1, press())
	f.app.PostSpontaneous(f.b2, press())
	f.app.PostSpontaneous(f.win, ui.NewCloseEvent())
	f.app.Exec()
	if err := rec.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	return store.saved
}

func TestReplayDrivesFreshApplication(t *testing.T) {
	sc := record(t)

	rep, err := New(sc, Options{
		Exit:         func(code int) { t.Fatalf("unexpected exit(%d)", code) },
		IdleInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	f := buildTwoButtons(rep)

	if status := f.app.Exec(); status != 0 {
		t.Fatalf("Exec() = %d, want 0", status)
	}
	if f.b1.Presses() != 1 || f.b2.Presses() != 1 {
		t.Errorf("presses = %d, %d, want 1, 1", f.b1.Presses(), f.b2.Presses())
	}
	if f.win.Visible() {
		t.Error("window still visible after replayed close")
	}
	if rep.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", rep.Remaining())
	}
	rep.Close()
}

func TestReplayQuitsWhenExhausted(t *testing.T) {
	sc := record(t)
	// Drop the close so the replayer itself has to end the run.
	sc.Events = sc.Events[:2]

	rep, err := New(sc, Options{
		Exit: func(code int) { t.Fatalf("unexpected exit(%d)", code) },
	})
	if err != nil {
		t.Fatal(err)
	}
	f := buildTwoButtons(rep)

	if status := f.app.Exec(); status != 0 {
		t.Fatalf("Exec() = %d, want 0", status)
	}
	if f.b1.Presses() != 1 || f.b2.Presses() != 1 {
		t.Errorf("presses = %d, %d, want 1, 1", f.b1.Presses(), f.b2.Presses())
	}
}

func TestReplayMissingTargetIsFatal(t *testing.T) {
	sc := record(t)

	var gotExit int
	rep, err := New(sc, Options{
		Exit: func(code int) { gotExit = code },
	})
	if err != nil {
		t.Fatal(err)
	}

	// A rebuilt application without the recorded buttons.
	app := uitest.New(rep)
	win := uitest.NewWindow(app, "Main", "main")
	win.Show()
	app.Exec()

	if gotExit != ExitTargetNotFound {
		t.Errorf("exit code = %d, want %d", gotExit, ExitTargetNotFound)
	}
	if rep.Remaining() == 0 {
		t.Error("Remaining() = 0 after an aborted replay")
	}
	rep.Close()
}

func TestReplayUnknownObjectIDIsFatal(t *testing.T) {
	sc := record(t)
	sc.Events[0].ObjectID = 42

	var gotExit int
	rep, err := New(sc, Options{
		Exit: func(code int) { gotExit = code },
	})
	if err != nil {
		t.Fatal(err)
	}
	f := buildTwoButtons(rep)
	f.app.Exec()

	if gotExit != ExitTargetNotFound {
		t.Errorf("exit code = %d, want %d", gotExit, ExitTargetNotFound)
	}
}

func TestReplaySkipsUndecodableEvent(t *testing.T) {
	sc := record(t)
	sc.Events[0].Event = "WheelEvent(0)"

	rep, err := New(sc, Options{
		Exit: func(code int) { t.Fatalf("unexpected exit(%d)", code) },
	})
	if err != nil {
		t.Fatal(err)
	}
	f := buildTwoButtons(rep)

	if status := f.app.Exec(); status != 0 {
		t.Fatalf("Exec() = %d, want 0", status)
	}
	// First entry skipped, the rest replayed.
	if f.b1.Presses() != 0 || f.b2.Presses() != 1 {
		t.Errorf("presses = %d, %d, want 0, 1", f.b1.Presses(), f.b2.Presses())
	}
}

func TestReplayWaitsForActivation(t *testing.T) {
	sc := record(t)

	rep, err := New(sc, Options{
		Exit: func(code int) { t.Fatalf("unexpected exit(%d)", code) },
	})
	if err != nil {
		t.Fatal(err)
	}
	f := buildTwoButtons(rep)

	// Before the loop runs there has been no activation, so arbitrary
	// events must not arm the idle timer.
	rep.FilterEvent(f.b1, press())
	if rep.Remaining() != len(sc.Events) {
		t.Errorf("Remaining() = %d before start, want %d", rep.Remaining(), len(sc.Events))
	}

	f.app.Exec()
	if f.b1.Presses() == 0 {
		t.Error("replay never started")
	}
}
