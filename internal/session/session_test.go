package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uireplay/uireplay/internal/target"
	"github.com/uireplay/uireplay/pkg/ui"
	"github.com/uireplay/uireplay/pkg/ui/uitest"
)

// demoApp is a minimal target application: a window with two buttons that
// clicks itself shut when driven from outside.
func demoApp(host target.Host) error {
	app := uitest.New(host.Observers()...)
	win := uitest.NewWindow(app, "Demo", "main")
	b1 := uitest.NewButton(app, win, "One", "but1")
	b2 := uitest.NewButton(app, win, "Two", "but2")
	win.AddWidget(b1)
	win.AddWidget(b2)
	win.Show()

	app.PostSpontaneous(b1, ui.NewMouseEvent(ui.KindMouseButtonPress,
		ui.Point{X: 1, Y: 1}, ui.Point{X: 1, Y: 1},
		ui.LeftButton, ui.LeftButton, ui.NoModifier))
	app.PostSpontaneous(b2, ui.NewMouseEvent(ui.KindMouseButtonPress,
		ui.Point{X: 2, Y: 2}, ui.Point{X: 2, Y: 2},
		ui.LeftButton, ui.LeftButton, ui.NoModifier))
	app.PostSpontaneous(win, ui.NewCloseEvent())

	if status := app.Exec(); status != 0 {
		host.Exit(status)
	}
	return nil
}

// idleApp shows the same window but generates no input of its own, leaving
// the event stream quiet for a replayer to drive.
func idleApp(presses *[2]int) target.Entry {
	return func(host target.Host) error {
		app := uitest.New(host.Observers()...)
		win := uitest.NewWindow(app, "Demo", "main")
		b1 := uitest.NewButton(app, win, "One", "but1")
		b2 := uitest.NewButton(app, win, "Two", "but2")
		win.AddWidget(b1)
		win.AddWidget(b2)
		win.Show()
		if status := app.Exec(); status != 0 {
			host.Exit(status)
		}
		presses[0] = b1.Presses()
		presses[1] = b2.Presses()
		return nil
	}
}

func TestRecordThenReplayThenExplain(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scenario.json")

	rec, err := New(
		WithMode(ModeRecord),
		WithScenario(file),
		WithEntry(demoApp),
		WithExit(func(code int) { t.Fatalf("unexpected exit(%d)", code) }),
	)
	if err != nil {
		t.Fatalf("New(record) error = %v", err)
	}
	if err := rec.Run(context.Background()); err != nil {
		t.Fatalf("record Run() error = %v", err)
	}

	var presses [2]int
	rep, err := New(
		WithMode(ModeReplay),
		WithScenario(file),
		WithEntry(idleApp(&presses)),
		WithExit(func(code int) { t.Fatalf("unexpected exit(%d)", code) }),
	)
	if err != nil {
		t.Fatalf("New(replay) error = %v", err)
	}
	if err := rep.Run(context.Background()); err != nil {
		t.Fatalf("replay Run() error = %v", err)
	}
	if presses[0] != 1 || presses[1] != 1 {
		t.Errorf("replayed presses = %v, want one per button", presses)
	}

	var sb strings.Builder
	exp, err := New(
		WithMode(ModeExplain),
		WithScenario(file),
		WithOutput(&sb),
	)
	if err != nil {
		t.Fatalf("New(explain) error = %v", err)
	}
	if err := exp.Run(context.Background()); err != nil {
		t.Fatalf("explain Run() error = %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "Event 0: MouseEvent(MouseButtonPress") ||
		!strings.Contains(out, "CloseEvent()") {
		t.Errorf("explain output:\n%s", out)
	}
}

func TestReplayMissingTargetExitsThree(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scenario.json")

	rec, err := New(
		WithMode(ModeRecord),
		WithScenario(file),
		WithEntry(demoApp),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var gotExit int
	rep, err := New(
		WithMode(ModeReplay),
		WithScenario(file),
		WithEntry(func(host target.Host) error {
			// No buttons this time: the recorded paths dangle.
			app := uitest.New(host.Observers()...)
			win := uitest.NewWindow(app, "Demo", "main")
			win.Show()
			app.Exec()
			return nil
		}),
		WithExit(func(code int) { gotExit = code }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := rep.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if gotExit != ExitTargetNotFound {
		t.Errorf("exit = %d, want %d", gotExit, ExitTargetNotFound)
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no mode", []Option{WithStore(nil), WithEntry(demoApp)}},
		{"no store", []Option{WithMode(ModeRecord), WithEntry(demoApp)}},
		{"no entry", []Option{WithMode(ModeReplay), WithScenario("x.json")}},
		{"bad locator", []Option{WithMode(ModeRecord), WithScenario(""), WithEntry(demoApp)}},
		{"unknown entry point", []Option{
			WithMode(ModeRecord), WithScenario("x.json"),
			WithEntryPoint("registry:no-such-app"),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			if err == nil {
				t.Fatal("New() expected error")
			}
			if ExitCode(err) != ExitConfig {
				t.Errorf("ExitCode(%v) = %d, want %d", err, ExitCode(err), ExitConfig)
			}
		})
	}
}

func TestExplainNeedsNoEntryPoint(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing.json")
	s, err := New(WithMode(ModeExplain), WithScenario(file))
	if err != nil {
		t.Fatalf("New(explain) error = %v", err)
	}
	// The store opens lazily, so the missing file surfaces at Run.
	err = s.Run(context.Background())
	if err == nil || ExitCode(err) != ExitConfig {
		t.Errorf("Run() error = %v (exit %d), want a configuration failure", err, ExitCode(err))
	}
}

func TestTargetErrorIsApplicationFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scenario.json")
	s, err := New(
		WithMode(ModeRecord),
		WithScenario(file),
		WithEntry(func(host target.Host) error {
			return errors.New("boom")
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	err = s.Run(context.Background())
	if err == nil || ExitCode(err) != ExitApplication {
		t.Errorf("Run() error = %v (exit %d), want an application failure", err, ExitCode(err))
	}
}

func TestTargetPanicIsApplicationFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "scenario.json")
	s, err := New(
		WithMode(ModeRecord),
		WithScenario(file),
		WithEntry(func(host target.Host) error {
			panic("unhandled")
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	err = s.Run(context.Background())
	if err == nil || ExitCode(err) != ExitApplication {
		t.Errorf("Run() error = %v (exit %d), want an application failure", err, ExitCode(err))
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", &ConfigError{Err: errors.New("x")}, ExitConfig},
		{"app", &AppError{Err: errors.New("x")}, ExitApplication},
		{"plain", errors.New("x"), ExitConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
