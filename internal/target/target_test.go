package target

import (
	"testing"

	"github.com/uireplay/uireplay/pkg/ui"
)

func TestRegisterAndResolve(t *testing.T) {
	called := false
	Register("demo", func(host Host) error {
		called = true
		return nil
	})

	for _, descriptor := range []string{"demo", "registry:demo"} {
		t.Run(descriptor, func(t *testing.T) {
			entry, err := Resolve(descriptor)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", descriptor, err)
			}
			called = false
			if err := entry(NewHost(nil, nil, nil, nil)); err != nil {
				t.Fatal(err)
			}
			if !called {
				t.Error("resolved entry did not run")
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	if _, err := Resolve("registry:nope"); err == nil {
		t.Error("Resolve(unknown) expected error")
	}
}

func TestResolveBadPluginDescriptors(t *testing.T) {
	for _, descriptor := range []string{
		"plugin:",
		"plugin:file.so",
		"plugin::Symbol",
		"plugin:file.so:",
	} {
		if _, err := Resolve(descriptor); err == nil {
			t.Errorf("Resolve(%q) expected error", descriptor)
		}
	}
}

func TestHostExitNeutralizesSuccess(t *testing.T) {
	var gotStatus = -1
	h := NewHost([]string{"app"}, nil, func(status int) { gotStatus = status }, nil)

	h.Exit(0)
	if gotStatus != -1 {
		t.Errorf("Exit(0) reached the exit func with %d", gotStatus)
	}
	h.Exit(2)
	if gotStatus != 2 {
		t.Errorf("Exit(2) passed %d to the exit func", gotStatus)
	}
}

func TestHostCarriesArgsAndObservers(t *testing.T) {
	filters := []ui.EventFilter{}
	h := NewHost([]string{"app", "--flag"}, filters, func(int) {}, nil)
	if got := h.Args(); len(got) != 2 || got[0] != "app" {
		t.Errorf("Args() = %v", got)
	}
	if h.Observers() == nil && filters != nil {
		t.Error("Observers() dropped the filter slice")
	}
}
