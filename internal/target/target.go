// Package target locates and runs the application under test. An entry point
// is either compiled in and registered by name, or loaded reflectively from
// a Go plugin. The target runs with a reconstructed argument vector and its
// own termination requests intercepted, so the tester keeps control of the
// final process exit.
package target

import (
	"fmt"
	"log/slog"
	"plugin"
	"strings"
	"sync"

	"github.com/uireplay/uireplay/pkg/ui"
)

// Host is what a target entry point sees of its harness. Observers must be
// passed, in order, to the toolkit application constructor before the event
// loop starts.
type Host interface {
	// Args is the argument vector the target should believe it was launched
	// with.
	Args() []string
	// Observers are the event filters to install on the application.
	Observers() []ui.EventFilter
	// Exit requests process termination. A zero status is neutralized (the
	// harness still has teardown to run); a non-zero status is honored
	// immediately as the target signaling failure.
	Exit(status int)
}

// Entry is a target application's main function.
type Entry func(host Host) error

var (
	regMu   sync.RWMutex
	entries = make(map[string]Entry)
)

// Register makes a compiled-in entry point resolvable by name. Typically
// called from the target package's init.
func Register(name string, e Entry) {
	regMu.Lock()
	defer regMu.Unlock()
	entries[name] = e
}

// Resolve locates an entry point from a descriptor. Supported forms:
//
//	registry:NAME          a Register-ed entry point (also plain NAME)
//	plugin:FILE.so:Symbol  an Entry symbol in a Go plugin
func Resolve(descriptor string) (Entry, error) {
	if rest, ok := strings.CutPrefix(descriptor, "plugin:"); ok {
		return resolvePlugin(rest)
	}
	name := strings.TrimPrefix(descriptor, "registry:")
	regMu.RLock()
	defer regMu.RUnlock()
	e, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf("no entry point registered as %q", name)
	}
	return e, nil
}

func resolvePlugin(spec string) (Entry, error) {
	file, symbol, ok := strings.Cut(spec, ":")
	if !ok || file == "" || symbol == "" {
		return nil, fmt.Errorf("plugin descriptor must be plugin:FILE.so:Symbol, got %q", spec)
	}
	p, err := plugin.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open plugin %s: %w", file, err)
	}
	sym, err := p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("lookup %s in %s: %w", symbol, file, err)
	}
	switch fn := sym.(type) {
	case Entry:
		return fn, nil
	case *Entry:
		return *fn, nil
	case func(Host) error:
		return fn, nil
	default:
		return nil, fmt.Errorf("symbol %s in %s is %T, want target.Entry", symbol, file, sym)
	}
}

// host is the default Host implementation.
type host struct {
	args      []string
	observers []ui.EventFilter
	exit      func(int)
	logger    *slog.Logger
}

// NewHost constructs a Host. exit is invoked only for non-zero statuses.
func NewHost(args []string, observers []ui.EventFilter, exit func(int), logger *slog.Logger) Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &host{args: args, observers: observers, exit: exit, logger: logger}
}

func (h *host) Args() []string              { return h.args }
func (h *host) Observers() []ui.EventFilter { return h.observers }

func (h *host) Exit(status int) {
	h.logger.Warn("intercepted exit request from target application",
		slog.Int("status", status),
	)
	if status != 0 {
		h.exit(status)
	}
}
