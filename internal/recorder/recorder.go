// Package recorder implements the capture side: a passive observer on the
// application's event dispatch stream that filters, resolves and appends
// (object, event) entries, flushing them to a scenario store once on close.
package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/uireplay/uireplay/internal/codec"
	"github.com/uireplay/uireplay/internal/gate"
	"github.com/uireplay/uireplay/internal/path"
	"github.com/uireplay/uireplay/internal/registry"
	"github.com/uireplay/uireplay/internal/scenario"
	"github.com/uireplay/uireplay/pkg/ui"
)

// Options configures a Recorder.
type Options struct {
	// Include and Exclude are comma-separated alternations of substrings or
	// regular expressions matched against event class names. An empty
	// Include records everything; Exclude wins over Include.
	Include string
	Exclude string
	// Gate selects the start-up gate policy; default activation.
	Gate gate.Policy
	// RaiseFocus activates the target window before recording an event on an
	// inactive window, which replaying without a window manager requires.
	RaiseFocus bool
	Logger     *slog.Logger
}

// DefaultInclude matches the event classes scenarios are usually made of.
const DefaultInclude = "MouseEvent,KeyEvent,CloseEvent"

// Recorder observes the dispatch stream and accumulates a scenario. It is a
// pure side-channel tap: FilterEvent never consumes an event.
type Recorder struct {
	app      ui.App
	resolver *path.Resolver
	codec    *codec.Codec
	reg      *registry.Registry
	store    scenario.Store
	gate     *gate.Gate
	raise    bool
	logger   *slog.Logger

	// The filter pair may be swapped by a config reload from outside the UI
	// thread, so it gets its own lock.
	filterMu sync.RWMutex
	include  *regexp.Regexp
	exclude  *regexp.Regexp

	entries []scenario.Entry
	closed  bool
}

// New constructs a recorder that will flush into store on Close.
func New(store scenario.Store, opts Options) (*Recorder, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	include := opts.Include
	if include == "" {
		include = DefaultInclude
	}
	includeRe, err := compileAlternation(include)
	if err != nil {
		return nil, fmt.Errorf("events include filter: %w", err)
	}
	var excludeRe *regexp.Regexp
	if opts.Exclude != "" {
		excludeRe, err = compileAlternation(opts.Exclude)
		if err != nil {
			return nil, fmt.Errorf("events exclude filter: %w", err)
		}
	}
	policy := opts.Gate
	if policy == "" {
		policy = gate.PolicyActivation
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown gate policy %q", policy)
	}
	return &Recorder{
		store:   store,
		codec:   codec.New(logger),
		reg:     registry.New(),
		gate:    gate.New(policy, logger),
		include: includeRe,
		exclude: excludeRe,
		raise:   opts.RaiseFocus,
		logger:  logger,
	}, nil
}

// compileAlternation turns a comma-separated filter list into one pattern.
func compileAlternation(filters string) (*regexp.Regexp, error) {
	return regexp.Compile(strings.Join(strings.Split(filters, ","), "|"))
}

// Bind attaches the recorder to the runtime context. Called by the toolkit
// when the observer is installed, before the event loop starts.
func (r *Recorder) Bind(app ui.App) {
	r.app = app
	r.resolver = path.NewResolver(app, path.Options{Logger: r.logger})
}

// Matches reports whether an event class name passes the include/exclude
// filters.
func (r *Recorder) Matches(eventName string) bool {
	r.filterMu.RLock()
	defer r.filterMu.RUnlock()
	if !r.include.MatchString(eventName) {
		return false
	}
	return r.exclude == nil || !r.exclude.MatchString(eventName)
}

// SetFilters replaces the include/exclude filters, typically on a config
// reload during a long capture. An empty exclude clears it.
func (r *Recorder) SetFilters(include, exclude string) error {
	if include == "" {
		include = DefaultInclude
	}
	includeRe, err := compileAlternation(include)
	if err != nil {
		return fmt.Errorf("events include filter: %w", err)
	}
	var excludeRe *regexp.Regexp
	if exclude != "" {
		excludeRe, err = compileAlternation(exclude)
		if err != nil {
			return fmt.Errorf("events exclude filter: %w", err)
		}
	}
	r.filterMu.Lock()
	defer r.filterMu.Unlock()
	r.include = includeRe
	r.exclude = excludeRe
	return nil
}

// FilterEvent observes one dispatched event. It always returns false:
// recording never alters dispatch.
func (r *Recorder) FilterEvent(target ui.Widget, ev ui.Event) bool {
	if !r.gate.Observe(ev) {
		return false
	}
	name := codec.EventName(ev)
	skipped := !r.Matches(name) || target == nil
	if skipped {
		r.logger.Debug("skipped event",
			slog.String("event", name),
			slog.String("kind", ev.Kind().String()),
		)
		return false
	}
	r.logger.Debug("recording event",
		slog.String("event", name),
		slog.String("kind", ev.Kind().String()),
		slog.Bool("spontaneous", ev.Spontaneous()),
	)

	// Raise and activate the target's window first, so the scenario replays
	// deterministically in environments without a window manager.
	if r.raise &&
		ev.Kind() != ui.KindMouseMove &&
		ev.Spontaneous() &&
		!target.IsActiveWindow() {
		r.app.ActivateWindow(target)
	}

	objPath := r.resolver.SerializeWidget(target)
	if len(objPath) == 0 {
		r.logger.Warn("skipping object that cannot be addressed",
			slog.String("event", name),
		)
		return false
	}
	r.entries = append(r.entries, scenario.Entry{
		ObjectID: r.reg.Intern(objPath),
		Event:    r.codec.Encode(ev),
	})
	return false
}

// Close flushes the event log and object registry to the store, exactly
// once. Safe to call after the observed application has finished running.
func (r *Recorder) Close(ctx context.Context) error {
	if r.closed {
		return nil
	}
	r.closed = true
	s := &scenario.Scenario{
		FormatVersion: scenario.FormatVersion,
		Registry:      r.reg.Snapshot(),
		Events:        r.entries,
	}
	if err := r.store.Save(ctx, s); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	r.logger.Info("scenario written",
		slog.Int("events", len(r.entries)),
		slog.Int("objects", r.reg.Len()),
	)
	return nil
}

// Entries returns the number of recorded entries so far.
func (r *Recorder) Entries() int { return len(r.entries) }
