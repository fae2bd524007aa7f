// Package replayer implements the replay side: a state machine that waits
// for the application to start, then injects recorded events one at a time
// whenever the live event loop goes quiet.
package replayer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/uireplay/uireplay/internal/codec"
	"github.com/uireplay/uireplay/internal/gate"
	"github.com/uireplay/uireplay/internal/path"
	"github.com/uireplay/uireplay/internal/scenario"
	"github.com/uireplay/uireplay/pkg/ui"
)

// ExitTargetNotFound is the process exit status when a recorded target
// cannot be resolved to a live widget. Continuing would risk delivering an
// event to the wrong widget, so this is fatal.
const ExitTargetNotFound = 3

// DefaultIdleInterval is how long the event stream must stay quiet before
// the next recorded event is injected.
const DefaultIdleInterval = 50 * time.Millisecond

// Options configures a Replayer.
type Options struct {
	// IdleInterval overrides DefaultIdleInterval.
	IdleInterval time.Duration
	// Fuzzy resolves recorded paths by type anywhere in the subtree instead
	// of exact sibling position.
	Fuzzy bool
	// Gate selects the start-up gate policy; default activation.
	Gate gate.Policy
	// Exit replaces os.Exit for fatal resolution failures.
	Exit   func(int)
	Logger *slog.Logger
}

// Replayer injects a loaded scenario into the live event stream. States:
// waiting-for-start (gate closed), idle-replaying, done.
type Replayer struct {
	app      ui.App
	resolver *path.Resolver
	codec    *codec.Codec
	sc       *scenario.Scenario
	gate     *gate.Gate
	idle     time.Duration
	fuzzy    bool
	exit     func(int)
	logger   *slog.Logger

	timer ui.TimerHandle
	pos   int
	done  bool
}

// New constructs a replayer for a loaded scenario.
func New(sc *scenario.Scenario, opts Options) (*Replayer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	idle := opts.IdleInterval
	if idle <= 0 {
		idle = DefaultIdleInterval
	}
	exit := opts.Exit
	if exit == nil {
		exit = os.Exit
	}
	policy := opts.Gate
	if policy == "" {
		policy = gate.PolicyActivation
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("unknown gate policy %q", policy)
	}
	return &Replayer{
		sc:     sc,
		codec:  codec.New(logger),
		gate:   gate.New(policy, logger),
		idle:   idle,
		fuzzy:  opts.Fuzzy,
		exit:   exit,
		logger: logger,
	}, nil
}

// Bind attaches the replayer to the runtime context. Called by the toolkit
// when the observer is installed, before the event loop starts.
func (r *Replayer) Bind(app ui.App) {
	r.app = app
	r.resolver = path.NewResolver(app, path.Options{
		Fuzzy:  r.fuzzy,
		Logger: r.logger,
	})
	r.timer = app.Timer(r.idle, r.step)
}

// FilterEvent observes one dispatched event. Until the gate opens nothing
// happens, not even timer resets. Afterwards every event other than the
// replayer's own timer tick restarts the idle timer, approximating "wait
// until the application has gone quiet". Never consumes the event.
func (r *Replayer) FilterEvent(_ ui.Widget, ev ui.Event) bool {
	if !r.gate.Observe(ev) || r.done {
		return false
	}
	if te, ok := ev.(*ui.TimerEvent); ok && te.ID == r.timer.ID() {
		return false
	}
	r.logger.Debug("event stream active, resetting idle timer",
		slog.String("kind", ev.Kind().String()),
	)
	r.timer.Stop()
	r.timer.Start()
	return false
}

// step fires on idle-timer expiry: inject the next recorded event, or quit
// the application once the scenario is exhausted.
func (r *Replayer) step() {
	_, span := otel.Tracer("uireplay").Start(context.Background(), "replay.step",
		trace.WithAttributes(attribute.Int("scenario.pos", r.pos)),
	)
	defer span.End()

	r.timer.Stop()
	if r.pos >= len(r.sc.Events) {
		r.logger.Info("no more events to replay")
		r.done = true
		r.app.Quit(0)
		return
	}
	entry := r.sc.Events[r.pos]
	r.pos++

	objPath, ok := r.sc.PathOf(entry)
	if !ok {
		r.logger.Error("scenario entry references unknown object",
			slog.Int("object_id", entry.ObjectID),
		)
		r.done = true
		r.exit(ExitTargetNotFound)
		return
	}
	widget := r.resolver.DeserializeWidget(objPath)
	if widget == nil {
		r.logger.Error("cannot replay event: object not found",
			slog.String("event", entry.Event),
			slog.String("path", objPath.String()),
		)
		r.done = true
		r.exit(ExitTargetNotFound)
		return
	}
	ev, err := r.codec.Decode(entry.Event)
	if err != nil {
		r.logger.Warn("skipping undecodable event",
			slog.String("event", entry.Event),
			slog.String("error", err.Error()),
		)
		r.timer.Start()
		return
	}
	r.logger.Info("replaying event",
		slog.String("event", entry.Event),
		slog.String("path", objPath.String()),
	)
	// Direct synchronous send: the next step cannot be scheduled before this
	// event's effects are visible.
	r.app.SendEvent(widget, ev)
}

// Remaining returns how many scenario entries have not been injected yet.
func (r *Replayer) Remaining() int { return len(r.sc.Events) - r.pos }

// Close logs a non-fatal warning if the application finished with scenario
// events still unconsumed; divergence from the recorded path is suspicious
// but not automatically a failure.
func (r *Replayer) Close() {
	if n := r.Remaining(); n > 0 {
		r.logger.Warn("application exited with events left to replay; this may indicate failure",
			slog.Int("remaining", n),
		)
	}
}
