// Package gate implements the one-way start-up gate shared by capture and
// replay: nothing is processed until the bootstrap signal (the first
// window-activation transition) has been observed once.
package gate

import (
	"log/slog"

	"github.com/uireplay/uireplay/pkg/ui"
)

// Policy selects what opens the gate.
type Policy string

const (
	// PolicyActivation opens the gate on the first ActivationChange event.
	PolicyActivation Policy = "activation"
	// PolicyNone starts with the gate open.
	PolicyNone Policy = "none"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == PolicyActivation || p == PolicyNone
}

// Gate suppresses processing until its bootstrap signal fires. Once open it
// stays open.
type Gate struct {
	open   bool
	logger *slog.Logger
}

// New constructs a gate for the given policy.
func New(policy Policy, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{open: policy == PolicyNone, logger: logger}
}

// Observe inspects one dispatched event and reports whether the gate is open
// after it. The transition is logged once.
func (g *Gate) Observe(ev ui.Event) bool {
	if g.open {
		return true
	}
	g.logger.Debug("event before application start", slog.String("kind", ev.Kind().String()))
	if ev.Kind() == ui.KindActivationChange {
		g.logger.Debug("application started, gate open")
		g.open = true
	}
	// The opening event itself is processed, so the bootstrap activation can
	// be part of what an observer sees.
	return g.open
}

// Open reports whether the bootstrap signal has been observed.
func (g *Gate) Open() bool { return g.open }
