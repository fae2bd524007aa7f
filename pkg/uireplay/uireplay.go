// Package uireplay provides the public API for embedding the tester.
// This is the stable surface for external consumers; the engine lives in
// internal packages.
package uireplay

import (
	"github.com/uireplay/uireplay/internal/session"
	"github.com/uireplay/uireplay/internal/target"
)

// Session is one configured record, replay or explain run.
// See internal/session.Session for full documentation.
type Session = session.Session

// Option is a functional option for configuring a Session.
type Option = session.Option

// Mode selects what a session does.
type Mode = session.Mode

const (
	ModeRecord  = session.ModeRecord
	ModeReplay  = session.ModeReplay
	ModeExplain = session.ModeExplain
)

// Entry is a target application's main function; Host is what it sees of
// the harness.
type (
	Entry = target.Entry
	Host  = target.Host
)

// RegisterTarget makes a compiled-in target entry point resolvable by name.
var RegisterTarget = target.Register

// New creates a Session with the given options.
// Example:
//
//	s, err := uireplay.New(
//	    uireplay.WithMode(uireplay.ModeRecord),
//	    uireplay.WithScenario("scenario.json"),
//	    uireplay.WithEntryPoint("registry:myapp"),
//	)
var New = session.New

// ExitCode maps an error returned by Session.Run to a process exit status.
var ExitCode = session.ExitCode

// Configuration options.
var (
	WithMode        = session.WithMode
	WithConfig      = session.WithConfig
	WithConfigFile  = session.WithConfigFile
	WithConfigWatch = session.WithConfigWatch
	WithScenario    = session.WithScenario
	WithStore       = session.WithStore
	WithEntryPoint  = session.WithEntryPoint
	WithEntry       = session.WithEntry
	WithArgs        = session.WithArgs
	WithLogger      = session.WithLogger
	WithOutput      = session.WithOutput
	WithExit        = session.WithExit
)
