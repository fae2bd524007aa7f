// Package session wires the tester together for one run: it owns the
// scenario store, the target entry point and the observer for the chosen
// mode, and maps every failure to the process exit taxonomy.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/uireplay/uireplay/internal/config"
	"github.com/uireplay/uireplay/internal/explainer"
	"github.com/uireplay/uireplay/internal/gate"
	"github.com/uireplay/uireplay/internal/recorder"
	"github.com/uireplay/uireplay/internal/replayer"
	"github.com/uireplay/uireplay/internal/scenario"
	"github.com/uireplay/uireplay/internal/target"
	"github.com/uireplay/uireplay/pkg/ui"
)

// Mode selects what a session does.
type Mode string

const (
	ModeRecord  Mode = "record"
	ModeReplay  Mode = "replay"
	ModeExplain Mode = "explain"
)

// Session is one configured record, replay or explain run.
type Session struct {
	mode    Mode
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	store   scenario.Store
	entry   target.Entry
	args    []string
	out     io.Writer
	exit    func(int)
}

// New builds a session from options. Configuration problems surface here,
// before any capture or replay side effects.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		logger: slog.Default(),
		out:    os.Stdout,
		exit:   os.Exit,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.cfg == nil {
		cfg, err := config.Load("")
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		s.cfg = cfg
	}
	if s.mode == "" {
		return nil, configErrorf("session mode not set")
	}
	if s.store == nil {
		return nil, configErrorf("scenario store not set")
	}
	if s.mode != ModeExplain && s.entry == nil {
		return nil, configErrorf("target entry point not set")
	}
	return s, nil
}

// Run executes the session. The returned error maps to an exit status via
// ExitCode; fatal replay resolution failures terminate through the session's
// exit function instead, carrying status ExitTargetNotFound.
func (s *Session) Run(ctx context.Context) error {
	ctx, span := otel.Tracer("uireplay").Start(ctx, "session."+string(s.mode))
	defer span.End()

	switch s.mode {
	case ModeRecord:
		return s.record(ctx)
	case ModeReplay:
		return s.replay(ctx)
	case ModeExplain:
		return s.explain(ctx)
	default:
		return configErrorf("unknown mode %q", s.mode)
	}
}

func (s *Session) record(ctx context.Context) error {
	rec, err := recorder.New(s.store, recorder.Options{
		Include:    s.cfg.Record.Include,
		Exclude:    s.cfg.Record.Exclude,
		Gate:       gate.Policy(s.cfg.Record.Gate),
		RaiseFocus: s.cfg.Record.Raise,
		Logger:     s.logger,
	})
	if err != nil {
		return &ConfigError{Err: err}
	}
	if s.cfgPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		err := config.Watch(watchCtx, s.cfgPath, s.logger, func(c *config.Config) {
			if err := rec.SetFilters(c.Record.Include, c.Record.Exclude); err != nil {
				s.logger.Error("ignoring reloaded event filters",
					slog.String("error", err.Error()),
				)
			}
		})
		if err != nil {
			s.logger.Warn("config watch unavailable", slog.String("error", err.Error()))
		}
	}
	if err := s.runTarget(rec); err != nil {
		return err
	}
	s.logger.Info("application exited successfully")
	if err := rec.Close(ctx); err != nil {
		return fmt.Errorf("close recorder: %w", err)
	}
	return nil
}

func (s *Session) replay(ctx context.Context) error {
	sc, err := s.store.Load(ctx)
	if err != nil {
		return &ConfigError{Err: err}
	}
	rep, err := replayer.New(sc, replayer.Options{
		IdleInterval: time.Duration(s.cfg.Replay.IdleMs) * time.Millisecond,
		Fuzzy:        s.cfg.Replay.Fuzzy,
		Gate:         gate.Policy(s.cfg.Replay.Gate),
		Exit:         s.exit,
		Logger:       s.logger,
	})
	if err != nil {
		return &ConfigError{Err: err}
	}
	if err := s.runTarget(rep); err != nil {
		return err
	}
	s.logger.Info("application exited successfully")
	rep.Close()
	return nil
}

func (s *Session) explain(ctx context.Context) error {
	sc, err := s.store.Load(ctx)
	if err != nil {
		return &ConfigError{Err: err}
	}
	return explainer.New(sc, s.out).Run()
}

// runTarget invokes the target entry point with the observer installed,
// converting target errors and panics into application failures.
func (s *Session) runTarget(observer ui.EventFilter) (err error) {
	host := target.NewHost(s.args, []ui.EventFilter{observer}, s.exit, s.logger)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("unhandled error in target application",
				slog.Any("panic", r),
			)
			err = &AppError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if runErr := s.entry(host); runErr != nil {
		s.logger.Error("target application failed",
			slog.String("error", runErr.Error()),
		)
		return &AppError{Err: runErr}
	}
	return nil
}
