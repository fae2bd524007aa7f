package session

import (
	"io"
	"log/slog"

	"github.com/uireplay/uireplay/internal/config"
	"github.com/uireplay/uireplay/internal/scenario"
	"github.com/uireplay/uireplay/internal/target"
)

// Option is a functional option for configuring a Session.
type Option func(*Session) error

// WithMode selects record, replay or explain.
func WithMode(mode Mode) Option {
	return func(s *Session) error {
		s.mode = mode
		return nil
	}
}

// WithConfig supplies an already-loaded configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) error {
		s.cfg = cfg
		return nil
	}
}

// WithConfigFile loads configuration from a YAML file and watches it for
// changes during capture.
func WithConfigFile(path string) Option {
	return func(s *Session) error {
		cfg, err := config.Load(path)
		if err != nil {
			return &ConfigError{Err: err}
		}
		s.cfg = cfg
		s.cfgPath = path
		return nil
	}
}

// WithConfigWatch enables hot-reloading of an already-loaded configuration
// from the given file during capture. Unlike WithConfigFile it does not load
// the file itself, so values overridden after loading stay in effect until
// the file actually changes.
func WithConfigWatch(path string) Option {
	return func(s *Session) error {
		s.cfgPath = path
		return nil
	}
}

// WithScenario opens the scenario store behind a locator: a file path, or
// "db:PATH#NAME" for a SQLite archive.
func WithScenario(locator string) Option {
	return func(s *Session) error {
		store, err := scenario.Open(locator)
		if err != nil {
			return &ConfigError{Err: err}
		}
		s.store = store
		return nil
	}
}

// WithStore supplies a scenario store directly.
func WithStore(store scenario.Store) Option {
	return func(s *Session) error {
		s.store = store
		return nil
	}
}

// WithEntryPoint resolves the target application from a descriptor
// ("registry:NAME" or "plugin:FILE.so:Symbol").
func WithEntryPoint(descriptor string) Option {
	return func(s *Session) error {
		entry, err := target.Resolve(descriptor)
		if err != nil {
			return &ConfigError{Err: err}
		}
		s.entry = entry
		return nil
	}
}

// WithEntry supplies the target entry point directly.
func WithEntry(entry target.Entry) Option {
	return func(s *Session) error {
		s.entry = entry
		return nil
	}
}

// WithArgs sets the argument vector forwarded to the target application.
func WithArgs(args []string) Option {
	return func(s *Session) error {
		s.args = args
		return nil
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		s.logger = logger
		return nil
	}
}

// WithOutput redirects explain output.
func WithOutput(out io.Writer) Option {
	return func(s *Session) error {
		s.out = out
		return nil
	}
}

// WithExit replaces os.Exit for fatal replay failures and intercepted
// non-zero target exits. Tests use this to observe statuses.
func WithExit(exit func(int)) Option {
	return func(s *Session) error {
		s.exit = exit
		return nil
	}
}
