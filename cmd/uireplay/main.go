// Command uireplay records, replays and explains GUI interaction scenarios
// against a target application sharing this binary's process.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	_ "github.com/uireplay/uireplay/examples/twobuttons"
	"github.com/uireplay/uireplay/internal/config"
	"github.com/uireplay/uireplay/internal/headless"
	"github.com/uireplay/uireplay/internal/session"
	"github.com/uireplay/uireplay/internal/telemetry"
	"github.com/uireplay/uireplay/pkg/uireplay"
)

func main() {
	// The interrupt signal keeps its default immediate-termination
	// disposition so a hung capture or replay can always be force-stopped.
	_ = godotenv.Load()

	root := &cli.Command{
		Name:  "uireplay",
		Usage: "test GUI applications by recording and replaying scenarios",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print verbose information"},
			&cli.BoolFlag{Name: "debug", Usage: "print debug information"},
			&cli.StringFlag{Name: "log", Usage: "also log program output to `FILE`"},
			&cli.StringFlag{Name: "config", Usage: "YAML configuration `FILE`"},
		},
		Commands: []*cli.Command{
			recordCommand(),
			replayCommand(),
			explainCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error(err.Error())
		os.Exit(uireplay.ExitCode(err))
	}
}

func setupLogging(cmd *cli.Command) error {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelInfo
	}
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	if logFile := cmd.String("log"); logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return &session.ConfigError{Err: fmt.Errorf("open log file: %w", err)}
		}
		w = io.MultiWriter(os.Stderr, f)
	}
	// Quiet runs log machine-readable JSON; once a human asks for more
	// output with -v or --debug, switch to the text handler.
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	if level < slog.LevelWarn {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// setup performs the shared per-command bootstrap and returns the loaded
// configuration.
func setup(ctx context.Context, cmd *cli.Command) (*config.Config, func(), error) {
	if err := setupLogging(cmd); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, &session.ConfigError{Err: err}
	}
	cleanup := func() {}
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init("uireplay", slog.Default())
		if err != nil {
			return nil, nil, &session.ConfigError{Err: err}
		}
		cleanup = func() {
			if err := shutdown(ctx); err != nil {
				slog.Error("tracer shutdown failed", slog.String("error", err.Error()))
			}
		}
	}
	return cfg, cleanup, nil
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:      "record",
		Usage:     "record the events the user sends to the entry-point application into the scenario",
		ArgsUsage: "SCENARIO MODULE_PATH [ARGS...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "events-include", Usage: "record only events matching `REGEX` (comma-separated alternation)"},
			&cli.StringFlag{Name: "events-exclude", Usage: "skip events matching `REGEX`"},
			&cli.BoolFlag{Name: "no-raise", Usage: "do not raise target windows before recording"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, cleanup, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if cmd.Args().Len() < 2 {
				return &session.ConfigError{Err: fmt.Errorf("record needs SCENARIO and MODULE_PATH arguments")}
			}
			if cmd.IsSet("events-include") {
				cfg.Record.Include = cmd.String("events-include")
			}
			if cmd.IsSet("events-exclude") {
				cfg.Record.Exclude = cmd.String("events-exclude")
			}
			if cmd.Bool("no-raise") {
				cfg.Record.Raise = false
			}
			return runSession(ctx, cmd, cfg, uireplay.ModeRecord)
		},
	}
}

func replayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "replay the recorded scenario",
		ArgsUsage: "SCENARIO MODULE_PATH [ARGS...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "fuzzy", Usage: "fuzzy matching of event target objects"},
			&cli.IntFlag{Name: "idle-ms", Usage: "quiescence interval in `MS` before injecting the next event"},
			&cli.BoolFlag{Name: "x11", Usage: "replay inside a new, headless X11 server"},
			&cli.BoolFlag{Name: "x11-video", Usage: "record a video of the playback"},
			&cli.StringFlag{Name: "x11-video-file", Usage: "video output `FILE` (default: SCENARIO.mp4)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, cleanup, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if cmd.Args().Len() < 2 {
				return &session.ConfigError{Err: fmt.Errorf("replay needs SCENARIO and MODULE_PATH arguments")}
			}
			if cmd.Bool("fuzzy") {
				cfg.Replay.Fuzzy = true
			}
			if cmd.IsSet("idle-ms") {
				cfg.Replay.IdleMs = int(cmd.Int("idle-ms"))
			}
			if cmd.Bool("x11") || cmd.Bool("x11-video") || cmd.IsSet("x11-video-file") {
				cfg.Headless.Enabled = true
			}
			if cmd.Bool("x11-video") || cmd.IsSet("x11-video-file") {
				cfg.Headless.Video = cmd.String("x11-video-file")
				if cfg.Headless.Video == "" {
					cfg.Headless.Video = cmd.Args().Get(0) + ".mp4"
				}
			}

			if cfg.Headless.Enabled {
				status, err := headless.Rerun(ctx, headless.Options{
					Resolution: cfg.Headless.Resolution,
					VideoFile:  cfg.Headless.Video,
					Logger:     slog.Default(),
				}, headless.StripReexecFlags(os.Args))
				if err != nil {
					return &session.ConfigError{Err: err}
				}
				// Forward the wrapped invocation's status unchanged.
				os.Exit(status)
			}
			return runSession(ctx, cmd, cfg, uireplay.ModeReplay)
		},
	}
}

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "explain in semi-human-readable form the events a scenario contains",
		ArgsUsage: "SCENARIO",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, cleanup, err := setup(ctx, cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			if cmd.Args().Len() < 1 {
				return &session.ConfigError{Err: fmt.Errorf("explain needs a SCENARIO argument")}
			}
			s, err := uireplay.New(
				uireplay.WithMode(uireplay.ModeExplain),
				uireplay.WithConfig(cfg),
				uireplay.WithScenario(cmd.Args().Get(0)),
				uireplay.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}
			return s.Run(ctx)
		},
	}
}

func runSession(ctx context.Context, cmd *cli.Command, cfg *config.Config, mode uireplay.Mode) error {
	args := cmd.Args().Slice()
	scenarioPath, entryPoint, targetArgs := args[0], args[1], args[2:]

	opts := []uireplay.Option{
		uireplay.WithMode(mode),
		uireplay.WithConfig(cfg),
		uireplay.WithScenario(scenarioPath),
		uireplay.WithEntryPoint(entryPoint),
		// Make the application believe it was run directly.
		uireplay.WithArgs(append([]string{entryPoint}, targetArgs...)),
		uireplay.WithLogger(slog.Default()),
	}
	if cfgFile := cmd.String("config"); cfgFile != "" {
		opts = append(opts, uireplay.WithConfigWatch(cfgFile))
	}
	s, err := uireplay.New(opts...)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}
