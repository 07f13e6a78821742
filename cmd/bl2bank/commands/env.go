// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/bureau-foundation/bl2bank/cmd/bl2bank/cli"
	"github.com/bureau-foundation/bl2bank/lib/clock"
	"github.com/bureau-foundation/bl2bank/lib/config"
	"github.com/bureau-foundation/bl2bank/lib/uid"
)

// Env holds the process streams and collaborators shared by every
// command.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Clock  clock.Clock

	// Logger, when set, replaces the logger built from configuration.
	Logger *slog.Logger
}

// ProcessEnv returns an Env bound to the process's standard streams
// and the wall clock.
func ProcessEnv() *Env {
	return &Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Clock:  clock.Real(),
	}
}

// globalParams are the flags accepted before the first subcommand.
type globalParams struct {
	ConfigPath  string        `flag:"config" desc:"path to bl2bank.yaml (default: $BL2BANK_CONFIG)"`
	LockTimeout time.Duration `flag:"lock-timeout" default:"10s" desc:"how long to wait for another bl2bank process to release a save"`
}

// session is the state shared by the commands of one tree.
type session struct {
	env    *Env
	global globalParams
}

// runtime is what a command needs after configuration is resolved.
type runtime struct {
	env    *Env
	config *config.Config
	logger *slog.Logger
	ids    uid.Generator
}

// start resolves configuration and builds the logger and UniqueID
// generator for one command invocation.
func (s *session) start(command string) (*runtime, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := s.env.Logger
	if logger == nil {
		logger, err = cli.NewCommandLogger(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return nil, err
		}
	}

	ids, err := generatorFor(cfg.IDs)
	if err != nil {
		return nil, err
	}

	return &runtime{
		env:    s.env,
		config: cfg,
		logger: logger.With("command", command),
		ids:    ids,
	}, nil
}

func (s *session) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case s.global.ConfigPath != "":
		cfg, err = config.LoadFile(s.global.ConfigPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// defaultLockTimeout applies when --lock-timeout is not given. The
// global flags are only bound when they precede the subcommand.
const defaultLockTimeout = 10 * time.Second

// lockContext bounds how long a command waits for a save's lock.
func (s *session) lockContext() (context.Context, context.CancelFunc) {
	timeout := s.global.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func generatorFor(ids config.IDsConfig) (uid.Generator, error) {
	switch ids.Mode {
	case "", "random":
		return uid.Random(), nil
	case "sequence":
		return uid.NewSequence(ids.Start), nil
	case "seeded":
		return uid.NewSeeded(ids.Seed), nil
	default:
		return nil, fmt.Errorf("unknown ids mode %q", ids.Mode)
	}
}

// parseIndex parses a slot index argument.
func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid slot index %q", arg)
	}
	return index, nil
}

// requireArgs checks the positional argument count of a command.
func requireArgs(args []string, minimum, maximum int, usage string) error {
	if len(args) < minimum || len(args) > maximum {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
