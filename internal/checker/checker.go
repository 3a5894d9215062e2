// Package checker runs one efm-perl check: validate the file, read its
// directives, probe optional modules, run perl -c and print the diagnostics
// that survive filtering.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Wladim1r/efmperl/internal/command"
	"github.com/Wladim1r/efmperl/internal/config"
	"github.com/Wladim1r/efmperl/internal/directive"
	"github.com/Wladim1r/efmperl/internal/filter"
	"github.com/Wladim1r/efmperl/internal/logger"
	"github.com/Wladim1r/efmperl/internal/probe"
	"github.com/Wladim1r/efmperl/internal/runner"
)

// ErrNotRegular is returned for targets that are not regular files.
var ErrNotRegular = errors.New("not a regular file")

// Checker holds the collaborators of a run. Nil fields fall back to the real
// implementations.
type Checker struct {
	Settings *config.Settings
	// Debug is added to the debug counter from the file's directives.
	Debug  int
	Stdout io.Writer

	// Locate resolves perl and perldoc. Defaults to probe.Locate.
	Locate func(name string) (string, error)
	// Prober defaults to perldoc -l using the located perldoc.
	Prober   probe.Prober
	Executor runner.Executor
}

// Result describes a finished run.
type Result struct {
	Config   config.Config
	Plan     command.Plan
	Reported int
}

// Check runs the whole pipeline for file. Reported diagnostics never turn
// into an error.
func (c *Checker) Check(ctx context.Context, file string) (Result, error) {
	settings := c.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	locate := c.Locate
	if locate == nil {
		locate = probe.Locate
	}
	exe := c.Executor
	if exe == nil {
		exe = runner.Exec{}
	}
	stdout := c.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	src, err := ReadTarget(file)
	if err != nil {
		return Result{}, err
	}
	perldoc, err := locate(settings.Perldoc)
	if err != nil {
		return Result{}, err
	}
	perl, err := locate(settings.Perl)
	if err != nil {
		return Result{}, err
	}

	dirs, err := directive.Scan(bytes.NewReader(src))
	if err != nil {
		return Result{}, err
	}

	b := settings.Seed(config.NewBuilder()).AddDebug(c.Debug)
	cfg := directive.Apply(b, dirs).Build()

	log, err := logger.New(settings.LogLevel, cfg.Debug())
	if err != nil {
		return Result{}, fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()
	for _, d := range dirs {
		log.Debugw("directive", "line", d.Line, "kind", d.Kind.String(), "args", d.Args)
	}

	p := c.Prober
	if p == nil {
		p = probe.NewPerldoc(perldoc, log)
	}
	plan := command.Assemble(ctx, cfg, p, file)
	if len(plan.Dropped) > 0 {
		log.Debugw("tests not installed", "tests", plan.Dropped)
	}
	log.Debugw("running check", "perl", perl, "args", plan.Args)

	stderr, err := exe.Run(ctx, perl, plan.Args)
	if err != nil {
		return Result{Config: cfg, Plan: plan}, err
	}

	n, err := filter.New(file, cfg.SkipErrors()).Copy(stdout, bytes.NewReader(stderr))
	if err != nil {
		return Result{Config: cfg, Plan: plan, Reported: n}, err
	}
	log.Debugw("check finished", "reported", n)
	return Result{Config: cfg, Plan: plan, Reported: n}, nil
}

// ReadTarget checks that file exists, is a regular file and is readable, and
// returns its contents.
func ReadTarget(file string) ([]byte, error) {
	fi, err := os.Stat(file)
	if err != nil {
		return nil, err
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", file, ErrNotRegular)
	}
	return os.ReadFile(file)
}
