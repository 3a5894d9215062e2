// Package command turns a frozen config.Config into the argument list of a
// "perl -c" invocation.
package command

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/Wladim1r/efmperl/internal/config"
	"github.com/Wladim1r/efmperl/internal/probe"
)

// Modules probed for the composite lint test.
const (
	LintModule     = "B::Lint"
	StrictOOModule = "B::Lint::StrictOO"
)

// CheckFlag puts perl in syntax-check mode.
const CheckFlag = "-c"

// Plan is the assembled check invocation.
type Plan struct {
	// Args is the argument list passed to perl, target file last.
	Args []string
	// Tests holds the syntax tests that survived probing, name to the value
	// passed after -M.
	Tests map[string]string
	// Modules are the extra modules activated without probing.
	Modules []string
	// Dropped lists requested tests whose module is not installed.
	Dropped []string
}

// Assemble probes every requested syntax test and builds the argument list.
// Extra modules are never probed.
func Assemble(ctx context.Context, cfg config.Config, p probe.Prober, file string) Plan {
	tests := cfg.Tests()
	modules := cfg.Modules()
	plan := Plan{Tests: make(map[string]string, len(tests))}

	if _, ok := tests[config.TestLint]; ok {
		delete(tests, config.TestLint)
		value, extra, ok := lintActivation(ctx, cfg.LintChecks(), p)
		if ok {
			plan.Tests[config.TestLint] = value
			modules = append(modules, extra...)
		} else {
			plan.Dropped = append(plan.Dropped, config.TestLint)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(tests)) {
		value := tests[name]
		if !p.Exists(ctx, ModuleName(value)) {
			plan.Dropped = append(plan.Dropped, name)
			continue
		}
		plan.Tests[name] = value
	}
	slices.Sort(plan.Dropped)

	for _, inc := range cfg.Includes() {
		plan.Args = append(plan.Args, "-I"+inc)
	}
	for _, name := range slices.Sorted(maps.Keys(plan.Tests)) {
		plan.Args = append(plan.Args, "-M"+plan.Tests[name])
	}
	for _, m := range modules {
		plan.Args = append(plan.Args, "-M"+m)
	}
	plan.Args = append(plan.Args, CheckFlag, file)
	plan.Modules = modules
	return plan
}

// lintActivation builds the composite "O=Lint,<checks>" value. It reports
// false when B::Lint is missing or no sub-check is left enabled. extra holds
// modules the composite needs loaded alongside it.
func lintActivation(ctx context.Context, checks map[string]bool, p probe.Prober) (value string, extra []string, ok bool) {
	if !p.Exists(ctx, LintModule) {
		return "", nil, false
	}

	if checks[config.LintOO] && p.Exists(ctx, StrictOOModule) {
		extra = append(extra, StrictOOModule)
	} else {
		checks[config.LintOO] = false
	}

	var enabled []string
	for name, on := range checks {
		if on {
			enabled = append(enabled, name)
		}
	}
	if len(enabled) == 0 {
		return "", nil, false
	}
	slices.Sort(enabled)
	return "O=Lint," + strings.Join(enabled, ","), extra, true
}

// ModuleName derives the bare module name from an activation value:
// "-indirect=fatal" → "indirect", "Foo::Bar()" → "Foo::Bar".
func ModuleName(value string) string {
	name := strings.TrimPrefix(value, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(name, "()")
}
