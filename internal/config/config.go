// Package config holds the check configuration assembled for one efm-perl run
// and the host-level settings it is seeded from.
//
// A Config is built through a Builder: defaults first, then the settings file,
// then the directives found in the checked file. Build freezes the result;
// every accessor of a frozen Config returns a copy.
package config

import (
	"maps"
	"slices"
)

// Syntax test names.
const (
	TestIndirect            = "indirect"
	TestMultidimensional    = "multidimensional"
	TestBarewordFilehandles = "bareword::filehandles"
	TestAutovivification    = "autovivification"
	TestWarningsUnused      = "warnings::unused"
	TestCircularRequire     = "circular::require"
	TestLint                = "lint"
)

// Lint sub-check names, as understood by B::Lint.
const (
	LintBareSubs         = "bare-subs"
	LintContext          = "context"
	LintDollarUnderscore = "dollar-underscore"
	LintImplicitRead     = "implicit-read"
	LintImplicitWrite    = "implicit-write"
	LintMagicDiamond     = "magic-diamond"
	LintOO               = "oo"
	LintPrivateNames     = "private-names"
	LintRegexpVariables  = "regexp-variables"
	LintUndefinedSubs    = "undefined-subs"
)

// Config is a frozen check configuration.
type Config struct {
	debug      int
	tests      map[string]string
	lintChecks map[string]bool
	includes   []string
	modules    []string
	skipErrors []string
}

// Debug returns the debug counter.
func (c Config) Debug() int { return c.debug }

// Tests returns the active syntax tests, name to module activation string.
func (c Config) Tests() map[string]string { return maps.Clone(c.tests) }

// HasTest reports whether the named syntax test is active.
func (c Config) HasTest(name string) bool {
	_, ok := c.tests[name]
	return ok
}

// LintChecks returns the lint sub-check set, name to enabled.
func (c Config) LintChecks() map[string]bool { return maps.Clone(c.lintChecks) }

// Includes returns the include paths.
func (c Config) Includes() []string { return slices.Clone(c.includes) }

// Modules returns the extra modules, in the order they were added.
func (c Config) Modules() []string { return slices.Clone(c.modules) }

// SkipErrors returns the skip-error patterns.
func (c Config) SkipErrors() []string { return slices.Clone(c.skipErrors) }

// Builder accumulates changes to a Config.
type Builder struct {
	cfg Config
}

// NewBuilder returns a builder seeded with the default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: Config{
		tests:      DefaultTests(),
		lintChecks: DefaultLintChecks(),
		includes:   DefaultIncludes(),
		skipErrors: DefaultSkipErrors(),
	}}
}

// IncDebug increments the debug counter.
func (b *Builder) IncDebug() *Builder {
	b.cfg.debug++
	return b
}

// AddDebug adds n to the debug counter.
func (b *Builder) AddDebug(n int) *Builder {
	b.cfg.debug += n
	return b
}

// SkipAll clears the active syntax-test set.
func (b *Builder) SkipAll() *Builder {
	clear(b.cfg.tests)
	return b
}

// Skip removes name from the active syntax tests. A lint sub-check name is
// disabled instead. Unknown names are a no-op.
func (b *Builder) Skip(name string) *Builder {
	delete(b.cfg.tests, name)
	if _, ok := b.cfg.lintChecks[name]; ok {
		b.cfg.lintChecks[name] = false
	}
	return b
}

// AddSkipError appends a skip-error pattern.
func (b *Builder) AddSkipError(pattern string) *Builder {
	b.cfg.skipErrors = append(b.cfg.skipErrors, pattern)
	return b
}

// AddModules appends extra modules to activate.
func (b *Builder) AddModules(names ...string) *Builder {
	b.cfg.modules = append(b.cfg.modules, names...)
	return b
}

// AddIncludes appends include paths.
func (b *Builder) AddIncludes(paths ...string) *Builder {
	b.cfg.includes = append(b.cfg.includes, paths...)
	return b
}

// Build returns a frozen copy of the accumulated configuration. The builder
// stays usable; later changes do not leak into configs already built.
func (b *Builder) Build() Config {
	return Config{
		debug:      b.cfg.debug,
		tests:      maps.Clone(b.cfg.tests),
		lintChecks: maps.Clone(b.cfg.lintChecks),
		includes:   slices.Clone(b.cfg.includes),
		modules:    slices.Clone(b.cfg.modules),
		skipErrors: slices.Clone(b.cfg.skipErrors),
	}
}

// DefaultTests returns the built-in syntax-test table.
func DefaultTests() map[string]string {
	return map[string]string{
		TestIndirect:            "-indirect=fatal",
		TestMultidimensional:    "-multidimensional",
		TestBarewordFilehandles: "-bareword::filehandles",
		TestAutovivification:    "-autovivification=fetch,exists,delete",
		TestWarningsUnused:      "warnings::unused",
		TestCircularRequire:     "-circular::require",
		TestLint:                "O=Lint",
	}
}

// DefaultLintChecks returns the lint sub-checks enabled by default.
func DefaultLintChecks() map[string]bool {
	return map[string]bool{
		LintBareSubs:         true,
		LintContext:          true,
		LintDollarUnderscore: true,
		LintImplicitRead:     true,
		LintImplicitWrite:    true,
		LintMagicDiamond:     true,
		LintOO:               true,
		LintPrivateNames:     true,
		LintRegexpVariables:  true,
		LintUndefinedSubs:    true,
	}
}

// DefaultIncludes returns the include paths always passed to perl.
func DefaultIncludes() []string {
	return []string{"lib", "t/lib"}
}

// DefaultSkipErrors returns the built-in skip-error patterns.
func DefaultSkipErrors() []string {
	return []string{
		"used only once: possible typo",
		"BEGIN failed--compilation aborted",
	}
}
