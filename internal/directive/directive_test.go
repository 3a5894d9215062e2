package directive_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wladim1r/efmperl/internal/config"
	"github.com/Wladim1r/efmperl/internal/directive"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		want   directive.Directive
		wantOK bool
	}{
		{"debug", "## efm debug", directive.Directive{Kind: directive.Debug}, true},
		{"debug with trailing text", "## efm debug please", directive.Directive{Kind: directive.Debug}, true},
		{"skip all", "## efm skip all", directive.Directive{Kind: directive.SkipAll}, true},
		{
			"skip names",
			"## efm skip indirect  context",
			directive.Directive{Kind: directive.Skip, Args: []string{"indirect", "context"}},
			true,
		},
		{
			"skip_error keeps inner and trailing spaces",
			"## efm skip_error Subroutine \\w+  redefined ",
			directive.Directive{Kind: directive.SkipError, Args: []string{"Subroutine \\w+  redefined "}},
			true,
		},
		{
			"skip_error strips CRLF",
			"## efm skip_error used once\r\n",
			directive.Directive{Kind: directive.SkipError, Args: []string{"used once"}},
			true,
		},
		{
			"modules",
			"## efm modules Foo::Bar Baz",
			directive.Directive{Kind: directive.Modules, Args: []string{"Foo::Bar", "Baz"}},
			true,
		},
		{
			"includes with tab",
			"## efm\tincludes ../lib\tvendor",
			directive.Directive{Kind: directive.Includes, Args: []string{"../lib", "vendor"}},
			true,
		},
		{"unknown keyword", "## efm frobnicate now", directive.Directive{}, false},
		{"empty skip_error", "## efm skip_error", directive.Directive{}, false},
		{"not at column one", " ## efm debug", directive.Directive{}, false},
		{"case sensitive", "## EFM debug", directive.Directive{}, false},
		{"glued prefix", "## efmdebug", directive.Directive{}, false},
		{"bare prefix", "## efm", directive.Directive{}, false},
		{"ordinary comment", "# efm debug", directive.Directive{}, false},
		{"code", `print "## efm debug";`, directive.Directive{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := directive.Parse(tc.line)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScan_LineNumbers(t *testing.T) {
	t.Parallel()
	src := strings.Join([]string{
		"#!/usr/bin/perl",
		"## efm skip indirect",
		"use strict;",
		"## efm modules Foo::Bar",
		"1;",
	}, "\n")

	dirs, err := directive.Scan(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, dirs, 2)
	assert.Equal(t, 2, dirs[0].Line)
	assert.Equal(t, directive.Skip, dirs[0].Kind)
	assert.Equal(t, 4, dirs[1].Line)
	assert.Equal(t, directive.Modules, dirs[1].Kind)
}

func TestScan_NoDirectives(t *testing.T) {
	t.Parallel()
	dirs, err := directive.Scan(strings.NewReader("use strict;\nprint 1;\n"))
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		check func(t *testing.T, cfg config.Config)
	}{
		{
			name: "no directives keeps defaults",
			src:  "use strict;\n",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, config.NewBuilder().Build(), cfg)
			},
		},
		{
			name: "skip all before other directives",
			src:  "## efm skip all\n## efm skip indirect\n",
			check: func(t *testing.T, cfg config.Config) {
				assert.Empty(t, cfg.Tests())
			},
		},
		{
			name: "skip all after other directives",
			src:  "## efm skip indirect\n## efm modules X\n## efm skip all\n",
			check: func(t *testing.T, cfg config.Config) {
				assert.Empty(t, cfg.Tests())
				assert.Equal(t, []string{"X"}, cfg.Modules())
			},
		},
		{
			name: "skip removes exactly one test",
			src:  "## efm skip indirect\n",
			check: func(t *testing.T, cfg config.Config) {
				want := config.DefaultTests()
				delete(want, config.TestIndirect)
				assert.Equal(t, want, cfg.Tests())
			},
		},
		{
			name: "skip twice is idempotent",
			src:  "## efm skip indirect\n## efm skip indirect\n",
			check: func(t *testing.T, cfg config.Config) {
				once := directive.Apply(config.NewBuilder(), mustScan(t, "## efm skip indirect\n")).Build()
				assert.Equal(t, once, cfg)
			},
		},
		{
			name: "skip lint check",
			src:  "## efm skip oo context\n",
			check: func(t *testing.T, cfg config.Config) {
				checks := cfg.LintChecks()
				assert.False(t, checks[config.LintOO])
				assert.False(t, checks[config.LintContext])
				assert.True(t, checks[config.LintBareSubs])
				assert.Equal(t, config.DefaultTests(), cfg.Tests())
			},
		},
		{
			name: "skip_error adds to defaults",
			src:  "## efm skip_error Subroutine \\w+ redefined\n",
			check: func(t *testing.T, cfg config.Config) {
				want := append(config.DefaultSkipErrors(), `Subroutine \w+ redefined`)
				assert.Equal(t, want, cfg.SkipErrors())
			},
		},
		{
			name: "debug counts",
			src:  "## efm debug\n## efm debug\n",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 2, cfg.Debug())
			},
		},
		{
			name: "modules and includes append in order",
			src:  "## efm modules A B\n## efm includes inc\n## efm modules C\n",
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, []string{"A", "B", "C"}, cfg.Modules())
				assert.Equal(t, []string{"lib", "t/lib", "inc"}, cfg.Includes())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := directive.Apply(config.NewBuilder(), mustScan(t, tc.src)).Build()
			tc.check(t, cfg)
		})
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "skip_error", directive.SkipError.String())
	assert.Equal(t, "Kind(42)", directive.Kind(42).String())
}

func mustScan(t *testing.T, src string) []directive.Directive {
	t.Helper()
	dirs, err := directive.Scan(strings.NewReader(src))
	require.NoError(t, err)
	return dirs
}
