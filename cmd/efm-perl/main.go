// Command efm-perl runs "perl -c" on one file with optional static-analysis
// modules and prints the diagnostics an editor should show.
//
// Usage:
//
//	efm-perl [flags] <file>
//
// Examples:
//
//	# Check a script
//	efm-perl bin/tool.pl
//
//	# Use a custom settings file and log what is going on
//	efm-perl --config ~/.efm-perl.yaml --debug lib/Foo.pm
//
// Behaviour for a single file is tuned with "## efm" directives inside it,
// e.g. "## efm skip indirect".
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Wladim1r/efmperl/internal/checker"
	"github.com/Wladim1r/efmperl/internal/config"
)

var version = "0.1.0-dev"

var errColor = color.New(color.FgRed, color.Bold)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError renders a fatal error. Wrapped errors carry no program prefix;
// it is added once here.
func printError(w io.Writer, err error) {
	errColor.Fprint(w, "efm-perl: ")
	fmt.Fprintln(w, err)
}

func newRootCmd() *cobra.Command {
	var (
		settingsPath string
		perl         string
		perldoc      string
		debug        int
	)

	cmd := &cobra.Command{
		Use:           "efm-perl [flags] <file>",
		Short:         "Syntax-check a Perl file and print editor-friendly diagnostics",
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return err
			}
			if perl != "" {
				settings.Perl = perl
			}
			if perldoc != "" {
				settings.Perldoc = perldoc
			}

			c := &checker.Checker{
				Settings: settings,
				Debug:    debug,
				Stdout:   cmd.OutOrStdout(),
			}
			_, err = c.Check(cmd.Context(), args[0])
			return err
		},
	}

	cmd.Flags().StringVar(&settingsPath, "config", "", "path to settings file (default "+config.DefaultSettingsFile+")")
	cmd.Flags().StringVar(&perl, "perl", "", "perl interpreter to run")
	cmd.Flags().StringVar(&perldoc, "perldoc", "", "perldoc used to probe optional modules")
	cmd.Flags().CountVarP(&debug, "debug", "d", "log directives, probes and the final command (repeatable)")
	return cmd
}
