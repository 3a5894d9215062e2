package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is looked up in the working directory when no explicit
// settings path is given.
const DefaultSettingsFile = ".efm-perl.yaml"

// Settings holds host-level knobs. They never come from the checked file.
type Settings struct {
	// Perl is the interpreter used for the syntax check.
	Perl string `yaml:"perl" env:"EFM_PERL"`

	// Perldoc is the documentation tool used to locate optional modules.
	Perldoc string `yaml:"perldoc" env:"EFM_PERLDOC"`

	// LogLevel is a zap level name; debug directives override it.
	LogLevel string `yaml:"log_level" env:"EFM_PERL_LOG_LEVEL"`

	// ConfigPath is where the settings file was looked up. LoadSettings
	// resolves it from its argument, EFM_PERL_CONFIG or DefaultSettingsFile.
	ConfigPath string `yaml:"-"`

	// Tests allows switching default syntax tests off for every file.
	// Example YAML:
	//   tests:
	//     autovivification: false
	Tests map[string]bool `yaml:"tests"`

	// Includes extends the default include paths.
	Includes []string `yaml:"includes"`

	// Modules lists extra modules activated for every file.
	Modules []string `yaml:"modules"`

	// SkipErrors extends the default skip-error patterns.
	// Example YAML:
	//   skip_errors:
	//     - "Subroutine \\w+ redefined"
	SkipErrors []string `yaml:"skip_errors"`
}

// DefaultSettings returns settings that look perl and perldoc up on PATH.
func DefaultSettings() *Settings {
	return &Settings{
		Perl:     "perl",
		Perldoc:  "perldoc",
		LogLevel: "warn",
	}
}

// LoadSettings resolves settings from defaults, the settings file and the
// environment, in increasing precedence. An empty path means
// EFM_PERL_CONFIG or DefaultSettingsFile. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	if path == "" {
		path = os.Getenv("EFM_PERL_CONFIG")
	}
	if path == "" {
		path = DefaultSettingsFile
	}

	if err := s.mergeFile(path); err != nil {
		return nil, err
	}
	if err := env.Parse(s); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	s.ConfigPath = path
	return s, nil
}

func (s *Settings) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading settings %q: %w", path, err)
	}

	// Unmarshal into a separate value so only fields present in the file
	// override defaults.
	var file Settings
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing settings %q: %w", path, err)
	}

	if file.Perl != "" {
		s.Perl = file.Perl
	}
	if file.Perldoc != "" {
		s.Perldoc = file.Perldoc
	}
	if file.LogLevel != "" {
		s.LogLevel = file.LogLevel
	}
	if len(file.Tests) > 0 {
		if s.Tests == nil {
			s.Tests = make(map[string]bool, len(file.Tests))
		}
		for k, v := range file.Tests {
			s.Tests[k] = v
		}
	}
	s.Includes = append(s.Includes, file.Includes...)
	s.Modules = append(s.Modules, file.Modules...)
	s.SkipErrors = append(s.SkipErrors, file.SkipErrors...)
	return nil
}

// Seed applies the file-independent extras to b. It runs before the
// directives of the checked file are applied.
func (s *Settings) Seed(b *Builder) *Builder {
	for name, enabled := range s.Tests {
		if !enabled {
			b.Skip(name)
		}
	}
	b.AddIncludes(s.Includes...)
	b.AddModules(s.Modules...)
	for _, p := range s.SkipErrors {
		b.AddSkipError(p)
	}
	return b
}
