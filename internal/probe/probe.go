// Package probe answers whether an optional Perl module is installed.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Locate when a required tool cannot be resolved.
var ErrNotFound = errors.New("not found")

// Prober reports whether a module can be resolved on this host.
type Prober interface {
	Exists(ctx context.Context, module string) bool
}

// Locate resolves a tool name (or path) to an executable path.
func Locate(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("locating %q: %w", name, errors.Join(ErrNotFound, err))
	}
	return path, nil
}

// Perldoc probes modules with "perldoc -l". A module exists when perldoc can
// print its location.
type Perldoc struct {
	path string
	log  *zap.SugaredLogger
}

// NewPerldoc returns a prober running the perldoc binary at path. A nil log
// disables probe logging.
func NewPerldoc(path string, log *zap.SugaredLogger) *Perldoc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Perldoc{path: path, log: log}
}

// Exists implements Prober. Any failure counts as absence.
func (p *Perldoc) Exists(ctx context.Context, module string) bool {
	cmd := exec.CommandContext(ctx, p.path, "-l", module)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	err := cmd.Run()
	p.log.Debugw("probed module", "module", module, "found", err == nil)
	return err == nil
}

// Static is an in-memory Prober for tests and fixed environments. Modules
// missing from the map are absent.
type Static map[string]bool

// Exists implements Prober.
func (s Static) Exists(_ context.Context, module string) bool {
	return s[module]
}
