// Package runner executes the syntax check and captures its diagnostics.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Executor runs a program and returns what it wrote to stderr.
type Executor interface {
	Run(ctx context.Context, name string, args []string) (stderr []byte, err error)
}

// Exec runs real processes. Stdout is discarded.
type Exec struct{}

// Run implements Executor. A non-zero exit status is the normal outcome of a
// failed syntax check and is not an error; failing to start the process is.
func (Exec) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return stderr.Bytes(), fmt.Errorf("running %s: %w", name, err)
	}
	return stderr.Bytes(), nil
}

// Func adapts a function to Executor.
type Func func(ctx context.Context, name string, args []string) ([]byte, error)

// Run implements Executor.
func (f Func) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	return f(ctx, name, args)
}
