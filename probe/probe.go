// Package probe checks whether an external tool can run on this host.
//
// A [Probe] spawns the tool with a version or help flag and matches its
// combined output against a pattern. A missing binary, a non-zero exit or
// unexpected output all mean "unavailable"; none of them is fatal to the
// caller.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
)

var (
	// ErrNotFound indicates the command is not on PATH.
	ErrNotFound = errors.New("command not found")
	// ErrExit indicates the command failed to run or exited non-zero.
	ErrExit = errors.New("command failed")
	// ErrUnexpectedOutput indicates the output did not match the pattern.
	ErrUnexpectedOutput = errors.New("unexpected output")
)

// Probe describes how to detect an external tool.
type Probe struct {
	// Pattern must match the combined stdout and stderr. Nil matches
	// anything.
	Pattern *regexp.Regexp
	Command string
	Args    []string
}

// Output runs the command and returns its combined stdout and stderr.
func (p Probe) Output(ctx context.Context) ([]byte, error) {
	path, err := exec.LookPath(p.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.Command)
	}

	var buf bytes.Buffer

	cmd := exec.CommandContext(ctx, path, p.Args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err = cmd.Run()
	if err != nil {
		return buf.Bytes(), fmt.Errorf("%w: %s: %w", ErrExit, p.Command, err)
	}

	return buf.Bytes(), nil
}

// Check runs the probe and returns nil if the tool is usable.
func (p Probe) Check(ctx context.Context) error {
	out, err := p.Output(ctx)
	if err != nil {
		return err
	}

	if p.Pattern != nil && !p.Pattern.Match(out) {
		return fmt.Errorf("%w: %s: want match for %q", ErrUnexpectedOutput, p.Command, p.Pattern.String())
	}

	return nil
}

// Available reports whether [Probe.Check] succeeds.
func (p Probe) Available(ctx context.Context) bool {
	return p.Check(ctx) == nil
}
