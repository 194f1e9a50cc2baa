// Package heapaudit registers the Heap Audit profiler name.
//
// Heap Audit support is not implemented. The backend always fails its
// environment check, so resolving it excludes it from the run with a
// warning rather than failing; any hook called directly returns
// [profiler.ErrUnimplemented].
package heapaudit

import (
	"context"
	"fmt"

	"go.jacobcolvin.com/benchprof/profiler"
)

// Name is the registry name.
const Name = "heapaudit"

// Profiler is the Heap Audit placeholder backend.
type Profiler struct{}

// New creates a [Profiler].
func New(_ profiler.Env) (profiler.Profiler, error) {
	return Profiler{}, nil
}

// Describe implements [profiler.Profiler].
func (Profiler) Describe() profiler.Descriptor {
	return profiler.Descriptor{Name: Name, Description: "Heap Audit"}
}

// CheckEnvironment implements [profiler.EnvironmentChecker].
func (Profiler) CheckEnvironment(_ context.Context) error {
	return fmt.Errorf("%w: %s: %w", profiler.ErrEnvironmentUnavailable, Name, profiler.ErrUnimplemented)
}

// InvokeArgs implements [profiler.Profiler].
func (Profiler) InvokeArgs(_ profiler.Params) []string {
	return nil
}

// RuntimeArgs implements [profiler.Profiler].
func (Profiler) RuntimeArgs(_ profiler.Params) []string {
	return nil
}

// BeforeTrial implements [profiler.Profiler].
func (Profiler) BeforeTrial(_ context.Context, _ profiler.Params) error {
	return fmt.Errorf("%s: %w", Name, profiler.ErrUnimplemented)
}

// AfterTrial implements [profiler.Profiler].
func (Profiler) AfterTrial(_ context.Context, _ profiler.Outcome, _ profiler.Capture) ([]profiler.Result, error) {
	return nil, fmt.Errorf("%s: %w", Name, profiler.ErrUnimplemented)
}
