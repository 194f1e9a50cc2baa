package profiler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/platform"
)

// Env is what a [Constructor] builds a profiler from. It is built once per
// run and passed by value.
type Env struct {
	// Source holds the run's configuration properties.
	Source option.Source
	// Logger is never nil when passed to a [Constructor].
	Logger *slog.Logger
	// Host is the classified platform of the benchmark target.
	Host platform.Host
}

// Constructor builds a profiler from its environment. Errors mean the
// configuration is unusable and are reported as [ErrConfigurationInvalid].
type Constructor func(env Env) (Profiler, error)

// Registry maps profiler names to constructors.
type Registry map[string]Constructor

// Add registers a constructor under name, replacing any existing entry.
func (r Registry) Add(name string, c Constructor) {
	r[name] = c
}

// Names returns the registered names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ParseNames splits a comma-separated list of profiler names, dropping
// blanks.
func ParseNames(s string) []string {
	var names []string

	for name := range strings.SplitSeq(s, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}

	return names
}

// Resolve builds the named profilers, in order, and returns a [Runner] for
// those that can run here.
//
// Unknown names, names given twice and constructor failures are collected
// and returned together; no runner is built if any occur. Profilers whose
// [EnvironmentChecker] fails are excluded and listed by [Runner.Excluded].
func (r Registry) Resolve(ctx context.Context, names []string, env Env) (*Runner, error) {
	if env.Logger == nil {
		env.Logger = slog.New(slog.DiscardHandler)
	}

	if env.Source == nil {
		env.Source = option.Map(nil)
	}

	var (
		errs      *multierror.Error
		selected  []Profiler
		excluded  []Exclusion
		seenNames = make(map[string]bool, len(names))
	)

	for _, name := range names {
		if seenNames[name] {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s: selected more than once", ErrConfigurationInvalid, name))

			continue
		}

		seenNames[name] = true

		construct, ok := r[name]
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("%w: %q, known: %s",
				ErrUnknownProfiler, name, strings.Join(r.Names(), ", ")))

			continue
		}

		p, err := construct(env)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: %s: %w", ErrConfigurationInvalid, name, err))

			continue
		}

		if checker, ok := p.(EnvironmentChecker); ok {
			err := checker.CheckEnvironment(ctx)
			if err != nil {
				env.Logger.Warn("profiler unavailable, skipping",
					slog.String("profiler", name),
					slog.Any("reason", err),
				)

				excluded = append(excluded, Exclusion{Name: name, Err: err})

				continue
			}
		}

		selected = append(selected, p)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	runner := NewRunner(env.Logger, selected...)
	runner.excluded = excluded

	return runner, nil
}

// Exclusion records a profiler left out of a run.
type Exclusion struct {
	Err  error
	Name string
}
