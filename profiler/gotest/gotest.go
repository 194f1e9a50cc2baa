// Package gotest collects runtime profiles from benchmarks built with
// "go test -c".
//
// The backend passes -test.* profiling flags to the test binary and reports
// one result row per enabled profile. Profile paths are relative to the
// output directory unless absolute.
//
// Recognized properties:
//
//	gotest.cpuprofile             -test.cpuprofile
//	gotest.memprofile             -test.memprofile
//	gotest.memprofilerate         -test.memprofilerate (bytes per sample)
//	gotest.blockprofile           -test.blockprofile
//	gotest.blockprofilerate       -test.blockprofilerate (nanoseconds)
//	gotest.mutexprofile           -test.mutexprofile
//	gotest.mutexprofilefraction   -test.mutexprofilefraction (1/N sampling)
//	gotest.trace                  -test.trace
//	gotest.outputdir              -test.outputdir (default ".")
package gotest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/profiler"
)

// Name is the registry name.
const Name = "gotest"

// profile is an output file written by the test binary.
type profile struct {
	kind  string
	entry option.Entry
}

// Profiler is the Go test profile backend.
//
// Create instances with [New].
type Profiler struct {
	logger   *slog.Logger
	dir      string
	flags    []option.Entry
	profiles []profile
	docs     []option.Doc
}

// New creates a [Profiler] from env.
func New(env profiler.Env) (profiler.Profiler, error) {
	r := option.NewResolver(env.Source)

	cpu := r.String("-test.cpuprofile", "gotest.cpuprofile")
	mem := r.String("-test.memprofile", "gotest.memprofile")
	memRate := r.Int("-test.memprofilerate", "gotest.memprofilerate")
	block := r.String("-test.blockprofile", "gotest.blockprofile")
	blockRate := r.Int("-test.blockprofilerate", "gotest.blockprofilerate")
	mutex := r.String("-test.mutexprofile", "gotest.mutexprofile")
	mutexFraction := r.Int("-test.mutexprofilefraction", "gotest.mutexprofilefraction")
	trace := r.String("-test.trace", "gotest.trace")
	dir := r.StringOr("-test.outputdir", "gotest.outputdir", ".")

	if err := r.Err(); err != nil {
		return nil, err
	}

	flags := []option.Entry{cpu, mem, memRate, block, blockRate, mutex, mutexFraction, trace, dir}
	if err := option.Validate(flags); err != nil {
		return nil, err
	}

	logger := env.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Profiler{
		logger: logger,
		dir:    dir.Value,
		flags:  flags,
		profiles: []profile{
			{kind: "cpu", entry: cpu},
			{kind: "mem", entry: mem},
			{kind: "block", entry: block},
			{kind: "mutex", entry: mutex},
			{kind: "trace", entry: trace},
		},
		docs: r.Docs(),
	}, nil
}

// Describe implements [profiler.Profiler].
func (p *Profiler) Describe() profiler.Descriptor {
	return profiler.Descriptor{
		Name:        Name,
		Description: "Go test profiles",
	}
}

// Options implements [profiler.Documenter].
func (p *Profiler) Options() []option.Doc {
	return p.docs
}

// InvokeArgs implements [profiler.Profiler].
func (p *Profiler) InvokeArgs(_ profiler.Params) []string {
	return nil
}

// RuntimeArgs implements [profiler.Profiler].
func (p *Profiler) RuntimeArgs(_ profiler.Params) []string {
	return option.Tokens(p.flags)
}

// BeforeTrial creates the output directory.
func (p *Profiler) BeforeTrial(_ context.Context, _ profiler.Params) error {
	err := os.MkdirAll(p.dir, 0o750)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	return nil
}

// AfterTrial returns one row per enabled profile, labelled "@gotest-<kind>".
func (p *Profiler) AfterTrial(_ context.Context, _ profiler.Outcome, _ profiler.Capture) ([]profiler.Result, error) {
	var rows []profiler.Result

	for _, prof := range p.profiles {
		if !prof.entry.Present {
			continue
		}

		path := prof.entry.Value
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.dir, path)
		}

		path, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s profile path: %w", prof.kind, err)
		}

		if _, err := os.Stat(path); err != nil {
			p.logger.Warn("profile not written",
				slog.String("profile", prof.kind),
				slog.String("path", path),
			)
		}

		rows = append(rows, profiler.Secondary("@gotest-"+prof.kind, fmt.Sprintf("Go %s profile at %s", prof.kind, path)))
	}

	return rows, nil
}
