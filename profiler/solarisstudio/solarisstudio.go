// Package solarisstudio runs a benchmark under the Oracle Solaris Studio
// (Developer Studio) "collect" command.
//
// Each jmh.solaris-studio.* property maps to one collect flag:
//
//	clock-profiling-interval       -p
//	hw-counter-profiling           -h
//	synchronization-wait-tracing   -s
//	thread-analyzer                -r
//	heap-tracing                   -H
//	io-tracing                     -i
//	duration                       -t
//	follow-descendant              -F
//	archiving                      -A
//	sampling-interval              -S (integer)
//	size-limit                     -L (integer)
//	signal                         -l
//	name                           -o
//	directory                      -d (default ".")
//	group                          -g
//	output                         -O
//	verbose                        -v (boolean switch)
//	label                          -C
//
// jmh.solaris-studio.command overrides the collect binary.
package solarisstudio

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/probe"
	"go.jacobcolvin.com/benchprof/profiler"
)

const (
	// Name is the registry name.
	Name = "solaris-studio"
	// Label is the result row label.
	Label = "@solaris-studio"

	prefix = "jmh.solaris-studio."
)

var versionPattern = regexp.MustCompile(`Oracle (Solaris|Developer) Studio(?: [\d.]+)? Performance Analyzer`)

// Profiler is the Solaris Studio backend.
//
// Create instances with [New].
type Profiler struct {
	command string
	dir     string
	flags   []option.Entry
	docs    []option.Doc
}

// New creates a [Profiler] from env.
func New(env profiler.Env) (profiler.Profiler, error) {
	r := option.NewResolver(env.Source)

	flags := []option.Entry{
		r.String("-p", prefix+"clock-profiling-interval"),
		r.String("-h", prefix+"hw-counter-profiling"),
		r.String("-s", prefix+"synchronization-wait-tracing"),
		r.String("-r", prefix+"thread-analyzer"),
		r.String("-H", prefix+"heap-tracing"),
		r.String("-i", prefix+"io-tracing"),
		r.String("-t", prefix+"duration"),
		r.String("-F", prefix+"follow-descendant"),
		r.String("-A", prefix+"archiving"),
		r.Int("-S", prefix+"sampling-interval"),
		r.Int("-L", prefix+"size-limit"),
		r.String("-l", prefix+"signal"),
		r.String("-o", prefix+"name"),
		r.StringOr("-d", prefix+"directory", "."),
		r.String("-g", prefix+"group"),
		r.String("-O", prefix+"output"),
		r.Switch("-v", prefix+"verbose"),
		r.String("-C", prefix+"label"),
	}

	command := r.StringOr("command", prefix+"command", "collect")

	if err := r.Err(); err != nil {
		return nil, err
	}

	if err := option.Validate(flags); err != nil {
		return nil, err
	}

	return &Profiler{
		command: command.Value,
		dir:     flags[13].Value,
		flags:   flags,
		docs:    r.Docs(),
	}, nil
}

// Describe implements [profiler.Profiler].
func (p *Profiler) Describe() profiler.Descriptor {
	return profiler.Descriptor{
		Name:          Name,
		Description:   "Solaris Studio",
		CaptureStdout: true,
		CaptureStderr: true,
	}
}

// Options implements [profiler.Documenter].
func (p *Profiler) Options() []option.Doc {
	return p.docs
}

// CheckEnvironment implements [profiler.EnvironmentChecker]. The collect
// binary must run and identify itself as the Performance Analyzer.
func (p *Profiler) CheckEnvironment(ctx context.Context) error {
	err := probe.Probe{
		Command: p.command,
		Args:    []string{"-V"},
		Pattern: versionPattern,
	}.Check(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", profiler.ErrEnvironmentUnavailable, err)
	}

	return nil
}

// InvokeArgs implements [profiler.Profiler].
func (p *Profiler) InvokeArgs(_ profiler.Params) []string {
	return append([]string{p.command}, option.Tokens(p.flags)...)
}

// RuntimeArgs implements [profiler.Profiler].
func (p *Profiler) RuntimeArgs(_ profiler.Params) []string {
	return nil
}

// BeforeTrial implements [profiler.Profiler].
func (p *Profiler) BeforeTrial(_ context.Context, _ profiler.Params) error {
	return nil
}

// AfterTrial implements [profiler.Profiler].
func (p *Profiler) AfterTrial(_ context.Context, _ profiler.Outcome, _ profiler.Capture) ([]profiler.Result, error) {
	dir, err := filepath.Abs(p.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving experiment directory: %w", err)
	}

	return []profiler.Result{
		profiler.Secondary(Label, "Solaris Studio experiment at "+dir),
	}, nil
}
