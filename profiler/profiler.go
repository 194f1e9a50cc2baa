package profiler

import (
	"context"
	"errors"
	"time"

	"go.jacobcolvin.com/benchprof/option"
)

// Sentinel errors. Every error returned by this package names the profiler
// it concerns.
var (
	// ErrEnvironmentUnavailable indicates a profiler cannot run on this host.
	// It is never fatal: the profiler is excluded from the run.
	ErrEnvironmentUnavailable = errors.New("environment unavailable")
	// ErrConfigurationInvalid indicates a profiler could not be built from
	// its configuration.
	ErrConfigurationInvalid = errors.New("invalid configuration")
	// ErrUnimplemented indicates a profiler does not implement a hook it was
	// asked to run.
	ErrUnimplemented = errors.New("not implemented")
	// ErrTrialSetup indicates a [Profiler.BeforeTrial] hook failed.
	ErrTrialSetup = errors.New("trial setup failed")
	// ErrUnknownProfiler indicates a name missing from the [Registry].
	ErrUnknownProfiler = errors.New("unknown profiler")
	// ErrLabelConflict indicates two profilers produced rows with one label.
	ErrLabelConflict = errors.New("result label conflict")
	// ErrPhase indicates a hook was called out of order.
	ErrPhase = errors.New("hook called out of order")
)

// Descriptor identifies a profiler.
type Descriptor struct {
	// Name is the registry name, e.g. "jfr".
	Name string
	// Description is a human-readable name, e.g. "Java Flight Recorder".
	Description string
	// CaptureStdout and CaptureStderr request the trial's captured output
	// in [Capture].
	CaptureStdout bool
	CaptureStderr bool
}

// Params describe the trial about to run. They are read-only to profilers.
type Params struct {
	// Values holds harness-supplied benchmark parameters.
	Values map[string]string
	// Benchmark names the benchmark under test.
	Benchmark string
	// Stdout and Stderr are where the harness captures the trial's output.
	Stdout string
	Stderr string
}

// Outcome describes a completed trial.
type Outcome struct {
	Params   Params
	Duration time.Duration
	ExitCode int
}

// Capture holds paths to a trial's captured output. A field is empty when
// the profiler did not ask for it.
type Capture struct {
	Stdout string
	Stderr string
}

// Profiler is a pluggable profiling backend.
//
// A Profiler contributes arguments to the benchmark's launch command and
// produces secondary result rows once the trial completes. All methods are
// called from one goroutine, in registration order across profilers.
type Profiler interface {
	// Describe returns the profiler's identity. It must have no side
	// effects.
	Describe() Descriptor

	// InvokeArgs returns arguments placed before the target executable,
	// e.g. to wrap it in a sampling command. It may return nothing.
	InvokeArgs(p Params) []string

	// RuntimeArgs returns arguments placed right after the target
	// executable, before its own arguments, e.g. an agent attach flag.
	RuntimeArgs(p Params) []string

	// BeforeTrial runs once before each trial. An error aborts the trial.
	BeforeTrial(ctx context.Context, p Params) error

	// AfterTrial runs once after each trial and returns its result rows.
	AfterTrial(ctx context.Context, o Outcome, c Capture) ([]Result, error)
}

// EnvironmentChecker is implemented by profilers that can only run on some
// hosts. A non-nil error excludes the profiler from the run; errors should
// wrap [ErrEnvironmentUnavailable].
type EnvironmentChecker interface {
	CheckEnvironment(ctx context.Context) error
}

// Documenter is implemented by profilers that document the properties they
// read.
type Documenter interface {
	Options() []option.Doc
}
