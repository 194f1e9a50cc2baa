package profiler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Phase is a [Runner]'s position in the trial protocol.
type Phase int

// Trial phases, in order.
const (
	PhaseIdle Phase = iota
	PhasePreparing
	PhaseRunning
	PhaseCollecting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreparing:
		return "preparing"
	case PhaseRunning:
		return "running"
	case PhaseCollecting:
		return "collecting"
	}

	return fmt.Sprintf("Phase(%d)", int(p))
}

// Runner calls the hooks of an ordered, fixed list of profilers around each
// trial. It is not safe for concurrent use.
//
// Per trial the harness calls [Runner.BeforeTrial], launches the benchmark
// with [Runner.InvokeArgs] and [Runner.RuntimeArgs] spliced into the
// command line, and then calls [Runner.AfterTrial] (or [Runner.Abort] if
// the launch itself failed).
//
// Create instances with [NewRunner] or [Registry.Resolve].
type Runner struct {
	logger    *slog.Logger
	profilers []Profiler
	excluded  []Exclusion
	phase     Phase
}

// NewRunner creates a [Runner] over profilers, in order. A nil logger
// discards output.
func NewRunner(logger *slog.Logger, profilers ...Profiler) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{
		logger:    logger,
		profilers: profilers,
	}
}

// Profilers returns the descriptors of the active profilers, in order.
func (r *Runner) Profilers() []Descriptor {
	out := make([]Descriptor, 0, len(r.profilers))
	for _, p := range r.profilers {
		out = append(out, p.Describe())
	}

	return out
}

// Excluded returns the profilers left out because their environment check
// failed.
func (r *Runner) Excluded() []Exclusion {
	return r.excluded
}

// Phase returns the current trial phase.
func (r *Runner) Phase() Phase {
	return r.phase
}

// InvokeArgs concatenates every profiler's [Profiler.InvokeArgs] in order.
func (r *Runner) InvokeArgs(p Params) []string {
	out := []string{}
	for _, prof := range r.profilers {
		out = append(out, prof.InvokeArgs(p)...)
	}

	return out
}

// RuntimeArgs concatenates every profiler's [Profiler.RuntimeArgs] in order.
func (r *Runner) RuntimeArgs(p Params) []string {
	out := []string{}
	for _, prof := range r.profilers {
		out = append(out, prof.RuntimeArgs(p)...)
	}

	return out
}

// BeforeTrial runs each profiler's [Profiler.BeforeTrial] in order. The
// first failure stops the sequence and is returned wrapping
// [ErrTrialSetup]; the runner is then idle again.
func (r *Runner) BeforeTrial(ctx context.Context, p Params) error {
	if r.phase != PhaseIdle {
		return fmt.Errorf("%w: before trial while %s", ErrPhase, r.phase)
	}

	r.phase = PhasePreparing

	r.logger.Info("preparing profilers", slog.String("profilers", r.names()))

	for _, prof := range r.profilers {
		name := prof.Describe().Name

		err := prof.BeforeTrial(ctx, p)
		if err != nil {
			r.phase = PhaseIdle

			return fmt.Errorf("%w: %s: %w", ErrTrialSetup, name, err)
		}
	}

	r.phase = PhaseRunning

	return nil
}

// Abort returns the runner to idle after a trial that could not be
// launched. No AfterTrial hooks run.
func (r *Runner) Abort() {
	r.phase = PhaseIdle
}

// AfterTrial runs each profiler's [Profiler.AfterTrial] in order and merges
// their rows. Each profiler only sees the captured streams its
// [Descriptor] asked for. Any hook error is returned with the profiler's
// name and no partial results.
func (r *Runner) AfterTrial(ctx context.Context, o Outcome, c Capture) (*ResultSet, error) {
	if r.phase != PhaseRunning {
		return nil, fmt.Errorf("%w: after trial while %s", ErrPhase, r.phase)
	}

	r.phase = PhaseCollecting
	defer func() { r.phase = PhaseIdle }()

	r.logger.Info("processing profiler results", slog.String("profilers", r.names()))

	set := NewResultSet()

	for _, prof := range r.profilers {
		desc := prof.Describe()

		var visible Capture
		if desc.CaptureStdout {
			visible.Stdout = c.Stdout
		}

		if desc.CaptureStderr {
			visible.Stderr = c.Stderr
		}

		rows, err := prof.AfterTrial(ctx, o, visible)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", desc.Name, err)
		}

		err = set.Add(desc.Name, rows...)
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			r.logger.Debug("profiler result",
				slog.String("profiler", desc.Name),
				slog.String("label", row.Label),
				slog.String("info", row.ExtendedInfo),
			)
		}
	}

	return set, nil
}

func (r *Runner) names() string {
	names := make([]string, 0, len(r.profilers))
	for _, p := range r.profilers {
		names = append(names, p.Describe().Name)
	}

	return strings.Join(names, ", ")
}
