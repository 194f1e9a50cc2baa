// Package harness launches one benchmark trial with profilers attached.
//
// It is a thin driver for [profiler.Runner]: it runs the BeforeTrial hooks,
// builds the launch command from the profilers' arguments, runs the
// benchmark while capturing its output to files, and collects the result
// rows. It does no scheduling, forking policy or statistics.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.jacobcolvin.com/benchprof/profiler"
)

// ErrLaunch indicates the benchmark process could not be started or waited
// for. A benchmark exiting non-zero is not a launch error.
var ErrLaunch = errors.New("launch benchmark")

// Argv assembles a launch command: invoke arguments, then the target
// executable, then runtime arguments, then the target's own arguments.
func Argv(invoke, target, runtime []string) []string {
	argv := make([]string, 0, len(invoke)+len(target)+len(runtime))
	argv = append(argv, invoke...)

	if len(target) > 0 {
		argv = append(argv, target[0])
	}

	argv = append(argv, runtime...)

	if len(target) > 1 {
		argv = append(argv, target[1:]...)
	}

	return argv
}

// Trial describes one benchmark run.
type Trial struct {
	// Values are benchmark parameters passed through to profilers.
	Values map[string]string
	// Benchmark names the benchmark under test.
	Benchmark string
	// Target is the benchmark executable followed by its arguments.
	Target []string
}

// Harness runs trials.
//
// Create instances with [New].
type Harness struct {
	runner *profiler.Runner
	logger *slog.Logger

	// Dir receives the captured stdout.log and stderr.log. When empty, a
	// temporary directory is created for each trial.
	Dir string
	// Stdout and Stderr, when set, also receive the benchmark's output.
	Stdout io.Writer
	Stderr io.Writer
	// Env is the benchmark's environment. Nil inherits this process's.
	Env []string
}

// New creates a [Harness] driving runner. A nil logger discards output.
func New(runner *profiler.Runner, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Harness{runner: runner, logger: logger}
}

// Run runs one trial and returns its report. The report is returned even
// when the benchmark exits non-zero; check [Report.ExitCode].
func (h *Harness) Run(ctx context.Context, t Trial) (*Report, error) {
	if len(t.Target) == 0 {
		return nil, fmt.Errorf("%w: no target command", ErrLaunch)
	}

	dir, err := h.trialDir()
	if err != nil {
		return nil, err
	}

	params := profiler.Params{
		Values:    t.Values,
		Benchmark: t.Benchmark,
		Stdout:    filepath.Join(dir, "stdout.log"),
		Stderr:    filepath.Join(dir, "stderr.log"),
	}

	err = h.runner.BeforeTrial(ctx, params)
	if err != nil {
		return nil, err
	}

	argv := Argv(h.runner.InvokeArgs(params), t.Target, h.runner.RuntimeArgs(params))

	h.logger.Info("launching benchmark",
		slog.String("benchmark", t.Benchmark),
		slog.Any("argv", argv),
	)

	start := time.Now()

	code, err := h.exec(ctx, argv, params)
	if err != nil {
		h.runner.Abort()

		return nil, err
	}

	outcome := profiler.Outcome{
		Params:   params,
		Duration: time.Since(start),
		ExitCode: code,
	}

	h.logger.Info("benchmark finished",
		slog.Int("exit_code", code),
		slog.Duration("duration", outcome.Duration),
	)

	set, err := h.runner.AfterTrial(ctx, outcome, profiler.Capture{
		Stdout: params.Stdout,
		Stderr: params.Stderr,
	})
	if err != nil {
		return nil, err
	}

	return NewReport(t.Benchmark, argv, outcome, set), nil
}

func (h *Harness) trialDir() (string, error) {
	if h.Dir == "" {
		dir, err := os.MkdirTemp("", "benchprof-")
		if err != nil {
			return "", fmt.Errorf("creating trial directory: %w", err)
		}

		return dir, nil
	}

	err := os.MkdirAll(h.Dir, 0o750)
	if err != nil {
		return "", fmt.Errorf("creating trial directory: %w", err)
	}

	return h.Dir, nil
}

// exec runs argv with output captured to the params' files, and returns
// its exit code.
func (h *Harness) exec(ctx context.Context, argv []string, params profiler.Params) (int, error) {
	stdout, err := os.Create(params.Stdout)
	if err != nil {
		return 0, fmt.Errorf("%w: capturing stdout: %w", ErrLaunch, err)
	}
	defer stdout.Close() //nolint:errcheck // Closed explicitly below.

	stderr, err := os.Create(params.Stderr)
	if err != nil {
		return 0, fmt.Errorf("%w: capturing stderr: %w", ErrLaunch, err)
	}
	defer stderr.Close() //nolint:errcheck // Closed explicitly below.

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Launching the benchmark is the point.
	cmd.Stdout = tee(stdout, h.Stdout)
	cmd.Stderr = tee(stderr, h.Stderr)
	cmd.Env = h.Env

	err = cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return 0, fmt.Errorf("%w: %s: %w", ErrLaunch, argv[0], err)
	}

	for _, f := range []*os.File{stdout, stderr} {
		if cerr := f.Close(); cerr != nil {
			return 0, fmt.Errorf("%w: closing %s: %w", ErrLaunch, f.Name(), cerr)
		}
	}

	if exitErr != nil {
		return exitErr.ExitCode(), nil
	}

	return 0, nil
}

func tee(f *os.File, w io.Writer) io.Writer {
	if w == nil {
		return f
	}

	return io.MultiWriter(f, w)
}
