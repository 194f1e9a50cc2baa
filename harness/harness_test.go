package harness_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/benchprof/harness"
	"go.jacobcolvin.com/benchprof/profiler"
)

// recorder is a backend that records what the harness hands it.
type recorder struct {
	beforeErr error
	desc      profiler.Descriptor
	invoke    []string
	runtime   []string
	params    profiler.Params
	capture   profiler.Capture
	outcome   profiler.Outcome
	before    int
	after     int
}

func (r *recorder) Describe() profiler.Descriptor { return r.desc }

func (r *recorder) InvokeArgs(_ profiler.Params) []string { return r.invoke }

func (r *recorder) RuntimeArgs(_ profiler.Params) []string { return r.runtime }

func (r *recorder) BeforeTrial(_ context.Context, p profiler.Params) error {
	r.before++
	r.params = p

	return r.beforeErr
}

func (r *recorder) AfterTrial(_ context.Context, o profiler.Outcome, c profiler.Capture) ([]profiler.Result, error) {
	r.after++
	r.outcome = o
	r.capture = c

	return []profiler.Result{profiler.Secondary("@"+r.desc.Name, "artifact of "+r.desc.Name)}, nil
}

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("requires sh")
	}
}

func TestArgv(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		invoke  []string
		target  []string
		runtime []string
		want    []string
	}{
		"target only": {
			target: []string{"bench"},
			want:   []string{"bench"},
		},
		"wrapping command": {
			invoke: []string{"collect", "-p", "10"},
			target: []string{"wrap"},
			want:   []string{"collect", "-p", "10", "wrap"},
		},
		"runtime args before target args": {
			target:  []string{"java", "-jar", "benchmarks.jar"},
			runtime: []string{"-XX:+FlightRecorder", "-agentpath:/yjp/lib.so=dir=."},
			want:    []string{"java", "-XX:+FlightRecorder", "-agentpath:/yjp/lib.so=dir=.", "-jar", "benchmarks.jar"},
		},
		"both": {
			invoke:  []string{"collect", "-d", "."},
			target:  []string{"bench.test", "-test.bench=."},
			runtime: []string{"-test.cpuprofile", "cpu.prof"},
			want:    []string{"collect", "-d", ".", "bench.test", "-test.cpuprofile", "cpu.prof", "-test.bench=."},
		},
		"no target": {
			invoke:  []string{"collect"},
			runtime: []string{"-v"},
			want:    []string{"collect", "-v"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, harness.Argv(tc.invoke, tc.target, tc.runtime))
		})
	}
}

func TestRun(t *testing.T) {
	t.Parallel()
	requireShell(t)

	outputs := &recorder{
		desc:    profiler.Descriptor{Name: "outputs", CaptureStdout: true, CaptureStderr: true},
		runtime: []string{"-e"},
	}
	blind := &recorder{desc: profiler.Descriptor{Name: "blind"}}

	runner := profiler.NewRunner(nil, outputs, blind)

	var tee bytes.Buffer

	h := harness.New(runner, nil)
	h.Dir = filepath.Join(t.TempDir(), "trial")
	h.Stdout = &tee

	report, err := h.Run(context.Background(), harness.Trial{
		Benchmark: "sample",
		Values:    map[string]string{"size": "10"},
		Target:    []string{"sh", "-c", "echo out; echo err >&2; exit 3"},
	})
	require.NoError(t, err)

	assert.Equal(t, "sample", report.Benchmark)
	assert.Equal(t, []string{"sh", "-e", "-c", "echo out; echo err >&2; exit 3"}, report.Argv)
	assert.Equal(t, 3, report.ExitCode)
	assert.Equal(t, "out\n", tee.String())

	require.Len(t, report.Results, 2)
	assert.Equal(t, "@outputs", report.Results[0].Label)
	assert.Equal(t, "outputs", report.Results[0].Profiler)
	assert.Equal(t, "@blind", report.Results[1].Label)

	// Hooks see the trial's parameters and captured files.
	assert.Equal(t, 1, outputs.before)
	assert.Equal(t, 1, outputs.after)
	assert.Equal(t, "sample", outputs.params.Benchmark)
	assert.Equal(t, map[string]string{"size": "10"}, outputs.params.Values)
	assert.Equal(t, 3, outputs.outcome.ExitCode)

	stdout, err := os.ReadFile(outputs.capture.Stdout)
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(stdout))

	stderr, err := os.ReadFile(outputs.capture.Stderr)
	require.NoError(t, err)
	assert.Equal(t, "err\n", string(stderr))

	// Profilers that did not ask for output get none.
	assert.Equal(t, profiler.Capture{}, blind.capture)

	assert.Equal(t, profiler.PhaseIdle, runner.Phase())
}

func TestRun_TempDir(t *testing.T) {
	t.Parallel()
	requireShell(t)

	rec := &recorder{desc: profiler.Descriptor{Name: "rec", CaptureStdout: true}}
	h := harness.New(profiler.NewRunner(nil, rec), nil)

	report, err := h.Run(context.Background(), harness.Trial{Target: []string{"sh", "-c", "echo hi"}})
	require.NoError(t, err)

	t.Cleanup(func() { _ = os.RemoveAll(filepath.Dir(rec.capture.Stdout)) })

	assert.Zero(t, report.ExitCode)
	assert.FileExists(t, rec.capture.Stdout)
	assert.Empty(t, rec.capture.Stderr)
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	errSetup := errors.New("setup broke")

	tcs := map[string]struct {
		target     []string
		beforeErr  error
		wantErr    error
		wantBefore int
	}{
		"no target": {
			wantErr: harness.ErrLaunch,
		},
		"missing executable": {
			target:     []string{filepath.Join(t.TempDir(), "missing")},
			wantErr:    harness.ErrLaunch,
			wantBefore: 1,
		},
		"setup failure": {
			target:     []string{"sh", "-c", "true"},
			beforeErr:  errSetup,
			wantErr:    profiler.ErrTrialSetup,
			wantBefore: 1,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			rec := &recorder{desc: profiler.Descriptor{Name: "rec"}, beforeErr: tc.beforeErr}
			runner := profiler.NewRunner(nil, rec)

			h := harness.New(runner, nil)
			h.Dir = t.TempDir()

			_, err := h.Run(context.Background(), harness.Trial{Target: tc.target})
			require.ErrorIs(t, err, tc.wantErr)

			assert.Equal(t, tc.wantBefore, rec.before)
			assert.Zero(t, rec.after)
			assert.Equal(t, profiler.PhaseIdle, runner.Phase())
		})
	}
}
