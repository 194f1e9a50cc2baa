package probe_test

import (
	"context"
	"os/exec"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/benchprof/probe"
)

func requireSh(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	requireSh(t)

	tcs := map[string]struct {
		want  error
		probe probe.Probe
	}{
		"matching stderr": {
			probe: probe.Probe{
				Command: "sh",
				Args:    []string{"-c", "echo 'Tool Performance Analyzer 12.4' >&2"},
				Pattern: regexp.MustCompile(`Performance Analyzer`),
			},
		},
		"nil pattern accepts anything": {
			probe: probe.Probe{Command: "sh", Args: []string{"-c", "true"}},
		},
		"unexpected output": {
			probe: probe.Probe{
				Command: "sh",
				Args:    []string{"-c", "echo something else"},
				Pattern: regexp.MustCompile(`Performance Analyzer`),
			},
			want: probe.ErrUnexpectedOutput,
		},
		"non-zero exit": {
			probe: probe.Probe{
				Command: "sh",
				Args:    []string{"-c", "echo Performance Analyzer; exit 3"},
				Pattern: regexp.MustCompile(`Performance Analyzer`),
			},
			want: probe.ErrExit,
		},
		"missing binary": {
			probe: probe.Probe{Command: "benchprof-definitely-not-installed"},
			want:  probe.ErrNotFound,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.probe.Check(context.Background())
			if tc.want == nil {
				require.NoError(t, err)
				assert.True(t, tc.probe.Available(context.Background()))

				return
			}

			require.ErrorIs(t, err, tc.want)
			assert.False(t, tc.probe.Available(context.Background()))
		})
	}
}

func TestOutput(t *testing.T) {
	t.Parallel()

	requireSh(t)

	p := probe.Probe{Command: "sh", Args: []string{"-c", "echo out; echo err >&2"}}

	out, err := p.Output(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(out), "out")
	assert.Contains(t, string(out), "err")
}
