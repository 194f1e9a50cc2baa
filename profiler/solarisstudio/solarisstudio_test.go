package solarisstudio_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/profiler"
	"go.jacobcolvin.com/benchprof/profiler/solarisstudio"
	"go.jacobcolvin.com/benchprof/stringtest"
)

func TestInvokeArgs(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		props option.Map
		want  []string
	}{
		"defaults": {
			want: []string{"collect", "-d", "."},
		},
		"clock profiling": {
			props: option.Map{"jmh.solaris-studio.clock-profiling-interval": "10"},
			want:  []string{"collect", "-p", "10", "-d", "."},
		},
		"every flag in fixed order": {
			props: option.Map{
				"jmh.solaris-studio.label":                        "run1",
				"jmh.solaris-studio.verbose":                      "true",
				"jmh.solaris-studio.output":                       "collect.log",
				"jmh.solaris-studio.group":                        "g.erg",
				"jmh.solaris-studio.directory":                    "exp",
				"jmh.solaris-studio.name":                         "bench.er",
				"jmh.solaris-studio.signal":                       "PROF",
				"jmh.solaris-studio.size-limit":                   "500",
				"jmh.solaris-studio.sampling-interval":            "1",
				"jmh.solaris-studio.archiving":                    "on",
				"jmh.solaris-studio.follow-descendant":            "all",
				"jmh.solaris-studio.duration":                     "5-10",
				"jmh.solaris-studio.io-tracing":                   "on",
				"jmh.solaris-studio.heap-tracing":                 "on",
				"jmh.solaris-studio.thread-analyzer":              "race",
				"jmh.solaris-studio.synchronization-wait-tracing": "on",
				"jmh.solaris-studio.hw-counter-profiling":         "cycles",
				"jmh.solaris-studio.clock-profiling-interval":     "hi",
			},
			want: []string{
				"collect",
				"-p", "hi", "-h", "cycles", "-s", "on", "-r", "race", "-H", "on",
				"-i", "on", "-t", "5-10", "-F", "all", "-A", "on", "-S", "1",
				"-L", "500", "-l", "PROF", "-o", "bench.er", "-d", "exp",
				"-g", "g.erg", "-O", "collect.log", "-v", "-C", "run1",
			},
		},
		"verbose off": {
			props: option.Map{"jmh.solaris-studio.verbose": "false"},
			want:  []string{"collect", "-d", "."},
		},
		"custom command": {
			props: option.Map{"jmh.solaris-studio.command": "/opt/developerstudio/bin/collect"},
			want:  []string{"/opt/developerstudio/bin/collect", "-d", "."},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := solarisstudio.New(profiler.Env{Source: tc.props})
			require.NoError(t, err)

			assert.Equal(t, tc.want, p.InvokeArgs(profiler.Params{}))
			assert.Empty(t, p.RuntimeArgs(profiler.Params{}))
		})
	}
}

func TestNew_InvalidInteger(t *testing.T) {
	t.Parallel()

	_, err := solarisstudio.New(profiler.Env{Source: option.Map{
		"jmh.solaris-studio.size-limit": "lots",
	}})
	require.ErrorIs(t, err, option.ErrInvalidValue)
	assert.ErrorContains(t, err, "jmh.solaris-studio.size-limit")
}

func TestAfterTrial(t *testing.T) {
	t.Parallel()

	p, err := solarisstudio.New(profiler.Env{Source: option.Map{"jmh.solaris-studio.directory": "exp"}})
	require.NoError(t, err)

	assert.Equal(t, "solaris-studio", p.Describe().Name)
	assert.Equal(t, "Solaris Studio", p.Describe().Description)

	rows, err := p.AfterTrial(context.Background(), profiler.Outcome{}, profiler.Capture{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	want, err := filepath.Abs("exp")
	require.NoError(t, err)

	assert.Equal(t, profiler.Secondary("@solaris-studio", "Solaris Studio experiment at "+want), rows[0])
}

func TestCheckEnvironment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	script := func(name, body string) string {
		return stringtest.Script(t, dir, name, body)
	}

	tcs := map[string]struct {
		command string
		wantErr bool
	}{
		"solaris studio": {
			command: script("solaris", `echo "collect: Oracle Solaris Studio 12.3 Performance Analyzer 7.9 SunOS_i386 2011/11/16" >&2`),
		},
		"unversioned banner": {
			command: script("unversioned", `echo "Oracle Solaris Studio Performance Analyzer"`),
		},
		"developer studio": {
			command: script("developer", `echo "collect: Oracle Developer Studio 12.6 Performance Analyzer"`),
		},
		"different tool": {
			command: script("other", `echo "collect 1.0"`),
			wantErr: true,
		},
		"non-zero exit": {
			command: script("failing", `echo "Oracle Developer Studio Performance Analyzer"; exit 2`),
			wantErr: true,
		},
		"missing": {
			command: filepath.Join(dir, "missing"),
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p, err := solarisstudio.New(profiler.Env{Source: option.Map{"jmh.solaris-studio.command": tc.command}})
			require.NoError(t, err)

			err = p.(profiler.EnvironmentChecker).CheckEnvironment(context.Background())
			if tc.wantErr {
				require.ErrorIs(t, err, profiler.ErrEnvironmentUnavailable)

				return
			}

			require.NoError(t, err)
		})
	}
}
