package heapaudit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/benchprof/profiler"
	"go.jacobcolvin.com/benchprof/profiler/heapaudit"
)

func TestProfiler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	p, err := heapaudit.New(profiler.Env{})
	require.NoError(t, err)

	assert.Equal(t, profiler.Descriptor{Name: "heapaudit", Description: "Heap Audit"}, p.Describe())
	assert.Empty(t, p.InvokeArgs(profiler.Params{}))
	assert.Empty(t, p.RuntimeArgs(profiler.Params{}))

	err = p.(profiler.EnvironmentChecker).CheckEnvironment(ctx)
	require.ErrorIs(t, err, profiler.ErrEnvironmentUnavailable)
	require.ErrorIs(t, err, profiler.ErrUnimplemented)

	require.ErrorIs(t, p.BeforeTrial(ctx, profiler.Params{}), profiler.ErrUnimplemented)

	rows, err := p.AfterTrial(ctx, profiler.Outcome{}, profiler.Capture{})
	require.ErrorIs(t, err, profiler.ErrUnimplemented)
	assert.Nil(t, rows)
}

func TestResolve_Excluded(t *testing.T) {
	t.Parallel()

	reg := profiler.Registry{heapaudit.Name: heapaudit.New}

	runner, err := reg.Resolve(context.Background(), []string{"heapaudit"}, profiler.Env{})
	require.NoError(t, err)

	assert.Empty(t, runner.Profilers())
	require.Len(t, runner.Excluded(), 1)
	assert.Equal(t, "heapaudit", runner.Excluded()[0].Name)
}
