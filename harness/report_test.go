package harness_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/benchprof/harness"
	"go.jacobcolvin.com/benchprof/profiler"
	"go.jacobcolvin.com/benchprof/stringtest"
)

func sampleReport(t *testing.T) *harness.Report {
	t.Helper()

	set := profiler.NewResultSet()
	require.NoError(t, set.Add("jfr", profiler.Secondary("@jfr", "Java Flight Recorder recording at /tmp/rec.jfr")))
	require.NoError(t, set.Add("yourkit", profiler.Secondary("@yourkit", "Yourkit snapshot at /tmp")))

	return harness.NewReport("bench",
		[]string{"java", "-jar", "b.jar"},
		profiler.Outcome{Duration: 1500*time.Millisecond + 300*time.Microsecond},
		set,
	)
}

func TestWriteReport_Text(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		report *harness.Report
		want   string
	}{
		"with results": {
			report: sampleReport(t),
			want: stringtest.Input(`
				benchmark:  bench
				command:    java -jar b.jar
				exit code:  0
				duration:   1.5s

				LABEL     PROFILER  INFO
				@jfr      jfr       Java Flight Recorder recording at /tmp/rec.jfr
				@yourkit  yourkit   Yourkit snapshot at /tmp
			`),
		},
		"no results": {
			report: harness.NewReport("", []string{"bench"}, profiler.Outcome{ExitCode: 1}, nil),
			want: stringtest.Input(`
				command:    bench
				exit code:  1
				duration:   0s

				no profiler results
			`),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, harness.WriteReport(&buf, harness.FormatText, tc.report))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestWriteReport_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, harness.WriteReport(&buf, harness.FormatJSON, sampleReport(t)))

	assert.JSONEq(t, `{
		"benchmark": "bench",
		"duration": "1.5s",
		"argv": ["java", "-jar", "b.jar"],
		"exitCode": 0,
		"results": [
			{
				"profiler": "jfr",
				"role": "secondary",
				"label": "@jfr",
				"policy": "sum",
				"unit": "none",
				"extendedInfo": "Java Flight Recorder recording at /tmp/rec.jfr"
			},
			{
				"profiler": "yourkit",
				"role": "secondary",
				"label": "@yourkit",
				"policy": "sum",
				"unit": "none",
				"extendedInfo": "Yourkit snapshot at /tmp"
			}
		]
	}`, buf.String())
}

func TestWriteReport_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, harness.WriteReport(&buf, harness.FormatYAML, sampleReport(t)))

	out := buf.String()
	assert.Contains(t, out, "benchmark: bench\n")
	assert.Contains(t, out, "profiler: yourkit\n")

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	results, ok := got["results"].([]any)
	require.True(t, ok)
	require.Len(t, results, 2)

	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "@jfr", first["label"])
	assert.Equal(t, "jfr", first["profiler"])
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := harness.WriteReport(&buf, harness.Format("xml"), sampleReport(t))
	require.ErrorIs(t, err, harness.ErrUnknownFormat)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    harness.Format
		wantErr bool
	}{
		"text":       {input: "text", want: harness.FormatText},
		"json upper": {input: "JSON", want: harness.FormatJSON},
		"yaml":       {input: " yaml ", want: harness.FormatYAML},
		"unknown":    {input: "toml", wantErr: true},
		"empty":      {input: "", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := harness.ParseFormat(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, harness.ErrUnknownFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
