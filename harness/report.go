package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-yaml"

	"go.jacobcolvin.com/benchprof/profiler"
)

// Format is a report output format.
type Format string

// Report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat indicates an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns all report format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat parses a report format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats(), string(f)) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}

	return f, nil
}

// Row is a result row with the profiler that produced it.
type Row struct {
	Profiler string `json:"profiler" yaml:"profiler"`

	profiler.Result `yaml:",inline"`
}

// Report summarizes one trial.
type Report struct {
	Benchmark string   `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Duration  string   `json:"duration"            yaml:"duration"`
	Argv      []string `json:"argv"                yaml:"argv"`
	Results   []Row    `json:"results"             yaml:"results"`
	ExitCode  int      `json:"exitCode"            yaml:"exitCode"`
}

// NewReport builds a [Report] from a trial's outcome and merged results.
func NewReport(benchmark string, argv []string, o profiler.Outcome, set *profiler.ResultSet) *Report {
	r := &Report{
		Benchmark: benchmark,
		Argv:      argv,
		ExitCode:  o.ExitCode,
		Duration:  o.Duration.Round(time.Millisecond).String(),
		Results:   []Row{},
	}

	if set == nil {
		return r
	}

	for _, label := range set.Labels() {
		row, _ := set.Get(label)
		r.Results = append(r.Results, Row{Profiler: set.Owner(label), Result: row})
	}

	return r
}

// WriteReport writes r to w in the given format.
func WriteReport(w io.Writer, format Format, r *Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(r)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}

		return nil

	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}

		_, err = w.Write(out)
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		return nil

	case FormatText:
		return writeText(w, r)
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func writeText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.Benchmark != "" {
		fmt.Fprintf(tw, "benchmark:\t%s\n", r.Benchmark)
	}

	fmt.Fprintf(tw, "command:\t%s\n", strings.Join(r.Argv, " "))
	fmt.Fprintf(tw, "exit code:\t%d\n", r.ExitCode)
	fmt.Fprintf(tw, "duration:\t%s\n", r.Duration)

	err := tw.Flush()
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if len(r.Results) == 0 {
		_, err = io.WriteString(w, "\nno profiler results\n")
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		return nil
	}

	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tPROFILER\tINFO")

	for _, row := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Label, row.Profiler, row.ExtendedInfo)
	}

	err = tw.Flush()
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}
