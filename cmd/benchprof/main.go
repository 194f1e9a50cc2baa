// Package main provides the CLI entry point for benchprof, a tool that runs
// a benchmark command with external profilers attached and reports where
// each profiler left its artifacts.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/benchprof/harness"
	"go.jacobcolvin.com/benchprof/log"
	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/profiler"
	"go.jacobcolvin.com/benchprof/profiler/builtin"
	"go.jacobcolvin.com/benchprof/version"
)

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

var (
	// ErrBenchmarkFailed indicates the benchmark exited non-zero.
	ErrBenchmarkFailed = errors.New("benchmark failed")
	// ErrInvalidParam indicates a malformed --param value.
	ErrInvalidParam = errors.New("invalid benchmark parameter")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// app holds state shared by all subcommands.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	logCfg  *log.Config
	profCfg *profiler.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		logger:  slog.New(slog.DiscardHandler),
		logCfg:  log.NewConfig(),
		profCfg: profiler.NewConfig(),
	}
	a.profCfg.Registry = builtin.Registry()

	rootCmd := &cobra.Command{
		Use:   "benchprof",
		Short: "Run benchmarks with external profilers attached",
		Long: `benchprof launches a benchmark command with one or more profilers attached
(Java Flight Recorder, Solaris Studio, Yourkit, Go test profiles), then
reports where each profiler wrote its recording, snapshot or experiment.

Profiler properties come from --define, the config file, and environment
variables (jmh.jfr.dumponexitpath is read from JMH_JFR_DUMPONEXITPATH).`,
		Version:       version.Get().String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := a.logCfg.NewLogger(a.stderr)
			if err != nil {
				return err
			}

			a.logger = logger

			return nil
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	a.logCfg.RegisterFlags(rootCmd.PersistentFlags())
	a.profCfg.RegisterFlags(rootCmd.PersistentFlags())

	for _, register := range []func(*cobra.Command) error{
		a.logCfg.RegisterCompletions,
		a.profCfg.RegisterCompletions,
	} {
		if err := register(rootCmd); err != nil {
			fmt.Fprintf(stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(
		a.newRunCmd(),
		a.newArgsCmd(),
		a.newListCmd(),
		a.newProbeCmd(),
		a.newSchemaCmd(),
	)

	return rootCmd
}

type runOptions struct {
	output    string
	dir       string
	benchmark string
	params    []string
	quiet     bool
}

func (a *app) newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a benchmark once with the selected profilers",
		Example: `  benchprof run -p jfr -D jmh.jfr.dumponexitpath=rec.jfr -- java -jar benchmarks.jar
  benchprof run -p gotest -D gotest.cpuprofile=cpu.prof -o json -- ./pkg.test -test.bench=.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", string(harness.FormatText),
		fmt.Sprintf("report format, one of: %s", harness.Formats()))
	flags.StringVar(&opts.dir, "dir", "", "directory for captured output (default: a new temporary directory)")
	flags.StringVar(&opts.benchmark, "benchmark", "", "benchmark name passed to profilers")
	flags.StringArrayVar(&opts.params, "param", nil, "benchmark parameter as key=value (repeatable)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not echo the benchmark's output")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(harness.Formats(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) run(ctx context.Context, opts runOptions, target []string) error {
	format, err := harness.ParseFormat(opts.output)
	if err != nil {
		return err
	}

	values, err := parseParams(opts.params)
	if err != nil {
		return err
	}

	runner, err := a.profCfg.NewRunner(ctx, a.logger)
	if err != nil {
		return err
	}

	h := harness.New(runner, a.logger)
	h.Dir = opts.dir

	if !opts.quiet {
		h.Stdout = a.stderr
		h.Stderr = a.stderr
	}

	report, err := h.Run(ctx, harness.Trial{
		Benchmark: opts.benchmark,
		Values:    values,
		Target:    target,
	})
	if err != nil {
		return err
	}

	err = harness.WriteReport(a.stdout, format, report)
	if err != nil {
		return err
	}

	if report.ExitCode != 0 {
		return fmt.Errorf("%w: exit code %d", ErrBenchmarkFailed, report.ExitCode)
	}

	return nil
}

func (a *app) newArgsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "args [flags] -- <command> [args...]",
		Short: "Print the launch command without running it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := a.profCfg.NewRunner(cmd.Context(), a.logger)
			if err != nil {
				return err
			}

			var params profiler.Params

			argv := harness.Argv(runner.InvokeArgs(params), args, runner.RuntimeArgs(params))

			quoted := make([]string, len(argv))
			for i, arg := range argv {
				quoted[i] = shellQuote(arg)
			}

			_, err = fmt.Fprintln(a.stdout, strings.Join(quoted, " "))
			if err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			return nil
		},
	}
}

func (a *app) newListCmd() *cobra.Command {
	var properties bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List built-in profilers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.list(properties)
		},
	}

	cmd.Flags().BoolVarP(&properties, "properties", "P", false, "also list each profiler's properties")

	return cmd
}

func (a *app) list(properties bool) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)

	if properties {
		fmt.Fprintln(tw, "PROFILER\tPROPERTY\tTYPE\tDEFAULT")
	} else {
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	}

	reg := a.profCfg.Registry
	env := profiler.Env{Source: option.Map(nil), Logger: a.logger}

	for _, name := range reg.Names() {
		p, err := reg[name](env)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", profiler.ErrConfigurationInvalid, name, err)
		}

		if !properties {
			fmt.Fprintf(tw, "%s\t%s\n", name, p.Describe().Description)

			continue
		}

		d, ok := p.(profiler.Documenter)
		if !ok {
			continue
		}

		for _, doc := range d.Options() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, doc.Property, doc.Usage, doc.Default)
		}
	}

	err := tw.Flush()
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func (a *app) newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check which profilers can run on this host",
		Long: `probe resolves each profiler on its own and reports whether it can run here.
With --profilers, only the named profilers are checked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.probe(cmd.Context())
		},
	}
}

func (a *app) probe(ctx context.Context) error {
	env, _, err := a.profCfg.Env(ctx, a.logger)
	if err != nil {
		return err
	}

	names := profiler.ParseNames(a.profCfg.Profilers)
	if len(names) == 0 {
		names = a.profCfg.Registry.Names()
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "host:\t%s (%s)\n\n", env.Host, env.Host.VM)
	fmt.Fprintln(tw, "NAME\tSTATUS\tDETAIL")

	for _, name := range names {
		runner, err := a.profCfg.Registry.Resolve(ctx, []string{name}, env)

		switch {
		case err != nil:
			fmt.Fprintf(tw, "%s\tinvalid\t%v\n", name, err)
		case len(runner.Excluded()) > 0:
			fmt.Fprintf(tw, "%s\tunavailable\t%v\n", name, runner.Excluded()[0].Err)
		default:
			fmt.Fprintf(tw, "%s\tavailable\t\n", name)
		}
	}

	err = tw.Flush()
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			schema, err := profiler.FileSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding schema: %w", err)
			}

			_, err = a.stdout.Write(append(out, '\n'))
			if err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			return nil
		},
	}
}

func parseParams(params []string) (map[string]string, error) {
	if len(params) == 0 {
		return nil, nil //nolint:nilnil // No parameters is valid.
	}

	values := make(map[string]string, len(params))

	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q: want key=value", ErrInvalidParam, p)
		}

		values[key] = value
	}

	return values, nil
}

// shellQuote single-quotes arg unless it is made only of characters no POSIX
// shell treats specially.
func shellQuote(arg string) string {
	if shellSafe.MatchString(arg) {
		return arg
	}

	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
