// Package yourkit attaches the Yourkit Java profiler agent to a benchmarked
// JVM.
//
// The Yourkit installation is found through jmh.yourkit.home, then
// yourkit.home, then the YOURKIT_HOME environment variable. The agent
// library is taken from jmh.yourkit.agentlib, or looked up in [AgentLibs]
// for the target host.
//
// Every other jmh.yourkit.* property maps to the agent startup option of the
// same name (on_exit maps to onexit). Snapshots go to jmh.yourkit.dir,
// which defaults to the working directory.
package yourkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/platform"
	"go.jacobcolvin.com/benchprof/profiler"
)

const (
	// Name is the registry name.
	Name = "yourkit"
	// Label is the result row label.
	Label = "@yourkit"

	prefix = "jmh.yourkit."
)

var (
	errNoHome     = errors.New("yourkit home not set: use jmh.yourkit.home, yourkit.home or YOURKIT_HOME")
	errNoAgentLib = errors.New("no yourkit agent library for this platform: set jmh.yourkit.agentlib")
)

// Profiler is the Yourkit backend.
//
// Create instances with [New].
type Profiler struct {
	host    platform.Host
	home    string
	lib     string
	dir     string
	options []option.Entry
	docs    []option.Doc
}

// New creates a [Profiler] from env. A missing installation is not a
// configuration error; it is reported by [Profiler.CheckEnvironment].
func New(env profiler.Env) (profiler.Profiler, error) {
	r := option.NewResolver(env.Source)

	home := r.String("home", prefix+"home")
	if !home.Present {
		if v, ok := r.Lookup("yourkit.home"); ok {
			home = option.Set("home", v)
		}
	}

	lib := r.String("agentlib", prefix+"agentlib")
	if !lib.Present {
		if path, ok := AgentLibs.Lookup(env.Host); ok {
			lib = option.Set("agentlib", path)
		}
	}

	dir := r.StringOr("dir", prefix+"dir", ".")

	opts := []option.Entry{
		r.Int("port", prefix+"port"),
		r.String("listen", prefix+"listen"),
		r.Bool("only_local", prefix+"only_local"),
		r.Int("delay", prefix+"delay"),
		r.Int("telemetry_limit", prefix+"telemetry_limit"),
		r.Int("telemetry_period", prefix+"telemetry_period"),
		r.Int("probe_table_length_limit", prefix+"probe_table_length_limit"),
		r.Int("dead_thread_limit", prefix+"dead_thread_limit"),
		r.StringOr("onexit", prefix+"on_exit", "snapshot"),
		dir,
		r.StringOr("logdir", prefix+"logdir", dir.Value),
		r.String("sampling_settings_path", prefix+"sampling_settings_path"),
		r.String("tracing_settings_path", prefix+"tracing_settings_path"),
		r.Bool("sampling", prefix+"sampling"),
		r.Bool("tracing", prefix+"tracing"),
		r.Int("alloceach", prefix+"alloceach"),
		r.Int("allocsizelimit", prefix+"allocsizelimit"),
		r.Bool("noperclassgc", prefix+"noperclassgc"),
		r.Bool("allocsampled", prefix+"allocsampled"),
		r.Bool("monitors", prefix+"monitors"),
		r.Int("usedmem", prefix+"usedmem"),
		r.Int("usedmemhprof", prefix+"usedmemhprof"),
		r.Int("periodicperf", prefix+"periodicperf"),
		r.Int("periodicmem", prefix+"periodicmem"),
		r.Int("periodichprof", prefix+"periodichprof"),
		r.Bool("disablestacktelemetry", prefix+"disablestacktelemetry"),
		r.Bool("disableexceptiontelemetry", prefix+"disableexceptiontelemetry"),
		r.Bool("disableoomedumper", prefix+"disableoomedumper"),
		r.String("probe_on", prefix+"probe_on"),
		r.String("probe_off", prefix+"probe_off"),
		r.String("probe_auto", prefix+"probe_auto"),
		r.String("probe_disable", prefix+"probe_disable"),
		r.String("probeclasspath", prefix+"probeclasspath"),
		r.String("probebootclasspath", prefix+"probebootclasspath"),
		r.String("triggers", prefix+"triggers"),
		r.Bool("disablealloc", prefix+"disablealloc"),
		r.Bool("disabletracing", prefix+"disabletracing"),
		r.Bool("disableall", prefix+"disableall"),
	}

	if err := r.Err(); err != nil {
		return nil, err
	}

	if err := option.Validate(opts); err != nil {
		return nil, err
	}

	return &Profiler{
		host:    env.Host,
		home:    home.Value,
		lib:     lib.Value,
		dir:     dir.Value,
		options: opts,
		docs:    r.Docs(),
	}, nil
}

// Describe implements [profiler.Profiler].
func (p *Profiler) Describe() profiler.Descriptor {
	return profiler.Descriptor{
		Name:          Name,
		Description:   "Yourkit",
		CaptureStdout: true,
		CaptureStderr: true,
	}
}

// Options implements [profiler.Documenter].
func (p *Profiler) Options() []option.Doc {
	return p.docs
}

// AgentPath returns the agent library path inside the Yourkit home, or ""
// if either is unknown.
func (p *Profiler) AgentPath() string {
	if p.home == "" || p.lib == "" {
		return ""
	}

	return filepath.Join(p.home, p.lib)
}

// CheckEnvironment implements [profiler.EnvironmentChecker].
func (p *Profiler) CheckEnvironment(_ context.Context) error {
	if p.home == "" {
		return fmt.Errorf("%w: %w", profiler.ErrEnvironmentUnavailable, errNoHome)
	}

	if p.lib == "" {
		return fmt.Errorf("%w: %w (host %s)", profiler.ErrEnvironmentUnavailable, errNoAgentLib, p.host)
	}

	_, err := os.Stat(p.AgentPath())
	if err != nil {
		return fmt.Errorf("%w: agent library: %w", profiler.ErrEnvironmentUnavailable, err)
	}

	return nil
}

// InvokeArgs implements [profiler.Profiler].
func (p *Profiler) InvokeArgs(_ profiler.Params) []string {
	return nil
}

// RuntimeArgs implements [profiler.Profiler].
func (p *Profiler) RuntimeArgs(_ profiler.Params) []string {
	arg := "-agentpath:" + p.AgentPath()

	if opts := option.Join(",", p.options); opts != "" {
		arg += "=" + opts
	}

	return []string{arg}
}

// BeforeTrial implements [profiler.Profiler].
func (p *Profiler) BeforeTrial(_ context.Context, _ profiler.Params) error {
	return nil
}

// AfterTrial implements [profiler.Profiler].
func (p *Profiler) AfterTrial(_ context.Context, _ profiler.Outcome, _ profiler.Capture) ([]profiler.Result, error) {
	dir, err := filepath.Abs(p.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving snapshot directory: %w", err)
	}

	return []profiler.Result{
		profiler.Secondary(Label, "Yourkit snapshot at "+dir),
	}, nil
}
