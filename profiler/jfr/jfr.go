// Package jfr attaches Java Flight Recorder to a benchmarked JVM.
//
// The backend adds -XX:+FlightRecorder and a -XX:FlightRecorderOptions
// string built from jmh.jfr.* properties, and reports where the recording
// was dumped on exit.
//
// Recognized properties:
//
//	jmh.jfr.defaultrecording   defaultrecording (default true)
//	jmh.jfr.disk               disk
//	jmh.jfr.dumponexit         dumponexit (default true)
//	jmh.jfr.dumponexitpath     dumponexitpath (default ".")
//	jmh.jfr.globalbuffersize   globalbuffersize
//	jmh.jfr.loglevel           loglevel
//	jmh.jfr.maxage             maxage
//	jmh.jfr.maxchunksize       maxchunksize
//	jmh.jfr.maxsize            maxsize
//	jmh.jfr.repository         repository
//	jmh.jfr.samplethreads      samplethreads
//	jmh.jfr.settings           settings
//	jmh.jfr.stackdepth         stackdepth
//	jmh.jfr.threadbuffersize   threadbuffersize
//	jmh.jfr.unlockcommercial   add -XX:+UnlockCommercialFeatures (default true)
//	jmh.jfr.java               java binary probed for java.vm.name (default "java")
//
// The backend only runs on HotSpot and JRockit VMs. The VM is taken from
// the java.vm.name property when set, otherwise from probing the java
// binary.
package jfr

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/platform"
	"go.jacobcolvin.com/benchprof/probe"
	"go.jacobcolvin.com/benchprof/profiler"
)

// Name is the registry name.
const Name = "jfr"

// Label is the result row label.
const Label = "@jfr"

var vmNamePattern = regexp.MustCompile(`java\.vm\.name = (.+)`)

// Profiler is the Java Flight Recorder backend.
//
// Create instances with [New].
type Profiler struct {
	host     platform.Host
	dumpPath string
	java     string
	options  []option.Entry
	docs     []option.Doc
	unlock   bool
	vmKnown  bool
}

// New creates a [Profiler] from env.
func New(env profiler.Env) (profiler.Profiler, error) {
	r := option.NewResolver(env.Source)

	opts := []option.Entry{
		r.BoolOr("defaultrecording", "jmh.jfr.defaultrecording", true),
		r.Bool("disk", "jmh.jfr.disk"),
		r.BoolOr("dumponexit", "jmh.jfr.dumponexit", true),
		r.StringOr("dumponexitpath", "jmh.jfr.dumponexitpath", "."),
		r.String("globalbuffersize", "jmh.jfr.globalbuffersize"),
		r.String("loglevel", "jmh.jfr.loglevel"),
		r.Int("maxage", "jmh.jfr.maxage"),
		r.String("maxchunksize", "jmh.jfr.maxchunksize"),
		r.String("maxsize", "jmh.jfr.maxsize"),
		r.String("repository", "jmh.jfr.repository"),
		r.Bool("samplethreads", "jmh.jfr.samplethreads"),
		r.String("settings", "jmh.jfr.settings"),
		r.String("stackdepth", "jmh.jfr.stackdepth"),
		r.String("threadbuffersize", "jmh.jfr.threadbuffersize"),
	}

	unlock := r.BoolOr("unlockcommercial", "jmh.jfr.unlockcommercial", true)
	java := r.StringOr("java", "jmh.jfr.java", "java")

	if err := r.Err(); err != nil {
		return nil, err
	}

	if err := option.Validate(opts); err != nil {
		return nil, err
	}

	_, vmKnown := r.Lookup(platform.PropVMName)

	return &Profiler{
		host:     env.Host,
		vmKnown:  vmKnown,
		dumpPath: opts[3].Value,
		java:     java.Value,
		unlock:   unlock.Value == "true",
		options:  opts,
		docs:     r.Docs(),
	}, nil
}

// Describe implements [profiler.Profiler].
func (p *Profiler) Describe() profiler.Descriptor {
	return profiler.Descriptor{
		Name:          Name,
		Description:   "Java Flight Recorder",
		CaptureStdout: true,
		CaptureStderr: true,
	}
}

// Options implements [profiler.Documenter].
func (p *Profiler) Options() []option.Doc {
	return p.docs
}

// CheckEnvironment implements [profiler.EnvironmentChecker].
func (p *Profiler) CheckEnvironment(ctx context.Context) error {
	vm := p.host.VM

	if !p.vmKnown {
		out, err := probe.Probe{
			Command: p.java,
			Args:    []string{"-XshowSettings:properties", "-version"},
		}.Output(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", profiler.ErrEnvironmentUnavailable, err)
		}

		if m := vmNamePattern.FindSubmatch(out); m != nil {
			vm = platform.ParseVM(string(m[1]))
		}
	}

	switch vm {
	case platform.HotSpot, platform.JRockit:
		return nil
	case platform.VMUnknown, platform.Zing, platform.J9, platform.Graal:
	}

	return fmt.Errorf("%w: flight recorder needs a HotSpot or JRockit VM, found %s",
		profiler.ErrEnvironmentUnavailable, vm)
}

// InvokeArgs implements [profiler.Profiler].
func (p *Profiler) InvokeArgs(_ profiler.Params) []string {
	return nil
}

// RuntimeArgs implements [profiler.Profiler].
func (p *Profiler) RuntimeArgs(_ profiler.Params) []string {
	var args []string
	if p.unlock {
		args = append(args, "-XX:+UnlockCommercialFeatures")
	}

	return append(args,
		"-XX:+FlightRecorder",
		"-XX:FlightRecorderOptions="+option.Join(",", p.options),
	)
}

// BeforeTrial implements [profiler.Profiler].
func (p *Profiler) BeforeTrial(_ context.Context, _ profiler.Params) error {
	return nil
}

// AfterTrial implements [profiler.Profiler].
func (p *Profiler) AfterTrial(_ context.Context, _ profiler.Outcome, _ profiler.Capture) ([]profiler.Result, error) {
	path, err := filepath.Abs(p.dumpPath)
	if err != nil {
		return nil, fmt.Errorf("resolving recording path: %w", err)
	}

	return []profiler.Result{
		profiler.Secondary(Label, "Java Flight Recorder recording at "+path),
	}, nil
}
