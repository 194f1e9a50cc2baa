// Package profiler defines the extension contract between a benchmark
// harness and external profiling backends, and coordinates those backends
// around each benchmark trial.
//
// # Backends
//
// A backend implements [Profiler]. It describes itself, contributes
// arguments to the benchmark's launch command, and returns secondary
// [Result] rows once a trial completes. Rows carry a locator for the
// artifact the tool wrote (for example a recording path) rather than a
// numeric sample, and aggregate to themselves.
//
// Backends that only work on some hosts also implement
// [EnvironmentChecker]. Backends that read properties implement
// [Documenter] so the CLI can list and complete them.
//
// # Registry
//
// A [Registry] maps names to constructors. [Registry.Resolve] builds the
// selected backends from an [Env] (configuration source, classified host,
// logger), checks each one's environment once, and returns a [Runner] over
// the backends that can run. Backends failing their environment check are
// excluded, not failed. Unknown names and configuration errors fail the
// whole resolution.
//
// # Trial protocol
//
// The [Runner] walks one trial through four phases:
//
//  1. idle → preparing: [Runner.BeforeTrial] calls every backend's
//     BeforeTrial in registration order. The first error aborts the trial.
//  2. preparing → running: the harness launches the benchmark with
//     [Runner.InvokeArgs] before the target executable and
//     [Runner.RuntimeArgs] right after it, each concatenated in
//     registration order.
//  3. running → collecting: [Runner.AfterTrial] calls every backend's
//     AfterTrial in registration order and merges rows into a
//     [ResultSet] keyed by label.
//  4. collecting → idle.
//
// Hooks never run concurrently and are never retried.
//
// # Errors
//
//   - [ErrEnvironmentUnavailable]: the backend cannot run here (skipped).
//   - [ErrConfigurationInvalid]: the backend could not be built.
//   - [ErrUnknownProfiler]: the name is not registered.
//   - [ErrUnimplemented]: the backend does not implement a hook it was
//     asked to run (fatal for the run).
//   - [ErrTrialSetup]: a BeforeTrial hook failed (fatal for the trial).
//   - [ErrLabelConflict]: two backends produced rows with the same label.
//
// # CLI Integration
//
// [Config] bridges CLI flags to the registry, following the RegisterFlags /
// RegisterCompletions / NewRunner pattern:
//
//	cfg := profiler.NewConfig()
//	cfg.Registry = builtin.Registry()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	_ = cfg.RegisterCompletions(rootCmd)
//
//	runner, err := cfg.NewRunner(ctx, logger)
package profiler
