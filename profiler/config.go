package profiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/benchprof/option"
	"go.jacobcolvin.com/benchprof/platform"
)

// ErrReadConfig indicates the configuration file could not be loaded.
var ErrReadConfig = errors.New("read config")

// Flags holds CLI flag names for profiler configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Profilers string
	Define    string
	File      string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for profiler selection and properties.
//
// Properties are looked up, in order, in --define values, the config file's
// properties, and the environment (see [option.Env]).
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewRunner] to resolve the selected
// profilers.
type Config struct {
	// Registry maps names accepted by the profilers flag to constructors.
	Registry Registry
	// LookupEnv defaults to [os.LookupEnv].
	LookupEnv func(string) (string, bool)
	Flags     Flags
	Profilers string
	File      string
	Defines   []string
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Profilers: "profilers",
		Define:    "define",
		File:      "config",
	}

	return f.NewConfig()
}

// RegisterFlags adds profiler flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Profilers, c.Flags.Profilers, "p", "",
		"comma-separated list of profilers to attach, in order")
	flags.StringArrayVarP(&c.Defines, c.Flags.Define, "D", nil,
		"set a profiler property as key=value (repeatable)")
	flags.StringVar(&c.File, c.Flags.File, "",
		"YAML file with profilers and properties")
}

// RegisterCompletions registers shell completions for profiler flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Profilers,
		cobra.FixedCompletions(c.Registry.Names(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Profilers, err)
	}

	var props []string
	for _, doc := range c.Docs() {
		props = append(props, doc.Property+"=")
	}

	slices.Sort(props)
	props = slices.Compact(props)

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Define,
		cobra.FixedCompletions(props, cobra.ShellCompDirectiveNoFileComp|cobra.ShellCompDirectiveNoSpace))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Define, err)
	}

	return nil
}

// Docs returns the documented properties of every registered profiler, by
// profiler name order.
func (c *Config) Docs() []option.Doc {
	var docs []option.Doc

	env := Env{Source: option.Map(nil), Logger: slog.New(slog.DiscardHandler)}

	for _, name := range c.Registry.Names() {
		p, err := c.Registry[name](env)
		if err != nil {
			continue
		}

		if d, ok := p.(Documenter); ok {
			docs = append(docs, d.Options()...)
		}
	}

	return docs
}

// Source returns the layered property source for this configuration.
func (c *Config) Source(file *File) (option.Source, error) {
	defines := make(option.Map, len(c.Defines))

	for _, def := range c.Defines {
		key, value, ok := strings.Cut(def, "=")
		key = strings.TrimSpace(key)

		if !ok || key == "" {
			return nil, fmt.Errorf("%w: --%s %q: want key=value", ErrConfigurationInvalid, c.Flags.Define, def)
		}

		defines[key] = value
	}

	var props option.Map
	if file != nil {
		props = file.Properties
	}

	return option.Chain{defines, props, option.Env{LookupEnv: c.LookupEnv}}, nil
}

// Load reads the config file, if one is set.
func (c *Config) Load() (*File, error) {
	if c.File == "" {
		return &File{}, nil
	}

	return LoadFile(c.File)
}

// Env loads the config file and builds the environment profilers are
// constructed from, with the host detected from properties and this
// machine. It also returns the loaded file.
func (c *Config) Env(ctx context.Context, logger *slog.Logger) (Env, *File, error) {
	file, err := c.Load()
	if err != nil {
		return Env{}, nil, err
	}

	src, err := c.Source(file)
	if err != nil {
		return Env{}, nil, err
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return Env{
		Source: src,
		Host:   platform.Detect(src, platform.HostInfo(ctx)),
		Logger: logger,
	}, file, nil
}

// NewRunner resolves the selected profilers into a [Runner]. The profilers
// flag takes precedence over the config file's list.
func (c *Config) NewRunner(ctx context.Context, logger *slog.Logger) (*Runner, error) {
	env, file, err := c.Env(ctx, logger)
	if err != nil {
		return nil, err
	}

	names := ParseNames(c.Profilers)
	if len(names) == 0 {
		names = file.Profilers
	}

	env.Logger.Debug("resolving profilers",
		slog.Any("profilers", names),
		slog.String("host", env.Host.String()),
		slog.String("vm", env.Host.VM.String()),
	)

	return c.Registry.Resolve(ctx, names, env)
}

// File is the YAML configuration file format.
type File struct {
	// Properties are profiler properties, e.g. jmh.jfr.dumponexitpath.
	Properties map[string]string `json:"properties,omitempty" jsonschema:"profiler properties such as jmh.jfr.dumponexitpath" yaml:"properties,omitempty"`
	// Profilers are attached in the order given.
	Profilers []string `json:"profilers,omitempty" jsonschema:"profilers to attach in order" yaml:"profilers,omitempty"`
}

// LoadFile reads a YAML [File]. Unknown fields are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	return ParseFile(data)
}

// ParseFile parses YAML [File] content.
func ParseFile(data []byte) (*File, error) {
	var f File

	err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	return &f, nil
}

// FileSchema returns the JSON Schema of [File].
func FileSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("generating config schema: %w", err)
	}

	schema.Title = "benchprof configuration"

	return schema, nil
}
