package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Flags holds CLI flag names for log configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Level  string
	Format string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds the --log-level and --log-format values.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewLogger] once flags are parsed.
type Config struct {
	Level string
	// Format is chosen by [DefaultFormat] when empty.
	Format string
	Flags  Flags
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Level:  "log-level",
		Format: "log-format",
	}

	return f.NewConfig()
}

// RegisterFlags adds logging flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelInfo),
		fmt.Sprintf("log level, one of: %s", GetAllLevelStrings()))
	flags.StringVar(&c.Format, c.Flags.Format, "",
		fmt.Sprintf("log format, one of: %s (default text on a terminal, logfmt otherwise)", GetAllFormatStrings()))
}

// RegisterCompletions registers shell completions for log flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(GetAllLevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Level, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(GetAllFormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Format, err)
	}

	return nil
}

// NewHandler creates a [Handler] writing to w from the level and format
// stored in c.
func (c *Config) NewHandler(w io.Writer) (Handler, error) {
	format := c.Format
	if format == "" {
		format = string(DefaultFormat(w))
	}

	return NewHandlerFromStrings(w, c.Level, format)
}

// NewLogger returns a [*slog.Logger] writing to w, built by
// [Config.NewHandler].
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	handler, err := c.NewHandler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(handler), nil
}

// DefaultFormat returns [FormatText] when w is a terminal and
// [FormatLogfmt] otherwise.
func DefaultFormat(w io.Writer) Format {
	f, ok := w.(interface{ Fd() uintptr })
	if ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // File descriptors fit in an int.
		return FormatText
	}

	return FormatLogfmt
}
