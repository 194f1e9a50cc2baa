// Package log builds [log/slog] handlers from level and format names.
//
// Three formats are supported: [FormatText] renders styled lines for people
// at a terminal, [FormatLogfmt] and [FormatJSON] are for machines. Levels
// are [LevelError], [LevelWarn], [LevelInfo] and [LevelDebug].
//
// [Config] binds the level and format to CLI flags via
// [github.com/spf13/pflag], with shell completion via
// [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// Leaving the format unset picks one with [DefaultFormat].
package log
