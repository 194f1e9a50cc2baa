package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "charm.land/log/v2"
)

// Level is a log severity name.
type Level string

// Log levels, from least to most verbose.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format is a log output format.
type Format string

const (
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
	// FormatLogfmt writes key=value pairs, for log collectors.
	FormatLogfmt Format = "logfmt"
	// FormatText writes human-readable, styled lines for terminals.
	FormatText Format = "text"
)

var (
	// ErrInvalidArgument indicates an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var (
	levels  = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug}
	formats = []Format{FormatText, FormatLogfmt, FormatJSON}
)

// Handler is a [slog.Handler] built by this package.
type Handler = slog.Handler

// Slog returns the [slog.Level] for l. Unknown levels map to
// [slog.LevelInfo].
func (l Level) Slog() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
	}

	return slog.LevelInfo
}

// ParseLevel parses a case-insensitive level name. "warning" is accepted as
// an alias of [LevelWarn].
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn, nil
	}

	for _, l := range levels {
		if string(l) == s {
			return l, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
}

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, s)
}

// GetAllLevelStrings returns every level name, least verbose first.
func GetAllLevelStrings() []string {
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, string(l))
	}

	return out
}

// GetAllFormatStrings returns every format name.
func GetAllFormatStrings() []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		out = append(out, string(f))
	}

	return out
}

// NewHandler creates a [Handler] writing to w. An unknown format falls back
// to [FormatLogfmt].
func NewHandler(w io.Writer, level Level, format Format) Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.Slog()})

	case FormatText:
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level.Slog()),
			ReportTimestamp: true,
		})

	case FormatLogfmt:
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.Slog()})
}

// NewHandlerFromStrings parses level and format and creates a [Handler].
// Parse errors wrap [ErrInvalidArgument].
func NewHandlerFromStrings(w io.Writer, level, format string) (Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return NewHandler(w, lvl, f), nil
}
