package option

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidValue indicates a property value could not be parsed.
	ErrInvalidValue = errors.New("invalid value")
	// ErrDuplicateKey indicates the same key appears twice in one rendering.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Entry is a single rendered option. Entries with Present unset are
// skipped by [Join] and [Tokens].
type Entry struct {
	// Key is the rendered name, e.g. "dumponexit" or "-p".
	Key string
	// Value is the rendered value.
	Value string
	// Present reports whether the value was resolved.
	Present bool
	// Switch entries render as a bare key in [Tokens] when Value is "true",
	// and are omitted otherwise.
	Switch bool
}

// Set returns a present [Entry].
func Set(key, value string) Entry {
	return Entry{Key: key, Value: value, Present: true}
}

// Unset returns an absent [Entry].
func Unset(key string) Entry {
	return Entry{Key: key}
}

// String renders the entry as "key=value".
func (e Entry) String() string {
	return e.Key + "=" + e.Value
}

// Present returns the entries that have a value, in order.
func Present(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if e.Present {
			out = append(out, e)
		}
	}

	return out
}

// Join renders present entries as "key=value" separated by sep.
// No present entries yields "".
func Join(sep string, entries []Entry) string {
	var sb strings.Builder

	first := true

	for _, e := range entries {
		if !e.Present {
			continue
		}

		if !first {
			sb.WriteString(sep)
		}

		first = false

		sb.WriteString(e.String())
	}

	return sb.String()
}

// Tokens renders present entries as discrete "key value" argument pairs.
// No present entries yields an empty, non-nil slice.
func Tokens(entries []Entry) []string {
	out := []string{}

	for _, e := range entries {
		if !e.Present {
			continue
		}

		if e.Switch {
			if e.Value == "true" {
				out = append(out, e.Key)
			}

			continue
		}

		out = append(out, e.Key, e.Value)
	}

	return out
}

// Validate returns an error wrapping [ErrDuplicateKey] if two entries share
// a key. Absent entries are included in the check, since their keys are
// fixed in code.
func Validate(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if _, ok := seen[e.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, e.Key)
		}

		seen[e.Key] = struct{}{}
	}

	return nil
}

// Doc documents a recognized property.
type Doc struct {
	Property string
	Default  string
	Usage    string
}
