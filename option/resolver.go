package option

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Resolver resolves typed property values from a [Source] into entries.
//
// Malformed values produce an absent entry and are recorded; call
// [Resolver.Err] once all entries are built.
//
// Create instances with [NewResolver].
type Resolver struct {
	src  Source
	errs *multierror.Error
	docs []Doc
}

// NewResolver creates a [Resolver] reading from src. A nil src is treated
// as empty.
func NewResolver(src Source) *Resolver {
	if src == nil {
		src = Map(nil)
	}

	return &Resolver{src: src}
}

// Err returns all parse errors recorded so far, or nil.
func (r *Resolver) Err() error {
	return r.errs.ErrorOrNil()
}

// Docs returns a [Doc] for every property resolved so far, in order.
func (r *Resolver) Docs() []Doc {
	return r.docs
}

// Lookup returns the raw value of prop.
func (r *Resolver) Lookup(prop string) (string, bool) {
	return r.src.Lookup(prop)
}

// String resolves prop as a string with no default.
func (r *Resolver) String(key, prop string) Entry {
	return r.resolve(key, prop, "", false, "string", identity)
}

// StringOr resolves prop as a string, falling back to def.
func (r *Resolver) StringOr(key, prop, def string) Entry {
	return r.resolve(key, prop, def, true, "string", identity)
}

// Bool resolves prop as a boolean with no default.
func (r *Resolver) Bool(key, prop string) Entry {
	return r.resolve(key, prop, "", false, "bool", parseBool)
}

// BoolOr resolves prop as a boolean, falling back to def.
func (r *Resolver) BoolOr(key, prop string, def bool) Entry {
	return r.resolve(key, prop, strconv.FormatBool(def), true, "bool", parseBool)
}

// Int resolves prop as an integer with no default.
func (r *Resolver) Int(key, prop string) Entry {
	return r.resolve(key, prop, "", false, "integer", parseInt)
}

// IntOr resolves prop as an integer, falling back to def.
func (r *Resolver) IntOr(key, prop string, def int64) Entry {
	return r.resolve(key, prop, strconv.FormatInt(def, 10), true, "integer", parseInt)
}

// Switch resolves prop as a boolean flag rendered as a bare key by [Tokens].
func (r *Resolver) Switch(key, prop string) Entry {
	e := r.Bool(key, prop)
	e.Switch = true

	return e
}

func (r *Resolver) resolve(
	key, prop, def string, hasDef bool, kind string,
	parse func(string) (string, error),
) Entry {
	doc := Doc{Property: prop, Usage: kind}
	if hasDef {
		doc.Default = def
	}

	r.docs = append(r.docs, doc)

	raw, ok := r.src.Lookup(prop)
	if !ok {
		if hasDef {
			return Set(key, def)
		}

		return Unset(key)
	}

	v, err := parse(raw)
	if err != nil {
		r.errs = multierror.Append(r.errs, fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, prop, raw, err))

		return Unset(key)
	}

	return Set(key, v)
}

func identity(s string) (string, error) {
	return s, nil
}

func parseBool(s string) (string, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return "", errors.New("expected a boolean")
	}

	return strconv.FormatBool(b), nil
}

func parseInt(s string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "", errors.New("expected an integer")
	}

	return strconv.FormatInt(n, 10), nil
}
