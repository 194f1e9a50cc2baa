package option

import (
	"os"
	"strings"
)

// Source looks up configuration values by property name.
type Source interface {
	Lookup(key string) (string, bool)
}

// Map is a [Source] backed by a map. A nil Map is empty.
type Map map[string]string

// Lookup implements [Source].
func (m Map) Lookup(key string) (string, bool) {
	v, ok := m[key]

	return v, ok
}

// Env is a [Source] backed by environment variables.
//
// Property names are converted with [EnvName], so "jmh.jfr.disk" is read
// from JMH_JFR_DISK and "yourkit.home" from YOURKIT_HOME.
type Env struct {
	// LookupEnv defaults to [os.LookupEnv].
	LookupEnv func(string) (string, bool)
}

// Lookup implements [Source].
func (e Env) Lookup(key string) (string, bool) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return lookup(EnvName(key))
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// EnvName returns the environment variable name for a property name.
func EnvName(key string) string {
	return strings.ToUpper(envReplacer.Replace(key))
}

// Chain is a [Source] that consults each source in order and returns the
// first hit.
type Chain []Source

// Lookup implements [Source].
func (c Chain) Lookup(key string) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}

		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}

	return "", false
}

// First returns the value of the first key present in src.
func First(src Source, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}

	return "", false
}
