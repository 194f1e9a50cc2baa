// Package builtin provides a convenience function for registering the
// built-in profiler backends with a [profiler.Registry].
package builtin

import (
	"go.jacobcolvin.com/benchprof/profiler"
	"go.jacobcolvin.com/benchprof/profiler/gotest"
	"go.jacobcolvin.com/benchprof/profiler/heapaudit"
	"go.jacobcolvin.com/benchprof/profiler/jfr"
	"go.jacobcolvin.com/benchprof/profiler/solarisstudio"
	"go.jacobcolvin.com/benchprof/profiler/yourkit"
)

// Registry returns a [profiler.Registry] populated with the five built-in
// backends: jfr, solaris-studio, yourkit, heapaudit and gotest.
func Registry() profiler.Registry {
	r := make(profiler.Registry)
	r.Add(jfr.Name, jfr.New)
	r.Add(solarisstudio.Name, solarisstudio.New)
	r.Add(yourkit.Name, yourkit.New)
	r.Add(heapaudit.Name, heapaudit.New)
	r.Add(gotest.Name, gotest.New)

	return r
}
