// Package option assembles command-line and agent arguments from named,
// possibly-absent configuration values.
//
// Values are looked up in a [Source], a flat mapping from property names
// (such as "jmh.jfr.dumponexitpath") to strings. A [Resolver] turns each
// lookup into an [Entry], applying defaults and validating typed values:
//
//	r := option.NewResolver(src)
//	entries := []option.Entry{
//	    r.BoolOr("dumponexit", "jmh.jfr.dumponexit", true),
//	    r.StringOr("dumponexitpath", "jmh.jfr.dumponexitpath", "."),
//	    r.String("settings", "jmh.jfr.settings"),
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
//
// Entries render in one of two styles. [Join] produces an agent string such
// as "dumponexit=true,dumponexitpath=.", and [Tokens] produces discrete
// process arguments such as ["-p", "10", "-d", "."]. Absent entries never
// appear in either rendering, and the order of the input slice is kept.
//
// Duplicate keys are not merged. Call [Validate] when building a set of
// entries to reject them up front.
package option
