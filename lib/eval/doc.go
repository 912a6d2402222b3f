// Package eval evaluates expr-lang expressions against repositories, e.g. to
// derive values from a configuration or to check it:
//
//	e := eval.New()
//	ok, err := e.EvaluateBool(r, `has("db.host") && get("db.port", 5432) > 1024`)
//
// Compiled programs are cached per evaluator, an Evaluator is safe for
// concurrent use as long as the repositories it runs against are not modified
// concurrently.
package eval
