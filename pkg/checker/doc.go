// Package checker is the rule-dispatch validation engine.
//
// # Overview
//
// A Checker evaluates an already-loaded dataset against an already-parsed
// schema: global attribute rules first, then per-variable constraints. Every
// sub-check emits exactly one severity-tagged finding into a report.Recorder;
// no finding interrupts sibling checks, so a single run surfaces the complete
// violation set. The one exception is an unsupported cadence keyword in an
// interval check, which aborts the run.
//
// # Usage
//
//	c := checker.New(checker.WithStrict(true))
//	result, err := c.Run(ctx, ds, sch)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("status: %s (%d errors, %d warnings)\n",
//	    result.Status, result.Errors, result.Warnings)
//
// # Strict mode
//
// Strict mode upgrades unknown variables to errors, rejects dataset global
// attributes that the schema does not require, and flags fill-value
// attributes declared on variables whose data contains no missing elements.
//
// # Concurrency
//
// Checks on distinct variables are read-only and mutually independent. With
// WithParallel the engine validates variables concurrently, buffering each
// variable's findings and flushing them in dataset order so output stays
// deterministic.
package checker
