package checker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gridmet/ncqc/pkg/dataset"
	"github.com/gridmet/ncqc/pkg/interval"
	"github.com/gridmet/ncqc/pkg/report"
	"github.com/gridmet/ncqc/pkg/schema"
)

// fillValueAttribute marks a variable as declaring a missing-data marker.
const fillValueAttribute = "_FillValue"

// CheckVariables validates every variable in the dataset against its schema
// entry, dispatching each declared constraint kind. Findings accumulate;
// only an unsupported cadence keyword or context cancellation aborts.
// Returns the number of errors and warnings added to rec.
func (c *Checker) CheckVariables(ctx context.Context, ds *dataset.Dataset, sch *schema.Schema, rec *report.Recorder) (int, int, error) {
	preErrors, preWarnings := rec.Errors(), rec.Warnings()

	var err error
	if c.parallel {
		err = c.checkVariablesParallel(ctx, ds, sch, rec)
	} else {
		err = c.checkVariablesSequential(ctx, ds, sch, rec)
	}
	if err != nil {
		return 0, 0, err
	}
	return rec.Errors() - preErrors, rec.Warnings() - preWarnings, nil
}

func (c *Checker) checkVariablesSequential(ctx context.Context, ds *dataset.Dataset, sch *schema.Schema, rec *report.Recorder) error {
	for _, name := range ds.Variables() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := c.checkVariable(ds, sch, name, rec); err != nil {
			return err
		}
	}
	return nil
}

// checkVariablesParallel runs one goroutine per variable. Each variable gets
// its own recorder so findings can be flushed in dataset order afterwards,
// keeping the output identical to a sequential run.
func (c *Checker) checkVariablesParallel(ctx context.Context, ds *dataset.Dataset, sch *schema.Schema, rec *report.Recorder) error {
	names := ds.Variables()
	recs := make([]*report.Recorder, len(names))

	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		recs[i] = report.NewRecorder()
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return c.checkVariable(ds, sch, name, recs[i])
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range recs {
		rec.Merge(r)
	}
	return nil
}

func (c *Checker) checkVariable(ds *dataset.Dataset, sch *schema.Schema, name string, rec *report.Recorder) error {
	rec.Infof("checking %s", name)
	v, _ := ds.Variable(name)

	// In strict mode a declared fill value must actually be used.
	if c.strict {
		if _, ok := v.Attr(fillValueAttribute); ok && !v.Data().AnyMasked() {
			rec.Errorf("%s : %s present but unused", name, fillValueAttribute)
		}
	}

	rule, known := sch.VariableRule(name)
	if !known {
		if sch.AllowedDimensions[name] {
			return nil
		}
		if c.strict {
			rec.Errorf("unknown variable %s%s", name, suggest(name, sch.VariableNames()))
		} else {
			rec.Warnf("unknown variable %s%s", name, suggest(name, sch.VariableNames()))
		}
		return nil
	}

	for _, con := range rule.Constraints {
		if err := c.checkConstraint(ds, v, con, rec); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkConstraint(ds *dataset.Dataset, v *dataset.Variable, con schema.Constraint, rec *report.Recorder) error {
	name := v.Name()
	key := con.Key()

	switch t := con.(type) {
	case schema.RequiredValues:
		if dataEquals(v.Data(), t.Values) {
			rec.Infof("OK: %s : %s", name, key)
		} else {
			rec.Errorf("%s : %s", name, key)
		}

	case schema.RequiredRange:
		if dataOutsideRange(v.Data(), t.Min, t.Max) {
			rec.Errorf("%s : %s - outside allowed range", name, key)
		} else {
			rec.Infof("OK: %s : %s", name, key)
		}

	case schema.RequiredMinMax:
		min, okMin := v.Data().Min()
		max, okMax := v.Data().Max()
		if !okMin || !okMax || min != t.Min || max != t.Max {
			rec.Errorf("%s : %s - min_max values don't align with specification", name, key)
		} else {
			rec.Infof("OK: %s : %s", name, key)
		}

	case schema.RequiredAttributes:
		for _, att := range t.Names {
			if _, ok := v.Attr(att); ok {
				rec.Infof("OK: %s attribute present for %s", att, name)
			} else {
				rec.Errorf("%s : required attribute missing : %s", name, att)
			}
		}

	case schema.RequiredIntervals:
		return c.checkIntervals(ds, v, t, rec)

	case schema.Bounds:
		for _, bound := range t.Names {
			if ds.HasVariable(bound) {
				rec.Infof("OK: %s : %s", name, bound)
			} else {
				rec.Errorf("%s not found", bound)
			}
		}

	case schema.CellMethods:
		value, ok := v.Attr(key)
		if !ok {
			rec.Errorf("%s : %s missing", name, key)
			break
		}
		matched, err := MatchPrefix(t.Pattern, attrString(value))
		switch {
		case err != nil:
			rec.Errorf("%s : %s invalid pattern %q: %v", name, key, t.Pattern, err)
		case matched:
			rec.Infof("OK: %s : %s", name, key)
		default:
			rec.Errorf("%s : %s mismatch", name, key)
		}

	case schema.Dimensions:
		if stringSlicesEqual(v.Dimensions(), t.Names) {
			rec.Infof("OK: %s : %s", name, key)
		} else {
			rec.Errorf("dimensions mismatch got: %v should have: %v", v.Dimensions(), t.Names)
		}

	case schema.GlobalEquals:
		value, ok := ds.GlobalAttr(t.Name)
		switch {
		case !ok:
			rec.Errorf("%s:%s global missing", name, key)
		case equalValues(value, t.Expected):
			rec.Infof("OK: %s : %s", name, key)
		default:
			rec.Errorf("%s:%s mismatch", name, key)
		}

	case schema.AttrEquals:
		value, ok := v.Attr(t.Name)
		switch {
		case !ok:
			rec.Errorf("%s : %s missing", name, key)
		case equalValues(value, t.Expected):
			rec.Infof("OK: %s : %s", name, key)
		default:
			rec.Errorf("mismatch for %s %s", name, key)
		}

	default:
		// Closed dispatch: anything unrecognized fails, never skips.
		rec.Errorf("required check %s not implemented", key)
	}

	return nil
}

// checkIntervals dispatches the two forms of required_intervals. The bare
// form checks raw consecutive differences of the variable's own data; the
// mapping form converts companion-variable offsets to absolute timestamps
// and checks the declared calendar cadence.
func (c *Checker) checkIntervals(ds *dataset.Dataset, v *dataset.Variable, t schema.RequiredIntervals, rec *report.Recorder) error {
	name := v.Name()
	key := t.Key()

	if t.Bare != nil {
		ok, err := interval.Check(v.Data().Values, *t.Bare, time.Time{}, interval.PeriodNone)
		if err != nil {
			return err
		}
		if ok {
			rec.Infof("OK: %s : %s", name, key)
		} else {
			rec.Errorf("%s: %s not matched", name, key)
		}
		return nil
	}

	for _, comp := range t.Companions {
		companion, present := ds.Variable(comp.Variable)
		if !present {
			rec.Errorf("%s not in file", comp.Variable)
			continue
		}

		step, period, err := interval.ResolveStep(comp.Step, comp.Keyword)
		if err != nil {
			// Unsupported cadence keyword: fatal, aborts the run.
			return err
		}

		ref, err := ds.ReferenceTime()
		if err != nil {
			rec.Errorf("%s: %s - %v", name, key, err)
			continue
		}

		ok, err := interval.Check(companion.Data().Values, step, ref, period)
		if err != nil {
			return err
		}
		if ok {
			rec.Infof("OK: %s : %s - %s", name, key, comp.Variable)
		} else {
			rec.Errorf("%s: %s not matched", name, key)
		}
	}
	return nil
}

// dataEquals compares the full data elementwise with an ordered literal
// list. Masked elements never compare equal.
func dataEquals(a dataset.Array, values []float64) bool {
	if len(a.Values) != len(values) {
		return false
	}
	for i, v := range a.Values {
		if a.Masked(i) || v != values[i] {
			return false
		}
	}
	return true
}

// dataOutsideRange reports whether any unmasked element falls outside
// [min, max].
func dataOutsideRange(a dataset.Array, min, max float64) bool {
	for i, v := range a.Values {
		if a.Masked(i) {
			continue
		}
		if v < min || v > max {
			return true
		}
	}
	return false
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
