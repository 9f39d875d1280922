package checker

import (
	"github.com/gridmet/ncqc/pkg/dataset"
	"github.com/gridmet/ncqc/pkg/report"
	"github.com/gridmet/ncqc/pkg/schema"
)

// CheckGlobals validates dataset-wide attributes against the schema's
// required-globals list and any same-named top-level rules. It never
// short-circuits: every attribute is evaluated and every finding is
// recorded. Returns the number of errors and warnings added to rec.
func (c *Checker) CheckGlobals(ds *dataset.Dataset, sch *schema.Schema, rec *report.Recorder) (int, int) {
	preErrors, preWarnings := rec.Errors(), rec.Warnings()

	for _, key := range sch.RequiredGlobals {
		if c.skipped(key) {
			continue
		}

		value, present := ds.GlobalAttr(key)
		rule, hasRule := sch.GlobalRule(key)

		switch {
		case present && hasRule:
			c.checkGlobalRule(key, value, rule, rec)
		case present:
			// Required and present, with no value constraint declared.
			rec.Infof("OK - global %s", key)
		default:
			rec.Errorf("required global %s not defined", key)
		}
	}

	if c.strict {
		for _, key := range ds.GlobalAttrs() {
			if !sch.RequiresGlobal(key) {
				rec.Errorf("unrequested global attribute %s present%s",
					key, suggest(key, sch.RequiredGlobals))
			}
		}
	}

	return rec.Errors() - preErrors, rec.Warnings() - preWarnings
}

func (c *Checker) checkGlobalRule(key string, value any, rule *schema.GlobalRule, rec *report.Recorder) {
	switch rule.Kind {
	case schema.GlobalAllowedValues:
		for _, allowed := range rule.Allowed {
			if equalValues(value, allowed) {
				rec.Infof("OK - global %s", key)
				return
			}
		}
		rec.Errorf("global %s not in allowed values", key)

	case schema.GlobalObject:
		for _, sub := range rule.Checks {
			if sub.Name != "pattern" {
				rec.Errorf("check for %s, %s not implemented", key, sub.Name)
				continue
			}
			pattern := attrString(sub.Value)
			ok, err := MatchPrefix(pattern, attrString(value))
			switch {
			case err != nil:
				rec.Errorf("global %s: invalid pattern %q: %v", key, pattern, err)
			case ok:
				rec.Infof("OK - %s matches pattern", key)
			default:
				rec.Errorf("%s does not match required pattern", key)
			}
		}

	default:
		rec.Warnf("constraint on %s is not defined", key)
	}
}
