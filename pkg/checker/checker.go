package checker

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/gridmet/ncqc/pkg/dataset"
	"github.com/gridmet/ncqc/pkg/report"
	"github.com/gridmet/ncqc/pkg/schema"
)

// DefaultSkipGlobals lists required global attributes whose presence is
// enforced elsewhere but whose value is never constrained here. The short
// name is product-specific and checked by the producing pipeline.
var DefaultSkipGlobals = []string{"short_name"}

// Checker evaluates schema constraints against a dataset.
type Checker struct {
	strict   bool
	parallel bool
	skip     []string
	logger   *slog.Logger
}

// Option is a functional option for configuring Checker instances.
type Option func(*Checker)

// WithStrict enables strict mode.
func WithStrict(strict bool) Option {
	return func(c *Checker) { c.strict = strict }
}

// WithParallel enables concurrent per-variable validation.
func WithParallel(parallel bool) Option {
	return func(c *Checker) { c.parallel = parallel }
}

// WithSkipGlobals replaces the default list of required globals exempt from
// value checks.
func WithSkipGlobals(names ...string) Option {
	return func(c *Checker) { c.skip = names }
}

// WithLogger sets the logger used for engine diagnostics. Findings do not go
// through this logger; they are returned in the run result.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// New creates a new Checker with the provided options.
func New(opts ...Option) *Checker {
	c := &Checker{skip: DefaultSkipGlobals}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Run validates ds against sch and returns the accumulated result. The only
// error returns are fatal conditions: context cancellation or an unsupported
// cadence keyword in an interval check.
func (c *Checker) Run(ctx context.Context, ds *dataset.Dataset, sch *schema.Schema) (*report.Result, error) {
	start := time.Now()
	rec := report.NewRecorder()

	if len(sch.RequiredGlobals) > 0 {
		c.logger.Debug("checking global attributes", "required", len(sch.RequiredGlobals))
		c.CheckGlobals(ds, sch, rec)
	}

	if _, _, err := c.CheckVariables(ctx, ds, sch, rec); err != nil {
		validationTotal.WithLabelValues("aborted").Inc()
		return nil, err
	}

	result := rec.Result(time.Since(start))

	validationDuration.Observe(result.Duration.Seconds())
	validationTotal.WithLabelValues(string(result.Status)).Inc()
	findingsTotal.WithLabelValues(string(report.SeverityError)).Add(float64(result.Errors))
	findingsTotal.WithLabelValues(string(report.SeverityWarning)).Add(float64(result.Warnings))

	c.logger.Debug("validation completed",
		"errors", result.Errors,
		"warnings", result.Warnings,
		"status", result.Status,
		"duration", result.Duration)

	return result, nil
}

// skipped reports whether a required global is exempt from value checks.
func (c *Checker) skipped(name string) bool {
	for _, s := range c.skip {
		if s == name {
			return true
		}
	}
	return false
}

// equalValues compares two attribute values exactly. Numeric values compare
// by value across int/float representations; everything else compares by
// deep equality. No approximate comparison is ever performed.
func equalValues(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// attrString renders an attribute value for pattern matching.
func attrString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// suggest returns a " (did you mean ...)" hint when name is a near miss of a
// known candidate, or an empty string.
func suggest(name string, candidates []string) string {
	const maxDistance = 2
	best := ""
	bestDist := maxDistance + 1
	for _, cand := range candidates {
		if d := levenshtein.ComputeDistance(name, cand); d < bestDist {
			best, bestDist = cand, d
		}
	}
	if best == "" || best == name {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
