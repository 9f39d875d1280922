// Package interval validates that a sequence of elapsed-time offsets repeats
// at a declared calendar cadence.
//
// Offsets are elapsed hours from an absolute reference time, the natural
// representation for forecast lead times. Fixed-hour comparison cannot
// express monthly or yearly cadences (months and years vary in length), so
// offsets are converted to absolute timestamps and the difference between
// consecutive timestamps is decomposed into calendar components before
// comparison.
package interval

import (
	"fmt"
	"time"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
)

// Period is the repeating temporal unit over which a stepsize must hold.
type Period string

const (
	// PeriodNone compares raw consecutive differences with no calendar
	// conversion.
	PeriodNone Period = ""

	PeriodHours Period = "hours"
	PeriodDays  Period = "days"
	PeriodMonth Period = "month"
	PeriodYears Period = "years"
)

// ParsePeriod validates a cadence keyword. An unrecognized keyword is an
// unsupported-request condition that must abort the whole validation run.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodNone, PeriodHours, PeriodDays, PeriodMonth, PeriodYears:
		return p, nil
	default:
		return "", ncqcerrors.New(ncqcerrors.ErrCodeUnsupportedPeriod,
			fmt.Sprintf("interval checks for period %q not implemented", s))
	}
}

// ResolveStep maps a schema interval entry onto a (stepsize, period) pair:
//
//   - keyword "month" or "years": stepsize 1 at that cadence
//   - numeric 24: one step per calendar day
//   - any other numeric: hourly cadence with that stepsize
//
// An unknown keyword returns an unsupported-period error.
func ResolveStep(step float64, keyword string) (float64, Period, error) {
	if keyword != "" {
		p, err := ParsePeriod(keyword)
		if err != nil || p == PeriodNone || p == PeriodHours || p == PeriodDays {
			// Only the non-hour cadence markers are valid keywords.
			return 0, "", ncqcerrors.New(ncqcerrors.ErrCodeUnsupportedPeriod,
				fmt.Sprintf("interval checks for period %q not implemented", keyword))
		}
		return 1, p, nil
	}
	if step == 24 {
		return 1, PeriodDays, nil
	}
	return step, PeriodHours, nil
}

// Check reports whether values, an ordered sequence of elapsed-hour offsets
// from ref, repeats at exactly step per period. A sequence with fewer than
// two elements is vacuously regular. All comparisons are exact.
func Check(values []float64, step float64, ref time.Time, period Period) (bool, error) {
	if len(values) < 2 {
		return true, nil
	}

	if period == PeriodNone {
		for i := 1; i < len(values); i++ {
			if values[i]-values[i-1] != step {
				return false, nil
			}
		}
		return true, nil
	}

	times := make([]time.Time, len(values))
	for i, offset := range values {
		times[i] = ref.Add(time.Duration(offset * float64(time.Hour)))
	}

	switch period {
	case PeriodMonth:
		// Months are not a fixed unit of time, so the check is on the
		// calendar month number. Reduction modulo 12 normalizes steps that
		// cross a year boundary (December to January is 1, not -11).
		for i := 1; i < len(times); i++ {
			diff := int(times[i].Month()) - int(times[i-1].Month())
			diff = ((diff % 12) + 12) % 12
			if float64(diff) != step {
				return false, nil
			}
		}
		return true, nil

	case PeriodHours, PeriodDays, PeriodYears:
		for i := 1; i < len(times); i++ {
			years, _, days, hours := delta(times[i-1], times[i])
			var got float64
			switch period {
			case PeriodHours:
				got = hours
			case PeriodDays:
				got = float64(days)
			case PeriodYears:
				got = float64(years)
			}
			if got != step {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, ncqcerrors.New(ncqcerrors.ErrCodeUnsupportedPeriod,
			fmt.Sprintf("interval checks for period %q not implemented", period))
	}
}

// delta decomposes the difference between two instants into normalized
// calendar components (years, months, days, fractional hours), borrowing
// across units so that each component is non-negative for a <= b. One
// calendar year between the same month/day/time is exactly years=1 whether
// or not the traversed year is a leap year.
func delta(a, b time.Time) (years, months, days int, hours float64) {
	if b.Before(a) {
		y, m, d, h := delta(b, a)
		return -y, -m, -d, -h
	}

	years = b.Year() - a.Year()
	months = int(b.Month()) - int(a.Month())
	days = b.Day() - a.Day()
	hours = float64(b.Hour()-a.Hour()) +
		float64(b.Minute()-a.Minute())/60 +
		float64(b.Second()-a.Second())/3600

	if hours < 0 {
		hours += 24
		days--
	}
	if days < 0 {
		days += daysInPrecedingMonth(b)
		months--
	}
	if months < 0 {
		months += 12
		years--
	}
	return years, months, days, hours
}

// daysInPrecedingMonth returns the length of the calendar month immediately
// before t's month.
func daysInPrecedingMonth(t time.Time) int {
	// Day 0 of the current month is the last day of the preceding one.
	return time.Date(t.Year(), t.Month(), 0, 0, 0, 0, 0, t.Location()).Day()
}
