package report

import (
	"fmt"
	"log/slog"
	"time"
)

// Severity tags a single validation finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Status is the overall outcome of a validation run.
type Status string

const (
	// StatusPass means no errors were recorded. Warnings do not affect status.
	StatusPass Status = "pass"

	// StatusFail means at least one error was recorded.
	StatusFail Status = "fail"
)

// Event is a single severity-tagged finding.
type Event struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Result is the summary of a completed validation run.
type Result struct {
	Status   Status        `json:"status" yaml:"status"`
	Errors   int           `json:"errors" yaml:"errors"`
	Warnings int           `json:"warnings" yaml:"warnings"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Events   []Event       `json:"events" yaml:"events"`
}

// Recorder accumulates findings for one validation run. Individual checks
// never abort the run; everything is recorded and reported once at the end.
// A Recorder is not safe for concurrent use; parallel callers buffer into
// per-variable recorders and Merge them in a fixed order.
type Recorder struct {
	events   []Event
	errors   int
	warnings int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Infof records a passing check.
func (r *Recorder) Infof(format string, args ...any) {
	r.events = append(r.events, Event{Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a soft violation and increments the warning count.
func (r *Recorder) Warnf(format string, args ...any) {
	r.warnings++
	r.events = append(r.events, Event{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// Errorf records a hard violation and increments the error count.
func (r *Recorder) Errorf(format string, args ...any) {
	r.errors++
	r.events = append(r.events, Event{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the number of errors recorded so far.
func (r *Recorder) Errors() int { return r.errors }

// Warnings returns the number of warnings recorded so far.
func (r *Recorder) Warnings() int { return r.warnings }

// Events returns the ordered findings recorded so far.
func (r *Recorder) Events() []Event { return r.events }

// Merge appends all findings from other, preserving their order.
func (r *Recorder) Merge(other *Recorder) {
	if other == nil {
		return
	}
	r.events = append(r.events, other.events...)
	r.errors += other.errors
	r.warnings += other.warnings
}

// Result finalizes the recorder into a run summary.
func (r *Recorder) Result(duration time.Duration) *Result {
	status := StatusPass
	if r.errors > 0 {
		status = StatusFail
	}
	return &Result{
		Status:   status,
		Errors:   r.errors,
		Warnings: r.warnings,
		Duration: duration,
		Events:   r.events,
	}
}

// Emit routes events to the given logger at their severity level. Routing to
// distinct output streams is a sink concern; see the logging package.
func Emit(logger *slog.Logger, events []Event) {
	for _, ev := range events {
		switch ev.Severity {
		case SeverityError:
			logger.Error(ev.Message)
		case SeverityWarning:
			logger.Warn(ev.Message)
		default:
			logger.Info(ev.Message)
		}
	}
}
