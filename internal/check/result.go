// Package check defines the conformance checklist, its result model, and the
// recorder that fans results out to reporting sinks.
package check

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Result captures the outcome of a single conformance check. Results are
// append-only: once recorded they are never mutated.
type Result struct {
	// Check is the human-readable check name.
	Check string `json:"check"`
	// Passed reports whether the check succeeded.
	Passed bool `json:"passed"`
	// Skipped marks checks that could not run because a prerequisite
	// failed. A skipped check always counts as not passed.
	Skipped bool `json:"skipped,omitempty"`
	// Message is a one-line explanation of the outcome.
	Message string `json:"message"`
	// Timestamp is the UTC time the check started.
	Timestamp time.Time `json:"timestamp"`
	// Duration is the wall time the check took.
	Duration time.Duration `json:"duration"`
	// StatusCode is the HTTP status observed, when a request completed.
	StatusCode int `json:"status_code,omitempty"`
	// Detail optionally carries a response payload for failure triage.
	Detail json.RawMessage `json:"detail,omitempty"`
}

// Summary tallies an ordered result list.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// PassRate returns the passed/total ratio in [0, 1]. An empty run reports 0.
func (s Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}

// Summarize tallies results into a Summary. Skipped checks count toward both
// Failed and Skipped, mirroring the failure policy for unmet prerequisites.
func Summarize(results []Result) Summary {
	sum := Summary{Total: len(results)}
	for _, res := range results {
		if res.Passed {
			sum.Passed++
			continue
		}
		sum.Failed++
		if res.Skipped {
			sum.Skipped++
		}
	}
	return sum
}

// Report is the structured output of a full conformance run.
type Report struct {
	RunID      string    `json:"run_id"`
	BaseURL    string    `json:"base_url"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    []Result  `json:"results"`
	Summary    Summary   `json:"summary"`
}

// Failed returns the results that did not pass, in run order.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Sink consumes recorded results. Implementations live in internal/report.
type Sink interface {
	// Consume processes a batch of results. Errors are logged by the
	// recorder and never interrupt the run.
	Consume(ctx context.Context, batch []Result) error
	// Close flushes and releases any sink resources.
	Close(ctx context.Context) error
}

// Recorder appends results to an ordered, monotonically growing list and
// forwards each one synchronously to the configured sinks. The suite is
// strictly sequential, so no locking is needed.
type Recorder struct {
	logger  *zap.Logger
	sinks   []Sink
	results []Result
}

// NewRecorder wires the sinks behind a Recorder.
func NewRecorder(logger *zap.Logger, sinks ...Sink) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger, sinks: sinks}
}

// Record appends the result and forwards it to every sink. Sink failures are
// logged and swallowed so a broken reporter cannot abort the run.
func (r *Recorder) Record(ctx context.Context, res Result) {
	r.results = append(r.results, res)
	batch := []Result{res}
	for _, sink := range r.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Consume(ctx, batch); err != nil {
			r.logger.Warn("result sink consume failed", zap.Error(err))
		}
	}
}

// Results returns a copy of the recorded results in run order.
func (r *Recorder) Results() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// Close closes every sink, logging failures.
func (r *Recorder) Close(ctx context.Context) {
	for _, sink := range r.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil {
			r.logger.Warn("result sink close failed", zap.Error(err))
		}
	}
}
