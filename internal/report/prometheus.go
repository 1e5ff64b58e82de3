package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamilansjob/apicheck/internal/check"
)

// PrometheusSink exports conformance metrics. It owns all collectors for
// check outcomes, durations, and observed HTTP status classes.
type PrometheusSink struct {
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	httpResponses *prometheus.CounterVec
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apicheck_checks_total",
			Help: "Conformance checks executed, partitioned by result.",
		}, []string{"result"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apicheck_check_duration_seconds",
			Help:    "Wall time per conformance check.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}, []string{"result"}),
		httpResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apicheck_http_responses_total",
			Help: "HTTP responses observed during checks, partitioned by status class.",
		}, []string{"status_class"}),
	}
	for _, collector := range []prometheus.Collector{
		s.checksTotal,
		s.checkDuration,
		s.httpResponses,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register conformance collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors using the provided batch.
func (s *PrometheusSink) Consume(_ context.Context, batch []check.Result) error {
	for _, res := range batch {
		result := resultLabel(res)
		s.checksTotal.WithLabelValues(result).Inc()
		if res.Duration > 0 {
			s.checkDuration.WithLabelValues(result).Observe(res.Duration.Seconds())
		}
		if res.StatusCode > 0 {
			s.httpResponses.WithLabelValues(statusClass(res.StatusCode)).Inc()
		}
	}
	return nil
}

func resultLabel(res check.Result) string {
	switch {
	case res.Passed:
		return "passed"
	case res.Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

func statusClass(code int) string {
	if code >= 100 && code < 600 {
		return strconv.Itoa(code/100) + "xx"
	}
	return "other"
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
