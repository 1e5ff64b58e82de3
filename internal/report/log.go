package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/tamilansjob/apicheck/internal/check"
)

// LogSink emits one structured log entry per result. It is useful when runs
// execute unattended (CI, cron) and the console output is not captured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each result using structured fields.
func (s *LogSink) Consume(_ context.Context, batch []check.Result) error {
	for _, res := range batch {
		fields := []zap.Field{
			zap.String("check", res.Check),
			zap.Bool("passed", res.Passed),
			zap.Bool("skipped", res.Skipped),
			zap.String("message", res.Message),
			zap.Int("status_code", res.StatusCode),
			zap.Duration("dur", res.Duration),
		}
		if res.Passed {
			s.logger.Info("check passed", fields...)
		} else {
			s.logger.Warn("check failed", fields...)
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *LogSink) Close(context.Context) error {
	return nil
}
