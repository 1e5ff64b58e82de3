// Package report implements the sinks that consume conformance results:
// console, structured log, Prometheus, and the persistent store.
package report

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/tamilansjob/apicheck/internal/check"
)

// ConsoleSink prints one PASS/FAIL line per result as the run progresses.
// Color is enabled only when writing to a TTY (the color library honors
// NO_COLOR as well).
type ConsoleSink struct {
	w        io.Writer
	useColor bool
}

// NewConsoleSink wires a writer to the sink interface.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSink{
		w:        w,
		useColor: isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	if w == os.Stdout || w == os.Stderr {
		return !color.NoColor
	}
	return false
}

// Consume prints each result on its own line.
func (s *ConsoleSink) Consume(_ context.Context, batch []check.Result) error {
	for _, res := range batch {
		if _, err := fmt.Fprintln(s.w, s.line(res)); err != nil {
			return fmt.Errorf("write console line: %w", err)
		}
	}
	return nil
}

func (s *ConsoleSink) line(res check.Result) string {
	label := s.label(res)
	return fmt.Sprintf("%s: %s - %s", label, res.Check, res.Message)
}

func (s *ConsoleSink) label(res check.Result) string {
	switch {
	case res.Passed:
		return s.paint(color.FgGreen, "PASS")
	case res.Skipped:
		return s.paint(color.FgYellow, "SKIP")
	default:
		return s.paint(color.FgRed, "FAIL")
	}
}

func (s *ConsoleSink) paint(attr color.Attribute, text string) string {
	if !s.useColor {
		return text
	}
	return color.New(attr, color.Bold).Sprint(text)
}

// Close implements the Sink interface; it performs no action.
func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

// WriteSummary renders the end-of-run summary block: totals, pass rate, and
// the list of failed checks.
func WriteSummary(w io.Writer, rep check.Report) error {
	useColor := isTerminal(w)
	paint := func(attr color.Attribute, text string) string {
		if !useColor {
			return text
		}
		return color.New(attr, color.Bold).Sprint(text)
	}

	sum := rep.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, "================ CONFORMANCE SUMMARY ================")
	fmt.Fprintf(w, "Base URL:     %s\n", rep.BaseURL)
	fmt.Fprintf(w, "Run ID:       %s\n", rep.RunID)
	fmt.Fprintf(w, "Total checks: %d\n", sum.Total)
	fmt.Fprintf(w, "Passed:       %s\n", paint(color.FgGreen, fmt.Sprintf("%d", sum.Passed)))
	fmt.Fprintf(w, "Failed:       %s\n", paint(color.FgRed, fmt.Sprintf("%d", sum.Failed)))
	if sum.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:      %s\n", paint(color.FgYellow, fmt.Sprintf("%d", sum.Skipped)))
	}
	fmt.Fprintf(w, "Pass rate:    %.1f%%\n", sum.PassRate()*100)

	failed := rep.Failed()
	if len(failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, paint(color.FgRed, "FAILED CHECKS:"))
		for _, res := range failed {
			fmt.Fprintf(w, "  - %s: %s\n", res.Check, res.Message)
		}
	}
	if _, err := fmt.Fprintln(w, "====================================================="); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
