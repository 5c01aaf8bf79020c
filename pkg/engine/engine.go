// Package engine is the verification dispatcher: the single entry
// point that checks a learner submission against a named step and
// resolves which feedback message, if any, overrides the raw
// pass/fail outcome.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"digital.vasic.tutor/pkg/course"
	"digital.vasic.tutor/pkg/logging"
	"digital.vasic.tutor/pkg/metrics"
	"digital.vasic.tutor/pkg/monitor"
	"digital.vasic.tutor/pkg/report"
	"digital.vasic.tutor/pkg/step"
	"digital.vasic.tutor/pkg/verify"
)

// Result captures one verification call: identity, verdict, and
// the failing test case when behavioral verification found one.
type Result struct {
	Page         string                `json:"page"`
	Step         string                `json:"step"`
	SubmissionID string                `json:"submission_id"`
	Verdict      step.Verdict          `json:"verdict"`
	Failure      *verify.FailureReport `json:"failure,omitempty"`
	Duration     time.Duration         `json:"duration"`
}

// Status returns the reporting status for the result: "passed",
// "failed", or "message".
func (r *Result) Status() string {
	switch {
	case r.Verdict.IsMessage():
		return report.StatusMessage
	case r.Verdict.Pass:
		return report.StatusPassed
	}
	return report.StatusFailed
}

// Hook is invoked before or after a check. A pre-hook error
// aborts the check.
type Hook func(
	ctx context.Context,
	page *course.Page,
	s *step.Step,
	sub step.Submission,
) error

// Engine dispatches verification calls against a sealed registry.
// Safe for concurrent use: each call operates on its own transient
// state.
type Engine struct {
	registry  *course.Registry
	verifier  *verify.Verifier
	logger    logging.Logger
	metrics   metrics.Metrics
	collector *monitor.Collector
	recorder  *report.Recorder
	preHooks  []Hook
	postHooks []Hook
	active    atomic.Int64
}

// New creates an Engine over a sealed registry with the supplied
// options.
func New(registry *course.Registry, opts ...Option) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("engine needs a registry")
	}
	if !registry.Sealed() {
		return nil, fmt.Errorf("engine needs a sealed registry")
	}
	e := &Engine{
		registry: registry,
		verifier: verify.NewVerifier(),
		logger:   logging.NewNullLogger(),
		metrics:  metrics.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// CheckStep verifies a submission against the named step of the
// named page. It returns an error only for caller mistakes
// (unknown page or step, aborting hook); every per-call fault in
// the submission itself becomes a verdict.
func (e *Engine) CheckStep(
	ctx context.Context,
	pageSlug, stepName string,
	sub step.Submission,
) (*Result, error) {
	page, ok := e.registry.Page(pageSlug)
	if !ok {
		return nil, fmt.Errorf("page not found: %s", pageSlug)
	}
	s, ok := page.Step(stepName)
	if !ok {
		return nil, fmt.Errorf(
			"step not found: %s on page %s", stepName, pageSlug,
		)
	}

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	for _, hook := range e.preHooks {
		if err := hook(ctx, page, s, sub); err != nil {
			return nil, fmt.Errorf("pre-hook: %w", err)
		}
	}

	e.metrics.SetActiveChecks(int(e.active.Add(1)))
	defer func() {
		e.metrics.SetActiveChecks(int(e.active.Add(-1)))
	}()

	e.emit(monitor.Event{
		Type:         monitor.EventCheckStarted,
		Page:         pageSlug,
		Step:         stepName,
		SubmissionID: sub.ID,
		Timestamp:    time.Now(),
	})

	start := time.Now()
	verdict, failure := e.checkWithMessages(s, sub)
	result := &Result{
		Page:         pageSlug,
		Step:         stepName,
		SubmissionID: sub.ID,
		Verdict:      verdict,
		Failure:      failure,
		Duration:     time.Since(start),
	}

	e.finish(result)

	for _, hook := range e.postHooks {
		if err := hook(ctx, page, s, sub); err != nil {
			return result, fmt.Errorf("post-hook: %w", err)
		}
	}
	return result, nil
}

// finish fans the result out to the logger, metrics, monitor, and
// recorder.
func (e *Engine) finish(r *Result) {
	status := r.Status()

	e.logger.Info("step checked",
		logging.Field{Key: "page", Value: r.Page},
		logging.Field{Key: "step", Value: r.Step},
		logging.Field{Key: "submission", Value: r.SubmissionID},
		logging.Field{Key: "status", Value: status},
		logging.Field{Key: "duration", Value: r.Duration},
	)
	e.metrics.RecordCheck(r.Page, r.Step, status, r.Duration)

	eventType := monitor.EventCheckFailed
	switch status {
	case report.StatusPassed:
		eventType = monitor.EventCheckPassed
	case report.StatusMessage:
		eventType = monitor.EventMessageShown
	}
	e.emit(monitor.Event{
		Type:         eventType,
		Page:         r.Page,
		Step:         r.Step,
		SubmissionID: r.SubmissionID,
		Status:       status,
		Message:      r.Verdict.Message,
		Duration:     r.Duration,
		Timestamp:    time.Now(),
	})

	if e.recorder != nil {
		e.recorder.Record(report.Entry{
			Page:         r.Page,
			Step:         r.Step,
			SubmissionID: r.SubmissionID,
			Status:       status,
			Message:      r.Verdict.Message,
			Duration:     r.Duration,
			Timestamp:    time.Now(),
		})
	}
}

func (e *Engine) emit(event monitor.Event) {
	if e.collector != nil {
		e.collector.Emit(event)
	}
}
