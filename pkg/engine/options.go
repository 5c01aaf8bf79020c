package engine

import (
	"digital.vasic.tutor/pkg/logging"
	"digital.vasic.tutor/pkg/metrics"
	"digital.vasic.tutor/pkg/monitor"
	"digital.vasic.tutor/pkg/report"
	"digital.vasic.tutor/pkg/verify"
)

// Option configures an Engine.
type Option func(*Engine)

// WithVerifier replaces the behavioral verifier.
func WithVerifier(v *verify.Verifier) Option {
	return func(e *Engine) { e.verifier = v }
}

// WithLogger sets the logger for check outcomes.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCollector sets the monitor event collector for live
// verification events.
func WithCollector(c *monitor.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithRecorder sets the session report recorder.
func WithRecorder(r *report.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithPreHook appends a hook run before each check. An error
// aborts the check.
func WithPreHook(h Hook) Option {
	return func(e *Engine) { e.preHooks = append(e.preHooks, h) }
}

// WithPostHook appends a hook run after each check.
func WithPostHook(h Hook) Option {
	return func(e *Engine) { e.postHooks = append(e.postHooks, h) }
}
