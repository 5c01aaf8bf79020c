// Package metrics records verification engine measurements.
package metrics

import (
	"sync"
	"time"
)

// Metrics defines the interface for recording verification
// metrics.
type Metrics interface {
	// RecordCheck records one verification call with its
	// reporting status ("passed", "failed", "message").
	RecordCheck(page, stepName, status string, duration time.Duration)

	// RecordMatch records a structural match outcome of note,
	// such as a case-only match.
	RecordMatch(kind string)

	// RecordSynthesis records an input synthesis for a type
	// hint.
	RecordSynthesis(hint string)

	// SetActiveChecks sets the gauge of in-flight checks.
	SetActiveChecks(count int)
}

// NoopMetrics is a no-op implementation of Metrics, useful for
// testing or when collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordCheck(_, _, _ string, _ time.Duration) {}
func (NoopMetrics) RecordMatch(_ string)                        {}
func (NoopMetrics) RecordSynthesis(_ string)                    {}
func (NoopMetrics) SetActiveChecks(_ int)                       {}

// InMemoryMetrics implements Metrics with in-memory counters.
// A host application exposes them through its own metrics
// endpoint. Safe for concurrent use.
type InMemoryMetrics struct {
	mu        sync.Mutex
	checks    map[string]int
	matches   map[string]int
	syntheses map[string]int
	durations map[string][]time.Duration
	active    int
}

// NewInMemoryMetrics creates an empty InMemoryMetrics.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		checks:    make(map[string]int),
		matches:   make(map[string]int),
		syntheses: make(map[string]int),
		durations: make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) RecordCheck(
	page, stepName, status string, duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := page + "/" + stepName
	m.checks[key+":"+status]++
	m.durations[key] = append(m.durations[key], duration)
}

func (m *InMemoryMetrics) RecordMatch(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[kind]++
}

func (m *InMemoryMetrics) RecordSynthesis(hint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syntheses[hint]++
}

func (m *InMemoryMetrics) SetActiveChecks(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// CheckCount returns how many checks of a step finished with the
// given status.
func (m *InMemoryMetrics) CheckCount(page, stepName, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checks[page+"/"+stepName+":"+status]
}

// MatchCount returns how many matches of a kind were recorded.
func (m *InMemoryMetrics) MatchCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matches[kind]
}

// SynthesisCount returns how many syntheses of a type hint were
// recorded.
func (m *InMemoryMetrics) SynthesisCount(hint string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.syntheses[hint]
}

// ActiveChecks returns the current gauge value.
func (m *InMemoryMetrics) ActiveChecks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
