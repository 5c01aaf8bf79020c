// Package monitor broadcasts live verification events to
// observers such as an authoring dashboard.
package monitor

import "time"

// EventType represents the type of verification event.
type EventType string

const (
	EventCheckStarted EventType = "check_started"
	EventCheckPassed  EventType = "check_passed"
	EventCheckFailed  EventType = "check_failed"
	EventMessageShown EventType = "message_shown"
)

// Event represents one lifecycle event of a verification call.
type Event struct {
	Type         EventType     `json:"type"`
	Page         string        `json:"page"`
	Step         string        `json:"step"`
	SubmissionID string        `json:"submission_id"`
	Status       string        `json:"status,omitempty"`
	Message      string        `json:"message,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}
