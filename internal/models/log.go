package models

import "time"

// LogStatus is the outcome recorded for authentication-related entries.
type LogStatus string

const (
	LogSuccess LogStatus = "SUCCESS"
	LogFailure LogStatus = "FAILURE"
)

// SystemActor is the actor name recorded when no user is known.
const SystemActor = "System"

// LogEntry is an immutable audit record.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// User is the acting user's name, or SystemActor.
	User string `json:"user"`

	// Action is a free-text description of what happened.
	Action string `json:"action"`

	Details *LogDetails `json:"details,omitempty"`
}

// LogDetails carries optional context for authentication flows.
type LogDetails struct {
	Status         LogStatus `json:"status,omitempty"`
	EmailAttempted string    `json:"emailAttempted,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
}

// EntityID returns the entry ID.
func (l LogEntry) EntityID() string { return l.ID }
