package models

import (
	"slices"
	"time"
)

// Event is an association event members can register for.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`

	// Participants holds the IDs of registered users.
	Participants []string `json:"participants"`
}

// EntityID returns the event ID.
func (e Event) EntityID() string { return e.ID }

// HasParticipant reports whether userID is registered.
func (e Event) HasParticipant(userID string) bool {
	return slices.Contains(e.Participants, userID)
}
