package api

import (
	"time"

	"github.com/mmynk/mycese/internal/models"
)

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []models.Event `json:"events"`
}

type EventDetails struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" validate:"required"`
	Location    string    `json:"location"`
}

type CreateEventRequest struct {
	EventDetails
}

type CreateEventResponse struct {
	Event models.Event `json:"event"`
}

type UpdateEventRequest struct {
	ID string `json:"id" validate:"required"`
	EventDetails
}

type UpdateEventResponse struct {
	Event models.Event `json:"event"`
}

type DeleteEventRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteEventResponse struct{}

// RegisterForEventRequest registers the caller, or UserID when an
// administrator registers someone else.
type RegisterForEventRequest struct {
	EventID string `json:"eventId" validate:"required"`
	UserID  string `json:"userId,omitempty"`
}

type RegisterForEventResponse struct {
	Event models.Event `json:"event"`
}

type UnregisterFromEventRequest struct {
	EventID string `json:"eventId" validate:"required"`
	UserID  string `json:"userId,omitempty"`
}

type UnregisterFromEventResponse struct {
	Event models.Event `json:"event"`
}
