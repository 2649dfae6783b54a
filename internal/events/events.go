// Package events manages association events and their registrations.
package events

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/mycese/internal/apperr"
	"github.com/mmynk/mycese/internal/auditlog"
	"github.com/mmynk/mycese/internal/entitystore"
	"github.com/mmynk/mycese/internal/models"
)

var (
	ErrEventNotFound = apperr.New(apperr.ErrNotFound, "EVENT_NOT_FOUND", "event not found")
	ErrInvalidEvent  = apperr.New(apperr.ErrValidation, "INVALID_EVENT", "invalid event data")
)

// Service reads and writes the events collection.
type Service struct {
	events *entitystore.Collection[models.Event]
	audit  auditlog.Recorder
}

// New creates an event Service.
func New(events *entitystore.Collection[models.Event], audit auditlog.Recorder) *Service {
	return &Service{events: events, audit: audit}
}

// Details are the editable fields of an event.
type Details struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
}

func (d Details) validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrInvalidEvent.Withf("title is required")
	}
	if d.Date.IsZero() {
		return ErrInvalidEvent.Withf("date is required")
	}
	return nil
}

// Create adds an event. The collection is kept sorted by date, newest first.
func (s *Service) Create(ctx context.Context, actor string, d Details) (models.Event, error) {
	if err := d.validate(); err != nil {
		return models.Event{}, err
	}
	event := models.Event{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Description,
		Date:         d.Date,
		Location:     d.Location,
		Participants: []string{},
	}
	err := s.events.Mutate(ctx, func(items []models.Event) ([]models.Event, error) {
		items = append(items, event)
		sortByDateDesc(items)
		return items, nil
	})
	if err != nil {
		return models.Event{}, err
	}
	s.audit.Record(ctx, fmt.Sprintf("Novo evento criado: %s", event.Title), actor, nil)
	return event, nil
}

// Update replaces the editable fields of an event. Participants are kept.
func (s *Service) Update(ctx context.Context, actor, id string, d Details) (models.Event, error) {
	if err := d.validate(); err != nil {
		return models.Event{}, err
	}
	var updated models.Event
	err := s.events.Mutate(ctx, func(items []models.Event) ([]models.Event, error) {
		i := slices.IndexFunc(items, func(e models.Event) bool { return e.ID == id })
		if i < 0 {
			return nil, ErrEventNotFound.Withf("event %s not found", id)
		}
		items[i].Title = strings.TrimSpace(d.Title)
		items[i].Description = d.Description
		items[i].Date = d.Date
		items[i].Location = d.Location
		updated = items[i]
		sortByDateDesc(items)
		return items, nil
	})
	if err != nil {
		return models.Event{}, err
	}
	s.audit.Record(ctx, fmt.Sprintf("Evento %s atualizado.", id), actor, nil)
	return updated, nil
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, actor, id string) error {
	err := s.events.Remove(ctx, id)
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return ErrEventNotFound.Withf("event %s not found", id)
	}
	if err != nil {
		return err
	}
	s.audit.Record(ctx, fmt.Sprintf("Evento %s removido.", id), actor, nil)
	return nil
}

// Register adds userID to the participants. Registering twice is a no-op.
func (s *Service) Register(ctx context.Context, actor, id, userID string) (models.Event, error) {
	event, err := s.patch(ctx, id, func(e *models.Event) {
		if !e.HasParticipant(userID) {
			e.Participants = append(e.Participants, userID)
		}
	})
	if err != nil {
		return models.Event{}, err
	}
	s.audit.Record(ctx, fmt.Sprintf("Usuário %s inscrito no evento %s", userID, id), actor, nil)
	return event, nil
}

// Unregister removes userID from the participants.
func (s *Service) Unregister(ctx context.Context, actor, id, userID string) (models.Event, error) {
	event, err := s.patch(ctx, id, func(e *models.Event) {
		e.Participants = slices.DeleteFunc(e.Participants, func(p string) bool { return p == userID })
	})
	if err != nil {
		return models.Event{}, err
	}
	s.audit.Record(ctx, fmt.Sprintf("Usuário %s cancelou inscrição no evento %s", userID, id), actor, nil)
	return event, nil
}

// List returns all events, newest first.
func (s *Service) List() ([]models.Event, error) {
	return s.events.List()
}

// Get returns one event.
func (s *Service) Get(id string) (models.Event, error) {
	e, err := s.events.Get(id)
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.Event{}, ErrEventNotFound.Withf("event %s not found", id)
	}
	return e, err
}

func (s *Service) patch(ctx context.Context, id string, fn func(*models.Event)) (models.Event, error) {
	var updated models.Event
	err := s.events.Update(ctx, id, func(e *models.Event) error {
		fn(e)
		updated = *e
		return nil
	})
	if errors.Is(err, entitystore.ErrEntityNotFound) {
		return models.Event{}, ErrEventNotFound.Withf("event %s not found", id)
	}
	return updated, err
}

func sortByDateDesc(items []models.Event) {
	slices.SortStableFunc(items, func(a, b models.Event) int { return b.Date.Compare(a.Date) })
}
