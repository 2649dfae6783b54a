package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/internal/events"
	"github.com/mmynk/mycese/internal/middleware"
	"github.com/mmynk/mycese/internal/models"
	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

// EventService implements the EventService RPC interface.
type EventService struct {
	events *events.Service
	logger *slog.Logger
}

var _ apiconnect.EventServiceHandler = (*EventService)(nil)

// NewEventService creates a new event service.
func NewEventService(ev *events.Service, logger *slog.Logger) *EventService {
	return &EventService{events: ev, logger: logger}
}

func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}
	list, err := s.events.List()
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to list events", err)
	}
	return connect.NewResponse(&api.ListEventsResponse{Events: list}), nil
}

func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	event, err := s.events.Create(ctx, actor(ctx), details(req.Msg.EventDetails))
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to create event", err)
	}
	s.logger.Info("Event created", "event_id", event.ID)
	return connect.NewResponse(&api.CreateEventResponse{Event: event}), nil
}

func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	event, err := s.events.Update(ctx, actor(ctx), req.Msg.ID, details(req.Msg.EventDetails))
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to update event", err)
	}
	return connect.NewResponse(&api.UpdateEventResponse{Event: event}), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	if err := middleware.RequireRole(ctx, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if err := s.events.Delete(ctx, actor(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(s.logger, "Failed to delete event", err)
	}
	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

func (s *EventService) RegisterForEvent(ctx context.Context, req *connect.Request[api.RegisterForEventRequest]) (*connect.Response[api.RegisterForEventResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	userID, err := targetUser(ctx, req.Msg.UserID, isAdmin)
	if err != nil {
		return nil, err
	}
	event, err := s.events.Register(ctx, actor(ctx), req.Msg.EventID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to register for event", err)
	}
	return connect.NewResponse(&api.RegisterForEventResponse{Event: event}), nil
}

func (s *EventService) UnregisterFromEvent(ctx context.Context, req *connect.Request[api.UnregisterFromEventRequest]) (*connect.Response[api.UnregisterFromEventResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	userID, err := targetUser(ctx, req.Msg.UserID, isAdmin)
	if err != nil {
		return nil, err
	}
	event, err := s.events.Unregister(ctx, actor(ctx), req.Msg.EventID, userID)
	if err != nil {
		return nil, toConnectError(s.logger, "Failed to unregister from event", err)
	}
	return connect.NewResponse(&api.UnregisterFromEventResponse{Event: event}), nil
}

func details(d api.EventDetails) events.Details {
	return events.Details{Title: d.Title, Description: d.Description, Date: d.Date, Location: d.Location}
}
