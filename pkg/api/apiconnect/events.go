package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mycese/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService.
const EventServiceName = "mycese.v1.EventService"

// Procedure names of the EventService.
const (
	EventServiceListEventsProcedure          = "/mycese.v1.EventService/ListEvents"
	EventServiceCreateEventProcedure         = "/mycese.v1.EventService/CreateEvent"
	EventServiceUpdateEventProcedure         = "/mycese.v1.EventService/UpdateEvent"
	EventServiceDeleteEventProcedure         = "/mycese.v1.EventService/DeleteEvent"
	EventServiceRegisterForEventProcedure    = "/mycese.v1.EventService/RegisterForEvent"
	EventServiceUnregisterFromEventProcedure = "/mycese.v1.EventService/UnregisterFromEvent"
)

// EventServiceHandler manages events and registrations.
type EventServiceHandler interface {
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	RegisterForEvent(context.Context, *connect.Request[api.RegisterForEventRequest]) (*connect.Response[api.RegisterForEventResponse], error)
	UnregisterFromEvent(context.Context, *connect.Request[api.UnregisterFromEventRequest]) (*connect.Response[api.UnregisterFromEventResponse], error)
}

// NewEventServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(EventServiceListEventsProcedure, connect.NewUnaryHandler(EventServiceListEventsProcedure, svc.ListEvents, opts...))
	mux.Handle(EventServiceCreateEventProcedure, connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(EventServiceUpdateEventProcedure, connect.NewUnaryHandler(EventServiceUpdateEventProcedure, svc.UpdateEvent, opts...))
	mux.Handle(EventServiceDeleteEventProcedure, connect.NewUnaryHandler(EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...))
	mux.Handle(EventServiceRegisterForEventProcedure, connect.NewUnaryHandler(EventServiceRegisterForEventProcedure, svc.RegisterForEvent, opts...))
	mux.Handle(EventServiceUnregisterFromEventProcedure, connect.NewUnaryHandler(EventServiceUnregisterFromEventProcedure, svc.UnregisterFromEvent, opts...))
	return "/" + EventServiceName + "/", mux
}

// EventServiceClient is a client for the EventService.
type EventServiceClient interface {
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	RegisterForEvent(context.Context, *connect.Request[api.RegisterForEventRequest]) (*connect.Response[api.RegisterForEventResponse], error)
	UnregisterFromEvent(context.Context, *connect.Request[api.UnregisterFromEventRequest]) (*connect.Response[api.UnregisterFromEventResponse], error)
}

// NewEventServiceClient constructs a client for the EventService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &eventServiceClient{
		listEvents:          connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+EventServiceListEventsProcedure, opts...),
		createEvent:         connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		updateEvent:         connect.NewClient[api.UpdateEventRequest, api.UpdateEventResponse](httpClient, baseURL+EventServiceUpdateEventProcedure, opts...),
		deleteEvent:         connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](httpClient, baseURL+EventServiceDeleteEventProcedure, opts...),
		registerForEvent:    connect.NewClient[api.RegisterForEventRequest, api.RegisterForEventResponse](httpClient, baseURL+EventServiceRegisterForEventProcedure, opts...),
		unregisterFromEvent: connect.NewClient[api.UnregisterFromEventRequest, api.UnregisterFromEventResponse](httpClient, baseURL+EventServiceUnregisterFromEventProcedure, opts...),
	}
}

type eventServiceClient struct {
	listEvents          *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	createEvent         *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	updateEvent         *connect.Client[api.UpdateEventRequest, api.UpdateEventResponse]
	deleteEvent         *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
	registerForEvent    *connect.Client[api.RegisterForEventRequest, api.RegisterForEventResponse]
	unregisterFromEvent *connect.Client[api.UnregisterFromEventRequest, api.UnregisterFromEventResponse]
}

func (c *eventServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	return c.updateEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) RegisterForEvent(ctx context.Context, req *connect.Request[api.RegisterForEventRequest]) (*connect.Response[api.RegisterForEventResponse], error) {
	return c.registerForEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) UnregisterFromEvent(ctx context.Context, req *connect.Request[api.UnregisterFromEventRequest]) (*connect.Response[api.UnregisterFromEventResponse], error) {
	return c.unregisterFromEvent.CallUnary(ctx, req)
}
