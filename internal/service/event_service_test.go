package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/mycese/pkg/api"
	"github.com/mmynk/mycese/pkg/api/apiconnect"
)

func TestEventService(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()
	admin := apiconnect.NewEventServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.admin))
	member := apiconnect.NewEventServiceClient(http.DefaultClient, ts.url, ts.as(t, ts.member))

	details := api.EventDetails{
		Title:    "Palestra de Finanças",
		Date:     time.Date(2026, 7, 2, 18, 0, 0, 0, time.UTC),
		Location: "Auditório FEN",
	}

	_, err := member.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{EventDetails: details}))
	assertCode(t, err, connect.CodePermissionDenied, "")

	_, err = admin.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{EventDetails: api.EventDetails{Title: "Sem data"}}))
	assertCode(t, err, connect.CodeInvalidArgument, "")

	created, err := admin.CreateEvent(ctx, connect.NewRequest(&api.CreateEventRequest{EventDetails: details}))
	require.NoError(t, err)
	eventID := created.Msg.Event.ID

	registered, err := member.RegisterForEvent(ctx, connect.NewRequest(&api.RegisterForEventRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Equal(t, []string{ts.member.ID}, registered.Msg.Event.Participants)

	_, err = member.RegisterForEvent(ctx, connect.NewRequest(&api.RegisterForEventRequest{EventID: eventID, UserID: ts.cfo.ID}))
	assertCode(t, err, connect.CodePermissionDenied, "")

	_, err = admin.RegisterForEvent(ctx, connect.NewRequest(&api.RegisterForEventRequest{EventID: eventID, UserID: ts.cfo.ID}))
	require.NoError(t, err)

	details.Title = "Palestra de Finanças Pessoais"
	updated, err := admin.UpdateEvent(ctx, connect.NewRequest(&api.UpdateEventRequest{ID: eventID, EventDetails: details}))
	require.NoError(t, err)
	assert.Equal(t, details.Title, updated.Msg.Event.Title)
	assert.Len(t, updated.Msg.Event.Participants, 2)

	unregistered, err := member.UnregisterFromEvent(ctx, connect.NewRequest(&api.UnregisterFromEventRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Equal(t, []string{ts.cfo.ID}, unregistered.Msg.Event.Participants)

	list, err := member.ListEvents(ctx, connect.NewRequest(&api.ListEventsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Events, 1)

	_, err = admin.DeleteEvent(ctx, connect.NewRequest(&api.DeleteEventRequest{ID: eventID}))
	require.NoError(t, err)
	_, err = admin.DeleteEvent(ctx, connect.NewRequest(&api.DeleteEventRequest{ID: eventID}))
	assertCode(t, err, connect.CodeNotFound, "EVENT_NOT_FOUND")
}
