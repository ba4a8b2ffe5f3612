package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
)

func TestActivityService_LogsAndCounts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	NewActivityService(dispatcher, zap.New(core), metrics).RegisterHandlers()

	actor := domain.Actor{ID: "agent-1", Role: domain.RoleAgent}
	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventTicketCreated, TicketID: "t1", Actor: actor}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: "t1",
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusOpen,
			NewStatus: domain.TicketStatusInProgress,
			Trigger:   "self_assign",
		},
	}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "TicketCreated", entries[0].Message)
	assert.Equal(t, "TicketStatusChanged", entries[1].Message)
	assert.Equal(t, "t1", entries[1].ContextMap()["ticket_id"])

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["tickets_created_total"])
	assert.True(t, names["ticket_transitions_total"])
	count, err := testutil.GatherAndCount(metrics.Registry(), "ticket_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
