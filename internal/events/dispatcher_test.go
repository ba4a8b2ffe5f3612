package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		got = append(got, "assigned:"+e.TicketID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t1"}))
	assert.Equal(t, []string{"first:t1", "second:t1"}, got)
}

func TestDispatcher_HandlerFailureDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error { return boom })
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketStatusChanged})
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	assert.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventTicketMessagePosted}))
}

func TestDispatcher_StampsIDAndTimestamp(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got Event
	d.Subscribe(EventTicketStatusChanged, func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged, TicketID: "t1"}))
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())

	require.NoError(t, d.Publish(context.Background(), Event{ID: "fixed", Type: EventTicketStatusChanged}))
	assert.Equal(t, "fixed", got.ID)
}

func TestDispatcher_PanickingHandlerIsReported(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false
	d.Subscribe(EventTicketMessagePosted, func(context.Context, Event) error { panic("boom") })
	d.Subscribe(EventTicketMessagePosted, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketMessagePosted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.True(t, delivered)
}
