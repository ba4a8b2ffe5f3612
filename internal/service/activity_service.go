package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
)

// ActivityService records ticket activity from domain events as structured
// log entries and transition metrics.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *ActivityService {
	return &ActivityService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handleTicketCreated)
	a.dispatcher.Subscribe(events.EventTicketMessagePosted, a.handleTicketMessagePosted)
	a.dispatcher.Subscribe(events.EventTicketAssigned, a.handleTicketAssigned)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.handleTicketStatusChanged)
}

func (a *ActivityService) handleTicketCreated(_ context.Context, event events.Event) error {
	a.metrics.RecordTicketCreated()
	a.log("TicketCreated", event)
	return nil
}

func (a *ActivityService) handleTicketMessagePosted(_ context.Context, event events.Event) error {
	a.log("TicketMessagePosted", event)
	return nil
}

func (a *ActivityService) handleTicketAssigned(_ context.Context, event events.Event) error {
	a.log("TicketAssigned", event)
	return nil
}

func (a *ActivityService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	if payload, ok := event.Payload.(events.TicketStatusChangedPayload); ok {
		a.metrics.RecordTransition(payload.Trigger, string(payload.NewStatus))
	}
	a.log("TicketStatusChanged", event)
	return nil
}

func (a *ActivityService) log(msg string, event events.Event) {
	a.logger.Info(msg,
		zap.String("event_id", event.ID),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload),
	)
}
