package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/bus-complaint-service/internal/events"
	"github.com/spec-kit/bus-complaint-service/internal/observability"
)

// AuditService records domain events to the log and the metrics counters.
// Mail delivery itself happens synchronously in the services, because the
// caller-visible confirmation depends on its outcome; this subscriber is the
// observability trail.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to every event type the services emit.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleEvent)
	a.dispatcher.Subscribe(events.EventComplaintSubmitted, a.handleEvent)
	a.dispatcher.Subscribe(events.EventComplaintDuplicateBlocked, a.handleEvent)
	a.dispatcher.Subscribe(events.EventComplaintStatusChanged, a.handleEvent)
}

func (a *AuditService) handleEvent(_ context.Context, event events.Event) error {
	a.metrics.RecordEvent(string(event.Type))
	a.logger.Info("domain event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}
