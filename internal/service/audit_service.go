package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/arogyam-health-service/internal/events"
)

// AuditService records authentication activity for operators. The trail is
// advisory: it observes events, it never gates them.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to auth events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.record)
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.record)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.record)
	a.dispatcher.Subscribe(events.EventUserLoggedOut, a.record)
	a.dispatcher.Subscribe(events.EventPasswordChanged, a.record)
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	a.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("username", event.Username),
		zap.Int64("user_id", event.UserID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
