package service

import (
	"context"

	"doc-checker-be/internal/pkg/logger"
	internalWS "doc-checker-be/internal/websocket"
	"doc-checker-be/pkg/events"
	pktNats "doc-checker-be/pkg/nats"

	"github.com/google/uuid"
)

// IRealtimeService pushes pipeline events to connected dashboards so an
// open client learns about analysis outcomes before its next poll.
type IRealtimeService interface {
	Start() error
}

type realtimeService struct {
	subscriber *pktNats.Subscriber
	hub        *internalWS.Hub
	logger     logger.ILogger
}

func NewRealtimeService(subscriber *pktNats.Subscriber, hub *internalWS.Hub, sysLogger logger.ILogger) IRealtimeService {
	return &realtimeService{
		subscriber: subscriber,
		hub:        hub,
		logger:     sysLogger,
	}
}

func (s *realtimeService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("realtime", "NATS unavailable, realtime delivery disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("events.>", "realtime-fanout", s.handleEvent)
}

func (s *realtimeService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	raw, ok := payload["user_id"]
	if !ok {
		// Events without a target user are not client-facing
		return nil
	}
	userIdStr, ok := raw.(string)
	if !ok {
		return nil
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		s.logger.Warn("realtime", "event carries malformed user_id", map[string]interface{}{
			"event": event.EventType(),
			"value": raw,
		})
		return nil
	}

	s.hub.Send(userId, event.EventType(), payload)
	return nil
}
