package service

import (
	"context"
	"encoding/json"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/pkg/logger"
	"heartlink-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// NotifierService consumes connection workflow events from the in-process
// bus and pushes them to whoever is online. A user with no live sessions
// simply misses the push; the REST endpoints remain the source of truth.
type NotifierService struct {
	subscriber message.Subscriber
	delivery   ChatDelivery
	logger     logger.ILogger
}

func NewNotifierService(subscriber message.Subscriber, delivery ChatDelivery, log logger.ILogger) *NotifierService {
	return &NotifierService{
		subscriber: subscriber,
		delivery:   delivery,
		logger:     log,
	}
}

// Start subscribes to the connections topic and dispatches until ctx is done.
func (s *NotifierService) Start(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, events.TopicConnections)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.handle(msg)
			msg.Ack()
		}
	}()

	s.logger.Info("NotifierService", "Listening for connection events", nil)
	return nil
}

func (s *NotifierService) handle(msg *message.Message) {
	var evt events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		s.logger.Warn("NotifierService", "Dropping malformed event", map[string]interface{}{"error": err.Error()})
		return
	}

	switch evt.Type {
	case events.TypeConnectionRequested:
		// The receiver sees the incoming request.
		s.notify(evt, "receiver_id", dto.EventConnectionRequest)
	case events.TypeConnectionAccepted:
		// The original sender learns their request was accepted.
		s.notify(evt, "sender_id", dto.EventConnectionAccepted)
	default:
		s.logger.Debug("NotifierService", "Ignoring event type", map[string]interface{}{"type": evt.Type})
	}
}

func (s *NotifierService) notify(evt events.BaseEvent, targetKey, wireEvent string) {
	raw, _ := evt.Data[targetKey].(string)
	target, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("NotifierService", "Event missing target id", map[string]interface{}{"type": evt.Type, "key": targetKey})
		return
	}
	s.delivery.Broadcast(target, wireEvent, evt.Data)
}
