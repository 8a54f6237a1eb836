package service

import (
	"context"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/entity"
	"heartlink-be/internal/pkg/apperror"
	"heartlink-be/internal/pkg/logger"
	"heartlink-be/internal/repository/specification"
	"heartlink-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ConnectionGraph answers "may these two users exchange messages?". It is
// implemented by the connection service over the user_connections relation.
type ConnectionGraph interface {
	AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

// ChatDelivery pushes a realtime event to every live session joined under an
// identity. Implemented by the websocket hub. Broadcasting to an identity
// with no sessions is a silent no-op.
type ChatDelivery interface {
	Broadcast(identity uuid.UUID, event string, payload interface{})
}

type IChatService interface {
	SendMessage(ctx context.Context, senderId, receiverId uuid.UUID, body string) (*dto.ChatMessage, error)
	GetHistory(ctx context.Context, userId, otherUserId uuid.UUID) ([]*dto.ChatMessage, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	graph      ConnectionGraph
	delivery   ChatDelivery
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, graph ConnectionGraph, delivery ChatDelivery, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		graph:      graph,
		delivery:   delivery,
		logger:     log,
	}
}

// SendMessage enforces the connection gate, appends the message and fans it
// out to both identities' rooms. The broadcast happens only after the append
// committed, so no client ever sees a message that was not persisted.
func (s *chatService) SendMessage(ctx context.Context, senderId, receiverId uuid.UUID, body string) (*dto.ChatMessage, error) {
	connected, err := s.graph.AreConnected(ctx, senderId, receiverId)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, apperror.Wrap(apperror.ErrNotConnected, "you are not connected with this user")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	msg := &entity.Message{
		SenderId:   senderId,
		ReceiverId: receiverId,
		Body:       body,
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		s.logger.Error("ChatService", "Failed to persist message", map[string]interface{}{
			"error":     err.Error(),
			"sender":    senderId.String(),
			"receiver":  receiverId.String(),
		})
		return nil, err
	}

	wire := toWireMessage(msg)
	s.delivery.Broadcast(senderId, dto.EventReceiveMessage, wire)
	s.delivery.Broadcast(receiverId, dto.EventReceiveMessage, wire)

	return wire, nil
}

// GetHistory returns the conversation between two users in chronological
// order. Direction-symmetric: history(A,B) == history(B,A).
func (s *chatService) GetHistory(ctx context.Context, userId, otherUserId uuid.UUID) ([]*dto.ChatMessage, error) {
	connected, err := s.graph.AreConnected(ctx, userId, otherUserId)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, apperror.Wrap(apperror.ErrNotConnected, "you are not connected with this user")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversation{UserA: userId, UserB: otherUserId},
		specification.ChronologicalOrder{},
	)
	if err != nil {
		return nil, err
	}

	history := make([]*dto.ChatMessage, len(messages))
	for i, m := range messages {
		history[i] = toWireMessage(m)
	}
	return history, nil
}

func toWireMessage(m *entity.Message) *dto.ChatMessage {
	return &dto.ChatMessage{
		Id:         m.Id,
		SenderId:   m.SenderId,
		ReceiverId: m.ReceiverId,
		Message:    m.Body,
		SentAt:     m.SentAt,
	}
}
