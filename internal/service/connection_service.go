package service

import (
	"context"
	"encoding/json"
	"time"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/entity"
	"heartlink-be/internal/pkg/apperror"
	"heartlink-be/internal/pkg/logger"
	"heartlink-be/internal/repository/memory"
	"heartlink-be/internal/repository/specification"
	"heartlink-be/internal/repository/unitofwork"
	"heartlink-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConnectionService interface {
	SendRequest(ctx context.Context, senderId, receiverId uuid.UUID) (*dto.ConnectionRequestResponse, error)
	PendingRequests(ctx context.Context, userId uuid.UUID) ([]*dto.PendingRequestResponse, error)
	AcceptRequest(ctx context.Context, userId, requestId uuid.UUID) error
	Connections(ctx context.Context, userId uuid.UUID) ([]*dto.UserSummary, error)
	AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error)
}

type connectionService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  message.Publisher
	presence   *memory.PresenceRepository
	logger     logger.ILogger
}

func NewConnectionService(uowFactory unitofwork.RepositoryFactory, publisher message.Publisher, presence *memory.PresenceRepository, log logger.ILogger) IConnectionService {
	return &connectionService{
		uowFactory: uowFactory,
		publisher:  publisher,
		presence:   presence,
		logger:     log,
	}
}

func (s *connectionService) SendRequest(ctx context.Context, senderId, receiverId uuid.UUID) (*dto.ConnectionRequestResponse, error) {
	if senderId == receiverId {
		return nil, apperror.Wrap(apperror.ErrValidation, "cannot send a request to yourself")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	receiver, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: receiverId})
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "receiver not found")
	}

	connected, err := uow.ConnectionRepository().AreConnected(ctx, senderId, receiverId)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, apperror.Wrap(apperror.ErrValidation, "users are already connected")
	}

	existing, err := uow.ConnectionRepository().FindRequest(ctx,
		specification.ByPair{UserA: senderId, UserB: receiverId},
		specification.ByStatus{Status: string(entity.RequestStatusPending)},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, "request already sent")
	}

	request := &entity.ConnectionRequest{
		Id:         uuid.New(),
		SenderId:   senderId,
		ReceiverId: receiverId,
		Status:     entity.RequestStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := uow.ConnectionRepository().CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.publish(events.TypeConnectionRequested, map[string]interface{}{
		"request_id":  request.Id.String(),
		"sender_id":   senderId.String(),
		"receiver_id": receiverId.String(),
	})

	return &dto.ConnectionRequestResponse{
		Id:         request.Id,
		SenderId:   request.SenderId,
		ReceiverId: request.ReceiverId,
		Status:     string(request.Status),
		CreatedAt:  request.CreatedAt,
	}, nil
}

func (s *connectionService) PendingRequests(ctx context.Context, userId uuid.UUID) ([]*dto.PendingRequestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	requests, err := uow.ConnectionRepository().FindRequests(ctx,
		specification.ByReceiver{ReceiverId: userId},
		specification.ByStatus{Status: string(entity.RequestStatusPending)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []*dto.PendingRequestResponse{}, nil
	}

	senderIds := make([]uuid.UUID, len(requests))
	for i, r := range requests {
		senderIds[i] = r.SenderId
	}
	senders, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: senderIds})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.User, len(senders))
	for _, u := range senders {
		byId[u.Id] = u
	}

	res := make([]*dto.PendingRequestResponse, 0, len(requests))
	for _, r := range requests {
		sender, ok := byId[r.SenderId]
		if !ok {
			continue
		}
		res = append(res, &dto.PendingRequestResponse{
			Id:        r.Id,
			Sender:    *s.userSummary(sender),
			CreatedAt: r.CreatedAt,
		})
	}
	return res, nil
}

// AcceptRequest marks the request accepted and links both users inside one
// transaction, keeping the connection relation symmetric.
func (s *connectionService) AcceptRequest(ctx context.Context, userId, requestId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.ConnectionRepository().FindRequest(ctx, specification.ByID{ID: requestId})
	if err != nil {
		return err
	}
	if request == nil || request.Status != entity.RequestStatusPending {
		return apperror.Wrap(apperror.ErrNotFound, "invalid request")
	}
	if request.ReceiverId != userId {
		return apperror.Wrap(apperror.ErrForbidden, "only the receiver can accept a request")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	request.Status = entity.RequestStatusAccepted
	request.UpdatedAt = time.Now()
	if err := uow.ConnectionRepository().UpdateRequest(ctx, request); err != nil {
		return err
	}
	if err := uow.ConnectionRepository().Link(ctx, request.SenderId, request.ReceiverId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.publish(events.TypeConnectionAccepted, map[string]interface{}{
		"request_id":  request.Id.String(),
		"sender_id":   request.SenderId.String(),
		"receiver_id": request.ReceiverId.String(),
	})

	return nil
}

func (s *connectionService) Connections(ctx context.Context, userId uuid.UUID) ([]*dto.UserSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ids, err := uow.ConnectionRepository().ConnectedIds(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*dto.UserSummary{}, nil
	}

	users, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserSummary, len(users))
	for i, u := range users {
		res[i] = s.userSummary(u)
	}
	return res, nil
}

// AreConnected is the authorization gate the chat gateway consults. Unknown
// users surface as NotFound, which callers report as an authorization
// failure rather than crashing the session.
func (s *connectionService) AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.UserRepository().Count(ctx, specification.ByIDs{IDs: []uuid.UUID{userA, userB}})
	if err != nil {
		return false, err
	}
	want := int64(2)
	if userA == userB {
		want = 1
	}
	if count < want {
		return false, apperror.Wrap(apperror.ErrNotFound, "user not found")
	}

	return uow.ConnectionRepository().AreConnected(ctx, userA, userB)
}

func (s *connectionService) userSummary(u *entity.User) *dto.UserSummary {
	summary := &dto.UserSummary{
		Id:       u.Id,
		FullName: u.FullName,
		Bio:      u.Bio,
	}
	if u.AvatarURL != nil {
		summary.AvatarURL = *u.AvatarURL
	}
	if s.presence != nil {
		summary.Online = s.presence.IsOnline(u.Id)
		if last, ok := s.presence.LastSeen(u.Id); ok {
			summary.LastSeen = &last
		}
	}
	return summary
}

// publish is best-effort: a dropped notification event must not fail the
// workflow that triggered it.
func (s *connectionService) publish(eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("ConnectionService", "Failed to marshal event", map[string]interface{}{"error": err.Error(), "type": eventType})
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.publisher.Publish(events.TopicConnections, msg); err != nil {
		s.logger.Error("ConnectionService", "Failed to publish event", map[string]interface{}{"error": err.Error(), "type": eventType})
	}
}
