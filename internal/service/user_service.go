package service

import (
	"context"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/entity"
	"heartlink-be/internal/pkg/apperror"
	"heartlink-be/internal/repository/memory"
	"heartlink-be/internal/repository/specification"
	"heartlink-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	GetAllUsers(ctx context.Context, excludeId uuid.UUID) ([]*dto.UserSummary, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	presence   *memory.PresenceRepository
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, presence *memory.PresenceRepository) IUserService {
	return &userService{
		uowFactory: uowFactory,
		presence:   presence,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Wrap(apperror.ErrNotFound, "user not found")
	}

	res := toProfileResponse(user)
	return &res, nil
}

// GetAllUsers returns everyone except the caller, for the browse screen.
func (s *userService) GetAllUsers(ctx context.Context, excludeId uuid.UUID) ([]*dto.UserSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.UserSummary, 0, len(users))
	for _, u := range users {
		if u.Id == excludeId {
			continue
		}
		summaries = append(summaries, s.toSummary(u))
	}
	return summaries, nil
}

func (s *userService) toSummary(u *entity.User) *dto.UserSummary {
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
