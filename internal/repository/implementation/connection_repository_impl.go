package implementation

import (
	"context"
	"errors"

	"heartlink-be/internal/entity"
	"heartlink-be/internal/mapper"
	"heartlink-be/internal/model"
	"heartlink-be/internal/repository/contract"
	"heartlink-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConnectionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConnectionMapper
}

func NewConnectionRepository(db *gorm.DB) contract.ConnectionRepository {
	return &ConnectionRepositoryImpl{
		db:     db,
		mapper: mapper.NewConnectionMapper(),
	}
}

func (r *ConnectionRepositoryImpl) CreateRequest(ctx context.Context, request *entity.ConnectionRequest) error {
	m := r.mapper.RequestToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.RequestToEntity(m)
	return nil
}

func (r *ConnectionRepositoryImpl) UpdateRequest(ctx context.Context, request *entity.ConnectionRequest) error {
	m := r.mapper.RequestToModel(request)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.RequestToEntity(m)
	return nil
}

func (r *ConnectionRepositoryImpl) FindRequest(ctx context.Context, specs ...specification.Specification) (*entity.ConnectionRequest, error) {
	var m model.ConnectionRequest
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RequestToEntity(&m), nil
}

func (r *ConnectionRepositoryImpl) FindRequests(ctx context.Context, specs ...specification.Specification) ([]*entity.ConnectionRequest, error) {
	var models []*model.ConnectionRequest
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConnectionRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.RequestToEntity(m)
	}
	return entities, nil
}

// Link writes both directions of the relation. ON CONFLICT DO NOTHING keeps
// the call idempotent if a race re-accepts the same request.
func (r *ConnectionRepositoryImpl) Link(ctx context.Context, userA, userB uuid.UUID) error {
	rows := []model.UserConnection{
		{UserId: userA, ConnectionId: userB},
		{UserId: userB, ConnectionId: userA},
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *ConnectionRepositoryImpl) AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserConnection{}).
		Where("user_id = ? AND connection_id = ?", userA, userB).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ConnectionRepositoryImpl) ConnectedIds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.UserConnection{}).
		Where("user_id = ?", userId).
		Pluck("connection_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
