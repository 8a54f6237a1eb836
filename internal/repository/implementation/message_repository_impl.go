package implementation

import (
	"context"
	"strings"
	"time"

	"heartlink-be/internal/entity"
	"heartlink-be/internal/mapper"
	"heartlink-be/internal/model"
	"heartlink-be/internal/pkg/apperror"
	"heartlink-be/internal/repository/contract"
	"heartlink-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

// Create assigns id and sentAt at persistence time. The Seq column is filled
// by the database sequence, which fixes the insertion order. A blank body is
// rejected here so the store never holds an empty message.
func (r *MessageRepositoryImpl) Create(ctx context.Context, message *entity.Message) error {
	if strings.TrimSpace(message.Body) == "" {
		return apperror.Wrap(apperror.ErrValidation, "message body is empty")
	}
	if message.Id == uuid.Nil {
		message.Id = uuid.New()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var models []*model.Message
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Message, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *MessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Message{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
