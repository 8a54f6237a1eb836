package contract

import (
	"context"

	"heartlink-be/internal/entity"
	"heartlink-be/internal/repository/specification"
)

// MessageRepository is the append-only message store. There is no update or
// delete: messages are immutable once created.
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
