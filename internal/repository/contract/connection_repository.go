package contract

import (
	"context"

	"heartlink-be/internal/entity"
	"heartlink-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ConnectionRepository owns the connection workflow tables: pending requests
// and the symmetric user_connections relation.
type ConnectionRepository interface {
	CreateRequest(ctx context.Context, request *entity.ConnectionRequest) error
	UpdateRequest(ctx context.Context, request *entity.ConnectionRequest) error
	FindRequest(ctx context.Context, specs ...specification.Specification) (*entity.ConnectionRequest, error)
	FindRequests(ctx context.Context, specs ...specification.Specification) ([]*entity.ConnectionRequest, error)

	// Link inserts both directions of an accepted connection. Call inside a
	// transaction so the relation never ends up half-written.
	Link(ctx context.Context, userA, userB uuid.UUID) error
	AreConnected(ctx context.Context, userA, userB uuid.UUID) (bool, error)
	ConnectedIds(ctx context.Context, userId uuid.UUID) ([]uuid.UUID, error)
}
