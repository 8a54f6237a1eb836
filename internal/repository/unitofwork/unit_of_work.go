package unitofwork

import (
	"context"

	"heartlink-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConnectionRepository() contract.ConnectionRepository
	MessageRepository() contract.MessageRepository
}
