package unitofwork

import "context"

// RepositoryFactory hands a service one unit of work per use case call.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
