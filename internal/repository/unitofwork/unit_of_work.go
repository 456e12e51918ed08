package unitofwork

import (
	"context"

	"doc-checker-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	ConflictRepository() contract.ConflictRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	TeamRepository() contract.TeamRepository
}
