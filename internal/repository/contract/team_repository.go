package contract

import (
	"context"

	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TeamRepository interface {
	AddMember(ctx context.Context, member *entity.TeamMember) error
	RemoveMember(ctx context.Context, id uuid.UUID) error
	FindMembers(ctx context.Context, specs ...specification.Specification) ([]*entity.TeamMember, error)
}
