package implementation

import (
	"context"

	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/mapper"
	"doc-checker-be/internal/model"
	"doc-checker-be/internal/repository/contract"
	"doc-checker-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TeamMemberMapper
}

func NewTeamRepository(db *gorm.DB) contract.TeamRepository {
	return &TeamRepositoryImpl{
		db:     db,
		mapper: mapper.NewTeamMemberMapper(),
	}
}

func (r *TeamRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TeamRepositoryImpl) AddMember(ctx context.Context, member *entity.TeamMember) error {
	m := r.mapper.ToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.ToEntity(m)
	return nil
}

func (r *TeamRepositoryImpl) RemoveMember(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TeamMember{}, id).Error
}

func (r *TeamRepositoryImpl) FindMembers(ctx context.Context, specs ...specification.Specification) ([]*entity.TeamMember, error) {
	var models []*model.TeamMember
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
