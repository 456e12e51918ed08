package implementation

import (
	"context"
	"errors"

	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/mapper"
	"doc-checker-be/internal/model"
	"doc-checker-be/internal/repository/contract"
	"doc-checker-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ConflictRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConflictMapper
}

func NewConflictRepository(db *gorm.DB) contract.ConflictRepository {
	return &ConflictRepositoryImpl{
		db:     db,
		mapper: mapper.NewConflictMapper(),
	}
}

func (r *ConflictRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConflictRepositoryImpl) Create(ctx context.Context, conflict *entity.Conflict) error {
	m := r.mapper.ToModel(conflict)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*conflict = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConflictRepositoryImpl) CreateBulk(ctx context.Context, conflicts []*entity.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	models := make([]*model.Conflict, len(conflicts))
	for i, c := range conflicts {
		models[i] = r.mapper.ToModel(c)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *ConflictRepositoryImpl) Update(ctx context.Context, conflict *entity.Conflict) error {
	m := r.mapper.ToModel(conflict)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*conflict = *r.mapper.ToEntity(m)
	return nil
}

func (r *ConflictRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conflict, error) {
	var m model.Conflict
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ConflictRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conflict, error) {
	var models []*model.Conflict
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ConflictRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Conflict{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
