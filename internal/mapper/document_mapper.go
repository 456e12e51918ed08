package mapper

import (
	"time"

	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/model"

	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var lastModified *time.Time
	if !d.LastModified.IsZero() {
		t := d.LastModified
		lastModified = &t
	}

	return &entity.Document{
		Id:           d.Id,
		Name:         d.Name,
		Type:         entity.DocumentType(d.Type),
		Status:       entity.DocumentStatus(d.Status),
		Content:      d.Content,
		Version:      d.Version,
		AiSummary:    d.AiSummary,
		Confidence:   d.Confidence,
		UserId:       d.UserId,
		TeamId:       d.TeamId,
		ModifiedBy:   d.ModifiedBy,
		UploadDate:   d.UploadDate,
		LastModified: lastModified,
		DeletedAt:    deletedAt,
		IsDeleted:    d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var lastModified time.Time
	if d.LastModified != nil {
		lastModified = *d.LastModified
	}

	return &model.Document{
		Id:           d.Id,
		Name:         d.Name,
		Type:         string(d.Type),
		Status:       string(d.Status),
		Content:      d.Content,
		Version:      d.Version,
		AiSummary:    d.AiSummary,
		Confidence:   d.Confidence,
		UserId:       d.UserId,
		TeamId:       d.TeamId,
		ModifiedBy:   d.ModifiedBy,
		UploadDate:   d.UploadDate,
		LastModified: lastModified,
		DeletedAt:    deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
