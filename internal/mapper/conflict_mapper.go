package mapper

import (
	"encoding/json"
	"time"

	"doc-checker-be/internal/entity"
	"doc-checker-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ConflictMapper struct{}

func NewConflictMapper() *ConflictMapper {
	return &ConflictMapper{}
}

func (m *ConflictMapper) ToEntity(c *model.Conflict) *entity.Conflict {
	if c == nil {
		return nil
	}

	var ids []uuid.UUID
	// Malformed rows degrade to an empty set rather than failing the read.
	_ = json.Unmarshal(c.DocumentIds, &ids)

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conflict{
		Id:             c.Id,
		Type:           entity.ConflictType(c.Type),
		Severity:       entity.ConflictSeverity(c.Severity),
		Description:    c.Description,
		Recommendation: c.Recommendation,
		DocumentIds:    dedupeIds(ids),
		Status:         entity.ConflictStatus(c.Status),
		UserId:         c.UserId,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
		ResolvedAt:     c.ResolvedAt,
		ResolvedBy:     c.ResolvedBy,
	}
}

func (m *ConflictMapper) ToModel(c *entity.Conflict) *model.Conflict {
	if c == nil {
		return nil
	}

	idsJSON, _ := json.Marshal(dedupeIds(c.DocumentIds))

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conflict{
		Id:             c.Id,
		Type:           string(c.Type),
		Severity:       string(c.Severity),
		Description:    c.Description,
		Recommendation: c.Recommendation,
		DocumentIds:    datatypes.JSON(idsJSON),
		Status:         string(c.Status),
		UserId:         c.UserId,
		ResolvedAt:     c.ResolvedAt,
		ResolvedBy:     c.ResolvedBy,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *ConflictMapper) ToEntities(conflicts []*model.Conflict) []*entity.Conflict {
	entities := make([]*entity.Conflict, len(conflicts))
	for i, c := range conflicts {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

// dedupeIds enforces the set invariant on the document id list, preserving
// first-seen order.
func dedupeIds(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
