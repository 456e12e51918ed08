package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type BySeverity struct {
	Severity string
}

func (s BySeverity) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("severity = ?", s.Severity)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// ReferencesDocument matches conflicts whose jsonb id set contains the
// given document id.
type ReferencesDocument struct {
	DocumentID uuid.UUID
}

func (s ReferencesDocument) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_ids @> ?", `["`+s.DocumentID.String()+`"]`)
}

type ByTeamID struct {
	TeamID uuid.UUID
}

func (s ByTeamID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("team_id = ?", s.TeamID)
}
