package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConflictType string
type ConflictSeverity string
type ConflictStatus string

const (
	ConflictTypePolicy     ConflictType = "policy"
	ConflictTypeCompliance ConflictType = "compliance"
	ConflictTypeAmbiguity  ConflictType = "ambiguity"

	ConflictSeverityLow    ConflictSeverity = "low"
	ConflictSeverityMedium ConflictSeverity = "medium"
	ConflictSeverityHigh   ConflictSeverity = "high"

	ConflictStatusUnresolved ConflictStatus = "unresolved"
	ConflictStatusResolved   ConflictStatus = "resolved"
)

// SeverityRank orders severities low < medium < high.
func SeverityRank(s ConflictSeverity) int {
	switch s {
	case ConflictSeverityHigh:
		return 3
	case ConflictSeverityMedium:
		return 2
	case ConflictSeverityLow:
		return 1
	}
	return 0
}

// Conflict records a contradiction the analyzer found between documents.
// DocumentIds is a set: at least one id, no duplicates.
type Conflict struct {
	Id             uuid.UUID
	Type           ConflictType
	Severity       ConflictSeverity
	Description    string
	Recommendation string
	DocumentIds    []uuid.UUID
	Status         ConflictStatus
	UserId         uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	ResolvedAt     *time.Time
	ResolvedBy     *uuid.UUID
}
