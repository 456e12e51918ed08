package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConflictDTO struct {
	Id             uuid.UUID   `json:"id"`
	Type           string      `json:"type"`
	Severity       string      `json:"severity"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation"`
	Documents      []uuid.UUID `json:"documents"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
}

type ResolveConflictRequest struct {
	Id uuid.UUID
}

type ResolveConflictResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
