package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadDocumentRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Type    string `json:"type" validate:"required,oneof=resume medical policy note contract other"`
	Content string `json:"content" validate:"required"`
}

type DocumentDTO struct {
	Id           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Version      int        `json:"version"`
	Conflicts    int        `json:"conflicts,omitempty"`
	AiSummary    *string    `json:"ai_summary,omitempty"`
	Confidence   *float64   `json:"confidence,omitempty"`
	TeamId       *uuid.UUID `json:"team_id,omitempty"`
	ModifiedBy   *uuid.UUID `json:"modified_by,omitempty"`
	UploadDate   time.Time  `json:"upload_date"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

type UploadDocumentResponse struct {
	Document DocumentDTO `json:"document"`
}

type ReanalyzeDocumentRequest struct {
	Id uuid.UUID
}

// AnalyzeDocumentMessage is the payload published to the analysis queue.
type AnalyzeDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
	UserId     uuid.UUID `json:"user_id"`
	Reanalysis bool      `json:"reanalysis"`
}

// StateResponse is the authoritative snapshot the client reconciles against:
// complete document and conflict sets, never deltas.
type StateResponse struct {
	Documents []DocumentDTO `json:"documents"`
	Conflicts []ConflictDTO `json:"conflicts"`
}
