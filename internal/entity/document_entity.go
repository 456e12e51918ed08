package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentType string
type DocumentStatus string

const (
	DocumentTypeResume   DocumentType = "resume"
	DocumentTypeMedical  DocumentType = "medical"
	DocumentTypePolicy   DocumentType = "policy"
	DocumentTypeNote     DocumentType = "note"
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeOther    DocumentType = "other"

	// Lifecycle: processing on submission, then analyzed or error. Error is
	// terminal; a corrected upload creates a new document instead of
	// mutating the failed one. Re-analysis cycles analyzed -> processing.
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusAnalyzed   DocumentStatus = "analyzed"
	DocumentStatusError      DocumentStatus = "error"
)

func ValidDocumentType(t string) bool {
	switch DocumentType(t) {
	case DocumentTypeResume, DocumentTypeMedical, DocumentTypePolicy,
		DocumentTypeNote, DocumentTypeContract, DocumentTypeOther:
		return true
	}
	return false
}

type Document struct {
	Id           uuid.UUID
	Name         string
	Type         DocumentType
	Status       DocumentStatus
	Content      string
	Version      int
	AiSummary    *string
	Confidence   *float64
	UserId       uuid.UUID
	TeamId       *uuid.UUID
	ModifiedBy   *uuid.UUID
	UploadDate   time.Time
	LastModified *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

type DocumentEmbedding struct {
	Id             uuid.UUID
	Chunk          string
	ChunkIndex     int
	EmbeddingValue []float32
	DocumentId     uuid.UUID
	CreatedAt      time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
