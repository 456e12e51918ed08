package pipeline

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusAnalyzed   DocumentStatus = "analyzed"
	DocumentStatusError      DocumentStatus = "error"
)

type ConflictStatus string

const (
	ConflictStatusUnresolved ConflictStatus = "unresolved"
	ConflictStatusResolved   ConflictStatus = "resolved"
)

type ConflictSeverity string

const (
	SeverityLow    ConflictSeverity = "low"
	SeverityMedium ConflictSeverity = "medium"
	SeverityHigh   ConflictSeverity = "high"
)

// Document is the client-side projection of a stored document.
type Document struct {
	Id           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Status       DocumentStatus `json:"status"`
	Version      int            `json:"version"`
	AiSummary    *string        `json:"ai_summary,omitempty"`
	Confidence   *float64       `json:"confidence,omitempty"`
	TeamId       *uuid.UUID     `json:"team_id,omitempty"`
	ModifiedBy   *uuid.UUID     `json:"modified_by,omitempty"`
	UploadDate   time.Time      `json:"upload_date"`
	LastModified *time.Time     `json:"last_modified,omitempty"`
}

// Conflict is the client-side projection of a detected contradiction.
type Conflict struct {
	Id             uuid.UUID        `json:"id"`
	Type           string           `json:"type"`
	Severity       ConflictSeverity `json:"severity"`
	Description    string           `json:"description"`
	Recommendation string           `json:"recommendation"`
	Documents      []uuid.UUID      `json:"documents"`
	Status         ConflictStatus   `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

// State is one authoritative snapshot of both projections.
type State struct {
	Documents []Document `json:"documents"`
	Conflicts []Conflict `json:"conflicts"`
}

// Session is an authenticated identity plus its access token.
type Session struct {
	Identity uuid.UUID
	Email    string
	Token    string
}

// Upload is the payload handed to the intake submitter.
type Upload struct {
	Name    string
	Type    string
	Content string
}

// Stats holds the dashboard counters derived from the projections.
type Stats struct {
	TotalDocuments         int
	UnresolvedConflicts    int
	HighSeverityUnresolved int
	Processing             int
}
