package analyzer

import (
	"context"

	"github.com/google/uuid"
)

// Conflict type constants
const (
	TypePolicy     = "policy"
	TypeCompliance = "compliance"
	TypeAmbiguity  = "ambiguity"
)

// Severity constants
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Document is the analyzer's view of a stored document.
type Document struct {
	Id      uuid.UUID
	Name    string
	Type    string
	Content string
}

// Conflict is a single contradiction detected between the target
// document and one or more of the candidates.
type Conflict struct {
	Type           string      `json:"type"`
	Severity       string      `json:"severity"`
	Description    string      `json:"description"`
	Recommendation string      `json:"recommendation"`
	DocumentIds    []uuid.UUID `json:"-"`
}

// Result is the outcome of analyzing one document against its candidates.
type Result struct {
	Summary    string
	Confidence float64
	Conflicts  []Conflict
}

// Analyzer examines a target document against semantically related
// candidates and reports contradictions between them.
type Analyzer interface {
	Analyze(ctx context.Context, target Document, candidates []Document) (*Result, error)
}
