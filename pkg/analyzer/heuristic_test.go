package analyzer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicAnalyzer_DetectsNegationConflict(t *testing.T) {
	target := Document{
		Id:      uuid.New(),
		Name:    "remote-policy-v2.pdf",
		Type:    "policy",
		Content: "Employees must submit expense reports within 30 days. Remote work is permitted for all staff.",
	}
	candidateId := uuid.New()
	candidates := []Document{
		{
			Id:      candidateId,
			Name:    "remote-policy-v1.pdf",
			Type:    "policy",
			Content: "Remote work is not permitted for all staff without manager approval.",
		},
	}

	result, err := NewHeuristicAnalyzer().Analyze(context.Background(), target, candidates)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, TypePolicy, conflict.Type)
	assert.Equal(t, SeverityHigh, conflict.Severity)
	assert.Equal(t, []uuid.UUID{candidateId}, conflict.DocumentIds)
	assert.NotEmpty(t, conflict.Description)
	assert.NotEmpty(t, conflict.Recommendation)
}

func TestHeuristicAnalyzer_DetectsModalityConflict(t *testing.T) {
	target := Document{
		Id:      uuid.New(),
		Name:    "security.md",
		Type:    "note",
		Content: "All engineers must rotate their access keys every quarter.",
	}
	candidates := []Document{
		{
			Id:      uuid.New(),
			Name:    "onboarding.md",
			Type:    "note",
			Content: "Engineers may rotate their access keys every quarter if they wish.",
		},
	}

	result, err := NewHeuristicAnalyzer().Analyze(context.Background(), target, candidates)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, SeverityMedium, result.Conflicts[0].Severity)
	assert.Equal(t, TypeAmbiguity, result.Conflicts[0].Type)
}

func TestHeuristicAnalyzer_NoConflictOnAgreement(t *testing.T) {
	target := Document{
		Id:      uuid.New(),
		Name:    "a.txt",
		Type:    "note",
		Content: "The office opens at nine in the morning.",
	}
	candidates := []Document{
		{
			Id:      uuid.New(),
			Name:    "b.txt",
			Type:    "note",
			Content: "The office opens at nine in the morning on weekdays.",
		},
	}

	result, err := NewHeuristicAnalyzer().Analyze(context.Background(), target, candidates)
	require.NoError(t, err)

	assert.Empty(t, result.Conflicts)
	assert.NotEmpty(t, result.Summary)
	assert.InDelta(t, 0.5, result.Confidence, 0.001)
}

func TestHeuristicAnalyzer_OneFindingPerCandidate(t *testing.T) {
	target := Document{
		Id:      uuid.New(),
		Name:    "handbook.pdf",
		Type:    "policy",
		Content: "Vacation requests must be filed two weeks ahead. Travel expenses must be pre-approved by finance.",
	}
	candidates := []Document{
		{
			Id:      uuid.New(),
			Name:    "old-handbook.pdf",
			Type:    "policy",
			Content: "Vacation requests may be filed two weeks ahead. Travel expenses are not pre-approved by finance.",
		},
	}

	result, err := NewHeuristicAnalyzer().Analyze(context.Background(), target, candidates)
	require.NoError(t, err)

	assert.Len(t, result.Conflicts, 1)
}

func TestHeuristicAnalyzer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHeuristicAnalyzer().Analyze(ctx, Document{Content: "x"}, []Document{{Content: "y"}})
	assert.ErrorIs(t, err, context.Canceled)
}
