package analyzer

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"doc-checker-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func testLogger() *log.Logger {
	return log.New(os.Stderr, "[test] ", log.LstdFlags)
}

func TestLLMAnalyzer_ParsesModelOutput(t *testing.T) {
	candidateId := uuid.New()
	provider := &stubLLM{
		response: `Here is the analysis:
{"summary": "A travel policy for contractors.", "confidence": 0.87, "conflicts": [{"type": "Policy", "severity": "HIGH", "description": "Reimbursement windows disagree", "recommendation": "Align the windows", "with": [1]}]}`,
	}
	a := NewLLMAnalyzer(provider, nil, testLogger())

	result, err := a.Analyze(context.Background(),
		Document{Id: uuid.New(), Name: "travel-v2.pdf", Type: "policy", Content: "..."},
		[]Document{{Id: candidateId, Name: "travel-v1.pdf", Type: "policy", Content: "..."}},
	)
	require.NoError(t, err)

	assert.Equal(t, "A travel policy for contractors.", result.Summary)
	assert.InDelta(t, 0.87, result.Confidence, 0.001)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, TypePolicy, result.Conflicts[0].Type)
	assert.Equal(t, SeverityHigh, result.Conflicts[0].Severity)
	assert.Equal(t, []uuid.UUID{candidateId}, result.Conflicts[0].DocumentIds)
}

func TestLLMAnalyzer_DropsHallucinatedReferences(t *testing.T) {
	provider := &stubLLM{
		response: `{"summary": "s", "confidence": 0.5, "conflicts": [{"type": "policy", "severity": "low", "description": "d", "recommendation": "r", "with": [7]}]}`,
	}
	a := NewLLMAnalyzer(provider, nil, testLogger())

	result, err := a.Analyze(context.Background(),
		Document{Id: uuid.New(), Name: "x", Content: "..."},
		[]Document{{Id: uuid.New(), Name: "y", Content: "..."}},
	)
	require.NoError(t, err)

	// Index 7 points past the single candidate, so the finding is discarded
	assert.Empty(t, result.Conflicts)
}

func TestLLMAnalyzer_ClampsConfidence(t *testing.T) {
	provider := &stubLLM{
		response: `{"summary": "s", "confidence": 1.7, "conflicts": []}`,
	}
	a := NewLLMAnalyzer(provider, nil, testLogger())

	result, err := a.Analyze(context.Background(), Document{Content: "..."}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Confidence)
}

func TestLLMAnalyzer_FallsBackOnProviderError(t *testing.T) {
	provider := &stubLLM{err: errors.New("connection refused")}
	a := NewLLMAnalyzer(provider, NewHeuristicAnalyzer(), testLogger())

	result, err := a.Analyze(context.Background(),
		Document{Id: uuid.New(), Name: "a", Type: "note", Content: "The server runs on port 8080."},
		nil,
	)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Summary)
}

func TestLLMAnalyzer_FallsBackOnGarbageOutput(t *testing.T) {
	provider := &stubLLM{response: "I could not produce JSON, sorry."}
	a := NewLLMAnalyzer(provider, NewHeuristicAnalyzer(), testLogger())

	result, err := a.Analyze(context.Background(),
		Document{Id: uuid.New(), Name: "a", Type: "note", Content: "Hello world."},
		nil,
	)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, result.Confidence, 0.001)
}

func TestLLMAnalyzer_ErrorsWithoutFallback(t *testing.T) {
	provider := &stubLLM{err: errors.New("boom")}
	a := NewLLMAnalyzer(provider, nil, testLogger())

	_, err := a.Analyze(context.Background(), Document{Content: "..."}, nil)
	assert.Error(t, err)
}
