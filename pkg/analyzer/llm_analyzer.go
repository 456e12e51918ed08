package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"doc-checker-be/pkg/llm"
)

// llmConflict is the wire shape the model is asked to produce.
// "with" holds 1-based indexes into the candidate list.
type llmConflict struct {
	Type           string `json:"type"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	With           []int  `json:"with"`
}

type llmResult struct {
	Summary    string        `json:"summary"`
	Confidence float64       `json:"confidence"`
	Conflicts  []llmConflict `json:"conflicts"`
}

// LLMAnalyzer performs contradiction analysis via an LLM backend.
// When the model call or parsing fails it delegates to a deterministic
// fallback so a document never gets stuck without a verdict.
type LLMAnalyzer struct {
	llmProvider llm.LLMProvider
	fallback    Analyzer
	logger      *log.Logger
}

func NewLLMAnalyzer(llmProvider llm.LLMProvider, fallback Analyzer, logger *log.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		llmProvider: llmProvider,
		fallback:    fallback,
		logger:      logger,
	}
}

var _ Analyzer = &LLMAnalyzer{}

func (a *LLMAnalyzer) Analyze(ctx context.Context, target Document, candidates []Document) (*Result, error) {
	prompt := a.buildPrompt(target, candidates)

	// Temperature 0 for deterministic output
	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		a.logger.Printf("[WARN] LLM analysis failed, using fallback: %v", err)
		return a.runFallback(ctx, target, candidates, err)
	}

	result, err := a.parseResult(response, candidates)
	if err != nil {
		a.logger.Printf("[WARN] Analysis parsing failed, using fallback: %v", err)
		return a.runFallback(ctx, target, candidates, err)
	}

	a.logger.Printf("[ANALYZE] %s: confidence %.2f, %d conflict(s)",
		target.Name, result.Confidence, len(result.Conflicts))

	return result, nil
}

func (a *LLMAnalyzer) runFallback(ctx context.Context, target Document, candidates []Document, cause error) (*Result, error) {
	if a.fallback == nil {
		return nil, cause
	}
	return a.fallback.Analyze(ctx, target, candidates)
}

func (a *LLMAnalyzer) buildPrompt(target Document, candidates []Document) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a document conflict detector. Your ONLY job is to find contradictions\n")
	prompt.WriteString("between the target document and the reference documents.\n")
	prompt.WriteString("You do NOT rewrite documents. You only report conflicts and a short summary.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<target_document>\n")
	prompt.WriteString(fmt.Sprintf("NAME: %s\nTYPE: %s\nCONTENT:\n%s\n", target.Name, target.Type, target.Content))
	prompt.WriteString("</target_document>\n\n")

	prompt.WriteString("<reference_documents>\n")
	if len(candidates) == 0 {
		prompt.WriteString("NONE. There is nothing to conflict with.\n")
	}
	for i, c := range candidates {
		prompt.WriteString(fmt.Sprintf("%d. NAME: %s (TYPE: %s)\n%s\n\n", i+1, c.Name, c.Type, c.Content))
	}
	prompt.WriteString("</reference_documents>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString("- type is one of: policy, compliance, ambiguity\n")
	prompt.WriteString("- severity is one of: low, medium, high\n")
	prompt.WriteString("- \"with\" lists the numbers of the reference documents involved\n")
	prompt.WriteString("- confidence is 0.0-1.0, how sure you are about the overall analysis\n")
	prompt.WriteString("- summary is 1-2 sentences describing the target document\n")
	prompt.WriteString("- report NO conflicts if the documents agree\n")
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("Respond with ONLY this JSON structure:\n")
	prompt.WriteString(`{"summary": "...", "confidence": 0.9, "conflicts": [{"type": "policy", "severity": "high", "description": "...", "recommendation": "...", "with": [1]}]}`)
	prompt.WriteString("\n")

	return prompt.String()
}

func (a *LLMAnalyzer) parseResult(response string, candidates []Document) (*Result, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var parsed llmResult
	if err := json.Unmarshal([]byte(jsonContent), &parsed); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}

	result := &Result{
		Summary:    strings.TrimSpace(parsed.Summary),
		Confidence: parsed.Confidence,
	}

	for _, c := range parsed.Conflicts {
		conflict := Conflict{
			Type:           normalizeType(c.Type),
			Severity:       normalizeSeverity(c.Severity),
			Description:    strings.TrimSpace(c.Description),
			Recommendation: strings.TrimSpace(c.Recommendation),
		}
		// Map 1-based candidate numbers back to document ids, dropping
		// anything out of range the model hallucinated.
		for _, idx := range c.With {
			if idx >= 1 && idx <= len(candidates) {
				conflict.DocumentIds = append(conflict.DocumentIds, candidates[idx-1].Id)
			}
		}
		if conflict.Description == "" || len(conflict.DocumentIds) == 0 {
			continue
		}
		result.Conflicts = append(result.Conflicts, conflict)
	}

	return result, nil
}

func normalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case TypePolicy:
		return TypePolicy
	case TypeCompliance:
		return TypeCompliance
	default:
		return TypeAmbiguity
	}
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
