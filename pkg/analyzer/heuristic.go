package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// HeuristicAnalyzer is a deterministic, offline analyzer. It looks for
// sentence pairs that talk about the same thing but disagree in polarity
// (negation) or modality (must vs may). It is deliberately conservative
// and serves as the fallback when no LLM backend is reachable.
type HeuristicAnalyzer struct{}

func NewHeuristicAnalyzer() *HeuristicAnalyzer {
	return &HeuristicAnalyzer{}
}

var _ Analyzer = &HeuristicAnalyzer{}

var negationTokens = map[string]bool{
	"not":        true,
	"no":         true,
	"never":      true,
	"without":    true,
	"prohibited": true,
	"forbidden":  true,
	"cannot":     true,
	"banned":     true,
}

var strongModality = map[string]bool{
	"must":      true,
	"shall":     true,
	"required":  true,
	"mandatory": true,
	"always":    true,
}

var weakModality = map[string]bool{
	"may":       true,
	"optional":  true,
	"can":       true,
	"sometimes": true,
}

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"of": true, "to": true, "in": true, "is": true, "are": true,
	"for": true, "on": true, "with": true, "be": true, "by": true,
	"this": true, "that": true, "it": true, "as": true, "at": true,
}

func (h *HeuristicAnalyzer) Analyze(ctx context.Context, target Document, candidates []Document) (*Result, error) {
	result := &Result{
		Summary:    summarize(target),
		Confidence: 0.5,
	}

	targetSentences := splitSentences(target.Content)

candidateLoop:
	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for _, ts := range targetSentences {
			for _, cs := range splitSentences(candidate.Content) {
				kind, ok := disagree(ts, cs)
				if !ok {
					continue
				}
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:     conflictTypeFor(target, candidate),
					Severity: severityFor(kind),
					Description: fmt.Sprintf("%q in %s contradicts %q in %s",
						truncate(ts, 120), target.Name, truncate(cs, 120), candidate.Name),
					Recommendation: fmt.Sprintf("Review %s and %s and align the conflicting statements", target.Name, candidate.Name),
					DocumentIds:    []uuid.UUID{candidate.Id},
				})
				// One finding per candidate keeps the report readable
				continue candidateLoop
			}
		}
	}

	return result, nil
}

const (
	kindNegation = "negation"
	kindModality = "modality"
)

// disagree reports whether two sentences cover the same topic but pull in
// opposite directions. Topic overlap requires at least three shared
// content words.
func disagree(a, b string) (string, bool) {
	wordsA := contentWords(a)
	wordsB := contentWords(b)

	shared := 0
	for w := range wordsA {
		if wordsB[w] {
			shared++
		}
	}
	if shared < 3 {
		return "", false
	}

	negA, negB := hasAny(wordsA, negationTokens), hasAny(wordsB, negationTokens)
	if negA != negB {
		return kindNegation, true
	}

	strongA, strongB := hasAny(wordsA, strongModality), hasAny(wordsB, strongModality)
	weakA, weakB := hasAny(wordsA, weakModality), hasAny(wordsB, weakModality)
	if (strongA && weakB && !strongB) || (strongB && weakA && !strongA) {
		return kindModality, true
	}

	return "", false
}

func severityFor(kind string) string {
	if kind == kindNegation {
		return SeverityHigh
	}
	return SeverityMedium
}

func conflictTypeFor(a, b Document) string {
	if a.Type == "policy" || b.Type == "policy" {
		return TypePolicy
	}
	if a.Type == "contract" || b.Type == "contract" || a.Type == "medical" || b.Type == "medical" {
		return TypeCompliance
	}
	return TypeAmbiguity
}

func summarize(d Document) string {
	sentences := splitSentences(d.Content)
	if len(sentences) == 0 {
		return fmt.Sprintf("%s document %q with no extractable content", d.Type, d.Name)
	}
	return truncate(sentences[0], 200)
}

func splitSentences(text string) []string {
	var sentences []string
	for _, raw := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	}) {
		s := strings.TrimSpace(raw)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func contentWords(sentence string) map[string]bool {
	words := make(map[string]bool)
	for _, raw := range strings.Fields(strings.ToLower(sentence)) {
		w := strings.Trim(raw, ",;:()\"'")
		if w == "" || stopWords[w] {
			continue
		}
		words[w] = true
	}
	return words
}

func hasAny(words map[string]bool, set map[string]bool) bool {
	for w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
