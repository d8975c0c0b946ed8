package services

import (
	"math"

	"github.com/nexhire/backend/internal/models"
)

// Pool truncation limits for the merged overall analysis.
const (
	maxStrengths  = 5
	maxWeaknesses = 5
	maxTips       = 7
)

// interviewCoherence is a fixed constant: the analysis service does not score
// cross-question coherence yet, so every AI-powered result carries 0.8.
const interviewCoherence = 0.8

// aggregateAnalysis merges per-question LLM feedback into one overall
// analysis. Pools keep first-seen order; duplicates are dropped on exact
// string equality; the recommendation tiers compare the pre-deduplication
// counts.
func aggregateAnalysis(results []models.QuestionAnalysis) *models.OverallAnalysis {
	var strengths, weaknesses, tips []string
	for _, r := range results {
		strengths = append(strengths, r.LLMFeedback.Strengths...)
		weaknesses = append(weaknesses, r.LLMFeedback.Weaknesses...)
		tips = append(tips, r.LLMFeedback.ImprovementTips...)
	}

	return &models.OverallAnalysis{
		Strengths:          truncate(dedupe(strengths), maxStrengths),
		Weaknesses:         truncate(dedupe(weaknesses), maxWeaknesses),
		ImprovementTips:    truncate(dedupe(tips), maxTips),
		InterviewCoherence: interviewCoherence,
		Recommendation:     recommendation(len(strengths), len(weaknesses)),
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func truncate(in []string, n int) []string {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func recommendation(strengthCount, weaknessCount int) string {
	switch {
	case strengthCount > weaknessCount*2:
		return "Strong interview performance with clear communication. Ready for similar roles."
	case strengthCount > weaknessCount:
		return "Good interview performance with some areas for improvement."
	default:
		return "Interview shows potential but needs focused improvement on communication."
	}
}

// aiScore is the caller-facing score for an AI-powered completion:
// round(clamp(dedupStrengths*15 + answered/total*40, 60, 100)).
func aiScore(dedupStrengths, answered, total int) float64 {
	x := float64(dedupStrengths)*15 + float64(answered)/float64(total)*40
	return math.Round(math.Min(100, math.Max(60, x)))
}

// fallbackScore is the deterministic score when the analysis service is
// unavailable. It is stored and reported as-is, unrounded.
func fallbackScore(answered, total int) float64 {
	return float64(answered) / float64(total) * 100
}

func fallbackFeedback(score float64) []string {
	var out []string
	if score >= 80 {
		out = append(out, "Great job! You answered most questions.")
	}
	if score < 80 {
		out = append(out, "Try to provide more detailed responses.")
	}
	out = append(out, "Keep practicing to improve your skills.")
	return out
}
