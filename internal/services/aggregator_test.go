package services

import (
	"reflect"
	"testing"

	"github.com/nexhire/backend/internal/models"
)

func fb(strengths, weaknesses, tips []string) models.QuestionAnalysis {
	return models.QuestionAnalysis{
		LLMFeedback: models.LLMFeedback{
			Strengths:       strengths,
			Weaknesses:      weaknesses,
			ImprovementTips: tips,
		},
	}
}

func TestAggregateAnalysis_DedupePreservesOrder(t *testing.T) {
	results := []models.QuestionAnalysis{
		fb([]string{"clear structure", "good examples"}, nil, nil),
		fb([]string{"good examples", "confident tone"}, nil, nil),
	}

	got := aggregateAnalysis(results)
	want := []string{"clear structure", "good examples", "confident tone"}
	if !reflect.DeepEqual(got.Strengths, want) {
		t.Fatalf("strengths = %v, want %v", got.Strengths, want)
	}
}

func TestAggregateAnalysis_Truncation(t *testing.T) {
	var results []models.QuestionAnalysis
	for i := 0; i < 10; i++ {
		results = append(results, fb(
			[]string{"s" + string(rune('a'+i))},
			[]string{"w" + string(rune('a'+i))},
			[]string{"t" + string(rune('a'+i))},
		))
	}

	got := aggregateAnalysis(results)
	if len(got.Strengths) != maxStrengths {
		t.Errorf("len(strengths) = %d, want %d", len(got.Strengths), maxStrengths)
	}
	if len(got.Weaknesses) != maxWeaknesses {
		t.Errorf("len(weaknesses) = %d, want %d", len(got.Weaknesses), maxWeaknesses)
	}
	if len(got.ImprovementTips) != maxTips {
		t.Errorf("len(tips) = %d, want %d", len(got.ImprovementTips), maxTips)
	}
}

func TestAggregateAnalysis_Coherence(t *testing.T) {
	got := aggregateAnalysis([]models.QuestionAnalysis{fb([]string{"s"}, nil, nil)})
	if got.InterviewCoherence != 0.8 {
		t.Fatalf("coherence = %v, want 0.8", got.InterviewCoherence)
	}
}

func TestRecommendation_Tiers(t *testing.T) {
	cases := []struct {
		name       string
		strengths  int
		weaknesses int
		want       string
	}{
		{"strong", 5, 2, "Strong interview performance with clear communication. Ready for similar roles."},
		{"good", 3, 2, "Good interview performance with some areas for improvement."},
		{"needs work", 2, 2, "Interview shows potential but needs focused improvement on communication."},
		// Boundary: strengths == weaknesses*2 is not strong.
		{"exactly double", 4, 2, "Good interview performance with some areas for improvement."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := recommendation(tc.strengths, tc.weaknesses); got != tc.want {
				t.Fatalf("recommendation(%d, %d) = %q, want %q", tc.strengths, tc.weaknesses, got, tc.want)
			}
		})
	}
}

func TestRecommendation_UsesPreDedupCounts(t *testing.T) {
	// Five repeated strengths dedupe to one, but the tier decision sees five.
	results := []models.QuestionAnalysis{
		fb([]string{"clear", "clear"}, []string{"rushed"}, nil),
		fb([]string{"clear", "clear", "clear"}, []string{"rushed"}, nil),
	}
	got := aggregateAnalysis(results)
	if got.Recommendation != "Strong interview performance with clear communication. Ready for similar roles." {
		t.Fatalf("recommendation = %q", got.Recommendation)
	}
	if len(got.Strengths) != 1 {
		t.Fatalf("deduped strengths = %v", got.Strengths)
	}
}

func TestAIScore(t *testing.T) {
	cases := []struct {
		name                       string
		strengths, answered, total int
		want                       float64
	}{
		{"floor", 0, 1, 10, 60},
		{"ceiling", 10, 10, 10, 100},
		{"mid", 2, 5, 10, 60}, // 30 + 20 = 50, clamped up
		{"typical", 4, 5, 5, 100},
		{"rounded", 3, 2, 3, 72}, // 45 + 26.67 = 71.67
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := aiScore(tc.strengths, tc.answered, tc.total); got != tc.want {
				t.Fatalf("aiScore(%d, %d, %d) = %v, want %v", tc.strengths, tc.answered, tc.total, got, tc.want)
			}
		})
	}
}

func TestFallbackScore_Unrounded(t *testing.T) {
	got := fallbackScore(2, 3)
	if got < 66.66 || got > 66.67 {
		t.Fatalf("fallbackScore(2, 3) = %v, want ~66.666", got)
	}
}

func TestFallbackFeedback_AlwaysTwoItems(t *testing.T) {
	high := fallbackFeedback(85)
	if !reflect.DeepEqual(high, []string{
		"Great job! You answered most questions.",
		"Keep practicing to improve your skills.",
	}) {
		t.Fatalf("high feedback = %v", high)
	}

	low := fallbackFeedback(50)
	if !reflect.DeepEqual(low, []string{
		"Try to provide more detailed responses.",
		"Keep practicing to improve your skills.",
	}) {
		t.Fatalf("low feedback = %v", low)
	}
}
