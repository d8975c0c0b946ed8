package questionbank

import (
	"testing"

	"github.com/nexhire/backend/internal/models"
)

func TestValidate_Accepts(t *testing.T) {
	for _, typ := range []string{models.InterviewTechnical, models.InterviewBehavioral} {
		for count := 1; count <= PoolSize(typ); count++ {
			res := Validate(typ, count)
			if !res.Valid {
				t.Errorf("Validate(%q, %d) rejected: %v", typ, count, res.Errors)
			}
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name  string
		typ   string
		count int
	}{
		{"unknown type", "trivia", 3},
		{"zero count", models.InterviewTechnical, 0},
		{"negative count", models.InterviewTechnical, -1},
		{"count over pool", models.InterviewBehavioral, PoolSize(models.InterviewBehavioral) + 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.typ, tc.count)
			if res.Valid {
				t.Fatalf("Validate(%q, %d) unexpectedly valid", tc.typ, tc.count)
			}
			if len(res.Errors) == 0 {
				t.Fatal("expected at least one error message")
			}
		})
	}
}

func TestGet_CountAndUniqueness(t *testing.T) {
	qs := Get(models.InterviewTechnical, 5)
	if len(qs) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(qs))
	}
	seen := map[string]bool{}
	for _, q := range qs {
		if q.ID == "" || q.Text == "" || q.Category == "" {
			t.Errorf("incomplete question: %+v", q)
		}
		if seen[q.ID] {
			t.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestGet_NeverExceedsPool(t *testing.T) {
	qs := Get(models.InterviewBehavioral, 1000)
	if len(qs) != PoolSize(models.InterviewBehavioral) {
		t.Fatalf("expected full pool of %d, got %d", PoolSize(models.InterviewBehavioral), len(qs))
	}
}

func TestGet_UnknownType(t *testing.T) {
	if qs := Get("trivia", 3); qs != nil {
		t.Fatalf("expected nil for unknown type, got %v", qs)
	}
}
