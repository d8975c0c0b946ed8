package emotion

import "context"

// Status tags the outcome of an emotion analysis attempt. The analysis is
// advisory; callers branch on the tag instead of catching errors.
type Status string

const (
	StatusAnalyzed    Status = "analyzed"
	StatusUnavailable Status = "unavailable"
	StatusSkipped     Status = "skipped"
)

type Result struct {
	Emotion        string             `json:"emotion"`
	Confidence     float64            `json:"confidence"`
	AllScores      map[string]float64 `json:"all_scores"`
	AudioMetrics   map[string]any     `json:"audio_metrics"`
	Chunks         []map[string]any   `json:"chunks"`
	Interpretation string             `json:"interpretation,omitempty"`
}

type Outcome struct {
	Status Status
	Result Result
	Reason string // set when Status == StatusUnavailable
}

// Analyzer never returns an error: a total failure yields an Unavailable
// outcome so the enclosing operation can proceed.
type Analyzer interface {
	Analyze(ctx context.Context, audio []byte) Outcome
}

// Skipped is the outcome used when the feature flag disables the analyzer
// entirely; no network call is made.
func Skipped() Outcome {
	return Outcome{
		Status: StatusSkipped,
		Result: Result{
			Emotion:      "not_analyzed",
			AllScores:    map[string]float64{},
			AudioMetrics: map[string]any{},
			Chunks:       []map[string]any{},
		},
	}
}
