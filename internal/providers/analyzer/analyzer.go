package analyzer

import (
	"context"

	"github.com/nexhire/backend/internal/models"
)

// Item is one question/response pair in a batched analysis request.
type Item struct {
	QuestionText string `json:"question_text"`
	ResponseText string `json:"response_text"`
}

// Provider scores a whole interview in one call. There is no partial-batch
// success: either a full per-question slice comes back or the call failed.
// Callers do not retry; a failure switches them to fallback scoring.
type Provider interface {
	Analyze(ctx context.Context, items []Item) ([]models.QuestionAnalysis, error)
	Version() string
	Close() error
}
