package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nexhire/backend/internal/models"
)

// HTTPClient talks to the text-analysis service. This is the heaviest
// external dependency, hence the generous timeout.
type HTTPClient struct {
	client *resty.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 180 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &HTTPClient{client: c}
}

func (h *HTTPClient) Close() error { return nil }

func (h *HTTPClient) Version() string { return "1.0.0" }

type analyzeRequest struct {
	Items []Item `json:"items"`
}

type analyzeResponse struct {
	Analysis []models.QuestionAnalysis `json:"analysis"`
}

func (h *HTTPClient) Analyze(ctx context.Context, items []Item) ([]models.QuestionAnalysis, error) {
	var out analyzeResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(analyzeRequest{Items: items}).
		SetResult(&out).
		Post("/analyze")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("analysis service returned %s", resp.Status())
	}
	if len(out.Analysis) != len(items) {
		return nil, fmt.Errorf("analysis service returned %d results for %d items", len(out.Analysis), len(items))
	}
	return out.Analysis, nil
}
