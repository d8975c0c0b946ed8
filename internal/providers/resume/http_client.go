package resume

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Result is the resume service's analysis payload. The embedding is reused
// for similar-candidate search; everything else is shown to the candidate.
type Result struct {
	MatchScore  float64   `json:"match_score"`
	Summary     string    `json:"summary"`
	Suggestions []string  `json:"suggestions"`
	Skills      []string  `json:"skills"`
	Embedding   []float32 `json:"embedding"`
}

type Client struct {
	client *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{client: c}
}

type analyzeRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description,omitempty"`
}

func (c *Client) Analyze(ctx context.Context, resumeText, jobDescription string) (Result, error) {
	var out Result
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(analyzeRequest{ResumeText: resumeText, JobDescription: jobDescription}).
		SetResult(&out).
		Post("/analyze-resume")
	if err != nil {
		return Result{}, err
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("resume service returned %s", resp.Status())
	}
	return out, nil
}
