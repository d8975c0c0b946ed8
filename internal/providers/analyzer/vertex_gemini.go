package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"github.com/tidwall/gjson"

	"github.com/nexhire/backend/internal/models"
)

// VertexGemini is an alternative analyzer backed by Gemini on Vertex AI,
// selected with ANALYZER_PROVIDER=vertex. The model is asked for the same
// per-question JSON shape the HTTP analysis service returns.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
	name   string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	return &VertexGemini{client: c, model: m, name: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Version() string { return "vertex/" + v.name }

const vertexPromptHeader = `You are an interview coach scoring a candidate's answers.
For every item below, return feedback as JSON:
{"analysis":[{"objective":{},"semantic":{},"llm_feedback":{"strengths":["..."],"weaknesses":["..."],"improvement_tips":["..."]}}]}
The analysis array must have exactly one entry per item, in order.

Items:
`

func (v *VertexGemini) Analyze(ctx context.Context, items []Item) ([]models.QuestionAnalysis, error) {
	var b strings.Builder
	b.WriteString(vertexPromptHeader)
	for i, it := range items {
		fmt.Fprintf(&b, "%d. Question: %s\n   Answer: %s\n", i+1, it.QuestionText, it.ResponseText)
	}

	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(b.String()))
	if err != nil {
		return nil, err
	}

	text := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				text += string(t)
			}
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty response from %s", v.name)
	}

	// Models occasionally wrap the JSON in prose or fences; pull the array out
	// leniently before decoding.
	raw := gjson.Get(text, "analysis").Raw
	if raw == "" {
		return nil, fmt.Errorf("no analysis array in model response")
	}

	var out []models.QuestionAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(out) != len(items) {
		return nil, fmt.Errorf("model returned %d results for %d items", len(out), len(items))
	}
	return out, nil
}
