package emotion

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// tier is one candidate endpoint. Tiers are tried in declared order until one
// succeeds or all are exhausted; adding a tier does not change control flow.
type tier struct {
	name    string
	path    string
	timeout time.Duration
	query   map[string]string
}

type HTTPClient struct {
	base  string
	tiers []tier
	log   *logrus.Logger
}

func NewHTTPClient(baseURL string, completeTimeout, basicTimeout time.Duration, log *logrus.Logger) *HTTPClient {
	if completeTimeout <= 0 {
		completeTimeout = 30 * time.Second
	}
	if basicTimeout <= 0 {
		basicTimeout = 20 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &HTTPClient{
		base: baseURL,
		tiers: []tier{
			{name: "complete", path: "/analyze-audio-complete", timeout: completeTimeout, query: map[string]string{"remove_silence": "true"}},
			{name: "basic", path: "/analyze-audio", timeout: basicTimeout},
		},
		log: log,
	}
}

func (c *HTTPClient) Analyze(ctx context.Context, audio []byte) Outcome {
	var lastErr error
	for _, t := range c.tiers {
		res, err := c.call(ctx, t, audio)
		if err == nil {
			return Outcome{Status: StatusAnalyzed, Result: normalize(res)}
		}
		lastErr = err
		c.log.WithError(err).WithField("tier", t.name).Warn("emotion analysis tier failed")
	}

	return Outcome{
		Status: StatusUnavailable,
		Result: Result{Emotion: "error", AllScores: map[string]float64{}},
		Reason: lastErr.Error(),
	}
}

func (c *HTTPClient) call(ctx context.Context, t tier, audio []byte) (Result, error) {
	var out Result

	client := resty.New().SetBaseURL(c.base).SetTimeout(t.timeout)
	req := client.R().
		SetContext(ctx).
		SetMultipartField("file", "audio.webm", "audio/webm", bytes.NewReader(audio)).
		SetResult(&out)
	if len(t.query) > 0 {
		req = req.SetQueryParams(t.query)
	}

	resp, err := req.Post(t.path)
	if err != nil {
		return Result{}, err
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("emotion service returned %s", resp.Status())
	}
	return out, nil
}

func normalize(r Result) Result {
	if r.AllScores == nil {
		r.AllScores = map[string]float64{}
	}
	if r.AudioMetrics == nil {
		r.AudioMetrics = map[string]any{}
	}
	if r.Chunks == nil {
		r.Chunks = []map[string]any{}
	}
	return r
}
