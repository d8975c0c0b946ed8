package transcriber

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WhisperHTTP talks to the faster-whisper transcription service over HTTP.
// One attempt, fixed timeout, no retry.
type WhisperHTTP struct {
	client *resty.Client
}

func NewWhisperHTTP(baseURL string, timeout time.Duration) *WhisperHTTP {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &WhisperHTTP{client: c}
}

func (w *WhisperHTTP) Close() error { return nil }

type whisperResponse struct {
	Text string `json:"text"`
}

func (w *WhisperHTTP) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "audio/webm"
	}

	var out whisperResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetMultipartField("file", "audio.webm", contentType, bytes.NewReader(audio)).
		SetResult(&out).
		Post("/transcribe")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("transcription service returned %s", resp.Status())
	}
	return out.Text, nil
}
