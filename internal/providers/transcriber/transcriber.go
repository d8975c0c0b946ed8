package transcriber

import "context"

// Provider converts an opaque audio payload into text. Any error is fatal to
// the calling operation; there is no fallback for a missing transcript.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
	Close() error
}
