package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWhisperHTTP_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("expected multipart request, got %s", r.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	c := NewWhisperHTTP(srv.URL, 5*time.Second)
	text, err := c.Transcribe(context.Background(), []byte("audio-bytes"), "audio/webm")
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", text)
	}
}

func TestWhisperHTTP_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWhisperHTTP(srv.URL, 5*time.Second)
	if _, err := c.Transcribe(context.Background(), []byte("x"), ""); err == nil {
		t.Fatal("expected error on 503 response")
	}
}

func TestWhisperHTTP_ConnectionRefused(t *testing.T) {
	c := NewWhisperHTTP("http://127.0.0.1:1", time.Second)
	if _, err := c.Transcribe(context.Background(), []byte("x"), ""); err == nil {
		t.Fatal("expected error when service is unreachable")
	}
}
