package emotion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	return NewHTTPClient(url, 2*time.Second, 2*time.Second, nil)
}

func TestAnalyze_CompleteTier(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/analyze-audio-complete" && r.URL.Query().Get("remove_silence") != "true" {
			t.Error("expected remove_silence=true on complete tier")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"emotion":"calm","confidence":0.91,"all_scores":{"calm":0.91,"nervous":0.09}}`))
	}))
	defer srv.Close()

	out := newClient(t, srv.URL).Analyze(context.Background(), []byte("audio"))
	if out.Status != StatusAnalyzed {
		t.Fatalf("expected analyzed, got %s (%s)", out.Status, out.Reason)
	}
	if out.Result.Emotion != "calm" || out.Result.Confidence != 0.91 {
		t.Fatalf("unexpected result: %+v", out.Result)
	}
	if len(paths) != 1 || paths[0] != "/analyze-audio-complete" {
		t.Fatalf("basic tier should not be tried when complete succeeds: %v", paths)
	}
}

func TestAnalyze_FallsBackToBasic(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/analyze-audio-complete" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"emotion":"confident","confidence":0.7}`))
	}))
	defer srv.Close()

	out := newClient(t, srv.URL).Analyze(context.Background(), []byte("audio"))
	if out.Status != StatusAnalyzed {
		t.Fatalf("expected analyzed via basic tier, got %s", out.Status)
	}
	if out.Result.Emotion != "confident" {
		t.Fatalf("unexpected emotion %q", out.Result.Emotion)
	}
	want := []string{"/analyze-audio-complete", "/analyze-audio"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("expected tier order %v, got %v", want, paths)
	}
	// Maps must be usable even when the service omits them.
	if out.Result.AllScores == nil || out.Result.AudioMetrics == nil || out.Result.Chunks == nil {
		t.Fatal("normalize should backfill empty collections")
	}
}

func TestAnalyze_AllTiersFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	out := newClient(t, srv.URL).Analyze(context.Background(), []byte("audio"))
	if out.Status != StatusUnavailable {
		t.Fatalf("expected unavailable, got %s", out.Status)
	}
	if out.Result.Emotion != "error" || out.Result.Confidence != 0 {
		t.Fatalf("expected error sentinel, got %+v", out.Result)
	}
	if out.Reason == "" {
		t.Fatal("expected a failure reason")
	}
}

func TestSkipped(t *testing.T) {
	out := Skipped()
	if out.Status != StatusSkipped {
		t.Fatalf("expected skipped, got %s", out.Status)
	}
	if out.Result.Emotion != "not_analyzed" {
		t.Fatalf("expected not_analyzed sentinel, got %q", out.Result.Emotion)
	}
}
