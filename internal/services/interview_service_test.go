package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/providers/analyzer"
	"github.com/nexhire/backend/internal/providers/emotion"
	"github.com/nexhire/backend/internal/utils"
)

// fakeSessionRepo keeps sessions in a map and mimics the mongo repo's
// positional slot update.
type fakeSessionRepo struct {
	sessions map[string]*models.InterviewSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.InterviewSession{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *models.InterviewSession) error {
	cp := *s
	r.sessions[s.SessionID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetBySessionID(_ context.Context, sessionID string) (*models.InterviewSession, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *s
	cp.Questions = append([]models.QuestionSlot(nil), s.Questions...)
	return &cp, nil
}

func (r *fakeSessionRepo) UpdateSlotResponse(_ context.Context, sessionID string, index int, response string, timeSpent float64, emo *models.AudioEmotion) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Questions[index].UserResponse = response
	s.Questions[index].TimeSpent = timeSpent
	if emo != nil {
		s.Questions[index].AudioEmotion = emo
	}
	return nil
}

func (r *fakeSessionRepo) SetStatus(_ context.Context, sessionID, status string) error {
	s, ok := r.sessions[sessionID]
	if !ok {
		return utils.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSessionRepo) Complete(_ context.Context, s *models.InterviewSession) error {
	if _, ok := r.sessions[s.SessionID]; !ok {
		return utils.ErrNotFound
	}
	cp := *s
	r.sessions[s.SessionID] = &cp
	return nil
}

func (r *fakeSessionRepo) ListForReview(_ context.Context, _ int64) ([]models.InterviewSession, error) {
	var out []models.InterviewSession
	for _, s := range r.sessions {
		if s.Status == models.SessionCompleted || s.Status == models.SessionAIProcessing {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) CountByUserAndStatus(_ context.Context, userID, status string) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func (f *fakeTranscriber) Close() error { return nil }

type fakeEmotion struct {
	outcome emotion.Outcome
	calls   int
}

func (f *fakeEmotion) Analyze(_ context.Context, _ []byte) emotion.Outcome {
	f.calls++
	return f.outcome
}

type fakeAnalyzer struct {
	results []models.QuestionAnalysis
	err     error
	items   []analyzer.Item
	calls   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, items []analyzer.Item) ([]models.QuestionAnalysis, error) {
	f.calls++
	f.items = items
	return f.results, f.err
}

func (f *fakeAnalyzer) Version() string { return "1.0.0" }
func (f *fakeAnalyzer) Close() error    { return nil }

type fixture struct {
	svc      InterviewService
	repo     *fakeSessionRepo
	stt      *fakeTranscriber
	emo      *fakeEmotion
	analyzer *fakeAnalyzer
}

func newFixture(emotionEnabled bool) *fixture {
	f := &fixture{
		repo:     newFakeSessionRepo(),
		stt:      &fakeTranscriber{text: "my answer"},
		emo:      &fakeEmotion{outcome: emotion.Outcome{Status: emotion.StatusAnalyzed, Result: emotion.Result{Emotion: "calm", Confidence: 0.9}}},
		analyzer: &fakeAnalyzer{},
	}
	f.svc = NewInterviewService(InterviewDeps{
		Sessions:       f.repo,
		STT:            f.stt,
		Emotion:        f.emo,
		Analyzer:       f.analyzer,
		EmotionEnabled: emotionEnabled,
	})
	return f
}

func (f *fixture) startSession(t *testing.T, count int) string {
	t.Helper()
	res, err := f.svc.Start(context.Background(), "user-1", models.InterviewTechnical, count)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return res.SessionID
}

func TestStart_CreatesSessionWithSlots(t *testing.T) {
	f := newFixture(true)
	res, err := f.svc.Start(context.Background(), "user-1", models.InterviewTechnical, 3)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if res.QuestionCount != 3 || len(res.Questions) != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}

	sess := f.repo.sessions[res.SessionID]
	if sess == nil {
		t.Fatal("session not persisted")
	}
	if sess.Status != models.SessionInProgress {
		t.Errorf("status = %q, want in_progress", sess.Status)
	}
	if len(sess.Questions) != 3 {
		t.Errorf("slot count = %d, want 3", len(sess.Questions))
	}
	for i, q := range sess.Questions {
		if q.QuestionText != res.Questions[i].Text {
			t.Errorf("slot %d text mismatch", i)
		}
		if q.Answered() {
			t.Errorf("slot %d unexpectedly answered", i)
		}
	}
}

func TestStart_InvalidParameters(t *testing.T) {
	f := newFixture(true)
	_, err := f.svc.Start(context.Background(), "user-1", "trivia", 3)
	if !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
	var ipe *InvalidParametersError
	if !errors.As(err, &ipe) || len(ipe.Errors) == 0 {
		t.Fatalf("expected InvalidParametersError with messages, got %v", err)
	}
}

func TestSubmitTextResponse(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)

	if err := f.svc.SubmitTextResponse(context.Background(), id, 1, "a thorough answer", 42.5); err != nil {
		t.Fatalf("SubmitTextResponse: %v", err)
	}
	slot := f.repo.sessions[id].Questions[1]
	if slot.UserResponse != "a thorough answer" || slot.TimeSpent != 42.5 {
		t.Fatalf("slot = %+v", slot)
	}
}

func TestSubmitTextResponse_InvalidIndex(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)

	for _, idx := range []int{-1, 3} {
		err := f.svc.SubmitTextResponse(context.Background(), id, idx, "x", 1)
		if !errors.Is(err, ErrInvalidQuestionIndex) {
			t.Errorf("index %d: expected ErrInvalidQuestionIndex, got %v", idx, err)
		}
	}
}

func TestSubmitTextResponse_ClosedSession(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)
	f.repo.sessions[id].Status = models.SessionCompleted

	err := f.svc.SubmitTextResponse(context.Background(), id, 0, "late answer", 1)
	if !errors.Is(err, ErrSessionClosed) || !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected CONFLICT/ErrSessionClosed, got %v", err)
	}
}

func TestSubmitAudioResponse_TranscriptionFailureAbortsEverything(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)
	f.stt.err = errors.New("connection refused")

	_, err := f.svc.SubmitAudioResponse(context.Background(), id, 0, []byte("webm"), "audio/webm", 10)
	if !errors.Is(err, ErrTranscriptionUnavailable) || !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected UNAVAILABLE/ErrTranscriptionUnavailable, got %v", err)
	}
	if f.emo.calls != 0 {
		t.Errorf("emotion analyzer called %d times after transcription failure", f.emo.calls)
	}
	if slot := f.repo.sessions[id].Questions[0]; slot.Answered() || slot.AudioEmotion != nil {
		t.Errorf("slot mutated after failure: %+v", slot)
	}
}

func TestSubmitAudioResponse_Success(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)

	res, err := f.svc.SubmitAudioResponse(context.Background(), id, 2, []byte("webm"), "audio/webm", 33)
	if err != nil {
		t.Fatalf("SubmitAudioResponse: %v", err)
	}
	if !res.Success || res.Transcription != "my answer" || res.Emotion != "calm" || res.EmotionConfidence != 0.9 {
		t.Fatalf("result = %+v", res)
	}

	slot := f.repo.sessions[id].Questions[2]
	if slot.UserResponse != "my answer" || slot.TimeSpent != 33 {
		t.Fatalf("slot = %+v", slot)
	}
	if slot.AudioEmotion == nil || slot.AudioEmotion.Dominant != "calm" {
		t.Fatalf("audio emotion = %+v", slot.AudioEmotion)
	}
}

func TestSubmitAudioResponse_EmotionDisabled(t *testing.T) {
	f := newFixture(false)
	id := f.startSession(t, 3)

	res, err := f.svc.SubmitAudioResponse(context.Background(), id, 0, []byte("webm"), "audio/webm", 10)
	if err != nil {
		t.Fatalf("SubmitAudioResponse: %v", err)
	}
	if f.emo.calls != 0 {
		t.Errorf("emotion analyzer called %d times with flag disabled", f.emo.calls)
	}
	if res.Emotion != "not_analyzed" {
		t.Errorf("emotion = %q, want not_analyzed", res.Emotion)
	}
	if got := f.repo.sessions[id].Questions[0].AudioEmotion; got == nil || got.Dominant != "not_analyzed" {
		t.Errorf("persisted emotion = %+v", got)
	}
}

func TestSubmitAudioResponse_EmotionUnavailable(t *testing.T) {
	f := newFixture(true)
	f.emo.outcome = emotion.Outcome{
		Status: emotion.StatusUnavailable,
		Result: emotion.Result{Emotion: "error", AllScores: map[string]float64{}, AudioMetrics: map[string]any{}, Chunks: []map[string]any{}},
		Reason: "both tiers failed",
	}
	id := f.startSession(t, 3)

	res, err := f.svc.SubmitAudioResponse(context.Background(), id, 0, []byte("webm"), "audio/webm", 10)
	if err != nil {
		t.Fatalf("emotion failure must not fail the submission: %v", err)
	}
	if res.Emotion != "error" {
		t.Errorf("emotion = %q, want error sentinel", res.Emotion)
	}
	if res.Transcription != "my answer" {
		t.Errorf("transcription lost: %+v", res)
	}
}

func TestComplete_NoResponses(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)

	_, err := f.svc.Complete(context.Background(), id)
	if !errors.Is(err, ErrNoResponsesToAnalyze) || !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Fatalf("expected ErrNoResponsesToAnalyze, got %v", err)
	}
	if got := f.repo.sessions[id].Status; got != models.SessionInProgress {
		t.Fatalf("status = %q, want in_progress", got)
	}
}

func TestComplete_AIPowered(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)
	ctx := context.Background()

	// Answer slots 0 and 2, leaving 1 blank.
	if err := f.svc.SubmitTextResponse(ctx, id, 0, "first answer", 10); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.SubmitTextResponse(ctx, id, 2, "third answer", 20); err != nil {
		t.Fatal(err)
	}

	f.analyzer.results = []models.QuestionAnalysis{
		fb([]string{"clear", "structured"}, []string{"rushed"}, []string{"slow down", "add examples"}),
		fb([]string{"concise", "relevant"}, nil, []string{"expand detail", "quantify impact"}),
	}

	res, err := f.svc.Complete(ctx, id)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if res.AnalysisType != "ai_powered" || !res.HasAIAnalysis {
		t.Fatalf("result = %+v", res)
	}
	if res.QuestionsAnswered != 2 || res.TotalQuestions != 3 {
		t.Fatalf("counts = %d/%d", res.QuestionsAnswered, res.TotalQuestions)
	}

	// Only the answered slots were sent for analysis, in order.
	if len(f.analyzer.items) != 2 || f.analyzer.items[0].ResponseText != "first answer" || f.analyzer.items[1].ResponseText != "third answer" {
		t.Fatalf("analyzer items = %+v", f.analyzer.items)
	}

	// 4 unique strengths: round(clamp(4*15 + 2/3*40, 60, 100)) = 87.
	if res.Score != 87 {
		t.Fatalf("score = %v, want 87", res.Score)
	}
	if len(res.Feedback) != 3 {
		t.Fatalf("feedback = %v, want first 3 tips", res.Feedback)
	}
	if len(res.DetailedAnalysis) != 2 || res.DetailedAnalysis[1].UserResponse != "third answer" {
		t.Fatalf("detailed analysis = %+v", res.DetailedAnalysis)
	}

	sess := f.repo.sessions[id]
	if sess.Status != models.SessionCompleted || sess.CompletedAt == nil {
		t.Fatalf("session = %+v", sess)
	}
	// Results land on the answered slots; the skipped slot stays bare.
	if sess.Questions[0].Analysis == nil || sess.Questions[2].Analysis == nil {
		t.Fatal("answered slots missing analysis")
	}
	if sess.Questions[1].Analysis != nil {
		t.Fatal("unanswered slot received analysis")
	}
	if sess.Questions[2].Analysis.LLMFeedback.Strengths[0] != "concise" {
		t.Fatalf("slot 2 analysis = %+v", sess.Questions[2].Analysis)
	}
	// The AI path does not persist an overall score.
	if sess.OverallScore != nil {
		t.Fatalf("overall score persisted: %v", *sess.OverallScore)
	}
	if sess.AIAnalysis == nil || !sess.AIAnalysis.Processed || sess.AIAnalysis.AIServiceVersion != "1.0.0" {
		t.Fatalf("ai meta = %+v", sess.AIAnalysis)
	}
}

func TestComplete_FallbackOnAnalyzerFailure(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)
	ctx := context.Background()

	if err := f.svc.SubmitTextResponse(ctx, id, 0, "first answer", 10); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.SubmitTextResponse(ctx, id, 1, "second answer", 15); err != nil {
		t.Fatal(err)
	}
	f.analyzer.err = errors.New("analysis service returned 503 Service Unavailable")

	res, err := f.svc.Complete(ctx, id)
	if err != nil {
		t.Fatalf("fallback must not fail the completion: %v", err)
	}

	if res.AnalysisType != "basic_fallback" || res.HasAIAnalysis {
		t.Fatalf("result = %+v", res)
	}
	if res.Score < 66.66 || res.Score > 66.67 {
		t.Fatalf("score = %v, want ~66.666", res.Score)
	}
	if len(res.Feedback) != 2 {
		t.Fatalf("feedback = %v, want 2 items", res.Feedback)
	}
	if res.Error == "" {
		t.Fatal("expected error detail in result")
	}
	if len(res.DetailedAnalysis) != 0 {
		t.Fatalf("detailed analysis = %+v, want empty", res.DetailedAnalysis)
	}

	sess := f.repo.sessions[id]
	if sess.Status != models.SessionCompleted {
		t.Fatalf("status = %q", sess.Status)
	}
	if sess.OverallScore == nil || *sess.OverallScore != res.Score {
		t.Fatalf("persisted score = %v", sess.OverallScore)
	}
	if sess.AIAnalysis == nil || sess.AIAnalysis.Processed || sess.AIAnalysis.ErrorMessage == "" {
		t.Fatalf("ai meta = %+v", sess.AIAnalysis)
	}
}

func TestComplete_AlreadyCompleted(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 3)
	f.repo.sessions[id].Status = models.SessionCompleted

	_, err := f.svc.Complete(context.Background(), id)
	if !errors.Is(err, ErrSessionClosed) || !utils.IsCode(err, utils.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestComplete_RetryFromAIProcessing(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 2)
	ctx := context.Background()

	if err := f.svc.SubmitTextResponse(ctx, id, 0, "answer", 5); err != nil {
		t.Fatal(err)
	}
	// Simulate a crash mid-completion.
	f.repo.sessions[id].Status = models.SessionAIProcessing
	f.analyzer.results = []models.QuestionAnalysis{fb([]string{"clear"}, nil, nil)}

	res, err := f.svc.Complete(ctx, id)
	if err != nil {
		t.Fatalf("retry from ai_processing: %v", err)
	}
	if res.AnalysisType != "ai_powered" {
		t.Fatalf("result = %+v", res)
	}
}

func TestListResults_Stats(t *testing.T) {
	f := newFixture(true)
	id := f.startSession(t, 2)
	ctx := context.Background()

	if err := f.svc.SubmitTextResponse(ctx, id, 0, "answer", 5); err != nil {
		t.Fatal(err)
	}
	f.analyzer.err = errors.New("down")
	if _, err := f.svc.Complete(ctx, id); err != nil {
		t.Fatal(err)
	}

	overview, err := f.svc.ListResults(ctx)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if overview.Stats.Total != 1 || overview.Stats.Completed != 1 {
		t.Fatalf("stats = %+v", overview.Stats)
	}
	if overview.Stats.AIProcessed != 0 {
		t.Fatalf("aiProcessed = %d, want 0 for fallback", overview.Stats.AIProcessed)
	}
	if overview.Stats.AvgScore != 50 {
		t.Fatalf("avgScore = %d, want 50", overview.Stats.AvgScore)
	}
}
