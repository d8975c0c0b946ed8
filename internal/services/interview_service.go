package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexhire/backend/internal/cache"
	"github.com/nexhire/backend/internal/events"
	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/providers/analyzer"
	"github.com/nexhire/backend/internal/providers/emotion"
	"github.com/nexhire/backend/internal/providers/transcriber"
	"github.com/nexhire/backend/internal/questionbank"
	mongorepo "github.com/nexhire/backend/internal/repositories/mongo"
	"github.com/nexhire/backend/internal/utils"
)

type StartResult struct {
	SessionID     string            `json:"sessionId"`
	InterviewType string            `json:"interviewType"`
	QuestionCount int               `json:"questionCount"`
	Questions     []models.Question `json:"questions"`
}

type AudioResult struct {
	Success           bool             `json:"success"`
	Transcription     string           `json:"transcription"`
	Emotion           string           `json:"emotion"`
	EmotionConfidence float64          `json:"emotionConfidence"`
	AudioMetrics      map[string]any   `json:"audioMetrics"`
	EmotionByChunk    []map[string]any `json:"emotionByChunk"`
}

type DetailedQuestion struct {
	QuestionText string               `json:"questionText"`
	UserResponse string               `json:"userResponse"`
	TimeSpent    float64              `json:"timeSpent"`
	AudioEmotion *models.AudioEmotion `json:"audioEmotion"`
	Objective    map[string]any       `json:"objective"`
	Semantic     map[string]any       `json:"semantic"`
	LLMFeedback  models.LLMFeedback   `json:"llmFeedback"`
}

type CompleteResult struct {
	AnalysisType      string                  `json:"analysisType"`
	Score             float64                 `json:"score"`
	Feedback          []string                `json:"feedback"`
	QuestionsAnswered int                     `json:"questionsAnswered"`
	TotalQuestions    int                     `json:"totalQuestions"`
	DetailedAnalysis  []DetailedQuestion      `json:"detailedAnalysis"`
	HasAIAnalysis     bool                    `json:"hasAiAnalysis"`
	OverallAnalysis   *models.OverallAnalysis `json:"overallAnalysis,omitempty"`
	CompletedAt       *time.Time              `json:"completedAt,omitempty"`
	Error             string                  `json:"error,omitempty"`
}

type ResultsStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	AIProcessed int `json:"aiProcessed"`
	AvgScore    int `json:"avgScore"`
}

type ResultsOverview struct {
	Interviews []models.InterviewSession `json:"interviews"`
	Stats      ResultsStats              `json:"stats"`
}

type InterviewService interface {
	Start(ctx context.Context, userID, interviewType string, questionCount int) (*StartResult, error)
	SubmitTextResponse(ctx context.Context, sessionID string, questionIndex int, text string, timeSpent float64) error
	SubmitAudioResponse(ctx context.Context, sessionID string, questionIndex int, audio []byte, contentType string, recordingTime float64) (*AudioResult, error)
	Complete(ctx context.Context, sessionID string) (*CompleteResult, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	ListResults(ctx context.Context) (*ResultsOverview, error)
}

type InterviewDeps struct {
	Sessions mongorepo.InterviewSessionRepository
	STT      transcriber.Provider
	Emotion  emotion.Analyzer
	Analyzer analyzer.Provider

	// Optional collaborators.
	Events events.Publisher
	Cache  cache.Cache
	Logger *logrus.Logger

	EmotionEnabled  bool
	ResultsCacheTTL time.Duration
}

type interviewService struct {
	deps InterviewDeps
	log  *logrus.Logger

	// Per-session exclusive region: makes last-write-wins on concurrent
	// submissions a deliberate guarantee instead of a driver accident.
	locks sync.Map
}

func NewInterviewService(deps InterviewDeps) InterviewService {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	if deps.ResultsCacheTTL <= 0 {
		deps.ResultsCacheTTL = 30 * time.Second
	}
	return &interviewService{deps: deps, log: deps.Logger}
}

func (s *interviewService) lockSession(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *interviewService) Start(ctx context.Context, userID, interviewType string, questionCount int) (*StartResult, error) {
	const op = "InterviewService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if v := questionbank.Validate(interviewType, questionCount); !v.Valid {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid interview parameters",
			&InvalidParametersError{Errors: v.Errors})
	}

	questions := questionbank.Get(interviewType, questionCount)
	if len(questions) < questionCount {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no questions available for interview type: "+interviewType,
			ErrNoQuestionsAvailable)
	}

	slots := make([]models.QuestionSlot, len(questions))
	for i, q := range questions {
		slots[i] = models.QuestionSlot{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Category:     q.Category,
		}
	}

	session := &models.InterviewSession{
		SessionID:     uuid.NewString(),
		UserID:        userID,
		InterviewType: interviewType,
		Status:        models.SessionInProgress,
		Questions:     slots,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.deps.Sessions.Create(ctx, session); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview session", err)
	}

	s.log.WithFields(logrus.Fields{
		"session_id":     session.SessionID,
		"interview_type": interviewType,
		"question_count": len(questions),
	}).Info("interview session started")

	return &StartResult{
		SessionID:     session.SessionID,
		InterviewType: interviewType,
		QuestionCount: len(questions),
		Questions:     questions,
	}, nil
}

// loadOpenSession fetches a session and checks it still accepts responses.
func (s *interviewService) loadOpenSession(ctx context.Context, op, sessionID string) (*models.InterviewSession, error) {
	sess, err := s.deps.Sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	if sess.Status != models.SessionInProgress {
		return nil, utils.E(utils.CodeConflict, op, "session is no longer accepting responses", ErrSessionClosed)
	}
	return sess, nil
}

func (s *interviewService) SubmitTextResponse(ctx context.Context, sessionID string, questionIndex int, text string, timeSpent float64) error {
	const op = "InterviewService.SubmitTextResponse"

	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.loadOpenSession(ctx, op, sessionID)
	if err != nil {
		return err
	}
	if questionIndex < 0 || questionIndex >= len(sess.Questions) {
		return utils.E(utils.CodeInvalidArgument, op, "invalid question index", ErrInvalidQuestionIndex)
	}

	if err := s.deps.Sessions.UpdateSlotResponse(ctx, sessionID, questionIndex, text, timeSpent, nil); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to save response", err)
	}
	return nil
}

func (s *interviewService) SubmitAudioResponse(ctx context.Context, sessionID string, questionIndex int, audio []byte, contentType string, recordingTime float64) (*AudioResult, error) {
	const op = "InterviewService.SubmitAudioResponse"

	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.loadOpenSession(ctx, op, sessionID)
	if err != nil {
		return nil, err
	}
	if questionIndex < 0 || questionIndex >= len(sess.Questions) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid question index", ErrInvalidQuestionIndex)
	}
	if len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio payload is required", nil)
	}

	log := s.log.WithFields(logrus.Fields{
		"session_id":     sessionID,
		"question_index": questionIndex,
		"audio_bytes":    len(audio),
	})

	// Step 1: transcription. Required; failure aborts before any slot write.
	text, terr := s.deps.STT.Transcribe(ctx, audio, contentType)
	if terr != nil {
		log.WithError(terr).Error("transcription failed")
		return nil, utils.E(utils.CodeUnavailable, op, "transcription service unavailable", ErrTranscriptionUnavailable)
	}

	// Step 2: emotion analysis. Advisory; never aborts.
	outcome := emotion.Skipped()
	if s.deps.EmotionEnabled {
		outcome = s.deps.Emotion.Analyze(ctx, audio)
	}
	switch outcome.Status {
	case emotion.StatusAnalyzed:
		log.WithField("emotion", outcome.Result.Emotion).Info("emotion analysis done")
	case emotion.StatusUnavailable:
		log.WithField("reason", outcome.Reason).Warn("emotion analysis unavailable")
	}

	emo := &models.AudioEmotion{
		Dominant:       outcome.Result.Emotion,
		Confidence:     outcome.Result.Confidence,
		AllScores:      outcome.Result.AllScores,
		Chunks:         outcome.Result.Chunks,
		AudioMetrics:   outcome.Result.AudioMetrics,
		Interpretation: outcome.Result.Interpretation,
	}

	// Step 3: single write of transcript + emotion into the slot.
	if err := s.deps.Sessions.UpdateSlotResponse(ctx, sessionID, questionIndex, text, recordingTime, emo); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save audio response", err)
	}

	return &AudioResult{
		Success:           true,
		Transcription:     text,
		Emotion:           emo.Dominant,
		EmotionConfidence: emo.Confidence,
		AudioMetrics:      emo.AudioMetrics,
		EmotionByChunk:    emo.Chunks,
	}, nil
}

func (s *interviewService) Complete(ctx context.Context, sessionID string) (*CompleteResult, error) {
	const op = "InterviewService.Complete"

	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, err := s.deps.Sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	// ai_processing is allowed back in so an interrupted completion can be
	// retried after a restart; a finished session stays immutable.
	if sess.Status == models.SessionCompleted {
		return nil, utils.E(utils.CodeConflict, op, "session is already completed", ErrSessionClosed)
	}

	var answeredIdx []int
	for i, q := range sess.Questions {
		if q.Answered() {
			answeredIdx = append(answeredIdx, i)
		}
	}
	if len(answeredIdx) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no responses found to analyze", ErrNoResponsesToAnalyze)
	}

	answered := len(answeredIdx)
	total := len(sess.Questions)

	// Intermediate commit: the analysis call can take minutes, and the
	// ai_processing state keeps partial progress visible across restarts.
	if err := s.deps.Sessions.SetStatus(ctx, sessionID, models.SessionAIProcessing); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update session status", err)
	}
	s.publish(ctx, sessionID, map[string]any{"type": "status", "status": models.SessionAIProcessing})

	items := make([]analyzer.Item, 0, answered)
	for _, i := range answeredIdx {
		items = append(items, analyzer.Item{
			QuestionText: sess.Questions[i].QuestionText,
			ResponseText: sess.Questions[i].UserResponse,
		})
	}

	start := time.Now()
	results, aiErr := s.deps.Analyzer.Analyze(ctx, items)
	elapsed := time.Since(start).Milliseconds()

	now := time.Now().UTC()
	out := &CompleteResult{
		QuestionsAnswered: answered,
		TotalQuestions:    total,
		DetailedAnalysis:  []DetailedQuestion{},
		CompletedAt:       &now,
	}

	if aiErr == nil {
		// Per-question results line up with the answered slots, in order.
		for i, idx := range answeredIdx {
			r := results[i]
			sess.Questions[idx].Analysis = &r
		}

		overall := aggregateAnalysis(results)
		sess.OverallAnalysis = overall
		sess.AIAnalysis = &models.AIAnalysisMeta{
			Processed:        true,
			ProcessingTimeMS: elapsed,
			AIServiceVersion: s.deps.Analyzer.Version(),
			ProcessedAt:      now,
		}

		out.AnalysisType = "ai_powered"
		out.HasAIAnalysis = true
		out.OverallAnalysis = overall
		out.Score = aiScore(len(overall.Strengths), answered, total)
		out.Feedback = truncate(overall.ImprovementTips, 3)
		out.DetailedAnalysis = detailedAnalysis(sess, answeredIdx, results)

		s.log.WithFields(logrus.Fields{
			"session_id":         sessionID,
			"processing_time_ms": elapsed,
		}).Info("ai analysis completed")
	} else {
		score := fallbackScore(answered, total)
		sess.OverallScore = &score
		sess.Feedback = fallbackFeedback(score)
		sess.AIAnalysis = &models.AIAnalysisMeta{
			Processed:        false,
			ProcessingTimeMS: elapsed,
			ErrorMessage:     aiErr.Error(),
			ProcessedAt:      now,
		}

		out.AnalysisType = "basic_fallback"
		out.HasAIAnalysis = false
		out.Score = score
		out.Feedback = sess.Feedback
		out.Error = aiErr.Error()

		s.log.WithError(aiErr).WithField("session_id", sessionID).Warn("ai analysis failed, using fallback scoring")
	}

	sess.Status = models.SessionCompleted
	sess.CompletedAt = &now

	if err := s.deps.Sessions.Complete(ctx, sess); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist completed session", err)
	}

	s.publish(ctx, sessionID, map[string]any{
		"type":          "status",
		"status":        models.SessionCompleted,
		"hasAiAnalysis": out.HasAIAnalysis,
	})
	s.invalidateResultsCache(ctx)

	return out, nil
}

func detailedAnalysis(sess *models.InterviewSession, answeredIdx []int, results []models.QuestionAnalysis) []DetailedQuestion {
	out := make([]DetailedQuestion, 0, len(answeredIdx))
	for i, idx := range answeredIdx {
		q := sess.Questions[idx]
		out = append(out, DetailedQuestion{
			QuestionText: q.QuestionText,
			UserResponse: q.UserResponse,
			TimeSpent:    q.TimeSpent,
			AudioEmotion: q.AudioEmotion,
			Objective:    results[i].Objective,
			Semantic:     results[i].Semantic,
			LLMFeedback:  results[i].LLMFeedback,
		})
	}
	return out
}

func (s *interviewService) Get(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	sess, err := s.deps.Sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load session", err)
	}
	return sess, nil
}

const resultsCacheKey = "interview:results:overview"

func (s *interviewService) ListResults(ctx context.Context) (*ResultsOverview, error) {
	const op = "InterviewService.ListResults"

	if s.deps.Cache != nil {
		var cached ResultsOverview
		if hit, err := s.deps.Cache.GetJSON(ctx, resultsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	sessions, err := s.deps.Sessions.ListForReview(ctx, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interview results", err)
	}

	stats := ResultsStats{Total: len(sessions)}
	var scoreSum float64
	for _, sess := range sessions {
		if sess.Status == models.SessionCompleted {
			stats.Completed++
		}
		if sess.AIAnalysis != nil && sess.AIAnalysis.Processed {
			stats.AIProcessed++
		}
		if sess.OverallScore != nil {
			scoreSum += *sess.OverallScore
		}
	}
	if len(sessions) > 0 {
		stats.AvgScore = int(scoreSum/float64(len(sessions)) + 0.5)
	}

	overview := &ResultsOverview{Interviews: sessions, Stats: stats}
	if s.deps.Cache != nil {
		_ = s.deps.Cache.SetJSON(ctx, resultsCacheKey, overview, s.deps.ResultsCacheTTL)
	}
	return overview, nil
}

func (s *interviewService) publish(ctx context.Context, sessionID string, payload any) {
	if s.deps.Events != nil {
		s.deps.Events.PublishSessionStatus(ctx, sessionID, payload)
	}
}

func (s *interviewService) invalidateResultsCache(ctx context.Context) {
	if s.deps.Cache != nil {
		_ = s.deps.Cache.Del(ctx, resultsCacheKey)
	}
}
