package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interview session status. Transitions are monotonic:
// in_progress -> ai_processing -> completed.
const (
	SessionInProgress   = "in_progress"
	SessionAIProcessing = "ai_processing"
	SessionCompleted    = "completed"
)

const (
	InterviewTechnical  = "technical"
	InterviewBehavioral = "behavioral"
)

type InterviewSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	InterviewType string `bson:"interview_type" json:"interview_type"` // technical|behavioral
	Status        string `bson:"status" json:"status"`

	// Fixed length at creation; one slot per question, in question-bank order.
	Questions []QuestionSlot `bson:"questions" json:"questions"`

	OverallScore    *float64         `bson:"overall_score,omitempty" json:"overall_score,omitempty"`
	OverallAnalysis *OverallAnalysis `bson:"overall_analysis,omitempty" json:"overall_analysis,omitempty"`
	Feedback        []string         `bson:"feedback,omitempty" json:"feedback,omitempty"`
	AIAnalysis      *AIAnalysisMeta  `bson:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

type QuestionSlot struct {
	QuestionID   string `bson:"question_id" json:"question_id"`
	QuestionText string `bson:"question_text" json:"question_text"`
	Category     string `bson:"category" json:"category"`

	UserResponse string  `bson:"user_response,omitempty" json:"user_response,omitempty"`
	TimeSpent    float64 `bson:"time_spent,omitempty" json:"time_spent,omitempty"` // seconds

	AudioEmotion *AudioEmotion     `bson:"audio_emotion,omitempty" json:"audio_emotion,omitempty"`
	Analysis     *QuestionAnalysis `bson:"analysis,omitempty" json:"analysis,omitempty"`
}

// Answered reports whether the slot holds a non-blank response.
func (q QuestionSlot) Answered() bool {
	return strings.TrimSpace(q.UserResponse) != ""
}

type AudioEmotion struct {
	Dominant       string             `bson:"dominant" json:"dominant"`
	Confidence     float64            `bson:"confidence" json:"confidence"`
	AllScores      map[string]float64 `bson:"all_scores,omitempty" json:"all_scores,omitempty"`
	Chunks         []map[string]any   `bson:"chunks,omitempty" json:"chunks,omitempty"`
	AudioMetrics   map[string]any     `bson:"audio_metrics,omitempty" json:"audio_metrics,omitempty"`
	Interpretation string             `bson:"interpretation,omitempty" json:"interpretation,omitempty"`
}

type QuestionAnalysis struct {
	Objective   map[string]any `bson:"objective,omitempty" json:"objective,omitempty"`
	Semantic    map[string]any `bson:"semantic,omitempty" json:"semantic,omitempty"`
	LLMFeedback LLMFeedback    `bson:"llm_feedback" json:"llm_feedback"`
}

type LLMFeedback struct {
	Strengths       []string `bson:"strengths" json:"strengths"`
	Weaknesses      []string `bson:"weaknesses" json:"weaknesses"`
	ImprovementTips []string `bson:"improvement_tips" json:"improvement_tips"`
}

type OverallAnalysis struct {
	Strengths          []string `bson:"strengths" json:"strengths"`
	Weaknesses         []string `bson:"weaknesses" json:"weaknesses"`
	ImprovementTips    []string `bson:"improvement_tips" json:"improvement_tips"`
	InterviewCoherence float64  `bson:"interview_coherence" json:"interview_coherence"`
	Recommendation     string   `bson:"recommendation" json:"recommendation"`
}

type AIAnalysisMeta struct {
	Processed        bool      `bson:"processed" json:"processed"`
	ProcessingTimeMS int64     `bson:"processing_time_ms" json:"processing_time_ms"`
	AIServiceVersion string    `bson:"ai_service_version,omitempty" json:"ai_service_version,omitempty"`
	ErrorMessage     string    `bson:"error_message,omitempty" json:"error_message,omitempty"`
	ProcessedAt      time.Time `bson:"processed_at" json:"processed_at"`
}
