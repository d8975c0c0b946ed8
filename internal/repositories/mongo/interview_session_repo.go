package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nexhire/backend/internal/models"
	"github.com/nexhire/backend/internal/utils"
)

type InterviewSessionRepository interface {
	Create(ctx context.Context, s *models.InterviewSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error)
	UpdateSlotResponse(ctx context.Context, sessionID string, index int, response string, timeSpent float64, emo *models.AudioEmotion) error
	SetStatus(ctx context.Context, sessionID, status string) error
	Complete(ctx context.Context, s *models.InterviewSession) error
	ListForReview(ctx context.Context, limit int64) ([]models.InterviewSession, error)
	CountByUserAndStatus(ctx context.Context, userID, status string) (int64, error)
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewInterviewSessionRepo(db *mongo.Database) InterviewSessionRepository {
	return &sessionRepo{col: db.Collection("interview_sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewSession, error) {
	var s models.InterviewSession
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

// UpdateSlotResponse writes one slot in place with a positional $set, so
// concurrent submissions to different indices never clobber each other.
func (r *sessionRepo) UpdateSlotResponse(ctx context.Context, sessionID string, index int, response string, timeSpent float64, emo *models.AudioEmotion) error {
	set := bson.M{
		fmt.Sprintf("questions.%d.user_response", index): response,
		fmt.Sprintf("questions.%d.time_spent", index):    timeSpent,
	}
	if emo != nil {
		set[fmt.Sprintf("questions.%d.audio_emotion", index)] = emo
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"session_id": sessionID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) SetStatus(ctx context.Context, sessionID, status string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"status": status}},
	)
	return err
}

// Complete persists every completion field in one write.
func (r *sessionRepo) Complete(ctx context.Context, s *models.InterviewSession) error {
	set := bson.M{
		"status":       s.Status,
		"completed_at": s.CompletedAt,
		"questions":    s.Questions,
		"ai_analysis":  s.AIAnalysis,
	}
	if s.OverallScore != nil {
		set["overall_score"] = *s.OverallScore
	}
	if s.OverallAnalysis != nil {
		set["overall_analysis"] = s.OverallAnalysis
	}
	if len(s.Feedback) > 0 {
		set["feedback"] = s.Feedback
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"session_id": s.SessionID}, bson.M{"$set": set})
	return err
}

// ListForReview returns completed and still-processing sessions, newest first.
func (r *sessionRepo) ListForReview(ctx context.Context, limit int64) ([]models.InterviewSession, error) {
	if limit <= 0 {
		limit = 200
	}

	cur, err := r.col.Find(ctx,
		bson.M{"status": bson.M{"$in": []string{models.SessionCompleted, models.SessionAIProcessing}}},
		options.Find().
			SetSort(bson.D{{Key: "completed_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewSession
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) CountByUserAndStatus(ctx context.Context, userID, status string) (int64, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}
	return r.col.CountDocuments(ctx, filter)
}
