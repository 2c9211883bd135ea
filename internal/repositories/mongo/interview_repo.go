package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type InterviewRepository interface {
	Create(ctx context.Context, s *models.InterviewLog) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewLog, error)
	UpdateProgress(ctx context.Context, sessionID, phase string, askedCount int) error
	End(ctx context.Context, sessionID string, endedAt time.Time, durationSeconds int64) error
}

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepository {
	return &interviewRepo{col: db.Collection("interview_sessions")}
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewLog) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *interviewRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewLog, error) {
	var s models.InterviewLog
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *interviewRepo) UpdateProgress(ctx context.Context, sessionID, phase string, askedCount int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"phase":       phase,
			"asked_count": askedCount,
		}},
	)
	return err
}

func (r *interviewRepo) End(ctx context.Context, sessionID string, endedAt time.Time, durationSeconds int64) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{
			"status":           "ended",
			"ended_at":         endedAt.UTC(),
			"duration_seconds": durationSeconds,
		}},
	)
	return err
}
