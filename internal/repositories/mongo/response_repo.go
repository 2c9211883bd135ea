package mongo

import (
	"context"
	"time"

	"github.com/yoockh/careerpilot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResponseRepository interface {
	InsertChunk(ctx context.Context, r *models.InterviewResponse) error
	UpdateAudioURL(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, url string) error
	UpdateSTT(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, text string, confidence float64, status string) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.InterviewResponse, error)
}

type responseRepo struct {
	col *mongo.Collection
}

func NewResponseRepo(db *mongo.Database) ResponseRepository {
	return &responseRepo{col: db.Collection("interview_responses")}
}

func chunkFilter(sessionID string, questionIndex int, chunkIndex int64) bson.M {
	return bson.M{"session_id": sessionID, "question_index": questionIndex, "chunk_index": chunkIndex}
}

func (r *responseRepo) InsertChunk(ctx context.Context, row *models.InterviewResponse) error {
	if row.Timestamp.IsZero() {
		row.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, row)
	return err
}

func (r *responseRepo) UpdateAudioURL(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, url string) error {
	_, err := r.col.UpdateOne(ctx,
		chunkFilter(sessionID, questionIndex, chunkIndex),
		bson.M{
			"$set":   bson.M{"audio_url": url},
			"$unset": bson.M{"audio_base64": ""},
		},
	)
	return err
}

func (r *responseRepo) UpdateSTT(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, text string, confidence float64, status string) error {
	_, err := r.col.UpdateOne(ctx,
		chunkFilter(sessionID, questionIndex, chunkIndex),
		bson.M{"$set": bson.M{
			"text":           text,
			"stt_confidence": confidence,
			"stt_status":     status,
		}},
	)
	return err
}

func (r *responseRepo) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.InterviewResponse, error) {
	if limit <= 0 {
		limit = 200
	}

	cur, err := r.col.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().
			SetSort(bson.D{{Key: "question_index", Value: 1}, {Key: "chunk_index", Value: 1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewResponse
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
