package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository interface {
	Get(ctx context.Context, userID, jobID, resumeID string) (*models.QuestionSet, error)
	Upsert(ctx context.Context, s *models.QuestionSet) error
}

type questionRepo struct {
	db *gorm.DB
}

func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) Get(ctx context.Context, userID, jobID, resumeID string) (*models.QuestionSet, error) {
	var s models.QuestionSet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ? AND resume_id = ?", userID, jobID, resumeID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &s, err
}

func (r *questionRepo) Upsert(ctx context.Context, s *models.QuestionSet) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}, {Name: "resume_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"technical", "behavioral", "updated_at"}),
		}).
		Create(s).Error
}
