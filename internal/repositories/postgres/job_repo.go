package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Insert(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, userID, id string) (*models.Job, error)
	ListByUser(ctx context.Context, userID string, status models.JobStatus, limit int) ([]models.Job, error)
	Update(ctx context.Context, j *models.Job) error
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Insert(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, userID, id string) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) ListByUser(ctx context.Context, userID string, status models.JobStatus, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []models.Job
	err := q.Order("updated_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *jobRepo) Update(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND user_id = ?", j.ID, j.UserID).
		Updates(map[string]any{
			"title":       j.Title,
			"company":     j.Company,
			"description": j.Description,
			"url":         j.URL,
			"location":    j.Location,
			"status":      j.Status,
			"updated_at":  j.UpdatedAt,
		}).Error
}
