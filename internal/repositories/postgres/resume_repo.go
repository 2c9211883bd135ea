package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
	"gorm.io/gorm"
)

type ResumeRepository interface {
	Insert(ctx context.Context, r *models.Resume) error
	GetByID(ctx context.Context, userID, id string) (*models.Resume, error)
}

type resumeRepo struct {
	db *gorm.DB
}

func NewResumeRepo(db *gorm.DB) ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Insert(ctx context.Context, row *models.Resume) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *resumeRepo) GetByID(ctx context.Context, userID, id string) (*models.Resume, error) {
	var row models.Resume
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}
