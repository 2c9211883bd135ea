package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromptRepository interface {
	GetByName(ctx context.Context, name string) (*models.PromptTemplate, error)
	ListByCategory(ctx context.Context, category string) ([]models.PromptTemplate, error)
	Upsert(ctx context.Context, p *models.PromptTemplate) error
}

type promptRepo struct {
	db *gorm.DB
}

func NewPromptRepo(db *gorm.DB) PromptRepository {
	return &promptRepo{db: db}
}

func (r *promptRepo) GetByName(ctx context.Context, name string) (*models.PromptTemplate, error) {
	var p models.PromptTemplate
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

// ListByCategory returns active templates; an empty category lists all.
func (r *promptRepo) ListByCategory(ctx context.Context, category string) ([]models.PromptTemplate, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var rows []models.PromptTemplate
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *promptRepo) Upsert(ctx context.Context, p *models.PromptTemplate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"category", "content", "variables", "is_active", "updated_at"}),
		}).
		Create(p).Error
}
