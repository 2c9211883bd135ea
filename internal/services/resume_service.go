package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/careerpilot/internal/models"
	pgrepo "github.com/yoockh/careerpilot/internal/repositories/postgres"
	"github.com/yoockh/careerpilot/internal/utils"
)

type ResumeService interface {
	Create(ctx context.Context, userID, title, content string) (*models.Resume, error)
	Get(ctx context.Context, userID, resumeID string) (*models.Resume, error)
}

type resumeService struct {
	resumes pgrepo.ResumeRepository
}

func NewResumeService(resumes pgrepo.ResumeRepository) ResumeService {
	return &resumeService{resumes: resumes}
}

func (s *resumeService) Create(ctx context.Context, userID, title, content string) (*models.Resume, error) {
	const op = "ResumeService.Create"

	content = strings.TrimSpace(content)
	if userID == "" || content == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "content is required", nil)
	}
	if strings.TrimSpace(title) == "" {
		title = "Resume"
	}

	now := time.Now().UTC()
	r := &models.Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.resumes.Insert(ctx, r); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create resume", err)
	}
	return r, nil
}

func (s *resumeService) Get(ctx context.Context, userID, resumeID string) (*models.Resume, error) {
	const op = "ResumeService.Get"

	if userID == "" || resumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	r, err := s.resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get resume", err)
	}
	return r, nil
}
