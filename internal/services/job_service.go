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

type JobInput struct {
	Title       string           `json:"title"`
	Company     string           `json:"company"`
	Description string           `json:"description"`
	URL         string           `json:"url"`
	Location    string           `json:"location"`
	Status      models.JobStatus `json:"status"`
}

// JobPatch holds optional field updates; nil fields are left unchanged.
type JobPatch struct {
	Title       *string           `json:"title"`
	Company     *string           `json:"company"`
	Description *string           `json:"description"`
	URL         *string           `json:"url"`
	Location    *string           `json:"location"`
	Status      *models.JobStatus `json:"status"`
}

type JobService interface {
	Create(ctx context.Context, userID string, in JobInput) (*models.Job, error)
	Get(ctx context.Context, userID, jobID string) (*models.Job, error)
	List(ctx context.Context, userID string, status models.JobStatus, limit int) ([]models.Job, error)
	Update(ctx context.Context, userID, jobID string, p JobPatch) (*models.Job, error)
}

type jobService struct {
	jobs pgrepo.JobRepository
}

func NewJobService(jobs pgrepo.JobRepository) JobService {
	return &jobService{jobs: jobs}
}

func (s *jobService) Create(ctx context.Context, userID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Create"

	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	if userID == "" || in.Title == "" || in.Company == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title and company are required", nil)
	}
	if in.Status == "" {
		in.Status = models.JobSaved
	}
	if !in.Status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid status", nil)
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Company:     in.Company,
		Description: in.Description,
		URL:         in.URL,
		Location:    in.Location,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}
	return job, nil
}

func (s *jobService) Get(ctx context.Context, userID, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	if userID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	job, err := s.jobs.GetByID(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return job, nil
}

func (s *jobService) List(ctx context.Context, userID string, status models.JobStatus, limit int) ([]models.Job, error) {
	const op = "JobService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if status != "" && !status.Valid() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid status", nil)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out, err := s.jobs.ListByUser(ctx, userID, status, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return out, nil
}

func (s *jobService) Update(ctx context.Context, userID, jobID string, p JobPatch) (*models.Job, error) {
	const op = "JobService.Update"

	job, err := s.Get(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "title cannot be empty", nil)
		}
		job.Title = strings.TrimSpace(*p.Title)
	}
	if p.Company != nil {
		if strings.TrimSpace(*p.Company) == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "company cannot be empty", nil)
		}
		job.Company = strings.TrimSpace(*p.Company)
	}
	if p.Description != nil {
		job.Description = *p.Description
	}
	if p.URL != nil {
		job.URL = *p.URL
	}
	if p.Location != nil {
		job.Location = *p.Location
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, utils.E(utils.CodeInvalidArgument, op, "invalid status", nil)
		}
		job.Status = *p.Status
	}
	job.UpdatedAt = time.Now().UTC()

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}
	return job, nil
}
