package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/prompts"
	"github.com/yoockh/careerpilot/internal/providers/llm"
	pgrepo "github.com/yoockh/careerpilot/internal/repositories/postgres"
	"github.com/yoockh/careerpilot/internal/utils"
)

type AssistRequest struct {
	JobID         string `json:"job_id"`
	ResumeID      string `json:"resume_id"`
	CandidateName string `json:"candidate_name"`
}

// AssistResult carries generated text. Fallback is set when the text came
// from a template because the model call failed.
type AssistResult struct {
	Content  string `json:"content"`
	Fallback bool   `json:"fallback"`
	Note     string `json:"note,omitempty"`
}

type AssistService interface {
	CoverLetter(ctx context.Context, userID string, req AssistRequest) (*AssistResult, error)
	ResumeSuggestions(ctx context.Context, userID string, req AssistRequest) (*AssistResult, error)
}

type assistService struct {
	jobs    pgrepo.JobRepository
	resumes pgrepo.ResumeRepository
	prompts *prompts.Resolver
	llm     llm.Provider
	log     logrus.FieldLogger
	timeout time.Duration
}

func NewAssistService(jobs pgrepo.JobRepository, resumes pgrepo.ResumeRepository, resolver *prompts.Resolver, provider llm.Provider, log logrus.FieldLogger, timeout time.Duration) AssistService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &assistService{jobs: jobs, resumes: resumes, prompts: resolver, llm: provider, log: log, timeout: timeout}
}

func (s *assistService) CoverLetter(ctx context.Context, userID string, req AssistRequest) (*AssistResult, error) {
	const op = "AssistService.CoverLetter"
	return s.run(ctx, op, userID, req, false,
		prompts.NameCoverLetter, prompts.CoverLetterTemplate,
		prompts.NameCoverLetterFallback, prompts.CoverLetterFallbackTemplate)
}

func (s *assistService) ResumeSuggestions(ctx context.Context, userID string, req AssistRequest) (*AssistResult, error) {
	const op = "AssistService.ResumeSuggestions"
	return s.run(ctx, op, userID, req, true,
		prompts.NameResumeOptimization, prompts.ResumeOptimizationTemplate,
		prompts.NameResumeOptimizationFallback, prompts.ResumeOptimizationFallbackTemplate)
}

func (s *assistService) run(ctx context.Context, op, userID string, req AssistRequest, needResume bool, name, literal, fallbackName, fallbackLiteral string) (*AssistResult, error) {
	if userID == "" || req.JobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	if needResume && req.ResumeID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resume_id is required", nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeInternal, op, "AI provider is not configured", llm.ErrNotConfigured)
	}

	job, resume, err := loadJobAndResume(ctx, s.jobs, s.resumes, op, userID, req.JobID, req.ResumeID)
	if err != nil {
		return nil, err
	}

	candidate := req.CandidateName
	if candidate == "" {
		candidate = "Your Name"
	}
	vars := map[string]string{
		"jobTitle":       job.Title,
		"company":        job.Company,
		"jobDescription": orPlaceholder(job.Description, "(no description provided)"),
		"resume":         orPlaceholder(resumeContent(resume), "(no resume provided)"),
		"candidateName":  candidate,
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.llm.Generate(cctx, s.prompts.Render(ctx, name, vars, literal))
	if err == nil {
		return &AssistResult{Content: out}, nil
	}
	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, utils.E(utils.CodeInternal, op, "AI provider is not configured", err)
	}

	note := "The AI service is temporarily unavailable, so a template was used instead. Please review and personalize it."
	if errors.Is(err, context.DeadlineExceeded) {
		note = "The AI service took too long to respond, so a template was used instead. Please review and personalize it."
	}
	s.log.WithError(err).WithFields(logrus.Fields{"op": op, "job_id": req.JobID}).Warn("assist generation failed, using fallback")

	return &AssistResult{
		Content:  s.prompts.Render(ctx, fallbackName, vars, fallbackLiteral),
		Fallback: true,
		Note:     note,
	}, nil
}
