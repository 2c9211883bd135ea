package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/careerpilot/internal/models"
	pgrepo "github.com/yoockh/careerpilot/internal/repositories/postgres"
	mongorepo "github.com/yoockh/careerpilot/internal/repositories/mongo"
	"github.com/yoockh/careerpilot/internal/utils"
)

const (
	InterviewActive = "active"
	InterviewEnded  = "ended"

	InterviewTechnical  = "technical"
	InterviewBehavioral = "behavioral"
	InterviewMixed      = "mixed"

	defaultInterviewer = "Alex"
)

type StartInterviewInput struct {
	JobID           string   `json:"job_id"`
	ResumeID        string   `json:"resume_id"`
	InterviewType   string   `json:"interview_type"`
	InterviewerName string   `json:"interviewer_name"`
	CandidateName   string   `json:"candidate_name"`
	Questions       []string `json:"questions"`
}

type InterviewService interface {
	Start(ctx context.Context, userID string, in StartInterviewInput) (*models.InterviewLog, error)
	Get(ctx context.Context, userID, sessionID string) (*models.InterviewLog, error)
	End(ctx context.Context, userID, sessionID string) (*models.InterviewLog, error)
	UpdateProgress(ctx context.Context, sessionID, phase string, askedCount int) error
}

type interviewService struct {
	sessions  mongorepo.InterviewRepository
	jobs      pgrepo.JobRepository
	questions QuestionService
}

func NewInterviewService(sessions mongorepo.InterviewRepository, jobs pgrepo.JobRepository, questions QuestionService) InterviewService {
	return &interviewService{sessions: sessions, jobs: jobs, questions: questions}
}

// Start records a new session. Questions come from the request or, when
// omitted, from the saved set for the job, filtered by interview type with
// technical questions first.
func (s *interviewService) Start(ctx context.Context, userID string, in StartInterviewInput) (*models.InterviewLog, error) {
	const op = "InterviewService.Start"

	if userID == "" || in.JobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	typ := strings.ToLower(strings.TrimSpace(in.InterviewType))
	if typ == "" {
		typ = InterviewMixed
	}
	if typ != InterviewTechnical && typ != InterviewBehavioral && typ != InterviewMixed {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_type must be technical, behavioral or mixed", nil)
	}

	if _, err := s.jobs.GetByID(ctx, userID, in.JobID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	questions := compact(in.Questions)
	if len(questions) == 0 {
		set, err := s.questions.Get(ctx, userID, in.JobID, in.ResumeID)
		if err != nil {
			if utils.IsCode(err, utils.CodeNotFound) {
				return nil, utils.E(utils.CodeInvalidArgument, op, "no questions saved for this job, generate questions first", err)
			}
			return nil, err
		}
		questions = pickQuestions(set.Questions(), typ)
	}
	for i, q := range questions {
		questions[i] = CleanQuestion(q)
	}

	interviewer := strings.TrimSpace(in.InterviewerName)
	if interviewer == "" {
		interviewer = defaultInterviewer
	}

	iv := &models.InterviewLog{
		SessionID:       uuid.NewString(),
		UserID:          userID,
		JobID:           in.JobID,
		ResumeID:        in.ResumeID,
		InterviewType:   typ,
		InterviewerName: interviewer,
		CandidateName:   strings.TrimSpace(in.CandidateName),
		Status:          InterviewActive,
		Phase:           "introduction",
		Questions:       questions,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}
	return iv, nil
}

func pickQuestions(q models.Questions, typ string) []string {
	switch typ {
	case InterviewTechnical:
		return append([]string{}, q.Technical...)
	case InterviewBehavioral:
		return append([]string{}, q.Behavioral...)
	default:
		return q.All()
	}
}

func (s *interviewService) Get(ctx context.Context, userID, sessionID string) (*models.InterviewLog, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	out, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get interview", err)
	}
	if out.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "interview not found", nil)
	}
	return out, nil
}

func (s *interviewService) End(ctx context.Context, userID, sessionID string) (*models.InterviewLog, error) {
	const op = "InterviewService.End"

	iv, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if iv.Status == InterviewEnded {
		return iv, nil
	}

	now := time.Now().UTC()
	dur := int64(now.Sub(iv.CreatedAt).Seconds())
	if dur < 0 {
		dur = 0
	}

	if err := s.sessions.End(ctx, sessionID, now, dur); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end interview", err)
	}

	iv.Status = InterviewEnded
	iv.EndedAt = &now
	iv.DurationSeconds = dur
	return iv, nil
}

func (s *interviewService) UpdateProgress(ctx context.Context, sessionID, phase string, askedCount int) error {
	const op = "InterviewService.UpdateProgress"

	if sessionID == "" || phase == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id and phase are required", nil)
	}
	if err := s.sessions.UpdateProgress(ctx, sessionID, phase, askedCount); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update progress", err)
	}
	return nil
}
