package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/services"
	"github.com/yoockh/careerpilot/internal/utils"
	"github.com/yoockh/careerpilot/internal/workers"
)

func init() { gin.SetMode(gin.TestMode) }

const testUser = "user-1"

func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
			c.Set("user_name", "Jordan")
		}
		c.Next()
	}
}

type fakeQuestionSvc struct {
	generated *models.Questions
	genErr    error
	saveErr   error
	existing  *models.Questions
	saved     []models.Questions
}

func (f *fakeQuestionSvc) Generate(_ context.Context, _, _, _ string, existing *models.Questions) (*models.Questions, error) {
	f.existing = existing
	return f.generated, f.genErr
}

func (f *fakeQuestionSvc) Save(_ context.Context, userID, jobID string, set models.Questions, resumeID string) (*models.QuestionSet, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saved = append(f.saved, set)
	return &models.QuestionSet{UserID: userID, JobID: jobID, ResumeID: resumeID, Technical: set.Technical, Behavioral: set.Behavioral, UpdatedAt: time.Now()}, nil
}

func (f *fakeQuestionSvc) Get(_ context.Context, _, jobID, _ string) (*models.QuestionSet, error) {
	if len(f.saved) == 0 {
		return nil, utils.E(utils.CodeNotFound, "fake", "questions not found", utils.ErrNotFound)
	}
	last := f.saved[len(f.saved)-1]
	return &models.QuestionSet{JobID: jobID, Technical: last.Technical, Behavioral: last.Behavioral}, nil
}

type fakeJobSvc struct {
	jobs map[string]*models.Job
}

func (f *fakeJobSvc) Create(_ context.Context, userID string, in services.JobInput) (*models.Job, error) {
	if in.Title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, "fake", "title is required", nil)
	}
	j := &models.Job{ID: "job-new", UserID: userID, Title: in.Title, Company: in.Company, Status: models.JobSaved}
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeJobSvc) Get(_ context.Context, userID, jobID string) (*models.Job, error) {
	j, ok := f.jobs[jobID]
	if !ok || j.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, "fake", "job not found", utils.ErrNotFound)
	}
	return j, nil
}

func (f *fakeJobSvc) List(_ context.Context, userID string, _ models.JobStatus, _ int) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobSvc) Update(ctx context.Context, userID, jobID string, _ services.JobPatch) (*models.Job, error) {
	return f.Get(ctx, userID, jobID)
}

type fakeInterviewSvc struct {
	mu       sync.Mutex
	log      *models.InterviewLog
	ended    int
	progress []string
}

func (f *fakeInterviewSvc) Start(_ context.Context, userID string, in services.StartInterviewInput) (*models.InterviewLog, error) {
	f.log = &models.InterviewLog{SessionID: "sess-new", UserID: userID, JobID: in.JobID, CandidateName: in.CandidateName, Status: services.InterviewActive}
	return f.log, nil
}

func (f *fakeInterviewSvc) Get(_ context.Context, userID, sessionID string) (*models.InterviewLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.log == nil || f.log.SessionID != sessionID || f.log.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, "fake", "interview not found", utils.ErrNotFound)
	}
	cp := *f.log
	return &cp, nil
}

func (f *fakeInterviewSvc) End(ctx context.Context, userID, sessionID string) (*models.InterviewLog, error) {
	f.mu.Lock()
	f.ended++
	if f.log != nil {
		f.log.Status = services.InterviewEnded
	}
	f.mu.Unlock()
	return f.Get(ctx, userID, sessionID)
}

func (f *fakeInterviewSvc) UpdateProgress(_ context.Context, _ string, phase string, _ int) error {
	f.mu.Lock()
	f.progress = append(f.progress, phase)
	f.mu.Unlock()
	return nil
}

func (f *fakeInterviewSvc) endedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ended
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []workers.ResponseJob
}

func (q *fakeQueue) Enqueue(_ context.Context, j workers.ResponseJob) error {
	q.mu.Lock()
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()
	return nil
}

func (q *fakeQueue) snapshot() []workers.ResponseJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]workers.ResponseJob(nil), q.jobs...)
}

type fakePromptStore struct {
	saved []*models.PromptTemplate
	err   error
}

func (s *fakePromptStore) Save(_ context.Context, t *models.PromptTemplate) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, t)
	return nil
}
