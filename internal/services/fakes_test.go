package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/prompts"
	"github.com/yoockh/careerpilot/internal/utils"
)

type fakeJobs struct {
	mu   sync.Mutex
	rows map[string]models.Job
	err  error
}

func newFakeJobs(jobs ...models.Job) *fakeJobs {
	f := &fakeJobs{rows: map[string]models.Job{}}
	for _, j := range jobs {
		f.rows[j.ID] = j
	}
	return f
}

func (f *fakeJobs) Insert(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows[j.ID] = *j
	return nil
}

func (f *fakeJobs) GetByID(_ context.Context, userID, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	j, ok := f.rows[id]
	if !ok || j.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return &j, nil
}

func (f *fakeJobs) ListByUser(_ context.Context, userID string, status models.JobStatus, limit int) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Job
	for _, j := range f.rows {
		if j.UserID == userID && (status == "" || j.Status == status) {
			out = append(out, j)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeJobs) Update(_ context.Context, j *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[j.ID] = *j
	return nil
}

type fakeResumes struct {
	rows map[string]models.Resume
}

func newFakeResumes(rs ...models.Resume) *fakeResumes {
	f := &fakeResumes{rows: map[string]models.Resume{}}
	for _, r := range rs {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeResumes) Insert(_ context.Context, r *models.Resume) error {
	f.rows[r.ID] = *r
	return nil
}

func (f *fakeResumes) GetByID(_ context.Context, userID, id string) (*models.Resume, error) {
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return &r, nil
}

type fakeQuestionRepo struct {
	rows    map[string]models.QuestionSet
	err     error
	gets    int
	upserts int
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{rows: map[string]models.QuestionSet{}}
}

func (f *fakeQuestionRepo) Get(_ context.Context, userID, jobID, resumeID string) (*models.QuestionSet, error) {
	f.gets++
	s, ok := f.rows[jobID+"|"+resumeID]
	if !ok || s.UserID != userID {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (f *fakeQuestionRepo) Upsert(_ context.Context, s *models.QuestionSet) error {
	if f.err != nil {
		return f.err
	}
	f.upserts++
	f.rows[s.JobID+"|"+s.ResumeID] = *s
	return nil
}

type fakeInterviews struct {
	rows map[string]models.InterviewLog
}

func newFakeInterviews() *fakeInterviews {
	return &fakeInterviews{rows: map[string]models.InterviewLog{}}
}

func (f *fakeInterviews) Create(_ context.Context, s *models.InterviewLog) error {
	f.rows[s.SessionID] = *s
	return nil
}

func (f *fakeInterviews) GetBySessionID(_ context.Context, id string) (*models.InterviewLog, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (f *fakeInterviews) UpdateProgress(_ context.Context, id, phase string, asked int) error {
	s := f.rows[id]
	s.Phase = phase
	s.AskedCount = asked
	f.rows[id] = s
	return nil
}

func (f *fakeInterviews) End(_ context.Context, id string, endedAt time.Time, dur int64) error {
	s := f.rows[id]
	s.Status = InterviewEnded
	s.EndedAt = &endedAt
	s.DurationSeconds = dur
	f.rows[id] = s
	return nil
}

type fakeResponses struct {
	rows []models.InterviewResponse
}

func (f *fakeResponses) InsertChunk(_ context.Context, r *models.InterviewResponse) error {
	f.rows = append(f.rows, *r)
	return nil
}

func (f *fakeResponses) find(sessionID string, q int, c int64) *models.InterviewResponse {
	for i := range f.rows {
		r := &f.rows[i]
		if r.SessionID == sessionID && r.QuestionIndex == q && r.ChunkIndex == c {
			return r
		}
	}
	return nil
}

func (f *fakeResponses) UpdateAudioURL(_ context.Context, sessionID string, q int, c int64, url string) error {
	if r := f.find(sessionID, q, c); r != nil {
		r.AudioURL = &url
	}
	return nil
}

func (f *fakeResponses) UpdateSTT(_ context.Context, sessionID string, q int, c int64, text string, conf float64, status string) error {
	if r := f.find(sessionID, q, c); r != nil {
		r.Text, r.STTConfidence, r.STTStatus = text, conf, status
	}
	return nil
}

func (f *fakeResponses) ListBySession(_ context.Context, sessionID string, _ int64) ([]models.InterviewResponse, error) {
	var out []models.InterviewResponse
	for _, r := range f.rows {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeLLM struct {
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeLLM) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 1)
	errs := make(chan error, 1)
	s, err := f.Generate(ctx, prompt)
	if err != nil {
		errs <- err
	} else {
		out <- s
	}
	close(out)
	close(errs)
	return out, errs
}

func (f *fakeLLM) Close() error { return nil }

func quietLog() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func builtinResolver() *prompts.Resolver {
	return prompts.NewResolver(quietLog(), prompts.NewStaticSource(prompts.Builtin()))
}

const testUser = "user-1"

var testJob = models.Job{
	ID: "job-1", UserID: testUser, Title: "Software Engineer", Company: "Tech Corp",
	Description: "Build Go services", Status: models.JobSaved,
}

var testResume = models.Resume{ID: "res-1", UserID: testUser, Title: "CV", Content: "5 years of Go"}
