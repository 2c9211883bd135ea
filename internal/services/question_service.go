package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"github.com/yoockh/careerpilot/internal/cache"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/prompts"
	"github.com/yoockh/careerpilot/internal/providers/llm"
	pgrepo "github.com/yoockh/careerpilot/internal/repositories/postgres"
	"github.com/yoockh/careerpilot/internal/utils"
)

const questionSetTTL = 24 * time.Hour

const questionSchemaJSON = `{
  "type": "object",
  "required": ["technical", "behavioral"],
  "properties": {
    "technical":  {"type": "array", "items": {"type": "string"}},
    "behavioral": {"type": "array", "items": {"type": "string"}}
  }
}`

var questionSchema = mustSchema(questionSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

var numberPrefix = regexp.MustCompile(`^\d+\.\s+`)

// CleanQuestion strips a leading "<number>. " prefix for display.
func CleanQuestion(q string) string {
	return numberPrefix.ReplaceAllString(q, "")
}

type QuestionService interface {
	// Generate asks the model for a fresh set. existing, when non-empty, is
	// passed to the model as questions to avoid; the result is not checked
	// against it.
	Generate(ctx context.Context, userID, jobID, resumeID string, existing *models.Questions) (*models.Questions, error)
	Save(ctx context.Context, userID, jobID string, set models.Questions, resumeID string) (*models.QuestionSet, error)
	Get(ctx context.Context, userID, jobID, resumeID string) (*models.QuestionSet, error)
}

type QuestionOptions struct {
	Timeout         time.Duration
	TechnicalCount  int
	BehavioralCount int
}

type questionService struct {
	jobs      pgrepo.JobRepository
	resumes   pgrepo.ResumeRepository
	questions pgrepo.QuestionRepository
	cache     cache.Cache
	prompts   *prompts.Resolver
	llm       llm.Provider
	log       logrus.FieldLogger
	opts      QuestionOptions
}

func NewQuestionService(
	jobs pgrepo.JobRepository,
	resumes pgrepo.ResumeRepository,
	questions pgrepo.QuestionRepository,
	c cache.Cache,
	resolver *prompts.Resolver,
	provider llm.Provider,
	log logrus.FieldLogger,
	opts QuestionOptions,
) QuestionService {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.TechnicalCount <= 0 {
		opts.TechnicalCount = 5
	}
	if opts.BehavioralCount <= 0 {
		opts.BehavioralCount = 5
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &questionService{
		jobs: jobs, resumes: resumes, questions: questions,
		cache: c, prompts: resolver, llm: provider, log: log, opts: opts,
	}
}

func questionCacheKey(jobID, resumeID string) string {
	return cache.Key("questions", jobID, resumeID)
}

func (s *questionService) Generate(ctx context.Context, userID, jobID, resumeID string, existing *models.Questions) (*models.Questions, error) {
	const op = "QuestionService.Generate"

	if userID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeInternal, op, "AI provider is not configured", llm.ErrNotConfigured)
	}

	job, resume, err := loadJobAndResume(ctx, s.jobs, s.resumes, op, userID, jobID, resumeID)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"jobTitle":        job.Title,
		"company":         job.Company,
		"jobDescription":  orPlaceholder(job.Description, "(no description provided)"),
		"resume":          orPlaceholder(resumeContent(resume), "(no resume provided)"),
		"exclusions":      exclusionBlock(existing),
		"technicalCount":  strconv.Itoa(s.opts.TechnicalCount),
		"behavioralCount": strconv.Itoa(s.opts.BehavioralCount),
	}
	prompt := s.prompts.Render(ctx, prompts.NameQuestionGeneration, vars, prompts.QuestionGenerationTemplate)

	cctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.Generate(cctx, prompt)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"job_id":     jobID,
			"latency_ms": time.Since(start).Milliseconds(),
		}).Warn("question generation failed")
		return nil, upstreamError(op, "question generation", err)
	}

	qs, err := parseQuestions(raw)
	if err != nil {
		s.log.WithError(err).WithField("raw", utils.TruncateForLog(raw, 300)).Warn("unparseable question output")
		return nil, utils.E(utils.CodeUnavailable, op, "AI returned an invalid question set, please retry", err)
	}

	s.log.WithFields(logrus.Fields{
		"job_id":     jobID,
		"technical":  len(qs.Technical),
		"behavioral": len(qs.Behavioral),
		"latency_ms": time.Since(start).Milliseconds(),
	}).Info("questions generated")
	return qs, nil
}

func (s *questionService) Save(ctx context.Context, userID, jobID string, set models.Questions, resumeID string) (*models.QuestionSet, error) {
	const op = "QuestionService.Save"

	if userID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	if set.Empty() {
		return nil, utils.E(utils.CodeInvalidArgument, op, "questions are required", nil)
	}
	if _, _, err := loadJobAndResume(ctx, s.jobs, s.resumes, op, userID, jobID, resumeID); err != nil {
		return nil, err
	}

	row := &models.QuestionSet{
		ID:         uuid.NewString(),
		UserID:     userID,
		JobID:      jobID,
		ResumeID:   resumeID,
		Technical:  nonNil(set.Technical),
		Behavioral: nonNil(set.Behavioral),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.questions.Upsert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save questions", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, questionCacheKey(jobID, resumeID)); err != nil {
			s.log.WithError(err).Warn("question cache invalidation failed")
		}
	}
	return row, nil
}

func (s *questionService) Get(ctx context.Context, userID, jobID, resumeID string) (*models.QuestionSet, error) {
	const op = "QuestionService.Get"

	if userID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	key := questionCacheKey(jobID, resumeID)
	if s.cache != nil {
		var cached models.QuestionSet
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit && cached.UserID == userID {
			return &cached, nil
		}
	}

	row, err := s.questions.Get(ctx, userID, jobID, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no saved questions for this job", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get questions", err)
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, row, questionSetTTL)
	}
	return row, nil
}

// parseQuestions validates model output and returns technical questions
// before behavioral ones, each in model order.
func parseQuestions(raw string) (*models.Questions, error) {
	body := extractObject(utils.StripFences(raw))
	if body == "" {
		return nil, errors.New("no JSON object in response")
	}

	res, err := questionSchema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("schema: %s", strings.Join(msgs, "; "))
	}

	var q models.Questions
	if err := json.Unmarshal([]byte(body), &q); err != nil {
		return nil, err
	}
	return &models.Questions{
		Technical:  compact(q.Technical),
		Behavioral: compact(q.Behavioral),
	}, nil
}

func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, q := range in {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func exclusionBlock(existing *models.Questions) string {
	if existing == nil || existing.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nThe candidate has already practiced these questions. Do not repeat or closely paraphrase any of them:\n")
	for _, q := range existing.All() {
		b.WriteString("- ")
		b.WriteString(CleanQuestion(q))
		b.WriteString("\n")
	}
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func resumeContent(r *models.Resume) string {
	if r == nil {
		return ""
	}
	return r.Content
}

func loadJobAndResume(ctx context.Context, jobs pgrepo.JobRepository, resumes pgrepo.ResumeRepository, op, userID, jobID, resumeID string) (*models.Job, *models.Resume, error) {
	job, err := jobs.GetByID(ctx, userID, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if resumeID == "" {
		return job, nil, nil
	}
	resume, err := resumes.GetByID(ctx, userID, resumeID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, nil, utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load resume", err)
	}
	return job, resume, nil
}

// upstreamError classifies a provider failure.
func upstreamError(op, what string, err error) error {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return utils.E(utils.CodeInternal, op, "AI provider is not configured", err)
	case errors.Is(err, context.DeadlineExceeded):
		return utils.E(utils.CodeTimeout, op, what+" timed out, please retry", err)
	default:
		return utils.E(utils.CodeUnavailable, op, what+" is temporarily unavailable, please retry", err)
	}
}
