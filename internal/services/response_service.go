package services

import (
	"context"
	"time"

	"github.com/yoockh/careerpilot/internal/models"
	mongorepo "github.com/yoockh/careerpilot/internal/repositories/mongo"
	"github.com/yoockh/careerpilot/internal/utils"
)

const (
	STTPending    = "pending"
	STTProcessing = "processing"
	STTDone       = "done"
	STTFailed     = "failed"
	STTSkipped    = "skipped"
)

// ResponseService buffers candidate answer chunks until the worker pool has
// transcribed them. Rows expire after the configured TTL.
type ResponseService interface {
	InsertChunk(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, audioBase64 *string, text string) (*models.InterviewResponse, error)
	MarkAudioURL(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, url string) error
	MarkSTT(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, text string, confidence float64, status string) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.InterviewResponse, error)
}

type responseService struct {
	responses mongorepo.ResponseRepository
	ttl       time.Duration
}

func NewResponseService(responses mongorepo.ResponseRepository, ttl time.Duration) ResponseService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &responseService{responses: responses, ttl: ttl}
}

func (s *responseService) InsertChunk(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, audioBase64 *string, text string) (*models.InterviewResponse, error) {
	const op = "ResponseService.InsertChunk"

	if sessionID == "" || questionIndex < 0 || chunkIndex < 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required and indexes must be >= 0", nil)
	}
	if audioBase64 == nil && text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio or text is required", nil)
	}

	status := STTPending
	if audioBase64 == nil {
		status = STTSkipped
	}

	now := time.Now().UTC()
	row := &models.InterviewResponse{
		SessionID:     sessionID,
		QuestionIndex: questionIndex,
		ChunkIndex:    chunkIndex,
		AudioBase64:   audioBase64,
		Text:          text,
		STTStatus:     status,
		Timestamp:     now,
		ExpiresAt:     now.Add(s.ttl),
	}
	if err := s.responses.InsertChunk(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to insert response chunk", err)
	}
	return row, nil
}

func (s *responseService) MarkAudioURL(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, url string) error {
	const op = "ResponseService.MarkAudioURL"

	if sessionID == "" || url == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id and url are required", nil)
	}
	if err := s.responses.UpdateAudioURL(ctx, sessionID, questionIndex, chunkIndex, url); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update audio url", err)
	}
	return nil
}

func (s *responseService) MarkSTT(ctx context.Context, sessionID string, questionIndex int, chunkIndex int64, text string, confidence float64, status string) error {
	const op = "ResponseService.MarkSTT"

	if sessionID == "" || status == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id and status are required", nil)
	}
	if err := s.responses.UpdateSTT(ctx, sessionID, questionIndex, chunkIndex, text, confidence, status); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update stt fields", err)
	}
	return nil
}

func (s *responseService) ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.InterviewResponse, error) {
	const op = "ResponseService.ListBySession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	out, err := s.responses.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list responses", err)
	}
	return out, nil
}
