package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewLog records a started mock interview. It is history only: a
// session that drops cannot be resumed from it.
type InterviewLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`
	JobID     string             `bson:"job_id" json:"job_id"`
	ResumeID  string             `bson:"resume_id,omitempty" json:"resume_id,omitempty"`

	InterviewType   string   `bson:"interview_type" json:"interview_type"` // technical|behavioral|mixed
	InterviewerName string   `bson:"interviewer_name" json:"interviewer_name"`
	CandidateName   string   `bson:"candidate_name,omitempty" json:"candidate_name,omitempty"`
	Status          string   `bson:"status" json:"status"` // active|ended
	Phase           string   `bson:"phase,omitempty" json:"phase,omitempty"`
	Questions       []string `bson:"questions" json:"questions"`
	AskedCount      int      `bson:"asked_count" json:"asked_count"`

	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	EndedAt         *time.Time `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
	DurationSeconds int64      `bson:"duration_seconds" json:"duration_seconds"`
}

// InterviewResponse is one chunk of a candidate answer.
type InterviewResponse struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID     string             `bson:"session_id" json:"session_id"`
	QuestionIndex int                `bson:"question_index" json:"question_index"`
	ChunkIndex    int64              `bson:"chunk_index" json:"chunk_index"`

	AudioURL    *string `bson:"audio_url,omitempty" json:"audio_url,omitempty"`
	AudioBase64 *string `bson:"audio_base64,omitempty" json:"audio_base64,omitempty"`

	Text          string  `bson:"text,omitempty" json:"text,omitempty"`
	STTStatus     string  `bson:"stt_status" json:"stt_status"` // pending|processing|done|failed|skipped
	STTConfidence float64 `bson:"stt_confidence,omitempty" json:"stt_confidence,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
