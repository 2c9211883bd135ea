package workers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultStream = "interview:responses"
	DefaultGroup  = "response-workers"
)

func StatusChannel(sessionID string) string   { return "interview:" + sessionID + ":status" }
func ResponseChannel(sessionID string) string { return "interview:" + sessionID + ":response" }

// ResponseJob is one answer chunk queued for transcription.
type ResponseJob struct {
	SessionID     string
	QuestionIndex int
	ChunkIndex    int64
	AudioBase64   string
	Language      string
	IsFinal       bool
}

func (j ResponseJob) values() map[string]any {
	v := map[string]any{
		"session_id":     j.SessionID,
		"question_index": strconv.Itoa(j.QuestionIndex),
		"chunk_index":    strconv.FormatInt(j.ChunkIndex, 10),
		"is_final":       strconv.FormatBool(j.IsFinal),
		"ts_unix":        strconv.FormatInt(time.Now().UTC().Unix(), 10),
	}
	if j.AudioBase64 != "" {
		v["audio_base64"] = j.AudioBase64
	}
	if j.Language != "" {
		v["language"] = j.Language
	}
	return v
}

func parseJob(values map[string]any) (ResponseJob, error) {
	get := func(k string) string {
		s, _ := values[k].(string)
		return s
	}

	j := ResponseJob{
		SessionID:   get("session_id"),
		AudioBase64: get("audio_base64"),
		Language:    get("language"),
	}
	if j.SessionID == "" {
		return j, errors.New("missing session_id")
	}
	var err error
	if j.QuestionIndex, err = strconv.Atoi(get("question_index")); err != nil {
		return j, errors.New("invalid question_index")
	}
	if j.ChunkIndex, err = strconv.ParseInt(get("chunk_index"), 10, 64); err != nil {
		return j, errors.New("invalid chunk_index")
	}
	j.IsFinal, _ = strconv.ParseBool(get("is_final"))
	return j, nil
}

// Queue appends jobs to the Redis stream read by ResponseWorkerPool.
type Queue struct {
	rdb    *redis.Client
	stream string
}

func NewQueue(rdb *redis.Client, stream string) *Queue {
	if stream == "" {
		stream = DefaultStream
	}
	return &Queue{rdb: rdb, stream: stream}
}

func (q *Queue) Enqueue(ctx context.Context, j ResponseJob) error {
	return q.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: 10000,
		Approx: true,
		Values: j.values(),
	}).Err()
}
