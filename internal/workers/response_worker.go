package workers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/providers/stt"
	"github.com/yoockh/careerpilot/internal/services"
	"github.com/yoockh/careerpilot/internal/storage"
)

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// ResponseWorkerPool consumes answer chunks from the Redis stream, stores
// the audio, transcribes it and publishes the transcript to the session's
// pub/sub channels.
type ResponseWorkerPool struct {
	Redis      *redis.Client
	Responses  services.ResponseService
	STT        stt.Provider
	Uploader   storage.Uploader
	NumWorkers int

	Logger *logrus.Logger

	Stream         string
	Group          string
	ConsumerPrefix string
	STTTimeout     time.Duration

	pub publisher
}

func (p *ResponseWorkerPool) defaults() {
	if p.Stream == "" {
		p.Stream = DefaultStream
	}
	if p.Group == "" {
		p.Group = DefaultGroup
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "c"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 3
	}
	if p.STTTimeout <= 0 {
		p.STTTimeout = 30 * time.Second
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}
	if p.pub == nil && p.Redis != nil {
		p.pub = p.Redis
	}
}

func (p *ResponseWorkerPool) Start(ctx context.Context) error {
	if p.Redis == nil || p.Responses == nil {
		return errors.New("ResponseWorkerPool missing dependency: Redis/Responses must be set")
	}
	p.defaults()

	if err := p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err(); err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	p.Logger.WithFields(logrus.Fields{"workers": p.NumWorkers, "stream": p.Stream}).Info("response workers started")
	return nil
}

func (p *ResponseWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			p.Logger.WithError(err).WithField("consumer", consumer).Warn("xreadgroup failed")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				job, err := parseJob(msg.Values)
				if err != nil {
					p.Logger.WithError(err).WithField("redis_id", msg.ID).Warn("dropping malformed job")
				} else {
					p.Process(ctx, job)
				}
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ResponseWorkerPool) status(ctx context.Context, j ResponseJob, status, message string) {
	b, _ := json.Marshal(map[string]any{
		"type":           "status",
		"status":         status,
		"message":        message,
		"question_index": j.QuestionIndex,
		"chunk_index":    j.ChunkIndex,
	})
	_ = p.pub.Publish(ctx, StatusChannel(j.SessionID), string(b)).Err()
}

// decodeAudio accepts raw base64 or a data URL.
func decodeAudio(s string) ([]byte, error) {
	if i := strings.Index(s, ","); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+1:]
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

// Process handles one job. Failures are recorded on the row and published
// as status; they are not retried.
func (p *ResponseWorkerPool) Process(ctx context.Context, j ResponseJob) {
	p.defaults()
	log := p.Logger.WithFields(logrus.Fields{
		"session_id":     j.SessionID,
		"question_index": j.QuestionIndex,
		"chunk_index":    j.ChunkIndex,
	})

	if j.AudioBase64 == "" {
		return
	}
	audio, err := decodeAudio(j.AudioBase64)
	if err != nil || len(audio) == 0 {
		log.WithError(err).Warn("invalid audio payload")
		_ = p.Responses.MarkSTT(ctx, j.SessionID, j.QuestionIndex, j.ChunkIndex, "", 0, services.STTFailed)
		p.status(ctx, j, "failed", "invalid audio_base64")
		return
	}

	if p.Uploader != nil {
		name := storage.ResponseObjectName(j.SessionID, j.QuestionIndex, j.ChunkIndex)
		if url, err := p.Uploader.Upload(ctx, name, "audio/pcm", bytes.NewReader(audio)); err != nil {
			log.WithError(err).Warn("audio upload failed")
		} else {
			_ = p.Responses.MarkAudioURL(ctx, j.SessionID, j.QuestionIndex, j.ChunkIndex, url)
		}
	}

	if p.STT == nil {
		_ = p.Responses.MarkSTT(ctx, j.SessionID, j.QuestionIndex, j.ChunkIndex, "", 0, services.STTSkipped)
		p.status(ctx, j, "skipped", "transcription disabled")
		return
	}

	_ = p.Responses.MarkSTT(ctx, j.SessionID, j.QuestionIndex, j.ChunkIndex, "", 0, services.STTProcessing)
	p.status(ctx, j, "processing", "stt processing")

	sctx, cancel := context.WithTimeout(ctx, p.STTTimeout)
	defer cancel()

	start := time.Now()
	text, conf, err := p.STT.Transcribe(sctx, audio, j.Language)
	if err != nil {
		log.WithError(err).Error("stt failed")
		_ = p.Responses.MarkSTT(ctx, j.SessionID, j.QuestionIndex, j.ChunkIndex, "", 0, services.STTFailed)
		p.status(ctx, j, "failed", "stt failed")
		return
	}

	_ = p.Responses.MarkSTT(ctx, j.SessionID, j.QuestionIndex, j.ChunkIndex, text, conf, services.STTDone)
	payload, _ := json.Marshal(map[string]any{
		"type":           "transcript",
		"question_index": j.QuestionIndex,
		"chunk_index":    j.ChunkIndex,
		"text":           text,
		"confidence":     conf,
		"is_final":       j.IsFinal,
	})
	_ = p.pub.Publish(ctx, ResponseChannel(j.SessionID), string(payload)).Err()
	p.status(ctx, j, "done", "chunk processed")

	log.WithField("latency_ms", time.Since(start).Milliseconds()).Debug("chunk transcribed")
}
