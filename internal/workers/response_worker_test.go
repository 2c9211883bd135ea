package workers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/services"
)

type published struct {
	channel string
	payload map[string]any
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	var payload map[string]any
	_ = json.Unmarshal([]byte(message.(string)), &payload)
	f.mu.Lock()
	f.msgs = append(f.msgs, published{channel: channel, payload: payload})
	f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)
	return cmd
}

func (f *fakePublisher) on(channel string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []map[string]any
	for _, m := range f.msgs {
		if m.channel == channel {
			out = append(out, m.payload)
		}
	}
	return out
}

type sttCall struct {
	status, text string
}

type fakeResponses struct {
	services.ResponseService
	mu    sync.Mutex
	stt   []sttCall
	audio []string
}

func (f *fakeResponses) MarkAudioURL(_ context.Context, _ string, _ int, _ int64, url string) error {
	f.mu.Lock()
	f.audio = append(f.audio, url)
	f.mu.Unlock()
	return nil
}

func (f *fakeResponses) MarkSTT(_ context.Context, _ string, _ int, _ int64, text string, _ float64, status string) error {
	f.mu.Lock()
	f.stt = append(f.stt, sttCall{status: status, text: text})
	f.mu.Unlock()
	return nil
}

func (f *fakeResponses) ListBySession(context.Context, string, int64) ([]models.InterviewResponse, error) {
	return nil, nil
}

type fakeSTT struct {
	text string
	err  error
	got  []byte
}

func (f *fakeSTT) Transcribe(_ context.Context, audio []byte, _ string) (string, float64, error) {
	f.got = audio
	return f.text, 0.9, f.err
}

func (f *fakeSTT) Close() error { return nil }

type fakeUploader struct {
	names []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	f.names = append(f.names, name)
	return "gs://bucket/" + name, nil
}

func newPool(s *fakeSTT, up *fakeUploader) (*ResponseWorkerPool, *fakePublisher, *fakeResponses) {
	pub := &fakePublisher{}
	resp := &fakeResponses{}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	p := &ResponseWorkerPool{Responses: resp, Logger: l, pub: pub}
	if s != nil {
		p.STT = s
	}
	if up != nil {
		p.Uploader = up
	}
	return p, pub, resp
}

func job(audio string) ResponseJob {
	return ResponseJob{SessionID: "s1", QuestionIndex: 1, ChunkIndex: 2, AudioBase64: audio, IsFinal: true}
}

func TestProcess_TranscribesAndPublishes(t *testing.T) {
	s := &fakeSTT{text: "I built a queue"}
	up := &fakeUploader{}
	p, pub, resp := newPool(s, up)

	pcm := []byte{1, 2, 3, 4}
	p.Process(context.Background(), job("data:audio/pcm;base64,"+base64.StdEncoding.EncodeToString(pcm)))

	assert.Equal(t, pcm, s.got)
	assert.Equal(t, []string{"interviews/s1/q001/chunk-00002.pcm"}, up.names)
	assert.Equal(t, []string{"gs://bucket/interviews/s1/q001/chunk-00002.pcm"}, resp.audio)
	assert.Equal(t, []sttCall{{status: services.STTProcessing}, {status: services.STTDone, text: "I built a queue"}}, resp.stt)

	transcripts := pub.on(ResponseChannel("s1"))
	require.Len(t, transcripts, 1)
	assert.Equal(t, "transcript", transcripts[0]["type"])
	assert.Equal(t, "I built a queue", transcripts[0]["text"])
	assert.EqualValues(t, 1, transcripts[0]["question_index"])

	statuses := pub.on(StatusChannel("s1"))
	require.Len(t, statuses, 2)
	assert.Equal(t, "done", statuses[1]["status"])
}

func TestProcess_STTFailure(t *testing.T) {
	p, pub, resp := newPool(&fakeSTT{err: errors.New("quota")}, nil)
	p.Process(context.Background(), job(base64.StdEncoding.EncodeToString([]byte{1})))

	assert.Equal(t, services.STTFailed, resp.stt[len(resp.stt)-1].status)
	assert.Empty(t, pub.on(ResponseChannel("s1")))
	statuses := pub.on(StatusChannel("s1"))
	assert.Equal(t, "failed", statuses[len(statuses)-1]["status"])
}

func TestProcess_InvalidAudio(t *testing.T) {
	s := &fakeSTT{}
	p, pub, resp := newPool(s, nil)
	p.Process(context.Background(), job("%%%"))

	assert.Nil(t, s.got)
	assert.Equal(t, []sttCall{{status: services.STTFailed}}, resp.stt)
	assert.Equal(t, "failed", pub.on(StatusChannel("s1"))[0]["status"])
}

func TestProcess_NoSTTConfigured(t *testing.T) {
	p, pub, resp := newPool(nil, &fakeUploader{err: errors.New("denied")})
	p.Process(context.Background(), job(base64.StdEncoding.EncodeToString([]byte{1})))

	assert.Empty(t, resp.audio)
	assert.Equal(t, []sttCall{{status: services.STTSkipped}}, resp.stt)
	assert.Equal(t, "skipped", pub.on(StatusChannel("s1"))[0]["status"])
}

func TestParseJob(t *testing.T) {
	in := ResponseJob{SessionID: "s1", QuestionIndex: 3, ChunkIndex: 7, AudioBase64: "AAAA", Language: "en", IsFinal: true}
	got, err := parseJob(in.values())
	require.NoError(t, err)
	assert.Equal(t, in, got)

	_, err = parseJob(map[string]any{"chunk_index": "1", "question_index": "0"})
	assert.Error(t, err)

	_, err = parseJob(map[string]any{"session_id": "s", "question_index": "x", "chunk_index": "1"})
	assert.Error(t, err)
}
