package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/careerpilot/internal/utils"
)

func newAssist(l *fakeLLM, timeout time.Duration) AssistService {
	return NewAssistService(newFakeJobs(testJob), newFakeResumes(testResume), builtinResolver(), l, quietLog(), timeout)
}

func TestCoverLetter_Generated(t *testing.T) {
	l := &fakeLLM{reply: "Dear team..."}
	res, err := newAssist(l, time.Second).CoverLetter(context.Background(), testUser, AssistRequest{JobID: testJob.ID, ResumeID: testResume.ID})
	require.NoError(t, err)
	assert.Equal(t, "Dear team...", res.Content)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Note)
	assert.Contains(t, l.prompts[0], "Tech Corp")
}

func TestCoverLetter_FallsBackOnUpstreamError(t *testing.T) {
	l := &fakeLLM{err: errors.New("quota exceeded")}
	res, err := newAssist(l, time.Second).CoverLetter(context.Background(), testUser, AssistRequest{JobID: testJob.ID, CandidateName: "Ana"})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.NotEmpty(t, res.Note)
	assert.Contains(t, res.Content, "Software Engineer position at Tech Corp")
	assert.Contains(t, res.Content, "Ana")
}

func TestResumeSuggestions_FallsBackOnTimeout(t *testing.T) {
	l := &fakeLLM{reply: "late", delay: time.Second}
	res, err := newAssist(l, 10*time.Millisecond).ResumeSuggestions(context.Background(), testUser, AssistRequest{JobID: testJob.ID, ResumeID: testResume.ID})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Note, "too long")
	assert.Contains(t, res.Content, "Software Engineer")
}

func TestAssist_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newAssist(&fakeLLM{}, 0).ResumeSuggestions(ctx, testUser, AssistRequest{JobID: testJob.ID})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	svc := NewAssistService(newFakeJobs(testJob), newFakeResumes(), builtinResolver(), nil, quietLog(), 0)
	_, err = svc.CoverLetter(ctx, testUser, AssistRequest{JobID: testJob.ID})
	assert.True(t, utils.IsCode(err, utils.CodeInternal))

	_, err = newAssist(&fakeLLM{}, 0).CoverLetter(ctx, testUser, AssistRequest{JobID: "nope"})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}
