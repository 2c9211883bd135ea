package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
)

func TestJobService(t *testing.T) {
	svc := NewJobService(newFakeJobs())
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, JobInput{Title: " ", Company: "X"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.Create(ctx, testUser, JobInput{Title: "Dev", Company: "X", Status: "ghosted"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	job, err := svc.Create(ctx, testUser, JobInput{Title: " Dev ", Company: "X"})
	require.NoError(t, err)
	assert.Equal(t, "Dev", job.Title)
	assert.Equal(t, models.JobSaved, job.Status)

	applied := models.JobApplied
	job, err = svc.Update(ctx, testUser, job.ID, JobPatch{Status: &applied})
	require.NoError(t, err)
	assert.Equal(t, models.JobApplied, job.Status)

	list, err := svc.List(ctx, testUser, models.JobApplied, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Get(ctx, "other", job.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestResumeService(t *testing.T) {
	svc := NewResumeService(newFakeResumes())
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, "CV", "  ")
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	r, err := svc.Create(ctx, testUser, "", "content")
	require.NoError(t, err)
	assert.Equal(t, "Resume", r.Title)

	got, err := svc.Get(ctx, testUser, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "content", got.Content)
}
