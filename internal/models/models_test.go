package models

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestQuestionsAllKeepsTechnicalFirst(t *testing.T) {
	q := Questions{Technical: []string{"Q1", "Q2"}, Behavioral: []string{"Q3"}}
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, q.All())
	assert.False(t, q.Empty())
	assert.True(t, Questions{}.Empty())
}

func TestQuestionSetQuestions(t *testing.T) {
	s := QuestionSet{Technical: pq.StringArray{"a"}, Behavioral: pq.StringArray{"b"}}
	assert.Equal(t, Questions{Technical: []string{"a"}, Behavioral: []string{"b"}}, s.Questions())
}

func TestJobStatusValid(t *testing.T) {
	assert.True(t, JobApplied.Valid())
	assert.False(t, JobStatus("ghosted").Valid())
}
