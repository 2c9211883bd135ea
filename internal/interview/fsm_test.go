package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseIntroduction, PhaseQuestions, true},
		{PhaseIntroduction, PhaseClosing, true},
		{PhaseQuestions, PhaseQuestions, true},
		{PhaseQuestions, PhaseClosing, true},
		{PhaseQuestions, PhaseIntroduction, false},
		{PhaseClosing, PhaseQuestions, false},
		{PhaseClosing, PhaseIntroduction, false},
		{PhaseClosing, PhaseClosing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAdvance_WalksEveryQuestionThenCloses(t *testing.T) {
	s := State{Phase: PhaseIntroduction, Total: 3}

	for i := 0; i < 3; i++ {
		next, step := Advance(s)
		assert.Equal(t, Step{Kind: StepAsk, Index: i}, step)
		assert.Equal(t, PhaseQuestions, next.Phase)
		assert.Equal(t, i+1, next.Index)
		assert.True(t, CanTransition(s.Phase, next.Phase))
		s = next
	}

	next, step := Advance(s)
	assert.Equal(t, StepClose, step.Kind)
	assert.Equal(t, PhaseClosing, next.Phase)
	assert.Equal(t, 3, next.Index)
	s = next

	again, step := Advance(s)
	assert.Equal(t, StepNone, step.Kind)
	assert.Equal(t, s, again)
}

func TestAdvance_EmptyListClosesFromIntroduction(t *testing.T) {
	next, step := Advance(State{Phase: PhaseIntroduction})
	assert.Equal(t, StepClose, step.Kind)
	assert.Equal(t, PhaseClosing, next.Phase)
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	s := State{Phase: PhaseIntroduction, Total: 1}
	_, _ = Advance(s)
	assert.Equal(t, State{Phase: PhaseIntroduction, Total: 1}, s)
}
