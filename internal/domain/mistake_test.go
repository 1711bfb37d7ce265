package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolutionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    ResolutionStatus
		to      ResolutionStatus
		allowed bool
	}{
		{"pending to practicing", ResolutionPending, ResolutionPracticing, true},
		{"pending to resolved", ResolutionPending, ResolutionResolved, true},
		{"practicing to resolved", ResolutionPracticing, ResolutionResolved, true},
		{"same status is a no-op", ResolutionPracticing, ResolutionPracticing, true},
		{"resolved back to practicing", ResolutionResolved, ResolutionPracticing, false},
		{"practicing back to pending", ResolutionPracticing, ResolutionPending, false},
		{"resolved back to pending", ResolutionResolved, ResolutionPending, false},
		{"unknown target", ResolutionPending, ResolutionStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMistake_Transition_StampsResolvedAt(t *testing.T) {
	m := NewMistake("sess-1", "Surah 2, Ayah 5", "tajweed", 3)
	assert.Nil(t, m.ResolvedAt)

	assert.NoError(t, m.Transition(ResolutionPracticing))
	assert.Nil(t, m.ResolvedAt)

	assert.NoError(t, m.Transition(ResolutionResolved))
	if assert.NotNil(t, m.ResolvedAt) {
		assert.WithinDuration(t, time.Now(), *m.ResolvedAt, time.Second)
	}
}

func TestMistake_Transition_RejectsBackward(t *testing.T) {
	m := NewMistake("sess-1", "Surah 2, Ayah 5", "tajweed", 3)
	assert.NoError(t, m.Transition(ResolutionResolved))

	err := m.Transition(ResolutionPending)
	assert.Error(t, err)
	assert.True(t, IsCode(err, CodeInvalidTransition))
	assert.Equal(t, ResolutionResolved, m.ResolutionStatus)
}

func TestMistake_Validate_SeverityBounds(t *testing.T) {
	for _, severity := range []int{0, 6, -1} {
		m := NewMistake("sess-1", "loc", "tajweed", severity)
		assert.NotEmpty(t, m.Validate(), "severity %d must be rejected", severity)
	}
	for severity := 1; severity <= 5; severity++ {
		m := NewMistake("sess-1", "loc", "tajweed", severity)
		assert.Empty(t, m.Validate(), "severity %d must be accepted", severity)
	}
}

func TestMistake_MarkReviewed(t *testing.T) {
	m := NewMistake("sess-1", "loc", "tajweed", 2)
	at := time.Now()

	m.MarkReviewed(at)

	assert.Equal(t, 1, m.ReviewCount)
	if assert.NotNil(t, m.LastReviewedAt) {
		assert.Equal(t, at, *m.LastReviewedAt)
	}
}

func TestMistakeUpdate_TransitionCheckedBeforeFieldChanges(t *testing.T) {
	m := NewMistake("sess-1", "loc", "tajweed", 2)
	assert.NoError(t, m.Transition(ResolutionResolved))

	backward := ResolutionPending
	newCategory := "memorization"
	err := MistakeUpdate{
		ResolutionStatus: &backward,
		ErrorCategory:    &newCategory,
	}.Apply(m)

	assert.Error(t, err)
	// The rejected transition must leave every field untouched.
	assert.Equal(t, "tajweed", m.ErrorCategory)
}
