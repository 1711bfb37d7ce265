package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextReviewDate_ForgettingCurve(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		reviewCount int
		wantDays    int
	}{
		{"never reviewed", 0, 1},
		{"after first review", 1, 1},
		{"after second review", 2, 3},
		{"after third review", 3, 7},
		{"after fourth review", 4, 14},
		{"past the table the last interval repeats", 9, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReviewDate(base, tt.reviewCount)
			assert.Equal(t, base.AddDate(0, 0, tt.wantDays), got)
		})
	}
}

func TestNextReviewForMistake_BaseSelection(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reviewed := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	m := NewMistake("sess-1", "loc", "tajweed", 3)
	m.CreatedAt = created

	// Never reviewed: schedule from creation.
	assert.Equal(t, created.AddDate(0, 0, 1), NextReviewForMistake(m))

	m.MarkReviewed(reviewed)
	assert.Equal(t, reviewed.AddDate(0, 0, 1), NextReviewForMistake(m))

	m.MarkReviewed(reviewed)
	assert.Equal(t, reviewed.AddDate(0, 0, 3), NextReviewForMistake(m))
}
