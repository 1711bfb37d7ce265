package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewInsight_ClampsConfidence(t *testing.T) {
	assert.Equal(t, 1.0, NewInsight("u", "s", nil, 2.5, InsightGeneral).ConfidenceScore)
	assert.Equal(t, 0.0, NewInsight("u", "s", nil, -0.3, InsightGeneral).ConfidenceScore)
	assert.Equal(t, 0.7, NewInsight("u", "s", nil, 0.7, InsightGeneral).ConfidenceScore)
}

func TestNewInsight_UnknownTypeDefaultsToGeneral(t *testing.T) {
	i := NewInsight("u", "s", nil, 0.5, InsightType("prophecy"))
	assert.Equal(t, InsightGeneral, i.InsightType)
}

func TestInsight_SanitizeActions(t *testing.T) {
	i := NewInsight("u", "s", []Recommendation{
		{Action: "Review Surah Al-Mulk", Priority: "high"},
		{Action: "", Rationale: "no action, must be dropped"},
		{Action: "Practice makhraj drills"},
	}, 0.8, InsightGeneral)

	dropped := i.SanitizeActions()

	assert.Equal(t, 1, dropped)
	assert.Len(t, i.NextActions, 2)
	for _, r := range i.NextActions {
		assert.NotEmpty(t, r.Action)
	}
}

func TestInsight_Expired(t *testing.T) {
	now := time.Now()
	i := NewInsight("u", "s", nil, 0.8, InsightGeneral)

	assert.False(t, i.Expired(now), "no expiry set")

	past := now.Add(-time.Hour)
	i.ExpiresAt = &past
	assert.True(t, i.Expired(now))

	future := now.Add(time.Hour)
	i.ExpiresAt = &future
	assert.False(t, i.Expired(now))
}

func TestInsightUpdate_Apply(t *testing.T) {
	i := NewInsight("u", "original", nil, 0.5, InsightGeneral)

	newSummary := "updated"
	tooHigh := 1.4
	errs := InsightUpdate{
		Summary:         &newSummary,
		ConfidenceScore: &tooHigh,
	}.Apply(i)

	assert.Empty(t, errs)
	assert.Equal(t, "updated", i.Summary)
	assert.Equal(t, 1.0, i.ConfidenceScore)
}
