package domain

import (
	"time"

	"quran-coach/internal/util"
)

// InsightType classifies an AI-generated coaching insight.
type InsightType string

const (
	InsightGeneral        InsightType = "general"
	InsightWeaknessFocus  InsightType = "weakness_focus"
	InsightStrengthReinf  InsightType = "strength_reinforcement"
	InsightReviewSchedule InsightType = "review_schedule"
)

// Valid reports whether t is a known insight type.
func (t InsightType) Valid() bool {
	switch t {
	case InsightGeneral, InsightWeaknessFocus, InsightStrengthReinf, InsightReviewSchedule:
		return true
	}
	return false
}

// Recommendation is one structured next action inside an insight.
type Recommendation struct {
	Action     string     `json:"action"`
	Rationale  string     `json:"rationale,omitempty"`
	Priority   string     `json:"priority,omitempty"` // high, medium, low
	NextReview *time.Time `json:"next_review,omitempty"`
}

// WellFormed is the minimal shape check applied when sanitizing AI
// output: a recommendation without an action is dropped, not fatal.
func (r Recommendation) WellFormed() bool {
	return r.Action != ""
}

// Insight is an AI-produced coaching summary scoped to a user across
// sessions. It is created only by the insight generation workflow and
// is not owned by any single session.
type Insight struct {
	ID              string
	UserID          string
	GeneratedAt     time.Time
	Summary         string
	NextActions     []Recommendation
	ConfidenceScore float64 // always clamped to [0.0, 1.0]
	InsightType     InsightType
	ExpiresAt       *time.Time
}

// NewInsight creates a new Insight instance
func NewInsight(userID, summary string, actions []Recommendation, confidence float64, insightType InsightType) *Insight {
	if !insightType.Valid() {
		insightType = InsightGeneral
	}
	return &Insight{
		UserID:          userID,
		GeneratedAt:     time.Now(),
		Summary:         summary,
		NextActions:     actions,
		ConfidenceScore: util.Clamp01(confidence),
		InsightType:     insightType,
	}
}

// Validate validates the insight
func (i *Insight) Validate() ValidationErrors {
	var errs ValidationErrors
	if i.UserID == "" {
		errs = append(errs, NewMissingFieldError("user_id"))
	}
	if i.Summary == "" {
		errs = append(errs, NewMissingFieldError("summary"))
	}
	if i.ConfidenceScore < 0.0 || i.ConfidenceScore > 1.0 {
		errs = append(errs, NewOutOfRangeError("confidence_score", i.ConfidenceScore, 0.0, 1.0))
	}
	if !i.InsightType.Valid() {
		errs = append(errs, NewInvalidFormatError("insight_type", string(i.InsightType)))
	}
	return errs
}

// Expired reports whether the insight has gone stale.
func (i *Insight) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && now.After(*i.ExpiresAt)
}

// SanitizeActions drops malformed recommendations in place and returns
// the number removed. Invalid entries are discarded rather than
// failing the whole insight.
func (i *Insight) SanitizeActions() int {
	kept := i.NextActions[:0]
	dropped := 0
	for _, r := range i.NextActions {
		if r.WellFormed() {
			kept = append(kept, r)
		} else {
			dropped++
		}
	}
	i.NextActions = kept
	return dropped
}

// InsightUpdate carries a partial update for an insight.
type InsightUpdate struct {
	Summary         *string
	NextActions     []Recommendation
	ConfidenceScore *float64
	InsightType     *InsightType
	ExpiresAt       *time.Time
}

// Apply merges the update into the insight.
func (u InsightUpdate) Apply(i *Insight) ValidationErrors {
	if u.Summary != nil {
		i.Summary = *u.Summary
	}
	if u.NextActions != nil {
		i.NextActions = u.NextActions
	}
	if u.ConfidenceScore != nil {
		i.ConfidenceScore = util.Clamp01(*u.ConfidenceScore)
	}
	if u.InsightType != nil {
		i.InsightType = *u.InsightType
	}
	if u.ExpiresAt != nil {
		i.ExpiresAt = u.ExpiresAt
	}
	return i.Validate()
}
