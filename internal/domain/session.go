package domain

import (
	"time"
)

// PortionType classifies what part of the Quran a session covered.
type PortionType string

const (
	PortionSurah PortionType = "surah"
	PortionRange PortionType = "range"
	PortionJuz   PortionType = "juz"
)

// Valid reports whether the portion type is a known value.
func (pt PortionType) Valid() bool {
	switch pt {
	case PortionSurah, PortionRange, PortionJuz:
		return true
	}
	return false
}

// RecencyCategory places a portion on the review spectrum.
type RecencyCategory string

const (
	RecencyNew         RecencyCategory = "new"
	RecencyRecent      RecencyCategory = "recent"
	RecencyReviewing   RecencyCategory = "reviewing"
	RecencyMaintenance RecencyCategory = "maintenance"
)

// Valid reports whether the recency category is a known value.
func (rc RecencyCategory) Valid() bool {
	switch rc {
	case RecencyNew, RecencyRecent, RecencyReviewing, RecencyMaintenance:
		return true
	}
	return false
}

// Session represents one logged Quran-recitation practice event.
// It owns its PortionDetails, Mistakes, TestTypes and LearningMethods;
// deleting a session removes all of them.
type Session struct {
	ID               string
	UserID           string
	Timestamp        time.Time
	Duration         int // minutes
	PerformanceScore float64
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	PortionDetails  []*PortionDetail
	Mistakes        []*Mistake
	TestTypes       []*TestType
	LearningMethods []*LearningMethod
}

// NewSession creates a new Session instance
func NewSession(userID string, timestamp time.Time, duration int, performanceScore float64, notes string) *Session {
	now := time.Now()
	if timestamp.IsZero() {
		timestamp = now
	}
	return &Session{
		UserID:           userID,
		Timestamp:        timestamp,
		Duration:         duration,
		PerformanceScore: performanceScore,
		Notes:            notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Validate validates the session
func (s *Session) Validate() ValidationErrors {
	var errs ValidationErrors
	if s.UserID == "" {
		errs = append(errs, NewMissingFieldError("user_id"))
	}
	if s.Duration < 0 {
		errs = append(errs, NewOutOfRangeError("duration", s.Duration, 0, "unbounded"))
	}
	if s.PerformanceScore < 0 || s.PerformanceScore > 100 {
		errs = append(errs, NewOutOfRangeError("performance_score", s.PerformanceScore, 0, 100))
	}
	return errs
}

// PortionDetail describes the portion recited in a session.
type PortionDetail struct {
	ID              string
	SessionID       string
	PortionType     PortionType
	Reference       string // e.g. "Al-Fatiha" or "2:1-10"
	RecencyCategory RecencyCategory
	CreatedAt       time.Time
}

// NewPortionDetail creates a new PortionDetail instance
func NewPortionDetail(sessionID string, portionType PortionType, reference string, recency RecencyCategory) *PortionDetail {
	return &PortionDetail{
		SessionID:       sessionID,
		PortionType:     portionType,
		Reference:       reference,
		RecencyCategory: recency,
		CreatedAt:       time.Now(),
	}
}

// Validate validates the portion detail
func (p *PortionDetail) Validate() ValidationErrors {
	var errs ValidationErrors
	if p.SessionID == "" {
		errs = append(errs, NewMissingFieldError("session_id"))
	}
	switch p.PortionType {
	case PortionSurah, PortionRange, PortionJuz:
	default:
		errs = append(errs, NewInvalidFormatError("portion_type", string(p.PortionType)))
	}
	if p.Reference == "" {
		errs = append(errs, NewMissingFieldError("reference"))
	}
	switch p.RecencyCategory {
	case RecencyNew, RecencyRecent, RecencyReviewing, RecencyMaintenance, "":
	default:
		errs = append(errs, NewInvalidFormatError("recency_category", string(p.RecencyCategory)))
	}
	return errs
}

// TestType records how the memorization was tested during a session.
type TestType struct {
	ID          string
	SessionID   string
	Category    string // e.g. recitation, memorization, revision
	Description string
	SuccessRate float64 // 0.0 - 1.0
	CreatedAt   time.Time
}

// NewTestType creates a new TestType instance
func NewTestType(sessionID, category, description string, successRate float64) *TestType {
	return &TestType{
		SessionID:   sessionID,
		Category:    category,
		Description: description,
		SuccessRate: successRate,
		CreatedAt:   time.Now(),
	}
}

// Validate validates the test type
func (t *TestType) Validate() ValidationErrors {
	var errs ValidationErrors
	if t.SessionID == "" {
		errs = append(errs, NewMissingFieldError("session_id"))
	}
	if t.Category == "" {
		errs = append(errs, NewMissingFieldError("category"))
	}
	if t.SuccessRate < 0.0 || t.SuccessRate > 1.0 {
		errs = append(errs, NewOutOfRangeError("success_rate", t.SuccessRate, 0.0, 1.0))
	}
	return errs
}

// LearningMethod records a technique used during a session.
type LearningMethod struct {
	ID                  string
	SessionID           string
	MethodType          string // e.g. repetition, visualization, audio
	Details             string
	EffectivenessRating float64 // 0.0 - 1.0
	CreatedAt           time.Time
}

// NewLearningMethod creates a new LearningMethod instance
func NewLearningMethod(sessionID, methodType, details string, effectiveness float64) *LearningMethod {
	return &LearningMethod{
		SessionID:           sessionID,
		MethodType:          methodType,
		Details:             details,
		EffectivenessRating: effectiveness,
		CreatedAt:           time.Now(),
	}
}

// Validate validates the learning method
func (m *LearningMethod) Validate() ValidationErrors {
	var errs ValidationErrors
	if m.SessionID == "" {
		errs = append(errs, NewMissingFieldError("session_id"))
	}
	if m.MethodType == "" {
		errs = append(errs, NewMissingFieldError("method_type"))
	}
	if m.EffectivenessRating < 0.0 || m.EffectivenessRating > 1.0 {
		errs = append(errs, NewOutOfRangeError("effectiveness_rating", m.EffectivenessRating, 0.0, 1.0))
	}
	return errs
}

// SessionUpdate carries a partial update for a session. Nil fields are
// left untouched.
type SessionUpdate struct {
	Duration         *int
	PerformanceScore *float64
	Notes            *string
}

// Apply merges the update into the session.
func (u SessionUpdate) Apply(s *Session) ValidationErrors {
	if u.Duration != nil {
		s.Duration = *u.Duration
	}
	if u.PerformanceScore != nil {
		s.PerformanceScore = *u.PerformanceScore
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	s.UpdatedAt = time.Now()
	return s.Validate()
}
