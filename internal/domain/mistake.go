package domain

import (
	"time"
)

// ResolutionStatus tracks the lifecycle of a recorded mistake.
// Transitions only move forward: pending -> practicing -> resolved.
type ResolutionStatus string

const (
	ResolutionPending    ResolutionStatus = "pending"
	ResolutionPracticing ResolutionStatus = "practicing"
	ResolutionResolved   ResolutionStatus = "resolved"
)

// rank orders statuses for the forward-only transition check.
func (s ResolutionStatus) rank() int {
	switch s {
	case ResolutionPending:
		return 0
	case ResolutionPracticing:
		return 1
	case ResolutionResolved:
		return 2
	default:
		return -1
	}
}

// Valid reports whether s is a known status.
func (s ResolutionStatus) Valid() bool {
	return s.rank() >= 0
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Staying on the same status is a no-op, not a violation.
func (s ResolutionStatus) CanTransitionTo(next ResolutionStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// Mistake represents a recitation error tied to a session.
type Mistake struct {
	ID               string
	SessionID        string
	Location         string // e.g. "Surah 2, Ayah 5, Word 3"
	ErrorCategory    string // pronunciation, memorization, tajweed
	ErrorSubcategory string // makhraj, sifat, word_order, ...
	Details          string
	CorrectionMethod string
	ResolutionStatus ResolutionStatus
	SeverityLevel    int // 1 - 5
	CreatedAt        time.Time
	ResolvedAt       *time.Time
	LastReviewedAt   *time.Time
	ReviewCount      int
}

// NewMistake creates a new Mistake instance
func NewMistake(sessionID, location, category string, severity int) *Mistake {
	return &Mistake{
		SessionID:        sessionID,
		Location:         location,
		ErrorCategory:    category,
		ResolutionStatus: ResolutionPending,
		SeverityLevel:    severity,
		CreatedAt:        time.Now(),
	}
}

// Validate validates the mistake
func (m *Mistake) Validate() ValidationErrors {
	var errs ValidationErrors
	if m.SessionID == "" {
		errs = append(errs, NewMissingFieldError("session_id"))
	}
	if m.Location == "" {
		errs = append(errs, NewMissingFieldError("location"))
	}
	if m.ErrorCategory == "" {
		errs = append(errs, NewMissingFieldError("error_category"))
	}
	if m.SeverityLevel < 1 || m.SeverityLevel > 5 {
		errs = append(errs, NewOutOfRangeError("severity_level", m.SeverityLevel, 1, 5))
	}
	if !m.ResolutionStatus.Valid() {
		errs = append(errs, NewInvalidFormatError("resolution_status", string(m.ResolutionStatus)))
	}
	return errs
}

// Transition moves the mistake to the given status. Reverse transitions
// are rejected; reaching resolved stamps ResolvedAt.
func (m *Mistake) Transition(next ResolutionStatus) error {
	if !next.Valid() {
		return NewError(CodeInvalidFormat, "Unknown resolution status: "+string(next), nil)
	}
	if !m.ResolutionStatus.CanTransitionTo(next) {
		return NewInvalidTransitionError(m.ResolutionStatus, next)
	}
	if next == ResolutionResolved && m.ResolutionStatus != ResolutionResolved {
		now := time.Now()
		m.ResolvedAt = &now
	}
	m.ResolutionStatus = next
	return nil
}

// MarkReviewed records one spaced-repetition review pass.
func (m *Mistake) MarkReviewed(at time.Time) {
	m.LastReviewedAt = &at
	m.ReviewCount++
}

// MistakeUpdate carries a partial update for a mistake.
type MistakeUpdate struct {
	ErrorCategory    *string
	ErrorSubcategory *string
	Details          *string
	CorrectionMethod *string
	ResolutionStatus *ResolutionStatus
	SeverityLevel    *int
}

// Apply merges the update into the mistake, enforcing the forward-only
// status transition rule before any field changes take effect.
func (u MistakeUpdate) Apply(m *Mistake) error {
	if u.ResolutionStatus != nil {
		if err := m.Transition(*u.ResolutionStatus); err != nil {
			return err
		}
	}
	if u.ErrorCategory != nil {
		m.ErrorCategory = *u.ErrorCategory
	}
	if u.ErrorSubcategory != nil {
		m.ErrorSubcategory = *u.ErrorSubcategory
	}
	if u.Details != nil {
		m.Details = *u.Details
	}
	if u.CorrectionMethod != nil {
		m.CorrectionMethod = *u.CorrectionMethod
	}
	if u.SeverityLevel != nil {
		m.SeverityLevel = *u.SeverityLevel
	}
	if errs := m.Validate(); len(errs) > 0 {
		return errs
	}
	return nil
}
