package models

import (
	"database/sql"
	"time"
)

// Session row in the sessions table.
type Session struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	Timestamp        time.Time `db:"ts"`
	Duration         int       `db:"duration"`
	PerformanceScore float64   `db:"performance_score"`
	Notes            string    `db:"notes"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// PortionDetail row in the portion_details table.
type PortionDetail struct {
	ID              string    `db:"id"`
	SessionID       string    `db:"session_id"`
	PortionType     string    `db:"portion_type"`
	Reference       string    `db:"reference"`
	RecencyCategory string    `db:"recency_category"`
	CreatedAt       time.Time `db:"created_at"`
}

// Mistake row in the mistakes table.
type Mistake struct {
	ID               string       `db:"id"`
	SessionID        string       `db:"session_id"`
	Location         string       `db:"location"`
	ErrorCategory    string       `db:"error_category"`
	ErrorSubcategory string       `db:"error_subcategory"`
	Details          string       `db:"details"`
	CorrectionMethod string       `db:"correction_method"`
	ResolutionStatus string       `db:"resolution_status"`
	SeverityLevel    int          `db:"severity_level"`
	CreatedAt        time.Time    `db:"created_at"`
	ResolvedAt       sql.NullTime `db:"resolved_at"`
	LastReviewedAt   sql.NullTime `db:"last_reviewed_at"`
	ReviewCount      int          `db:"review_count"`
}

// TestType row in the test_types table.
type TestType struct {
	ID          string    `db:"id"`
	SessionID   string    `db:"session_id"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	SuccessRate float64   `db:"success_rate"`
	CreatedAt   time.Time `db:"created_at"`
}

// LearningMethod row in the learning_methods table.
type LearningMethod struct {
	ID                  string    `db:"id"`
	SessionID           string    `db:"session_id"`
	MethodType          string    `db:"method_type"`
	Details             string    `db:"details"`
	EffectivenessRating float64   `db:"effectiveness_rating"`
	CreatedAt           time.Time `db:"created_at"`
}
