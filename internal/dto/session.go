package dto

import "time"

// CreateSessionRequest is the body for creating a practice session.
type CreateSessionRequest struct {
	Timestamp        *time.Time `json:"timestamp,omitempty"`
	Duration         int        `json:"duration"`
	PerformanceScore float64    `json:"performance_score"`
	Notes            string     `json:"notes,omitempty"`
}

// UpdateSessionRequest is the body for a partial session update.
// Absent fields are left untouched.
type UpdateSessionRequest struct {
	Duration         *int     `json:"duration,omitempty"`
	PerformanceScore *float64 `json:"performance_score,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// SessionResponse is a session in API responses.
type SessionResponse struct {
	ID               string                   `json:"id"`
	UserID           string                   `json:"user_id"`
	Timestamp        time.Time                `json:"timestamp"`
	Duration         int                      `json:"duration"`
	PerformanceScore float64                  `json:"performance_score"`
	Notes            string                   `json:"notes,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
	PortionDetails   []PortionDetailResponse  `json:"portion_details,omitempty"`
	Mistakes         []MistakeResponse        `json:"mistakes,omitempty"`
	TestTypes        []TestTypeResponse       `json:"test_types,omitempty"`
	LearningMethods  []LearningMethodResponse `json:"learning_methods,omitempty"`
}

// SessionListResponse wraps a session page.
type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// AddPortionDetailRequest is the body for attaching a portion to a session.
type AddPortionDetailRequest struct {
	PortionType     string `json:"portion_type"`
	Reference       string `json:"reference"`
	RecencyCategory string `json:"recency_category,omitempty"`
}

// PortionDetailResponse is a portion detail in API responses.
type PortionDetailResponse struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	PortionType     string    `json:"portion_type"`
	Reference       string    `json:"reference"`
	RecencyCategory string    `json:"recency_category,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// AddMistakeRequest is the body for attaching a mistake to a session.
type AddMistakeRequest struct {
	Location         string `json:"location"`
	ErrorCategory    string `json:"error_category"`
	ErrorSubcategory string `json:"error_subcategory,omitempty"`
	Details          string `json:"details,omitempty"`
	CorrectionMethod string `json:"correction_method,omitempty"`
	SeverityLevel    int    `json:"severity_level"`
}

// UpdateMistakeRequest is the body for a partial mistake update.
type UpdateMistakeRequest struct {
	ErrorCategory    *string `json:"error_category,omitempty"`
	ErrorSubcategory *string `json:"error_subcategory,omitempty"`
	Details          *string `json:"details,omitempty"`
	CorrectionMethod *string `json:"correction_method,omitempty"`
	ResolutionStatus *string `json:"resolution_status,omitempty"`
	SeverityLevel    *int    `json:"severity_level,omitempty"`
}

// MistakeResponse is a mistake in API responses.
type MistakeResponse struct {
	ID               string     `json:"id"`
	SessionID        string     `json:"session_id"`
	Location         string     `json:"location"`
	ErrorCategory    string     `json:"error_category"`
	ErrorSubcategory string     `json:"error_subcategory,omitempty"`
	Details          string     `json:"details,omitempty"`
	CorrectionMethod string     `json:"correction_method,omitempty"`
	ResolutionStatus string     `json:"resolution_status"`
	SeverityLevel    int        `json:"severity_level"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	NextReview       *time.Time `json:"next_review,omitempty"`
}

// AddTestTypeRequest is the body for attaching a test type to a session.
type AddTestTypeRequest struct {
	Category    string  `json:"category"`
	Description string  `json:"description,omitempty"`
	SuccessRate float64 `json:"success_rate"`
}

// TestTypeResponse is a test type in API responses.
type TestTypeResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	SuccessRate float64   `json:"success_rate"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddLearningMethodRequest is the body for attaching a learning method.
type AddLearningMethodRequest struct {
	MethodType          string  `json:"method_type"`
	Details             string  `json:"details,omitempty"`
	EffectivenessRating float64 `json:"effectiveness_rating"`
}

// LearningMethodResponse is a learning method in API responses.
type LearningMethodResponse struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	MethodType          string    `json:"method_type"`
	Details             string    `json:"details,omitempty"`
	EffectivenessRating float64   `json:"effectiveness_rating"`
	CreatedAt           time.Time `json:"created_at"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
