package dto

import "time"

// GenerateInsightRequest is the body for triggering insight generation.
type GenerateInsightRequest struct {
	InsightType string `json:"insight_type,omitempty"`
	Options     struct {
		LookbackDays  int `json:"lookback_days,omitempty"`
		SessionWindow int `json:"session_window,omitempty"`
	} `json:"options,omitempty"`
}

// RecommendationResponse is a single recommended next action.
type RecommendationResponse struct {
	Action     string     `json:"action"`
	Rationale  string     `json:"rationale,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	NextReview *time.Time `json:"next_review,omitempty"`
}

// InsightResponse is an insight in API responses.
type InsightResponse struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	InsightType string                   `json:"insight_type"`
	Content     string                   `json:"content"`
	NextActions []RecommendationResponse `json:"next_actions"`
	Confidence  float64                  `json:"confidence"`
	GeneratedAt time.Time                `json:"generated_at"`
	ExpiresAt   *time.Time               `json:"expires_at,omitempty"`
}

// GenerateInsightResponse reports the outcome of a generation request.
// NoData is true when the lookback window held no sessions; in that
// case Insight is nil and no AI call was made.
type GenerateInsightResponse struct {
	NoData  bool             `json:"no_data"`
	Message string           `json:"message,omitempty"`
	Insight *InsightResponse `json:"insight,omitempty"`
}

// InsightListResponse wraps an insight page.
type InsightListResponse struct {
	Insights []InsightResponse `json:"insights"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// UpdateInsightRequest is the body for a partial insight update.
type UpdateInsightRequest struct {
	Content    *string  `json:"content,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// StatsOverviewResponse summarizes recent practice activity.
type StatsOverviewResponse struct {
	Days             int     `json:"days"`
	SessionCount     int     `json:"session_count"`
	TotalDuration    int     `json:"total_duration"`
	AvgPerformance   float64 `json:"avg_performance"`
	MistakeCount     int     `json:"mistake_count"`
	ResolvedMistakes int     `json:"resolved_mistakes"`
	PendingReviews   int     `json:"pending_reviews"`
}
