package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Insight row in the insights table.
type Insight struct {
	ID              string             `db:"id"`
	UserID          string             `db:"user_id"`
	GeneratedAt     time.Time          `db:"generated_at"`
	Summary         string             `db:"summary"`
	NextActions     RecommendationList `db:"next_actions"`
	ConfidenceScore float64            `db:"confidence_score"`
	InsightType     string             `db:"insight_type"`
	ExpiresAt       sql.NullTime       `db:"expires_at"`
}

// Recommendation mirrors the domain recommendation inside the JSONB
// next_actions column.
type Recommendation struct {
	Action     string     `json:"action"`
	Rationale  string     `json:"rationale,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	NextReview *time.Time `json:"next_review,omitempty"`
}

// RecommendationList stores an ordered recommendation sequence as JSONB.
type RecommendationList []Recommendation

// Value implements driver.Valuer.
func (l RecommendationList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal next_actions: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *RecommendationList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for next_actions: %T", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}
