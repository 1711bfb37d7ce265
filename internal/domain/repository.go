package domain

import (
	"context"
	"time"
)

// SessionWindow bounds the "recent sessions" query used by the insight
// generation workflow: the most recent Limit sessions no older than Since.
type SessionWindow struct {
	Limit int
	Since time.Time
}

// SessionRepository defines persistence for sessions and their owned
// child records. Deleting a session cascades to all children.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByID(ctx context.Context, id string) (*Session, error)
	GetSessionsByUser(ctx context.Context, userID string, limit, offset int) ([]*Session, error)
	// GetSessionsInWindow returns the user's sessions within the window,
	// ordered by timestamp descending, children loaded.
	GetSessionsInWindow(ctx context.Context, userID string, window SessionWindow) ([]*Session, error)
	UpdateSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, id string) error

	AddPortionDetail(ctx context.Context, detail *PortionDetail) error
	AddMistake(ctx context.Context, mistake *Mistake) error
	AddTestType(ctx context.Context, testType *TestType) error
	AddLearningMethod(ctx context.Context, method *LearningMethod) error

	GetMistakeByID(ctx context.Context, id string) (*Mistake, error)
	UpdateMistake(ctx context.Context, mistake *Mistake) error
	GetMistakesByUser(ctx context.Context, userID string, since time.Time) ([]*Mistake, error)
}

// InsightRepository defines persistence for AI-generated insights.
type InsightRepository interface {
	CreateInsight(ctx context.Context, insight *Insight) error
	GetInsightByID(ctx context.Context, id string) (*Insight, error)
	GetInsightsByUser(ctx context.Context, userID string, insightType InsightType, limit, offset int) ([]*Insight, error)
	UpdateInsight(ctx context.Context, insight *Insight) error
	DeleteInsight(ctx context.Context, id string) error
}

// TransactionManager runs a function inside a database transaction.
// The transaction travels in the context; repositories pick it up
// transparently.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
