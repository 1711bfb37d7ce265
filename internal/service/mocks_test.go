package service

import (
	"context"
	"os"
	"testing"
	"time"

	"quran-coach/internal/ai"
	"quran-coach/internal/domain"
	"quran-coach/internal/logger"

	"github.com/stretchr/testify/mock"
)

// TestMain initializes the logger for all tests in this package
func TestMain(m *testing.M) {
	if err := logger.Initialize("debug", "test"); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}

	exitVal := m.Run()

	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- MockSessionRepository ---

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetSessionByID(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) GetSessionsByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) GetSessionsInWindow(ctx context.Context, userID string, window domain.SessionWindow) ([]*domain.Session, error) {
	args := m.Called(ctx, userID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) UpdateSession(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionRepository) AddPortionDetail(ctx context.Context, detail *domain.PortionDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *MockSessionRepository) AddMistake(ctx context.Context, mistake *domain.Mistake) error {
	args := m.Called(ctx, mistake)
	return args.Error(0)
}

func (m *MockSessionRepository) AddTestType(ctx context.Context, testType *domain.TestType) error {
	args := m.Called(ctx, testType)
	return args.Error(0)
}

func (m *MockSessionRepository) AddLearningMethod(ctx context.Context, method *domain.LearningMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *MockSessionRepository) GetMistakeByID(ctx context.Context, id string) (*domain.Mistake, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Mistake), args.Error(1)
}

func (m *MockSessionRepository) UpdateMistake(ctx context.Context, mistake *domain.Mistake) error {
	args := m.Called(ctx, mistake)
	return args.Error(0)
}

func (m *MockSessionRepository) GetMistakesByUser(ctx context.Context, userID string, since time.Time) ([]*domain.Mistake, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Mistake), args.Error(1)
}

// --- MockInsightRepository ---

type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) CreateInsight(ctx context.Context, insight *domain.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightRepository) GetInsightByID(ctx context.Context, id string) (*domain.Insight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Insight), args.Error(1)
}

func (m *MockInsightRepository) GetInsightsByUser(ctx context.Context, userID string, insightType domain.InsightType, limit, offset int) ([]*domain.Insight, error) {
	args := m.Called(ctx, userID, insightType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Insight), args.Error(1)
}

func (m *MockInsightRepository) UpdateInsight(ctx context.Context, insight *domain.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightRepository) DeleteInsight(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockTransactionManager ---

type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// --- MockCache ---

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockAIService ---

type MockAIService struct {
	mock.Mock
}

func (m *MockAIService) Analyze(ctx context.Context, input ai.Input) (*ai.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Result), args.Error(1)
}

func (m *MockAIService) Name() string {
	args := m.Called()
	return args.String(0)
}
