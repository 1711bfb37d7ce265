package service

import (
	"context"

	"quran-coach/internal/cache"
	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
	"quran-coach/internal/logger"

	"go.uber.org/zap"
)

// SessionService defines the interface for practice-session operations
type SessionService interface {
	CreateSession(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, userID string, limit, offset int) (*dto.SessionListResponse, error)
	UpdateSession(ctx context.Context, userID, sessionID string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error

	AddPortionDetail(ctx context.Context, userID, sessionID string, req *dto.AddPortionDetailRequest) (*dto.PortionDetailResponse, error)
	AddMistake(ctx context.Context, userID, sessionID string, req *dto.AddMistakeRequest) (*dto.MistakeResponse, error)
	AddTestType(ctx context.Context, userID, sessionID string, req *dto.AddTestTypeRequest) (*dto.TestTypeResponse, error)
	AddLearningMethod(ctx context.Context, userID, sessionID string, req *dto.AddLearningMethodRequest) (*dto.LearningMethodResponse, error)
	UpdateMistake(ctx context.Context, userID, mistakeID string, req *dto.UpdateMistakeRequest) (*dto.MistakeResponse, error)
}

// sessionService implements SessionService
type sessionService struct {
	repo      domain.SessionRepository
	txManager domain.TransactionManager
	cache     domain.Cache
}

// NewSessionService creates a new instance of sessionService
func NewSessionService(repo domain.SessionRepository, txManager domain.TransactionManager, cacheClient domain.Cache) SessionService {
	return &sessionService{
		repo:      repo,
		txManager: txManager,
		cache:     cacheClient,
	}
}

// CreateSession implements SessionService
func (s *sessionService) CreateSession(ctx context.Context, userID string, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	session := domain.NewSession(userID, derefTime(req.Timestamp), req.Duration, req.PerformanceScore, req.Notes)
	if errs := session.Validate(); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, domain.NewInternalError("Failed to create session", err)
	}

	s.invalidateStats(ctx, userID)

	return toSessionResponse(session), nil
}

// GetSession implements SessionService
func (s *sessionService) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// ListSessions implements SessionService
func (s *sessionService) ListSessions(ctx context.Context, userID string, limit, offset int) (*dto.SessionListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.repo.GetSessionsByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list sessions", err)
	}

	resp := &dto.SessionListResponse{
		Sessions: make([]dto.SessionResponse, 0, len(sessions)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, session := range sessions {
		resp.Sessions = append(resp.Sessions, *toSessionResponse(session))
	}
	return resp, nil
}

// UpdateSession implements SessionService
func (s *sessionService) UpdateSession(ctx context.Context, userID, sessionID string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	update := domain.SessionUpdate{
		Duration:         req.Duration,
		PerformanceScore: req.PerformanceScore,
		Notes:            req.Notes,
	}
	if errs := update.Apply(session); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, domain.NewInternalError("Failed to update session", err)
	}

	s.invalidateStats(ctx, userID)

	return toSessionResponse(session), nil
}

// DeleteSession implements SessionService. Child records are removed by
// the database cascade.
func (s *sessionService) DeleteSession(ctx context.Context, userID, sessionID string) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteSession(txCtx, session.ID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete session", err)
	}

	s.invalidateStats(ctx, userID)

	return nil
}

// AddPortionDetail implements SessionService
func (s *sessionService) AddPortionDetail(ctx context.Context, userID, sessionID string, req *dto.AddPortionDetailRequest) (*dto.PortionDetailResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	detail := domain.NewPortionDetail(session.ID, domain.PortionType(req.PortionType), req.Reference, domain.RecencyCategory(req.RecencyCategory))
	if errs := detail.Validate(); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.AddPortionDetail(ctx, detail); err != nil {
		return nil, domain.NewInternalError("Failed to add portion detail", err)
	}

	resp := toPortionDetailResponse(detail)
	return &resp, nil
}

// AddMistake implements SessionService
func (s *sessionService) AddMistake(ctx context.Context, userID, sessionID string, req *dto.AddMistakeRequest) (*dto.MistakeResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	mistake := domain.NewMistake(session.ID, req.Location, req.ErrorCategory, req.SeverityLevel)
	mistake.ErrorSubcategory = req.ErrorSubcategory
	mistake.Details = req.Details
	mistake.CorrectionMethod = req.CorrectionMethod
	if errs := mistake.Validate(); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.AddMistake(ctx, mistake); err != nil {
		return nil, domain.NewInternalError("Failed to add mistake", err)
	}

	s.invalidateStats(ctx, userID)

	resp := toMistakeResponse(mistake)
	return &resp, nil
}

// AddTestType implements SessionService
func (s *sessionService) AddTestType(ctx context.Context, userID, sessionID string, req *dto.AddTestTypeRequest) (*dto.TestTypeResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	testType := domain.NewTestType(session.ID, req.Category, req.Description, req.SuccessRate)
	if errs := testType.Validate(); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.AddTestType(ctx, testType); err != nil {
		return nil, domain.NewInternalError("Failed to add test type", err)
	}

	resp := toTestTypeResponse(testType)
	return &resp, nil
}

// AddLearningMethod implements SessionService
func (s *sessionService) AddLearningMethod(ctx context.Context, userID, sessionID string, req *dto.AddLearningMethodRequest) (*dto.LearningMethodResponse, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	method := domain.NewLearningMethod(session.ID, req.MethodType, req.Details, req.EffectivenessRating)
	if errs := method.Validate(); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.AddLearningMethod(ctx, method); err != nil {
		return nil, domain.NewInternalError("Failed to add learning method", err)
	}

	resp := toLearningMethodResponse(method)
	return &resp, nil
}

// UpdateMistake implements SessionService. The forward-only resolution
// transition is enforced before any other field changes.
func (s *sessionService) UpdateMistake(ctx context.Context, userID, mistakeID string, req *dto.UpdateMistakeRequest) (*dto.MistakeResponse, error) {
	mistake, err := s.repo.GetMistakeByID(ctx, mistakeID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get mistake", err)
	}
	if mistake == nil {
		return nil, domain.NewNotFoundError("Mistake not found: " + mistakeID)
	}

	// Ownership runs through the parent session.
	if _, err := s.ownedSession(ctx, userID, mistake.SessionID); err != nil {
		return nil, domain.NewNotFoundError("Mistake not found: " + mistakeID)
	}

	update := domain.MistakeUpdate{
		ErrorCategory:    req.ErrorCategory,
		ErrorSubcategory: req.ErrorSubcategory,
		Details:          req.Details,
		CorrectionMethod: req.CorrectionMethod,
		SeverityLevel:    req.SeverityLevel,
	}
	if req.ResolutionStatus != nil {
		status := domain.ResolutionStatus(*req.ResolutionStatus)
		update.ResolutionStatus = &status
	}
	if err := update.Apply(mistake); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMistake(ctx, mistake); err != nil {
		return nil, domain.NewInternalError("Failed to update mistake", err)
	}

	s.invalidateStats(ctx, userID)

	resp := toMistakeResponse(mistake)
	return &resp, nil
}

// ownedSession fetches a session and verifies it belongs to userID.
// A session owned by someone else is reported as not found, never as
// forbidden, to avoid leaking IDs.
func (s *sessionService) ownedSession(ctx context.Context, userID, sessionID string) (*domain.Session, error) {
	session, err := s.repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get session", err)
	}
	if session == nil || session.UserID != userID {
		return nil, domain.NewSessionNotFoundError(sessionID)
	}
	return session, nil
}

// invalidateStats bumps the user's stats cache version after a write,
// orphaning every cached overview window regardless of which day range
// was requested. Cache errors are logged, never surfaced.
func (s *sessionService) invalidateStats(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	key := cache.StatsVersionKey(userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate stats cache",
			zap.String("key", key),
			zap.Error(err))
	}
}
