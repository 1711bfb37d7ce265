package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"quran-coach/internal/ai"
	"quran-coach/internal/cache"
	"quran-coach/internal/config"
	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
	"quran-coach/internal/logger"
	"quran-coach/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// InsightService defines the interface for insight operations
type InsightService interface {
	GenerateInsight(ctx context.Context, userID string, req *dto.GenerateInsightRequest) (*dto.GenerateInsightResponse, error)
	GetInsight(ctx context.Context, userID, insightID string) (*dto.InsightResponse, error)
	ListInsights(ctx context.Context, userID, insightType string, limit, offset int) (*dto.InsightListResponse, error)
	GetLatestInsight(ctx context.Context, userID string) (*dto.InsightResponse, error)
	UpdateInsight(ctx context.Context, userID, insightID string, req *dto.UpdateInsightRequest) (*dto.InsightResponse, error)
	DeleteInsight(ctx context.Context, userID, insightID string) error
	GetStatsOverview(ctx context.Context, userID string, days int) (*dto.StatsOverviewResponse, error)
}

// analysisPayload is the JSON shape expected back from the analysis model.
type analysisPayload struct {
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	Confidence  float64 `json:"confidence_score"`
	NextActions []struct {
		Action    string `json:"action"`
		Rationale string `json:"rationale"`
		Priority  string `json:"priority"`
	} `json:"next_actions"`
}

// insightService implements InsightService
type insightService struct {
	sessionRepo domain.SessionRepository
	insightRepo domain.InsightRepository
	txManager   domain.TransactionManager
	analyzer    ai.Service
	cache       domain.Cache
	cfg         *config.Config
}

// NewInsightService creates a new instance of insightService
func NewInsightService(
	sessionRepo domain.SessionRepository,
	insightRepo domain.InsightRepository,
	txManager domain.TransactionManager,
	analyzer ai.Service,
	cacheClient domain.Cache,
	cfg *config.Config,
) InsightService {
	return &insightService{
		sessionRepo: sessionRepo,
		insightRepo: insightRepo,
		txManager:   txManager,
		analyzer:    analyzer,
		cache:       cacheClient,
		cfg:         cfg,
	}
}

// GenerateInsight implements InsightService. When the lookback window
// holds no sessions the call succeeds with NoData set and the analysis
// model is never invoked.
func (s *insightService) GenerateInsight(ctx context.Context, userID string, req *dto.GenerateInsightRequest) (*dto.GenerateInsightResponse, error) {
	appLogger := logger.Get()

	insightType := domain.InsightType(req.InsightType)
	if req.InsightType == "" {
		insightType = domain.InsightGeneral
	}
	if !insightType.Valid() {
		return nil, domain.NewInvalidInputError("Unknown insight type: " + req.InsightType)
	}

	lookbackDays := s.cfg.Insight.LookbackDays
	if req.Options.LookbackDays > 0 {
		lookbackDays = req.Options.LookbackDays
	}
	windowSize := s.cfg.Insight.SessionWindow
	if req.Options.SessionWindow > 0 {
		windowSize = req.Options.SessionWindow
	}
	since := time.Now().AddDate(0, 0, -lookbackDays)

	var (
		sessions []*domain.Session
		mistakes []*domain.Mistake
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.GetSessionsInWindow(gCtx, userID, domain.SessionWindow{
			Limit: windowSize,
			Since: since,
		})
		return err
	})
	g.Go(func() error {
		var err error
		mistakes, err = s.sessionRepo.GetMistakesByUser(gCtx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to load practice history", err)
	}

	if len(sessions) == 0 {
		appLogger.Info("No sessions in lookback window, skipping analysis",
			zap.String("userID", userID),
			zap.Int("lookbackDays", lookbackDays))
		return &dto.GenerateInsightResponse{
			NoData:  true,
			Message: fmt.Sprintf("No practice sessions recorded in the last %d days", lookbackDays),
		}, nil
	}

	prompt := buildAnalysisPrompt(insightType, sessions, mistakes, lookbackDays)

	analyzeCtx, cancel := context.WithTimeout(ctx, s.cfg.Analysis.Timeout)
	defer cancel()

	result, err := s.analyzer.Analyze(analyzeCtx, ai.Input{Text: &ai.TextInput{Prompt: prompt}})
	if err != nil {
		return nil, domain.NewAIServiceError(err)
	}

	var payload analysisPayload
	if err := json.Unmarshal(result.Payload, &payload); err != nil {
		return nil, domain.NewAnalysisParseError(err)
	}
	summary := payload.Summary
	if summary == "" {
		summary = payload.Content
	}
	if summary == "" {
		return nil, domain.NewAnalysisParseError(fmt.Errorf("analysis response has no summary"))
	}

	actions := make([]domain.Recommendation, 0, len(payload.NextActions))
	for _, a := range payload.NextActions {
		actions = append(actions, domain.Recommendation{
			Action:    a.Action,
			Rationale: a.Rationale,
			Priority:  a.Priority,
		})
	}

	confidence := payload.Confidence
	if confidence == 0 {
		confidence = result.Confidence
	}

	insight := domain.NewInsight(userID, summary, actions, confidence, insightType)
	if insightType == domain.InsightReviewSchedule {
		insight.NextActions = append(insight.NextActions, reviewScheduleActions(mistakes)...)
	}
	if dropped := insight.SanitizeActions(); dropped > 0 {
		appLogger.Warn("Dropped malformed recommendations from analysis output",
			zap.String("userID", userID),
			zap.Int("dropped", dropped))
	}
	if s.cfg.Insight.TTL > 0 {
		expires := insight.GeneratedAt.Add(s.cfg.Insight.TTL)
		insight.ExpiresAt = &expires
	}
	if errs := insight.Validate(); len(errs) > 0 {
		return nil, errs
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.insightRepo.CreateInsight(txCtx, insight)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to save insight", err)
	}

	s.invalidateLatest(ctx, userID)

	appLogger.Info("Insight generated",
		zap.String("userID", userID),
		zap.String("insightID", insight.ID),
		zap.String("insightType", string(insight.InsightType)),
		zap.Float64("confidence", insight.ConfidenceScore),
		zap.Int("sessionCount", len(sessions)))

	return &dto.GenerateInsightResponse{Insight: toInsightResponse(insight)}, nil
}

// GetInsight implements InsightService
func (s *insightService) GetInsight(ctx context.Context, userID, insightID string) (*dto.InsightResponse, error) {
	insight, err := s.ownedInsight(ctx, userID, insightID)
	if err != nil {
		return nil, err
	}
	return toInsightResponse(insight), nil
}

// ListInsights implements InsightService
func (s *insightService) ListInsights(ctx context.Context, userID, insightType string, limit, offset int) (*dto.InsightListResponse, error) {
	if insightType != "" && !domain.InsightType(insightType).Valid() {
		return nil, domain.NewInvalidInputError("Unknown insight type: " + insightType)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	insights, err := s.insightRepo.GetInsightsByUser(ctx, userID, domain.InsightType(insightType), limit, offset)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list insights", err)
	}

	resp := &dto.InsightListResponse{
		Insights: make([]dto.InsightResponse, 0, len(insights)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, insight := range insights {
		resp.Insights = append(resp.Insights, *toInsightResponse(insight))
	}
	return resp, nil
}

// GetLatestInsight implements InsightService, serving from redis when
// the cached copy is still fresh.
func (s *insightService) GetLatestInsight(ctx context.Context, userID string) (*dto.InsightResponse, error) {
	key := cache.LatestInsightKey(userID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var resp dto.InsightResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		} else if err != nil && err != domain.ErrCacheMiss {
			logger.Get().Warn("Failed to read latest insight cache", zap.Error(err))
		}
	}

	insights, err := s.insightRepo.GetInsightsByUser(ctx, userID, "", 1, 0)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get latest insight", err)
	}
	if len(insights) == 0 {
		return nil, domain.NewInsightNotFoundError("latest")
	}

	resp := toInsightResponse(insights[0])

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.cfg.Insight.LatestCacheTTL); err != nil {
				logger.Get().Warn("Failed to write latest insight cache", zap.Error(err))
			}
		}
	}

	return resp, nil
}

// UpdateInsight implements InsightService
func (s *insightService) UpdateInsight(ctx context.Context, userID, insightID string, req *dto.UpdateInsightRequest) (*dto.InsightResponse, error) {
	insight, err := s.ownedInsight(ctx, userID, insightID)
	if err != nil {
		return nil, err
	}

	update := domain.InsightUpdate{
		Summary:         req.Content,
		ConfidenceScore: req.Confidence,
	}
	if errs := update.Apply(insight); len(errs) > 0 {
		return nil, errs
	}

	if err := s.insightRepo.UpdateInsight(ctx, insight); err != nil {
		return nil, domain.NewInternalError("Failed to update insight", err)
	}

	s.invalidateLatest(ctx, userID)

	return toInsightResponse(insight), nil
}

// DeleteInsight implements InsightService
func (s *insightService) DeleteInsight(ctx context.Context, userID, insightID string) error {
	insight, err := s.ownedInsight(ctx, userID, insightID)
	if err != nil {
		return err
	}

	if err := s.insightRepo.DeleteInsight(ctx, insight.ID); err != nil {
		return domain.NewInternalError("Failed to delete insight", err)
	}

	s.invalidateLatest(ctx, userID)

	return nil
}

// GetStatsOverview implements InsightService. The overview is computed
// from recent sessions and cached in redis.
func (s *insightService) GetStatsOverview(ctx context.Context, userID string, days int) (*dto.StatsOverviewResponse, error) {
	if days <= 0 || days > 365 {
		days = s.cfg.Insight.LookbackDays
	}

	var key string
	if s.cache != nil {
		key = cache.StatsOverviewKey(userID, s.statsVersion(ctx, userID), days)
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			var resp dto.StatsOverviewResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		} else if err != nil && err != domain.ErrCacheMiss {
			logger.Get().Warn("Failed to read stats cache", zap.Error(err))
		}
	}

	since := time.Now().AddDate(0, 0, -days)

	var (
		sessions []*domain.Session
		mistakes []*domain.Mistake
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.sessionRepo.GetSessionsInWindow(gCtx, userID, domain.SessionWindow{
			Limit: 1000,
			Since: since,
		})
		return err
	})
	g.Go(func() error {
		var err error
		mistakes, err = s.sessionRepo.GetMistakesByUser(gCtx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewInternalError("Failed to load stats", err)
	}

	resp := &dto.StatsOverviewResponse{
		Days:         days,
		SessionCount: len(sessions),
		MistakeCount: len(mistakes),
	}
	var scoreSum float64
	for _, session := range sessions {
		resp.TotalDuration += session.Duration
		scoreSum += session.PerformanceScore
	}
	if len(sessions) > 0 {
		resp.AvgPerformance = util.Round2(scoreSum / float64(len(sessions)))
	}
	now := time.Now()
	for _, m := range mistakes {
		if m.ResolutionStatus == domain.ResolutionResolved {
			resp.ResolvedMistakes++
			continue
		}
		if !domain.NextReviewForMistake(m).After(now) {
			resp.PendingReviews++
		}
	}

	if s.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.cfg.Insight.StatsCacheTTL); err != nil {
				logger.Get().Warn("Failed to write stats cache", zap.Error(err))
			}
		}
	}

	return resp, nil
}

func (s *insightService) ownedInsight(ctx context.Context, userID, insightID string) (*domain.Insight, error) {
	insight, err := s.insightRepo.GetInsightByID(ctx, insightID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get insight", err)
	}
	if insight == nil || insight.UserID != userID {
		return nil, domain.NewInsightNotFoundError(insightID)
	}
	return insight, nil
}

// statsVersion returns the user's current stats cache version, minting
// one when absent. Session and mistake writes delete the version key,
// which orphans every cached overview window in a single operation.
func (s *insightService) statsVersion(ctx context.Context, userID string) string {
	key := cache.StatsVersionKey(userID)
	version, err := s.cache.Get(ctx, key)
	if err == nil && version != "" {
		return version
	}
	if err != nil && err != domain.ErrCacheMiss {
		logger.Get().Warn("Failed to read stats version", zap.Error(err))
	}
	version = util.NewULID()
	if err := s.cache.Set(ctx, key, version, 0); err != nil {
		logger.Get().Warn("Failed to write stats version", zap.Error(err))
	}
	return version
}

func (s *insightService) invalidateLatest(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	key := cache.LatestInsightKey(userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate latest insight cache",
			zap.String("key", key),
			zap.Error(err))
	}
}

// reviewScheduleActions derives spaced-repetition recommendations from
// unresolved mistakes using the forgetting curve. Worst mistakes first.
func reviewScheduleActions(mistakes []*domain.Mistake) []domain.Recommendation {
	unresolved := make([]*domain.Mistake, 0, len(mistakes))
	for _, m := range mistakes {
		if m.ResolutionStatus != domain.ResolutionResolved {
			unresolved = append(unresolved, m)
		}
	}
	sort.Slice(unresolved, func(i, j int) bool {
		return unresolved[i].SeverityLevel > unresolved[j].SeverityLevel
	})
	if len(unresolved) > 5 {
		unresolved = unresolved[:5]
	}

	actions := make([]domain.Recommendation, 0, len(unresolved))
	for _, m := range unresolved {
		next := domain.NextReviewForMistake(m)
		actions = append(actions, domain.Recommendation{
			Action:     fmt.Sprintf("Review %s (%s)", m.Location, m.ErrorCategory),
			Rationale:  fmt.Sprintf("Severity %d mistake, reviewed %d time(s)", m.SeverityLevel, m.ReviewCount),
			Priority:   severityPriority(m.SeverityLevel),
			NextReview: &next,
		})
	}
	return actions
}

func severityPriority(severity int) string {
	switch {
	case severity >= 4:
		return "high"
	case severity >= 2:
		return "medium"
	default:
		return "low"
	}
}

// maxPromptMistakes caps the per-mistake detail lines in the prompt.
const maxPromptMistakes = 15

// scoreTrend compares average performance between the newer and older
// halves of the window. Sessions arrive newest first.
func scoreTrend(sessions []*domain.Session) string {
	if len(sessions) < 2 {
		return "not enough sessions to judge"
	}
	mid := len(sessions) / 2
	var newer, older float64
	for _, s := range sessions[:mid] {
		newer += s.PerformanceScore
	}
	newer /= float64(mid)
	for _, s := range sessions[mid:] {
		older += s.PerformanceScore
	}
	older /= float64(len(sessions) - mid)

	switch {
	case newer-older > 2:
		return fmt.Sprintf("improving (%.1f to %.1f)", older, newer)
	case older-newer > 2:
		return fmt.Sprintf("declining (%.1f to %.1f)", older, newer)
	default:
		return fmt.Sprintf("stable (around %.1f)", (older+newer)/2)
	}
}

// mistakeCategorySummary counts mistakes per error category,
// alphabetically for a deterministic prompt.
func mistakeCategorySummary(mistakes []*domain.Mistake) string {
	counts := make(map[string]int)
	for _, m := range mistakes {
		counts[m.ErrorCategory]++
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%s=%d", c, counts[c]))
	}
	return strings.Join(parts, ", ")
}

// severityDistribution builds a histogram over the 1..5 severity scale.
func severityDistribution(mistakes []*domain.Mistake) string {
	var hist [5]int
	for _, m := range mistakes {
		if m.SeverityLevel >= 1 && m.SeverityLevel <= 5 {
			hist[m.SeverityLevel-1]++
		}
	}
	parts := make([]string, 0, len(hist))
	for i, n := range hist {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d:%d", i+1, n))
		}
	}
	return strings.Join(parts, ", ")
}

// buildAnalysisPrompt flattens recent practice history into a prompt
// that asks the model for strict JSON.
func buildAnalysisPrompt(insightType domain.InsightType, sessions []*domain.Session, mistakes []*domain.Mistake, lookbackDays int) string {
	var b strings.Builder

	b.WriteString("You are an expert Quran memorization coach. Analyze the student's recent practice history and respond with JSON only.\n\n")
	fmt.Fprintf(&b, "Window: last %d days, %d session(s), %d mistake(s).\n", lookbackDays, len(sessions), len(mistakes))
	fmt.Fprintf(&b, "Performance trend: %s.\n", scoreTrend(sessions))
	if len(mistakes) > 0 {
		fmt.Fprintf(&b, "Mistakes by category: %s.\n", mistakeCategorySummary(mistakes))
		fmt.Fprintf(&b, "Severity distribution (level:count): %s.\n", severityDistribution(mistakes))
	}
	b.WriteString("\nSessions:\n")
	for _, s := range sessions {
		fmt.Fprintf(&b, "- %s: %d min, performance %.1f", s.Timestamp.Format("2006-01-02"), s.Duration, s.PerformanceScore)
		for _, p := range s.PortionDetails {
			fmt.Fprintf(&b, ", portion %s %s", p.PortionType, p.Reference)
		}
		for _, t := range s.TestTypes {
			fmt.Fprintf(&b, ", test %s success %.2f", t.Category, t.SuccessRate)
		}
		for _, m := range s.LearningMethods {
			fmt.Fprintf(&b, ", method %s effectiveness %.2f", m.MethodType, m.EffectivenessRating)
		}
		if s.Notes != "" {
			fmt.Fprintf(&b, ", notes: %s", s.Notes)
		}
		b.WriteString("\n")
	}

	if len(mistakes) > 0 {
		b.WriteString("\nMistakes:\n")
		// The aggregates above already cover the full window, so the
		// detail list is capped to keep prompts bounded.
		detail := mistakes
		if len(detail) > maxPromptMistakes {
			detail = detail[:maxPromptMistakes]
		}
		for _, m := range detail {
			fmt.Fprintf(&b, "- %s: %s", m.Location, m.ErrorCategory)
			if m.ErrorSubcategory != "" {
				fmt.Fprintf(&b, "/%s", m.ErrorSubcategory)
			}
			fmt.Fprintf(&b, ", severity %d, status %s\n", m.SeverityLevel, m.ResolutionStatus)
		}
		if len(mistakes) > maxPromptMistakes {
			fmt.Fprintf(&b, "(and %d more)\n", len(mistakes)-maxPromptMistakes)
		}
	}

	b.WriteString("\nFocus: ")
	switch insightType {
	case domain.InsightWeaknessFocus:
		b.WriteString("identify the weakest recurring error patterns and how to fix them.")
	case domain.InsightStrengthReinf:
		b.WriteString("identify what is working well and how to reinforce it.")
	case domain.InsightReviewSchedule:
		b.WriteString("assess which portions most need scheduled review.")
	default:
		b.WriteString("give an overall assessment of progress and priorities.")
	}

	b.WriteString("\n\nRespond with a single JSON object, no markdown, using exactly this shape:\n")
	b.WriteString(`{"summary": "...", "confidence_score": 0.0, "next_actions": [{"action": "...", "rationale": "...", "priority": "high|medium|low"}]}`)
	b.WriteString("\n")

	return b.String()
}
