package repository

import (
	"database/sql"
	"time"

	"quran-coach/internal/domain"
	"quran-coach/internal/repository/models"
)

// Converters between repository models and domain entities. Kept in
// one place so the mapping rules are easy to audit.

func toDomainSession(m *models.Session) *domain.Session {
	if m == nil {
		return nil
	}
	return &domain.Session{
		ID:               m.ID,
		UserID:           m.UserID,
		Timestamp:        m.Timestamp,
		Duration:         m.Duration,
		PerformanceScore: m.PerformanceScore,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromDomainSession(s *domain.Session) *models.Session {
	if s == nil {
		return nil
	}
	return &models.Session{
		ID:               s.ID,
		UserID:           s.UserID,
		Timestamp:        s.Timestamp,
		Duration:         s.Duration,
		PerformanceScore: s.PerformanceScore,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toDomainPortionDetail(m *models.PortionDetail) *domain.PortionDetail {
	if m == nil {
		return nil
	}
	return &domain.PortionDetail{
		ID:              m.ID,
		SessionID:       m.SessionID,
		PortionType:     domain.PortionType(m.PortionType),
		Reference:       m.Reference,
		RecencyCategory: domain.RecencyCategory(m.RecencyCategory),
		CreatedAt:       m.CreatedAt,
	}
}

func fromDomainPortionDetail(p *domain.PortionDetail) *models.PortionDetail {
	if p == nil {
		return nil
	}
	return &models.PortionDetail{
		ID:              p.ID,
		SessionID:       p.SessionID,
		PortionType:     string(p.PortionType),
		Reference:       p.Reference,
		RecencyCategory: string(p.RecencyCategory),
		CreatedAt:       p.CreatedAt,
	}
}

func toDomainMistake(m *models.Mistake) *domain.Mistake {
	if m == nil {
		return nil
	}
	mistake := &domain.Mistake{
		ID:               m.ID,
		SessionID:        m.SessionID,
		Location:         m.Location,
		ErrorCategory:    m.ErrorCategory,
		ErrorSubcategory: m.ErrorSubcategory,
		Details:          m.Details,
		CorrectionMethod: m.CorrectionMethod,
		ResolutionStatus: domain.ResolutionStatus(m.ResolutionStatus),
		SeverityLevel:    m.SeverityLevel,
		CreatedAt:        m.CreatedAt,
		ReviewCount:      m.ReviewCount,
	}
	if m.ResolvedAt.Valid {
		t := m.ResolvedAt.Time
		mistake.ResolvedAt = &t
	}
	if m.LastReviewedAt.Valid {
		t := m.LastReviewedAt.Time
		mistake.LastReviewedAt = &t
	}
	return mistake
}

func fromDomainMistake(m *domain.Mistake) *models.Mistake {
	if m == nil {
		return nil
	}
	mistake := &models.Mistake{
		ID:               m.ID,
		SessionID:        m.SessionID,
		Location:         m.Location,
		ErrorCategory:    m.ErrorCategory,
		ErrorSubcategory: m.ErrorSubcategory,
		Details:          m.Details,
		CorrectionMethod: m.CorrectionMethod,
		ResolutionStatus: string(m.ResolutionStatus),
		SeverityLevel:    m.SeverityLevel,
		CreatedAt:        m.CreatedAt,
		ReviewCount:      m.ReviewCount,
	}
	mistake.ResolvedAt = toNullTime(m.ResolvedAt)
	mistake.LastReviewedAt = toNullTime(m.LastReviewedAt)
	return mistake
}

func toDomainTestType(m *models.TestType) *domain.TestType {
	if m == nil {
		return nil
	}
	return &domain.TestType{
		ID:          m.ID,
		SessionID:   m.SessionID,
		Category:    m.Category,
		Description: m.Description,
		SuccessRate: m.SuccessRate,
		CreatedAt:   m.CreatedAt,
	}
}

func fromDomainTestType(t *domain.TestType) *models.TestType {
	if t == nil {
		return nil
	}
	return &models.TestType{
		ID:          t.ID,
		SessionID:   t.SessionID,
		Category:    t.Category,
		Description: t.Description,
		SuccessRate: t.SuccessRate,
		CreatedAt:   t.CreatedAt,
	}
}

func toDomainLearningMethod(m *models.LearningMethod) *domain.LearningMethod {
	if m == nil {
		return nil
	}
	return &domain.LearningMethod{
		ID:                  m.ID,
		SessionID:           m.SessionID,
		MethodType:          m.MethodType,
		Details:             m.Details,
		EffectivenessRating: m.EffectivenessRating,
		CreatedAt:           m.CreatedAt,
	}
}

func fromDomainLearningMethod(l *domain.LearningMethod) *models.LearningMethod {
	if l == nil {
		return nil
	}
	return &models.LearningMethod{
		ID:                  l.ID,
		SessionID:           l.SessionID,
		MethodType:          l.MethodType,
		Details:             l.Details,
		EffectivenessRating: l.EffectivenessRating,
		CreatedAt:           l.CreatedAt,
	}
}

func toDomainInsight(m *models.Insight) *domain.Insight {
	if m == nil {
		return nil
	}
	insight := &domain.Insight{
		ID:              m.ID,
		UserID:          m.UserID,
		GeneratedAt:     m.GeneratedAt,
		Summary:         m.Summary,
		ConfidenceScore: m.ConfidenceScore,
		InsightType:     domain.InsightType(m.InsightType),
	}
	for _, r := range m.NextActions {
		insight.NextActions = append(insight.NextActions, domain.Recommendation{
			Action:     r.Action,
			Rationale:  r.Rationale,
			Priority:   r.Priority,
			NextReview: r.NextReview,
		})
	}
	if m.ExpiresAt.Valid {
		t := m.ExpiresAt.Time
		insight.ExpiresAt = &t
	}
	return insight
}

func fromDomainInsight(i *domain.Insight) *models.Insight {
	if i == nil {
		return nil
	}
	insight := &models.Insight{
		ID:              i.ID,
		UserID:          i.UserID,
		GeneratedAt:     i.GeneratedAt,
		Summary:         i.Summary,
		ConfidenceScore: i.ConfidenceScore,
		InsightType:     string(i.InsightType),
		NextActions:     models.RecommendationList{},
	}
	for _, r := range i.NextActions {
		insight.NextActions = append(insight.NextActions, models.Recommendation{
			Action:     r.Action,
			Rationale:  r.Rationale,
			Priority:   r.Priority,
			NextReview: r.NextReview,
		})
	}
	insight.ExpiresAt = toNullTime(i.ExpiresAt)
	return insight
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
