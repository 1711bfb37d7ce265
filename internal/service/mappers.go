package service

import (
	"time"

	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
)

func toSessionResponse(s *domain.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		Timestamp:        s.Timestamp,
		Duration:         s.Duration,
		PerformanceScore: s.PerformanceScore,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	for _, d := range s.PortionDetails {
		resp.PortionDetails = append(resp.PortionDetails, toPortionDetailResponse(d))
	}
	for _, m := range s.Mistakes {
		resp.Mistakes = append(resp.Mistakes, toMistakeResponse(m))
	}
	for _, t := range s.TestTypes {
		resp.TestTypes = append(resp.TestTypes, toTestTypeResponse(t))
	}
	for _, lm := range s.LearningMethods {
		resp.LearningMethods = append(resp.LearningMethods, toLearningMethodResponse(lm))
	}
	return resp
}

func toPortionDetailResponse(d *domain.PortionDetail) dto.PortionDetailResponse {
	return dto.PortionDetailResponse{
		ID:              d.ID,
		SessionID:       d.SessionID,
		PortionType:     string(d.PortionType),
		Reference:       d.Reference,
		RecencyCategory: string(d.RecencyCategory),
		CreatedAt:       d.CreatedAt,
	}
}

func toMistakeResponse(m *domain.Mistake) dto.MistakeResponse {
	resp := dto.MistakeResponse{
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
		ResolvedAt:       m.ResolvedAt,
	}
	if m.ResolutionStatus != domain.ResolutionResolved {
		next := domain.NextReviewForMistake(m)
		resp.NextReview = &next
	}
	return resp
}

func toTestTypeResponse(t *domain.TestType) dto.TestTypeResponse {
	return dto.TestTypeResponse{
		ID:          t.ID,
		SessionID:   t.SessionID,
		Category:    t.Category,
		Description: t.Description,
		SuccessRate: t.SuccessRate,
		CreatedAt:   t.CreatedAt,
	}
}

func toLearningMethodResponse(lm *domain.LearningMethod) dto.LearningMethodResponse {
	return dto.LearningMethodResponse{
		ID:                  lm.ID,
		SessionID:           lm.SessionID,
		MethodType:          lm.MethodType,
		Details:             lm.Details,
		EffectivenessRating: lm.EffectivenessRating,
		CreatedAt:           lm.CreatedAt,
	}
}

func toInsightResponse(i *domain.Insight) *dto.InsightResponse {
	resp := &dto.InsightResponse{
		ID:          i.ID,
		UserID:      i.UserID,
		InsightType: string(i.InsightType),
		Content:     i.Summary,
		NextActions: make([]dto.RecommendationResponse, 0, len(i.NextActions)),
		Confidence:  i.ConfidenceScore,
		GeneratedAt: i.GeneratedAt,
		ExpiresAt:   i.ExpiresAt,
	}
	for _, r := range i.NextActions {
		resp.NextActions = append(resp.NextActions, dto.RecommendationResponse{
			Action:     r.Action,
			Rationale:  r.Rationale,
			Priority:   r.Priority,
			NextReview: r.NextReview,
		})
	}
	return resp
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
