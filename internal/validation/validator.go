package validation

import (
	"regexp"
	"strings"

	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateID checks a path parameter that must be a ULID.
func (v *Validator) ValidateID(field, id string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(id) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if !isValidULID(id) {
		errors = append(errors, domain.NewInvalidFormatError(field, id))
	}

	return errors
}

// ValidateCreateSessionRequest validates the create session request
func (v *Validator) ValidateCreateSessionRequest(req *dto.CreateSessionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Duration <= 0 {
		errors = append(errors, domain.NewOutOfRangeError("duration", req.Duration, 1, maxSessionDuration))
	} else if req.Duration > maxSessionDuration {
		errors = append(errors, domain.NewOutOfRangeError("duration", req.Duration, 1, maxSessionDuration))
	}

	if req.PerformanceScore < 0 || req.PerformanceScore > 100 {
		errors = append(errors, domain.NewOutOfRangeError("performance_score", req.PerformanceScore, 0, 100))
	}

	if len(req.Notes) > maxNotesLength {
		errors = append(errors, domain.NewOutOfRangeError("notes", len(req.Notes), 0, maxNotesLength))
	}

	return errors
}

// ValidateUpdateSessionRequest validates the update session request
func (v *Validator) ValidateUpdateSessionRequest(req *dto.UpdateSessionRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Duration != nil && (*req.Duration <= 0 || *req.Duration > maxSessionDuration) {
		errors = append(errors, domain.NewOutOfRangeError("duration", *req.Duration, 1, maxSessionDuration))
	}

	if req.PerformanceScore != nil && (*req.PerformanceScore < 0 || *req.PerformanceScore > 100) {
		errors = append(errors, domain.NewOutOfRangeError("performance_score", *req.PerformanceScore, 0, 100))
	}

	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		errors = append(errors, domain.NewOutOfRangeError("notes", len(*req.Notes), 0, maxNotesLength))
	}

	return errors
}

// ValidateAddPortionDetailRequest validates the add portion detail request
func (v *Validator) ValidateAddPortionDetailRequest(req *dto.AddPortionDetailRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.PortionType) == "" {
		errors = append(errors, domain.NewMissingFieldError("portion_type"))
	} else if !domain.PortionType(req.PortionType).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("portion_type", req.PortionType))
	}

	if strings.TrimSpace(req.Reference) == "" {
		errors = append(errors, domain.NewMissingFieldError("reference"))
	}

	if req.RecencyCategory != "" && !domain.RecencyCategory(req.RecencyCategory).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("recency_category", req.RecencyCategory))
	}

	return errors
}

// ValidateAddMistakeRequest validates the add mistake request
func (v *Validator) ValidateAddMistakeRequest(req *dto.AddMistakeRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Location) == "" {
		errors = append(errors, domain.NewMissingFieldError("location"))
	}

	if strings.TrimSpace(req.ErrorCategory) == "" {
		errors = append(errors, domain.NewMissingFieldError("error_category"))
	}

	if req.SeverityLevel < 1 || req.SeverityLevel > 5 {
		errors = append(errors, domain.NewOutOfRangeError("severity_level", req.SeverityLevel, 1, 5))
	}

	return errors
}

// ValidateUpdateMistakeRequest validates the update mistake request
func (v *Validator) ValidateUpdateMistakeRequest(req *dto.UpdateMistakeRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.ErrorCategory != nil && strings.TrimSpace(*req.ErrorCategory) == "" {
		errors = append(errors, domain.NewMissingFieldError("error_category"))
	}

	if req.ResolutionStatus != nil && !domain.ResolutionStatus(*req.ResolutionStatus).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("resolution_status", *req.ResolutionStatus))
	}

	if req.SeverityLevel != nil && (*req.SeverityLevel < 1 || *req.SeverityLevel > 5) {
		errors = append(errors, domain.NewOutOfRangeError("severity_level", *req.SeverityLevel, 1, 5))
	}

	return errors
}

// ValidateAddTestTypeRequest validates the add test type request
func (v *Validator) ValidateAddTestTypeRequest(req *dto.AddTestTypeRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.Category) == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
	}

	if req.SuccessRate < 0 || req.SuccessRate > 1 {
		errors = append(errors, domain.NewOutOfRangeError("success_rate", req.SuccessRate, 0, 1))
	}

	return errors
}

// ValidateAddLearningMethodRequest validates the add learning method request
func (v *Validator) ValidateAddLearningMethodRequest(req *dto.AddLearningMethodRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(req.MethodType) == "" {
		errors = append(errors, domain.NewMissingFieldError("method_type"))
	}

	if req.EffectivenessRating < 0 || req.EffectivenessRating > 1 {
		errors = append(errors, domain.NewOutOfRangeError("effectiveness_rating", req.EffectivenessRating, 0, 1))
	}

	return errors
}

// ValidateGenerateInsightRequest validates the generate insight request
func (v *Validator) ValidateGenerateInsightRequest(req *dto.GenerateInsightRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.InsightType != "" && !domain.InsightType(req.InsightType).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("insight_type", req.InsightType))
	}

	if req.Options.LookbackDays < 0 || req.Options.LookbackDays > 365 {
		errors = append(errors, domain.NewOutOfRangeError("lookback_days", req.Options.LookbackDays, 0, 365))
	}

	if req.Options.SessionWindow < 0 || req.Options.SessionWindow > 100 {
		errors = append(errors, domain.NewOutOfRangeError("session_window", req.Options.SessionWindow, 0, 100))
	}

	return errors
}

// ValidateUpdateInsightRequest validates the update insight request
func (v *Validator) ValidateUpdateInsightRequest(req *dto.UpdateInsightRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		errors = append(errors, domain.NewMissingFieldError("content"))
	}

	if req.Confidence != nil && (*req.Confidence < 0 || *req.Confidence > 1) {
		errors = append(errors, domain.NewOutOfRangeError("confidence", *req.Confidence, 0, 1))
	}

	return errors
}

const (
	// maxSessionDuration caps a single session at 24 hours of minutes.
	maxSessionDuration = 1440
	maxNotesLength     = 5000
)

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, base32 encoded
	if len(s) != 26 {
		return false
	}
	// Check if all characters are valid base32 (Crockford's Base32)
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
