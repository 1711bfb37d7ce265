package validation

import (
	"testing"

	"quran-coach/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateID("id", "01HZXF8Y9GQRS4V5W6X7Y8Z9AB"))
	assert.NotEmpty(t, v.ValidateID("id", ""))
	assert.NotEmpty(t, v.ValidateID("id", "not-a-ulid"))
	// ULIDs never contain I, L, O or U.
	assert.NotEmpty(t, v.ValidateID("id", "01HZXF8Y9GQRS4V5W6X7Y8ZIOU"))
}

func TestValidateCreateSessionRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateCreateSessionRequest(&dto.CreateSessionRequest{
		Duration:         45,
		PerformanceScore: 88.5,
	}))

	errs := v.ValidateCreateSessionRequest(&dto.CreateSessionRequest{
		Duration:         0,
		PerformanceScore: 101,
	})
	assert.Len(t, errs, 2)
}

func TestValidateUpdateSessionRequest_OnlySetFieldsChecked(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateUpdateSessionRequest(&dto.UpdateSessionRequest{}))

	bad := -5
	assert.NotEmpty(t, v.ValidateUpdateSessionRequest(&dto.UpdateSessionRequest{Duration: &bad}))
}

func TestValidateAddPortionDetailRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAddPortionDetailRequest(&dto.AddPortionDetailRequest{
		PortionType: "surah",
		Reference:   "Al-Mulk",
	}))

	errs := v.ValidateAddPortionDetailRequest(&dto.AddPortionDetailRequest{
		PortionType:     "chapter",
		RecencyCategory: "ancient",
	})
	assert.Len(t, errs, 3) // bad type, missing reference, bad recency
}

func TestValidateAddMistakeRequest_SeverityBounds(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAddMistakeRequest(&dto.AddMistakeRequest{
		Location:      "Surah 2, Ayah 5",
		ErrorCategory: "tajweed",
		SeverityLevel: 5,
	}))

	for _, severity := range []int{0, 6} {
		errs := v.ValidateAddMistakeRequest(&dto.AddMistakeRequest{
			Location:      "loc",
			ErrorCategory: "tajweed",
			SeverityLevel: severity,
		})
		assert.NotEmpty(t, errs, "severity %d", severity)
	}
}

func TestValidateUpdateMistakeRequest_StatusValues(t *testing.T) {
	v := NewValidator()

	for _, status := range []string{"pending", "practicing", "resolved"} {
		s := status
		assert.Empty(t, v.ValidateUpdateMistakeRequest(&dto.UpdateMistakeRequest{ResolutionStatus: &s}))
	}

	bogus := "forgotten"
	assert.NotEmpty(t, v.ValidateUpdateMistakeRequest(&dto.UpdateMistakeRequest{ResolutionStatus: &bogus}))
}

func TestValidateAddTestTypeRequest_RateBounds(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAddTestTypeRequest(&dto.AddTestTypeRequest{
		Category:    "memorization",
		SuccessRate: 0.95,
	}))
	assert.NotEmpty(t, v.ValidateAddTestTypeRequest(&dto.AddTestTypeRequest{
		Category:    "memorization",
		SuccessRate: 1.5,
	}))
}

func TestValidateGenerateInsightRequest(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateGenerateInsightRequest(&dto.GenerateInsightRequest{}))
	assert.Empty(t, v.ValidateGenerateInsightRequest(&dto.GenerateInsightRequest{InsightType: "review_schedule"}))
	assert.NotEmpty(t, v.ValidateGenerateInsightRequest(&dto.GenerateInsightRequest{InsightType: "prophecy"}))

	req := &dto.GenerateInsightRequest{}
	req.Options.LookbackDays = 500
	assert.NotEmpty(t, v.ValidateGenerateInsightRequest(req))
}
