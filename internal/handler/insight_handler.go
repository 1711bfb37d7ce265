package handler

import (
	"strconv"

	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
	"quran-coach/internal/logger"
	"quran-coach/internal/service"
	"quran-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InsightHandler handles insight HTTP requests
type InsightHandler struct {
	insightService service.InsightService
	validator      *validation.Validator
}

// NewInsightHandler creates a new InsightHandler instance
func NewInsightHandler(insightService service.InsightService, validator *validation.Validator) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		validator:      validator,
	}
}

// GenerateInsight godoc
// @Summary Generate a coaching insight
// @Description Analyzes recent practice history with the AI model. Succeeds with no_data when the window is empty.
// @Tags insights
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.GenerateInsightRequest false "Generation options"
// @Success 200 {object} dto.GenerateInsightResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /insights/generate [post]
func (h *InsightHandler) GenerateInsight(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.GenerateInsightRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("Invalid request body")
		}
	}
	if errs := h.validator.ValidateGenerateInsightRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.insightService.GenerateInsight(c.Context(), userID, &req)
	if err != nil {
		logger.Get().Error("Insight generation failed",
			zap.String("userID", userID),
			zap.Error(err))
		return err
	}
	return c.JSON(resp)
}

// GetInsight godoc
// @Summary Get an insight
// @Tags insights
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Insight ID"
// @Success 200 {object} dto.InsightResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /insights/{id} [get]
func (h *InsightHandler) GetInsight(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	insightID := c.Params("id")
	if errs := h.validator.ValidateID("id", insightID); len(errs) > 0 {
		return errs
	}

	resp, err := h.insightService.GetInsight(c.Context(), userID, insightID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListInsights godoc
// @Summary List insights
// @Description Returns the user's insights, newest first, optionally filtered by type
// @Tags insights
// @Security ApiKeyAuth
// @Produce json
// @Param type query string false "Insight type filter"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.InsightListResponse
// @Router /insights [get]
func (h *InsightHandler) ListInsights(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c)
	resp, err := h.insightService.ListInsights(c.Context(), userID, c.Query("type"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetLatestInsight godoc
// @Summary Get the most recent insight
// @Tags insights
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.InsightResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /insights/latest [get]
func (h *InsightHandler) GetLatestInsight(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.insightService.GetLatestInsight(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateInsight godoc
// @Summary Update an insight
// @Tags insights
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Insight ID"
// @Param request body dto.UpdateInsightRequest true "Fields to update"
// @Success 200 {object} dto.InsightResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /insights/{id} [patch]
func (h *InsightHandler) UpdateInsight(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	insightID := c.Params("id")
	if errs := h.validator.ValidateID("id", insightID); len(errs) > 0 {
		return errs
	}

	var req dto.UpdateInsightRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateUpdateInsightRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.insightService.UpdateInsight(c.Context(), userID, insightID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteInsight godoc
// @Summary Delete an insight
// @Tags insights
// @Security ApiKeyAuth
// @Param id path string true "Insight ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /insights/{id} [delete]
func (h *InsightHandler) DeleteInsight(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	insightID := c.Params("id")
	if errs := h.validator.ValidateID("id", insightID); len(errs) > 0 {
		return errs
	}

	if err := h.insightService.DeleteInsight(c.Context(), userID, insightID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetStatsOverview godoc
// @Summary Get practice statistics
// @Description Aggregates recent sessions and mistakes into an overview
// @Tags insights
// @Security ApiKeyAuth
// @Produce json
// @Param days query int false "Trailing window in days (default from config)"
// @Success 200 {object} dto.StatsOverviewResponse
// @Router /stats/overview [get]
func (h *InsightHandler) GetStatsOverview(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	days, _ := strconv.Atoi(c.Query("days", "0"))
	resp, err := h.insightService.GetStatsOverview(c.Context(), userID, days)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
