package handler

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
	"quran-coach/internal/logger"
	"quran-coach/internal/middleware"
	"quran-coach/internal/service"
	"quran-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler handles practice-session HTTP requests
type SessionHandler struct {
	sessionService       service.SessionService
	transcriptionService service.TranscriptionService
	validator            *validation.Validator
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessionService service.SessionService, transcriptionService service.TranscriptionService, validator *validation.Validator) *SessionHandler {
	return &SessionHandler{
		sessionService:       sessionService,
		transcriptionService: transcriptionService,
		validator:            validator,
	}
}

// CreateSession godoc
// @Summary Create a practice session
// @Description Logs a new Quran recitation practice session
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Session details"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateCreateSessionRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.CreateSession(c.Context(), userID, &req)
	if err != nil {
		return err
	}

	logger.Get().Info("Session created",
		zap.String("userID", userID),
		zap.String("sessionID", resp.ID))

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get a practice session
// @Description Returns a session with its portions, mistakes, tests and methods
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.GetSession(c.Context(), userID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListSessions godoc
// @Summary List practice sessions
// @Description Returns the user's sessions, newest first
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.SessionListResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	limit, offset := parsePagination(c)
	resp, err := h.sessionService.ListSessions(c.Context(), userID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateSession godoc
// @Summary Update a practice session
// @Description Partially updates a session; absent fields are kept
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.UpdateSessionRequest true "Fields to update"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [patch]
func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateUpdateSessionRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.UpdateSession(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteSession godoc
// @Summary Delete a practice session
// @Description Deletes a session and all of its child records
// @Tags sessions
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	if err := h.sessionService.DeleteSession(c.Context(), userID, sessionID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddPortionDetail godoc
// @Summary Add a portion detail
// @Description Attaches a recited portion to a session
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AddPortionDetailRequest true "Portion details"
// @Success 201 {object} dto.PortionDetailResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/portions [post]
func (h *SessionHandler) AddPortionDetail(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.AddPortionDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateAddPortionDetailRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.AddPortionDetail(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AddMistake godoc
// @Summary Record a mistake
// @Description Attaches a recitation mistake to a session
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AddMistakeRequest true "Mistake details"
// @Success 201 {object} dto.MistakeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/mistakes [post]
func (h *SessionHandler) AddMistake(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.AddMistakeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateAddMistakeRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.AddMistake(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AddTestType godoc
// @Summary Record a memorization test
// @Description Attaches a test result to a session
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AddTestTypeRequest true "Test details"
// @Success 201 {object} dto.TestTypeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/tests [post]
func (h *SessionHandler) AddTestType(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.AddTestTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateAddTestTypeRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.AddTestType(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// AddLearningMethod godoc
// @Summary Record a learning method
// @Description Attaches a learning technique to a session
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AddLearningMethodRequest true "Method details"
// @Success 201 {object} dto.LearningMethodResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/methods [post]
func (h *SessionHandler) AddLearningMethod(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	sessionID := c.Params("id")
	if errs := h.validator.ValidateID("id", sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.AddLearningMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateAddLearningMethodRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.AddLearningMethod(c.Context(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateMistake godoc
// @Summary Update a mistake
// @Description Partially updates a mistake; resolution status only moves forward
// @Tags mistakes
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Mistake ID"
// @Param request body dto.UpdateMistakeRequest true "Fields to update"
// @Success 200 {object} dto.MistakeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /mistakes/{id} [patch]
func (h *SessionHandler) UpdateMistake(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	mistakeID := c.Params("id")
	if errs := h.validator.ValidateID("id", mistakeID); len(errs) > 0 {
		return errs
	}

	var req dto.UpdateMistakeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateUpdateMistakeRequest(&req); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessionService.UpdateMistake(c.Context(), userID, mistakeID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// TranscribeAudio godoc
// @Summary Transcribe recitation audio
// @Description Accepts an audio upload and returns the transcription
// @Tags transcription
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Param audio formData file true "Recitation audio file"
// @Param language formData string false "Language hint (default ar)"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /transcriptions [post]
func (h *SessionHandler) TranscribeAudio(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return domain.NewInvalidInputError("Audio file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("Failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	language := c.FormValue("language")
	prompt := c.FormValue("prompt")

	resp, err := h.transcriptionService.Transcribe(c.Context(), userID, data, format, language, prompt)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// requireUserID pulls the authenticated user from locals.
func requireUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewUnauthorizedError("User ID not found in context")
	}
	return userID, nil
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
