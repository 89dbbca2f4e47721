package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/middleware"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/utils"
)

// SubmissionHandler manages the submission endpoints nested under a
// task.
type SubmissionHandler struct {
	service      service.SubmissionService
	logger       zerolog.Logger
	exposeDetail bool
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger, exposeDetail bool) *SubmissionHandler {
	return &SubmissionHandler{
		service:      service,
		logger:       logger.With().Str("component", "submission_handler").Logger(),
		exposeDetail: exposeDetail,
	}
}

// Register attaches the routes to the provided router group. The group
// is expected to carry the :classroomId and :taskId parameters.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Post("/submit", h.submit)
	router.Post("/resubmit", h.submit)
	router.Get("/submissions", h.list)
	router.Get("/submissions/:submissionId", h.getByID)
	router.Put("/submissions/:submissionId/grade", h.grade)
	router.Get("/my-submission", h.mySubmission)
	router.Get("/submission-status", h.eligibility)
}

// submit serves both first submissions and resubmissions: an existing
// submission by the same student is always replaced.
func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if payload.StudentEmail == "" {
		// Older clients identify the student via the same channels as
		// every other authenticated request.
		payload.StudentEmail = middleware.UserEmail(c)
	}
	if payload.StudentEmail == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "Student email is required")
	}

	receipt, replaced, err := h.service.SubmitOrResubmit(c.Context(), c.Params("classroomId"), c.Params("taskId"), payload)
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	if replaced {
		return utils.SendSuccess(c, "Task resubmitted successfully (previous submission replaced)", receipt)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Task submitted successfully", receipt)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.Context(), c.Params("classroomId"), c.Params("taskId"), middleware.UserEmail(c))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "submissions retrieved", response)
}

func (h *SubmissionHandler) getByID(c *fiber.Ctx) error {
	submission, err := h.service.GetByID(c.Context(), c.Params("classroomId"), c.Params("taskId"), c.Params("submissionId"), middleware.UserEmail(c))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Grade(c.Context(), c.Params("classroomId"), c.Params("taskId"), c.Params("submissionId"), payload, middleware.UserEmail(c))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "Submission graded successfully", result)
}

func (h *SubmissionHandler) mySubmission(c *fiber.Ctx) error {
	submission, err := h.service.MySubmission(c.Context(), c.Params("classroomId"), c.Params("taskId"), middleware.UserEmail(c))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) eligibility(c *fiber.Ctx) error {
	eligibility, err := h.service.Eligibility(c.Context(), c.Params("classroomId"), c.Params("taskId"), middleware.UserEmail(c))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "submission status retrieved", eligibility)
}
