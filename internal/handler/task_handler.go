package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/utils"
)

// TaskHandler manages the task catalog endpoints of a classroom.
type TaskHandler struct {
	service      service.TaskService
	logger       zerolog.Logger
	exposeDetail bool
}

// NewTaskHandler builds a task handler instance.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger, exposeDetail bool) *TaskHandler {
	return &TaskHandler{
		service:      service,
		logger:       logger.With().Str("component", "task_handler").Logger(),
		exposeDetail: exposeDetail,
	}
}

// Register attaches the routes to the provided router group. The group
// is expected to carry the :classroomId parameter.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:taskId", h.getByID)
	router.Put("/:taskId", h.update)
	router.Delete("/:taskId", h.delete)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.Context(), c.Params("classroomId"))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "tasks retrieved", response)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	task, err := h.service.Create(c.Context(), c.Params("classroomId"), payload)
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Task created successfully", task)
}

func (h *TaskHandler) getByID(c *fiber.Ctx) error {
	task, err := h.service.GetByID(c.Context(), c.Params("classroomId"), c.Params("taskId"))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "task retrieved", task)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Update(c.Context(), c.Params("classroomId"), c.Params("taskId"), payload); err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "Task updated successfully", nil)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("classroomId"), c.Params("taskId")); err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "Task deleted successfully", nil)
}
