package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/middleware"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/utils"
)

// UploadHandler serves attachment uploads.
type UploadHandler struct {
	service      service.UploadService
	logger       zerolog.Logger
	exposeDetail bool
}

// NewUploadHandler builds an upload handler instance.
func NewUploadHandler(service service.UploadService, logger zerolog.Logger, exposeDetail bool) *UploadHandler {
	return &UploadHandler{
		service:      service,
		logger:       logger.With().Str("component", "upload_handler").Logger(),
		exposeDetail: exposeDetail,
	}
}

// Register attaches the routes to the provided router group.
func (h *UploadHandler) Register(router fiber.Router) {
	router.Post("", h.upload)
}

func (h *UploadHandler) upload(c *fiber.Ctx) error {
	if middleware.UserEmail(c) == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user authentication required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	response, err := h.service.Upload(c.Context(), file)
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attachment uploaded", response)
}
