package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/utils"
)

// respondServiceError translates service errors into the transport
// envelope. Only the outer boundary does this translation; services
// return error variants and never write responses themselves.
func respondServiceError(c *fiber.Ctx, logger zerolog.Logger, err error, exposeDetail bool) error {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrInvalidClassroomID),
		errors.Is(err, service.ErrEmptySubmission),
		errors.Is(err, service.ErrSubmissionTooLong),
		errors.Is(err, service.ErrTaskOverdue),
		errors.Is(err, service.ErrUploadTooLarge),
		errors.Is(err, service.ErrUploadTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrIdentityRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccessDenied):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrClassroomNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		logger.Error().Err(err).Str("path", c.Path()).Msg("internal server error")
		if exposeDetail {
			return utils.SendErrorWithDetail(c, fiber.StatusInternalServerError, "internal server error", err.Error())
		}
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
