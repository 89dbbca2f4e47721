package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/middleware"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/service"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/utils"
)

// AnalyticsHandler serves the read-only grading overview endpoints.
type AnalyticsHandler struct {
	service      service.AnalyticsService
	logger       zerolog.Logger
	exposeDetail bool
}

// NewAnalyticsHandler builds an analytics handler instance.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger, exposeDetail bool) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With().Str("component", "analytics_handler").Logger(),
		exposeDetail: exposeDetail,
	}
}

// Register attaches the routes to the provided router group. The group
// is expected to carry the :classroomId parameter.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/analytics", h.overview)
}

func (h *AnalyticsHandler) overview(c *fiber.Ctx) error {
	overview, err := h.service.ClassroomOverview(c.Context(), c.Params("classroomId"), middleware.UserEmail(c))
	if err != nil {
		return respondServiceError(c, h.logger, err, h.exposeDetail)
	}

	return utils.SendSuccess(c, "classroom analytics retrieved", overview)
}
