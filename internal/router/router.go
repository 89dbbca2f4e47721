package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/config"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TaskHandler        *handler.TaskHandler
	SubmissionHandler  *handler.SubmissionHandler
	AnalyticsHandler   *handler.AnalyticsHandler
	UploadHandler      *handler.UploadHandler
	IdentityMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Identity resolution is best-effort by design: operations decide
	// for themselves whether an anonymous caller is acceptable.
	identity := deps.IdentityMiddleware
	if identity == nil {
		identity = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UploadHandler != nil {
		uploads := api.Group("/uploads", identity)
		deps.UploadHandler.Register(uploads)
	}

	classroom := api.Group("/classrooms/:classroomId", identity)

	if deps.TaskHandler != nil {
		tasks := classroom.Group("/tasks")
		deps.TaskHandler.Register(tasks)

		if deps.SubmissionHandler != nil {
			task := tasks.Group("/:taskId")
			deps.SubmissionHandler.Register(task)
		}
	}

	if deps.AnalyticsHandler != nil {
		deps.AnalyticsHandler.Register(classroom)
	}
}
