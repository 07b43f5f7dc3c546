package routes

import (
	"errors"

	"eduquiz/backend/metrics"
	"eduquiz/backend/middleware"
	"eduquiz/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the Fiber application with the shared middleware and every
// route mounted.
func NewApp(d Deps, logColors bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "EduQuiz",
		BodyLimit:    int(d.Cfg.MaxPDFBytes) + 1<<20,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(d.Logger, logColors))
	app.Use(metrics.Middleware())

	SetupRoutes(app, d)
	return app
}

// errorHandler renders errors that escape the handlers in the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return utils.Error(c, code, err)
}
