package routes

import (
	"log"
	"time"

	"eduquiz/backend/config"
	"eduquiz/backend/controllers"
	"eduquiz/backend/events"
	"eduquiz/backend/metrics"
	"eduquiz/backend/middleware"
	"eduquiz/backend/models"
	"eduquiz/backend/storage"
	"eduquiz/backend/store"
	"eduquiz/backend/thumbnails"

	"github.com/gofiber/fiber/v2"
)

// Deps are the services the handlers are built from.
type Deps struct {
	Store      *store.Store
	Cfg        *config.Config
	Blobs      storage.Blobs
	Pages      storage.PageCounter
	Publisher  events.Publisher
	Thumbnails *thumbnails.Service
	Logger     *log.Logger
	// Now overrides the clock used for quiz deadlines.
	Now        func() time.Time
}

func SetupRoutes(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	// Auth routes
	authController := controllers.NewAuthController(d.Store, d.Cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(d.Cfg)
	teacherOnly := middleware.RequireRole(models.RoleTeacher)

	api := app.Group("/api", authMiddleware)
	api.Get("/auth/me", authController.Me)

	// User routes
	userController := controllers.NewUserController(d.Store)
	api.Put("/user/profile", userController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(d.Store, d.Cfg, d.Blobs, d.Pages, d.Publisher, d.Logger)
	progressController := controllers.NewProgressController(d.Store, d.Publisher, d.Logger)
	quizController := controllers.NewQuizController(d.Store, d.Cfg, d.Publisher, d.Logger)

	courses := api.Group("/courses")
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/featured", coursesController.FeaturedCourses)
	courses.Post("/", teacherOnly, coursesController.CreateCourse)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/pdf", coursesController.GetCoursePDF)
	courses.Get("/:id/reading", progressController.GetReading)
	courses.Post("/:id/reading/move", progressController.MovePage)
	courses.Post("/:id/reading/goto", progressController.GotoPage)
	courses.Get("/:id/quiz", quizController.GetCourseQuiz)
	courses.Post("/:id/quiz", teacherOnly, quizController.CreateQuiz)

	// Quiz routes
	attemptsController := controllers.NewAttemptsController(quizController, d.Now)
	quizzes := api.Group("/quizzes")
	quizzes.Post("/:id/attempts", attemptsController.StartAttempt)
	quizzes.Post("/:id/submit", quizController.SubmitQuiz)
	quizzes.Get("/:id/results", teacherOnly, quizController.QuizResults)

	attempts := api.Group("/attempts")
	attempts.Get("/:id", attemptsController.GetAttempt)
	attempts.Post("/:id/select", attemptsController.SelectOption)
	attempts.Post("/:id/next", attemptsController.NextQuestion)
	attempts.Post("/:id/previous", attemptsController.PreviousQuestion)

	api.Get("/results", quizController.MyResults)

	// Overview routes
	overviewController := controllers.NewOverviewController(coursesController, quizController)
	api.Get("/dashboard", overviewController.Dashboard)

	thumbnailsController := controllers.NewThumbnailsController(d.Thumbnails, d.Logger)
	api.Get("/thumbnails", thumbnailsController.Suggest)
}
