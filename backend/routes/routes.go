package routes

import (
	"skillpractice/backend/catalog"
	"skillpractice/backend/config"
	"skillpractice/backend/controllers"
	"skillpractice/backend/middleware"
	"skillpractice/backend/services"
	"skillpractice/backend/store"
	"skillpractice/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// NewApp builds the Fiber app with the common middleware stack. Routes are
// added by SetupRoutes.
func NewApp(cfg *config.Config, log *utils.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "skill-practice",
		ErrorHandler: utils.NewErrorHandler(log),
		UnescapePath: true,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.LogMode != "prod"}))
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.HeaderRequestID,
	}))
	app.Use(middleware.LoggingMiddleware(log))
	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, cat *catalog.Catalog, log *utils.Logger) {
	userStore := store.NewUserStore(db, log)
	progressStore := store.NewProgressStore(db, log)

	accounts := services.NewAccountService(userStore, log)
	progress := services.NewProgressService(cat, progressStore, userStore, log)
	practice := services.NewPracticeService(cat, progressStore, userStore, nil, log)
	analytics := services.NewAnalyticsService(cat, progressStore, userStore)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg, userStore, log)
	adminMiddleware := middleware.AdminMiddleware()

	api := app.Group("/api")

	healthController := controllers.NewHealthController(db, log)
	api.Get("/health", healthController.Health)

	// Auth routes
	authController := controllers.NewAuthController(accounts, cfg, log)
	auth := api.Group("/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Get("/me", authMiddleware, authController.Me)
	auth.Post("/refresh", authMiddleware, authController.Refresh)
	auth.Get("/check-username/:username", authController.CheckUsername)
	auth.Get("/check-email/:email", authController.CheckEmail)

	// Courses, progress and stats routes. Fixed paths come before /:courseId.
	coursesController := controllers.NewCoursesController(cat, log)
	progressController := controllers.NewProgressController(progress, log)
	courses := api.Group("/courses", authMiddleware)
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/progress/all", progressController.GetAllProgress)
	courses.Get("/progress/:courseId", progressController.GetCourseProgress)
	courses.Post("/progress/:courseId/:challengeId", progressController.UpdateProgress)
	courses.Delete("/progress/:courseId", progressController.DeleteCourseProgress)
	courses.Get("/stats/user/overview", progressController.GetUserStats)
	courses.Get("/stats/:courseId", progressController.GetCourseStats)
	courses.Get("/leaderboard", progressController.GetLeaderboard)
	courses.Get("/leaderboard/:courseId", progressController.GetLeaderboard)
	courses.Post("/complete/:courseId", progressController.CompleteCourse)
	courses.Get("/:courseId", coursesController.GetCourse)

	// Smart practice routes
	practiceController := controllers.NewPracticeController(practice, log)
	smart := api.Group("/smart-practice", authMiddleware)
	smart.Post("/generate", practiceController.Generate)
	smart.Post("/complete", practiceController.Complete)

	// Overview routes
	overviewController := controllers.NewOverviewController(progress, log)
	overview := api.Group("/overview", authMiddleware)
	overview.Get("/", overviewController.GetUserOverview)
	overview.Get("/courses", overviewController.SearchCourses)

	// Admin routes
	userController := controllers.NewUserController(accounts, log)
	users := api.Group("/users", authMiddleware, adminMiddleware)
	users.Get("/", userController.ListUsers)
	users.Post("/", userController.CreateUser)
	users.Delete("/", userController.DeleteUsers)
	users.Get("/:id", userController.GetUser)
	users.Put("/:id", userController.UpdateUser)
	users.Delete("/:id", userController.DeleteUser)

	admin := api.Group("/admin", authMiddleware, adminMiddleware)
	admin.Post("/catalog/reload", coursesController.ReloadCatalog)
	analyticsController := controllers.NewAnalyticsController(analytics, log)
	admin.Get("/analytics", analyticsController.GetPlatformAnalytics)
}
