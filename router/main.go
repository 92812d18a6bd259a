package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/config"
	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/handlers"
	admin_handlers "github.com/learnhub-platform/learnhub-api/handlers/admin"
	ai_handlers "github.com/learnhub-platform/learnhub-api/handlers/ai"
	analytics_handlers "github.com/learnhub-platform/learnhub-api/handlers/analytics"
	auth_handlers "github.com/learnhub-platform/learnhub-api/handlers/auth"
	course_handlers "github.com/learnhub-platform/learnhub-api/handlers/course"
	enrollment_handlers "github.com/learnhub-platform/learnhub-api/handlers/enrollment"
	lesson_handlers "github.com/learnhub-platform/learnhub-api/handlers/lesson"
	review_handlers "github.com/learnhub-platform/learnhub-api/handlers/review"
	upload_handlers "github.com/learnhub-platform/learnhub-api/handlers/upload"
	user_handlers "github.com/learnhub-platform/learnhub-api/handlers/user"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/cache"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
)

// Dependencies are the collaborators built at startup that routes need.
type Dependencies struct {
	Store database.Storage
	Env   *config.EnvironmentVariables
	// Cache enables brute-force protection and analytics caching when non-nil.
	Cache *cache.RedisCache
	// Inference backs the AI routes; an unconfigured client makes them answer 503.
	Inference services.Completer
	// Objects backs uploads; nil makes them answer 503.
	Objects upload_handlers.ObjectStore
}

func SetupRoutes(app *fiber.App, deps Dependencies) error {
	env := deps.Env
	if env.JWT_SECRET == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		Expiry:        env.JWT_EXPIRY,
		RefreshExpiry: env.JWT_REFRESH_EXPIRY,
		Issuer:        env.JWT_ISSUER,
	})

	db := deps.Store.DB()
	blacklistService := auth.NewBlacklistService(db)

	var bruteForceProtection *middleware.BruteForceProtection
	if deps.Cache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Cache)
	} else {
		log.Warn("Redis unavailable: brute force protection and analytics caching are disabled")
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, blacklistService, db)

	// Services
	userService := services.NewUserService(db)
	catalogService := services.NewCatalogService(db)
	enrollmentService := services.NewEnrollmentService(db)
	progressService := services.NewProgressService(db)
	reviewService := services.NewReviewService(db)
	analyticsService := services.NewAnalyticsService(db, deps.Cache)
	aiService := services.NewAIService(deps.Inference)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(userService, jwtManager, blacklistService, bruteForceProtection, env.IsProduction())
	userHandler := user_handlers.NewUserHandler(userService)
	courseHandler := course_handlers.NewCourseHandler(catalogService, analyticsService)
	lessonHandler := lesson_handlers.NewLessonHandler(catalogService)
	enrollmentHandler := enrollment_handlers.NewEnrollmentHandler(enrollmentService, progressService, analyticsService)
	reviewHandler := review_handlers.NewReviewHandler(reviewService)
	aiHandler := ai_handlers.NewAIHandler(aiService)
	analyticsHandler := analytics_handlers.NewAnalyticsHandler(analyticsService)
	uploadHandler := upload_handlers.NewUploadHandler(deps.Objects)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   env.RATE_LIMIT_WINDOW,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, deps.Store))

	api := app.Group("/api", authMiddleware.Identify())
	guard := authMiddleware.Guard

	// Identity
	api.Post("/register", authHandler.Register)
	if bruteForceProtection != nil {
		api.Post("/login", bruteForceProtection.CheckLockout(), authHandler.Login)
	} else {
		api.Post("/login", authHandler.Login)
	}
	api.Post("/token/refresh", authHandler.RefreshToken)
	api.Post("/logout", guard(policy.AuthLogout), authHandler.Logout)
	api.Get("/user", guard(policy.UserProfile), authHandler.GetProfile)
	api.Put("/user", guard(policy.UserUpdate), authHandler.UpdateProfile)

	// Users
	api.Get("/users", guard(policy.UserList), userHandler.ListUsers)
	api.Get("/users/role/:role", guard(policy.UserListByRole), userHandler.ListUsersByRole)

	// Courses
	api.Get("/courses", guard(policy.CourseList), courseHandler.ListCourses)
	api.Post("/courses", guard(policy.CourseCreate), courseHandler.CreateCourse)
	api.Get("/courses/:id", guard(policy.CourseRead), courseHandler.GetCourse)
	api.Put("/courses/:id", guard(policy.CourseUpdate), middleware.AdminAudit(db, "update", "course"), courseHandler.UpdateCourse)
	api.Delete("/courses/:id", guard(policy.CourseDelete), middleware.AdminAudit(db, "delete", "course"), courseHandler.DeleteCourse)
	api.Get("/courses/:id/lessons", guard(policy.LessonListByCourse), lessonHandler.ListLessons)
	api.Get("/courses/:id/reviews", guard(policy.ReviewListByCourse), reviewHandler.ListCourseReviews)
	api.Get("/teachers/:id/courses", guard(policy.CourseListByTeacher), courseHandler.ListTeacherCourses)

	// Lessons
	api.Post("/lessons", guard(policy.LessonCreate), lessonHandler.CreateLesson)
	api.Put("/lessons/:id", guard(policy.LessonUpdate), middleware.AdminAudit(db, "update", "lesson"), lessonHandler.UpdateLesson)
	api.Delete("/lessons/:id", guard(policy.LessonDelete), middleware.AdminAudit(db, "delete", "lesson"), lessonHandler.DeleteLesson)

	// Enrollments and progress
	api.Post("/enrollments", guard(policy.EnrollmentCreate), enrollmentHandler.CreateEnrollment)
	api.Put("/enrollments/:id", guard(policy.EnrollmentUpdate), enrollmentHandler.UpdateEnrollment)
	api.Get("/students/:id/enrollments", guard(policy.EnrollmentListByStudent), enrollmentHandler.ListStudentEnrollments)
	api.Post("/progress", guard(policy.ProgressCreate), enrollmentHandler.CreateProgress)
	api.Put("/progress/:id", guard(policy.ProgressUpdate), enrollmentHandler.UpdateProgress)
	api.Get("/students/:id/progress", guard(policy.ProgressListByStudent), enrollmentHandler.ListStudentProgress)

	// Reviews
	api.Post("/reviews", guard(policy.ReviewCreate), reviewHandler.CreateReview)

	// AI content generation
	ai := api.Group("/ai", guard(policy.AIGenerate), aiHandler.RequireConfigured())
	ai.Post("/generate-summary", aiHandler.GenerateSummary)
	ai.Post("/generate-quiz", aiHandler.GenerateQuiz)
	ai.Post("/generate-notes", aiHandler.GenerateNotes)
	ai.Post("/generate-lesson-plan", aiHandler.GenerateLessonPlan)
	ai.Post("/generate-custom", aiHandler.GenerateCustom)

	// Analytics
	api.Get("/analytics/overview", guard(policy.AnalyticsOverview), analyticsHandler.GetOverview)
	api.Get("/analytics/overview/export", guard(policy.AnalyticsExport), analyticsHandler.ExportOverview)
	api.Get("/analytics/teacher/:id", guard(policy.AnalyticsTeacher), analyticsHandler.GetTeacherAnalytics)

	// Uploads
	api.Post("/uploads", guard(policy.UploadCreate), uploadHandler.CreateUpload)

	// Admin records
	admin := api.Group("/admin")
	admin.Get("/audit-logs", guard(policy.AdminAuditList), utils.MakeHTTPHandleFunc(admin_handlers.ListAuditLogs, deps.Store))
	admin.Get("/audit-logs/:id", guard(policy.AdminAuditList), utils.MakeHTTPHandleFunc(admin_handlers.GetAuditLog, deps.Store))
	admin.Get("/cron-jobs", guard(policy.AdminCronList), utils.MakeHTTPHandleFunc(admin_handlers.ListCronJobLogs, deps.Store))

	return nil
}
