package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/Ghosted34/natours-nest/docs"
	"github.com/Ghosted34/natours-nest/internal/api/handler"
	"github.com/Ghosted34/natours-nest/internal/api/middleware"
	"github.com/Ghosted34/natours-nest/internal/core/domain"
	"github.com/Ghosted34/natours-nest/internal/core/ports"
	"github.com/Ghosted34/natours-nest/internal/core/service"
	"github.com/Ghosted34/natours-nest/internal/infrastructure/config"
	mongodb "github.com/Ghosted34/natours-nest/internal/infrastructure/db/mongo"
	redisdb "github.com/Ghosted34/natours-nest/internal/infrastructure/db/redis"
	"github.com/Ghosted34/natours-nest/internal/pkg/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, emails ports.EmailDispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("natours"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	staffRepo := mongodb.NewStaffRepository(db)
	tourRepo := mongodb.NewTourRepository(db)
	reviewRepo := mongodb.NewReviewRepository(db)
	cache := redisdb.NewTokenCache(rdb)

	codec := token.NewCodec(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpires,
		cfg.Auth.RefreshExpires,
	)

	authService := service.NewAuthService(userRepo, staffRepo, cache, codec, emails, cfg.FrontendURL, cfg.Auth.ResetExpires, log)
	staffService := service.NewStaffService(staffRepo, cache, codec, emails, cfg.Auth.OTPExpires, log)
	userService := service.NewUserService(userRepo)
	tourService := service.NewTourService(tourRepo, log)
	reviewService := service.NewReviewService(reviewRepo, tourRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	staffHandler := handler.NewStaffHandler(staffService)
	userHandler := handler.NewUserHandler(userService)
	tourHandler := handler.NewTourHandler(tourService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	authn := middleware.Auth(codec, cache, userRepo, staffRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleLeadGuide)
	staffAny := middleware.RBAC(domain.RoleAdmin, domain.RoleLeadGuide, domain.RoleGuide)
	pwdChanged := middleware.RequirePasswordChange()

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/verify", authHandler.Verify)
	auth.POST("/resend-verify", authHandler.ResendVerification)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	// Logout reads the bearer token itself: a token past its expiry can
	// still be presented for revocation.
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/logout-all", authHandler.LogoutAll, authn)
	auth.PATCH("/change-password", authHandler.ChangePassword, authn)

	// --- Staff routes ---
	staff := e.Group("/staff")
	staff.POST("/otp", staffHandler.GenerateOTP)
	staff.POST("/admin", staffHandler.CreateAdmin)
	staff.POST("", staffHandler.CreateStaff, authn, adminOnly)
	staff.GET("", staffHandler.ListStaff, authn, adminOnly)
	staff.GET("/:id", staffHandler.GetStaff, authn, adminOnly)
	staff.PATCH("/deactivate/:id", staffHandler.DeactivateStaff, authn, staffAny)
	staff.PATCH("/:id", staffHandler.UpdateStaff, authn, staffAny)
	staff.DELETE("/:id", staffHandler.DeleteStaff, authn, adminOnly)

	// --- User routes ---
	users := e.Group("/users", authn)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)

	// --- Tour routes ---
	e.GET("/tours", tourHandler.List)
	e.GET("/tours/:id", tourHandler.Get)
	e.POST("/tours", tourHandler.Create, authn, staffOnly, pwdChanged)
	e.PATCH("/tours/:id", tourHandler.Update, authn, staffOnly, pwdChanged)
	e.DELETE("/tours/:id", tourHandler.Delete, authn, staffOnly, pwdChanged)

	// --- Review routes ---
	e.GET("/tours/:id/reviews", reviewHandler.ListByTour)
	e.POST("/tours/:id/reviews", reviewHandler.Create, authn, middleware.RequireVerified())
	e.PATCH("/reviews/:id", reviewHandler.Update, authn)
	e.DELETE("/reviews/:id", reviewHandler.Delete, authn)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/docs/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
