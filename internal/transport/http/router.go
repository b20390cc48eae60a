package httptransport

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/vkravchuk/courseshop/internal/domain"
	"github.com/vkravchuk/courseshop/internal/repository"
	"github.com/vkravchuk/courseshop/internal/transport/http/handler"
	"github.com/vkravchuk/courseshop/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

type RouterConfig struct {
	JWTKey             []byte
	AllowedOrigins     []string
	RateLimitPerSecond int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

func NewRouter(
	ctx context.Context,
	logger *slog.Logger,
	cfg RouterConfig,
	authHandler *handler.AuthHandler,
	courseHandler *handler.CourseHandler,
	paymentHandler *handler.PaymentHandler,
	userHandler *handler.UserHandler,
	userRepo repository.UserRepository,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(ctx, cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	protect := middleware.Auth(cfg.JWTKey, userRepo, logger)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/signin", authHandler.SignIn)
	auth.POST("/google", authHandler.GoogleSignIn)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/verify-reset", authHandler.VerifyReset)
	auth.PATCH("/reset-password", authHandler.ResetPassword)

	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.GetByID)
	courses.POST("", protect, adminOnly, courseHandler.Create)
	courses.PATCH("/:id", protect, adminOnly, courseHandler.Update)
	courses.DELETE("/:id", protect, adminOnly, courseHandler.Delete)
	courses.POST("/:id/invoice", protect, paymentHandler.CreateInvoice)
	courses.POST("/:id/access", protect, paymentHandler.GrantAccess)

	// Gateway webhook: authenticated by invoice ID knowledge, not a session.
	api.POST("/payments/callback", paymentHandler.Callback)

	users := api.Group("/users")
	users.GET("/me", protect, userHandler.Me)
	users.PATCH("/me", protect, userHandler.UpdateMe)
	users.GET("", protect, adminOnly, userHandler.List)

	return r
}
