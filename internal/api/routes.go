package api

import (
	"github.com/gin-gonic/gin"

	"github.com/investsafe/advisor-verify-api/internal/auth"
	"github.com/investsafe/advisor-verify-api/internal/liveverify"
	"github.com/investsafe/advisor-verify-api/internal/logger"
	"github.com/investsafe/advisor-verify-api/internal/services"
	"github.com/investsafe/advisor-verify-api/pkg/config"
)

// RouterDeps carries everything route setup needs beyond the service layer
type RouterDeps struct {
	Services *services.Services
	Config   *config.Config
	Monitor  *liveverify.HealthMonitor
	Database HealthChecker
	Cache    HealthPinger
	Logger   logger.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, deps RouterDeps) {
	verifyHandler := NewVerifyHandler(deps.Services.Verification, deps.Logger)
	analyzeHandler := NewAnalyzeHandler(deps.Services.Offer, deps.Logger)
	authHandler := NewAuthHandler(deps.Services.Auth)
	healthHandler := NewHealthHandler(deps.Services.Registry, deps.Monitor, deps.Database, deps.Cache)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/refresh", authHandler.RefreshToken)
		public.POST("/auth/logout", authHandler.Logout)

		public.GET("/health", healthHandler.GetHealth)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(deps.Config.JWTSecret))
	protected.Use(auth.CSRFMiddleware())
	{
		protected.POST("/advisor/verify", verifyHandler.VerifyAdvisor)
		protected.POST("/offer/analyze", analyzeHandler.AnalyzeOffer)

		protected.GET("/health/live", healthHandler.GetLiveVerificationHealth)
		protected.POST("/health/live/reset", healthHandler.ResetLiveVerificationHealth)
	}
}
