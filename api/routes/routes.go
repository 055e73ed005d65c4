package routes

import (
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/config"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/handlers"
	"github.com/codemonkey0612/instantwin-cp-generator-main-sub001/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies collects the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler     *handlers.AuthHandler
	CampaignHandler *handlers.CampaignHandler
	TokenHandler    *handlers.TokenHandler
	DrawHandler     *handlers.DrawHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Kiosk flow: anonymous, gated by the chance token itself.
		public.POST("/campaigns/:id/kiosk-draws", deps.DrawHandler.KioskDraw)
		public.GET("/tokens/:id", deps.TokenHandler.GetToken)
	}

	// Operator routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.POST("/auth/register", deps.AuthHandler.Register)

		campaigns := protected.Group("/campaigns")
		{
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaign)
			campaigns.POST("/:id/draws", deps.DrawHandler.Draw)
			campaigns.GET("/:id/outcomes", deps.DrawHandler.GetHistory)
		}

		tokens := protected.Group("/tokens")
		{
			tokens.POST("", deps.TokenHandler.IssueToken)
		}

		outcomes := protected.Group("/outcomes")
		{
			outcomes.POST("/:id/coupon-uses", deps.DrawHandler.UseCoupon)
			outcomes.PUT("/:id/shipping", deps.DrawHandler.UpdateShipping)
		}
	}

	return router
}
