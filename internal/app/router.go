// internal/app/router.go
package app

import (
	entHandler "resellerpro-service/internal/handlers/entitlement"
	otpHandler "resellerpro-service/internal/handlers/otp"
	"resellerpro-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	OtpHandler         *otpHandler.OtpHandler
	EntitlementHandler *entHandler.EntitlementHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/otp/send", h.OtpHandler.SendOtp)
		authPublic.POST("/otp/verify", h.OtpHandler.VerifyOtp)
	}

	// ==================== Entitlement ====================
	entitlement := api.Group("/entitlement")
	entitlement.Use(h.AuthMiddleware.Auth())
	{
		entitlement.GET("", h.EntitlementHandler.GetEntitlement)
		entitlement.GET("/limits/:resource", h.EntitlementHandler.CheckLimit)
	}

	// ==================== Plans ====================
	api.GET("/plans", h.EntitlementHandler.ListPlans)
}
