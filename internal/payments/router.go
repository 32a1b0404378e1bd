package payments

import (
	"motoshare/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes configures all payment-related routes
func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	payments := rg.Group("/payments")
	{
		// Webhook is authenticated by event verification against the
		// provider, not by JWT.
		payments.POST("/webhook", controller.HandleWebhook)

		authed := payments.Group("")
		authed.Use(middleware.JWTAuth(), middleware.RequireRoles("RENTER", "OWNER", "ADMIN"))
		{
			authed.POST("/create-checkout-session", controller.CreateCheckoutSession)
			authed.GET("/verify-session/:sessionId", controller.VerifySession)
		}
	}

	admin := rg.Group("/admin/payments")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("/:bookingId/refund", controller.InitiateRefund)
	}
}
