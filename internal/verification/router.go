package verification

import (
	"motoshare/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupVerificationRoutes configures all verification routes
func SetupVerificationRoutes(rg *gin.RouterGroup, controller *Controller) {
	verifications := rg.Group("/verifications")
	verifications.Use(middleware.JWTAuth(), middleware.RequireRoles("RENTER", "OWNER", "ADMIN"))
	{
		verifications.POST("", controller.Submit)        // POST /api/v1/verifications
		verifications.GET("/me", controller.GetMyStatus) // GET  /api/v1/verifications/me
	}

	admin := rg.Group("/admin/verifications")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("", controller.ListPending)           // GET /api/v1/admin/verifications
		admin.PUT("/:id/approve", controller.Approve)   // PUT /api/v1/admin/verifications/:id/approve
		admin.PUT("/:id/reject", controller.Reject)     // PUT /api/v1/admin/verifications/:id/reject
	}
}
